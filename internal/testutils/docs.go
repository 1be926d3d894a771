package testutils

// ExampleDoc is a docstring describing arguments a, b and c.
const ExampleDoc = `Example function.

    Args:
      a: first argument
      b: second argument
      c: third argument
`

// SingleArgDoc is a docstring describing a single argument a.
const SingleArgDoc = `Example function.

    Args:
      a: first argument
`

// NoArgsDoc is a docstring for a magic without parameters.
const NoArgsDoc = `Example function without arguments.`

// CellDoc is a docstring for a cell magic with an upper flag.
const CellDoc = `Echoes the cell body.

    Args:
      cell: the body of the cell
      upper: upper-case the output
`
