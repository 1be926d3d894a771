package builtin

import (
	"context"
	"fmt"

	"magicshell/internal/magic"
)

// AssertResultKey is the cache key holding the outcome of the last assertion.
const AssertResultKey = "_assert_result"

func newAssertEqualMagic(env *environment) (*magic.Magic, error) {
	def := magic.Definition{
		Name: "assert_equal",
		Doc: `Compares two values for equality and fails when they differ.

    Values written as {name} are replaced with the variable of that name.

    Args:
      expect: the expected value
      actual: the actual value
`,
		Params: []magic.Param{magic.Arg("expect", magic.StringType), magic.Arg("actual", magic.StringType)},
		Fn: func(_ context.Context, args magic.Args) (any, error) {
			expected, actual := fmt.Sprint(args["expect"]), fmt.Sprint(args["actual"])
			if expected != actual {
				env.state.CachePut(AssertResultKey, "FAIL")
				return nil, fmt.Errorf("assertion failed: expected %q, got %q", expected, actual)
			}
			env.state.CachePut(AssertResultKey, "PASS")
			return "✓ Assertion passed: " + expected, nil
		},
	}
	return magic.Wrap(magic.KindLine, def, "", env.legacy()...)
}
