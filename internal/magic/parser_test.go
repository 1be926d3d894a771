package magic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magicshell/internal/testutils"
)

func mustParser(t *testing.T, kind Kind, def Definition) *Parser {
	t.Helper()
	spec, err := Build(kind, def, "")
	require.NoError(t, err)
	return spec.Parser()
}

func typedDefinition() Definition {
	return Definition{
		Name:   "typed",
		Doc:    testutils.ExampleDoc,
		Params: []Param{Arg("a", IntType), Opt("b", "dog"), Opt("c", 1.5)},
		Fn:     noop,
	}
}

func TestParser_Parse(t *testing.T) {
	p := mustParser(t, KindLine, exampleDefinition())

	tests := []struct {
		name string
		line string
		bind string
		args Args
	}{
		{
			name: "bind variable",
			line: "v -- horse",
			bind: "v",
			args: Args{"a": "horse", "b": "dog", "c": "cat"},
		},
		{
			name: "no bind variable",
			line: "-- --b=boar horse",
			bind: "_",
			args: Args{"a": "horse", "b": "boar", "c": "cat"},
		},
		{
			name: "space separated flag value",
			line: "out -- --c cow --b boar horse",
			bind: "out",
			args: Args{"a": "horse", "b": "boar", "c": "cow"},
		},
		{
			name: "quoted positional",
			line: `-- "a horse with no name"`,
			bind: "_",
			args: Args{"a": "a horse with no name", "b": "dog", "c": "cat"},
		},
		{
			name: "surrounding whitespace",
			line: "   v   --   horse  ",
			bind: "v",
			args: Args{"a": "horse", "b": "dog", "c": "cat"},
		},
		{
			name: "quoted separator",
			line: `-- "x -- y"`,
			bind: "_",
			args: Args{"a": "x -- y", "b": "dog", "c": "cat"},
		},
		{
			name: "quoted separator in a flag value",
			line: `v -- --b='a -- b' horse`,
			bind: "v",
			args: Args{"a": "horse", "b": "a -- b", "c": "cat"},
		},
		{
			name: "dashes inside a value",
			line: "v -- --b=--x-- horse",
			bind: "v",
			args: Args{"a": "horse", "b": "--x--", "c": "cat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := p.Parse(tt.line, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.bind, inv.BindVariable)
			assert.Equal(t, tt.args, inv.Args)
		})
	}
}

func TestParser_TypedArguments(t *testing.T) {
	p := mustParser(t, KindLine, typedDefinition())

	inv, err := p.Parse("-- --b=boar --c=2.22 10", nil)
	require.NoError(t, err)
	assert.Equal(t, "_", inv.BindVariable)
	assert.Equal(t, Args{"a": 10, "b": "boar", "c": 2.22}, inv.Args)

	inv, err = p.Parse("x -- 7", nil)
	require.NoError(t, err)
	assert.Equal(t, Args{"a": 7, "b": "dog", "c": 1.5}, inv.Args)
}

func TestParser_EmptyLineUsesDefaults(t *testing.T) {
	def := Definition{
		Name:   "defaults",
		Doc:    testutils.ExampleDoc,
		Params: []Param{Opt("a", "x"), Opt("b", 2), Opt("c", true)},
		Fn:     noop,
	}
	p := mustParser(t, KindLine, def)

	for _, line := range []string{"", "   ", "_ --", "_"} {
		inv, err := p.Parse(line, nil)
		require.NoError(t, err, line)
		assert.Equal(t, "_", inv.BindVariable, line)
		assert.Equal(t, Args{"a": "x", "b": 2, "c": true}, inv.Args, line)
	}

	inv, err := p.Parse("result", nil)
	require.NoError(t, err)
	assert.Equal(t, "result", inv.BindVariable)
	assert.Equal(t, Args{"a": "x", "b": 2, "c": true}, inv.Args)
}

func TestParser_BoolToggle(t *testing.T) {
	def := Definition{
		Name: "toggles",
		Doc: `Toggles.

    Args:
      verbose: off by default
      color: on by default
`,
		Params: []Param{Opt("verbose", false), KeywordOnly("color", true)},
		Fn:     noop,
	}
	p := mustParser(t, KindLine, def)

	tests := []struct {
		line    string
		verbose bool
		color   bool
	}{
		{line: "", verbose: false, color: true},
		{line: "-- --verbose", verbose: true, color: true},
		{line: "-- --color", verbose: false, color: false},
		{line: "-- --verbose --color", verbose: true, color: false},
		{line: "-- --verbose=false --color=true", verbose: false, color: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			inv, err := p.Parse(tt.line, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.verbose, inv.Args["verbose"])
			assert.Equal(t, tt.color, inv.Args["color"])
		})
	}
}

func TestParser_Errors(t *testing.T) {
	p := mustParser(t, KindLine, exampleDefinition())
	typed := mustParser(t, KindLine, typedDefinition())
	defaults := mustParser(t, KindLine, Definition{
		Name:   "defaults",
		Doc:    testutils.ExampleDoc,
		Params: []Param{Opt("b", "dog"), Opt("c", "cat")},
		Fn:     noop,
	})

	tests := []struct {
		name   string
		parser *Parser
		line   string
	}{
		{name: "bare separator", parser: p, line: "--"},
		{name: "padded separator", parser: p, line: " -- "},
		{name: "bare separator without required arguments", parser: defaults, line: "--"},
		{name: "padded separator without required arguments", parser: defaults, line: " -- "},
		{name: "second separator after quoted one", parser: p, line: `v -- "x -- y" -- z`},
		{name: "missing positional", parser: p, line: "-- --b=cat"},
		{name: "numeric bind variable", parser: p, line: "11 -- cat"},
		{name: "bind variable with spaces", parser: p, line: "a b -- cat"},
		{name: "no separator and missing positional", parser: p, line: "v"},
		{name: "two separators", parser: p, line: "v -- cat -- dog"},
		{name: "adjacent separators", parser: p, line: "v -- -- cat"},
		{name: "unknown flag", parser: p, line: "-- --zebra=1 cat"},
		{name: "extra positional", parser: p, line: "-- cat dog"},
		{name: "bad int", parser: typed, line: "-- ten"},
		{name: "bad float flag", parser: typed, line: "-- --c=abc 10"},
		{name: "unterminated quote", parser: p, line: `-- "cat`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := tt.parser.Parse(tt.line, nil)
			require.Error(t, err)
			assert.Nil(t, inv)
			assert.True(t, errors.Is(err, ErrParsing))

			var parseErr *ParsingError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.parser.Usage(), parseErr.Usage)
		})
	}
}

func TestParser_Help(t *testing.T) {
	p := mustParser(t, KindLine, exampleDefinition())

	for _, line := range []string{"-- -h", "-- --help", "v -- --b=x --help"} {
		_, err := p.Parse(line, nil)
		require.Error(t, err, line)
		assert.True(t, IsHelpRequested(err), line)
		assert.False(t, errors.Is(err, ErrParsing), line)

		var help *HelpRequested
		require.True(t, errors.As(err, &help))
		assert.Equal(t, p.Help(), help.Help)
	}

	assert.Contains(t, p.Help(), "usage: %my_magic [bind_variable] -- [-h] [--b B] [--c C] a")
	assert.Contains(t, p.Help(), "Example function.")
	assert.Contains(t, p.Help(), "positional arguments:")
	assert.Contains(t, p.Help(), "first argument (str)")
	assert.Contains(t, p.Help(), "--b string")
	assert.Contains(t, p.Help(), "second argument")
}

func TestParser_CellBody(t *testing.T) {
	def := Definition{
		Name:   "echo",
		Doc:    testutils.CellDoc,
		Params: []Param{Cell(), Opt("upper", false)},
		Fn:     noop,
	}
	p := mustParser(t, KindCell, def)

	body := "line one\nline two"
	inv, err := p.Parse("", &body)
	require.NoError(t, err)
	assert.Equal(t, "_", inv.BindVariable)
	assert.Equal(t, Args{"cell": body, "upper": false}, inv.Args)

	inv, err = p.Parse("out -- --upper", nil)
	require.NoError(t, err)
	assert.Equal(t, "out", inv.BindVariable)
	assert.Equal(t, Args{"cell": "", "upper": true}, inv.Args)

	_, err = p.Parse("-- stray", &body)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParsing))
}

func TestParser_Stateless(t *testing.T) {
	p := mustParser(t, KindLine, exampleDefinition())

	first, err := p.Parse("-- --b=boar horse", nil)
	require.NoError(t, err)
	second, err := p.Parse("-- horse", nil)
	require.NoError(t, err)

	assert.Equal(t, "boar", first.Args["b"])
	assert.Equal(t, "dog", second.Args["b"])
}
