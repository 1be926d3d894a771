package magic

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/pflag"

	"magicshell/internal/parser"
	"magicshell/pkg/magictypes"
)

// DiscardVariable is the bind variable meaning "no explicit binding".
const DiscardVariable = magictypes.DiscardVariable

// Invocation is the result of parsing one line against a Spec.
type Invocation struct {
	BindVariable string
	Args         Args
}

// Parser parses "bind_variable -- arguments" lines for one Spec.
// It holds no mutable state; each Parse works on a fresh flag set.
type Parser struct {
	spec  *Spec
	usage string
	help  string
}

// Parser synthesizes the argument parser for s.
func (s *Spec) Parser() *Parser {
	p := &Parser{spec: s, usage: s.Usage()}
	p.help = s.Help(p.newFlagSet().FlagUsages())
	return p
}

// Spec returns the Spec the parser was built from.
func (p *Parser) Spec() *Spec { return p.spec }

// Usage returns the one-line usage string.
func (p *Parser) Usage() string { return p.usage }

// Help returns the full help text.
func (p *Parser) Help() string { return p.help }

// Parse turns line, and for cell magics the body, into typed arguments.
//
// The part of the line before a standalone "--" names the bind variable and
// the part after it holds the arguments. A line without "--" is entirely the
// bind variable. An empty line binds to the discard variable and uses only
// defaults.
func (p *Parser) Parse(line string, body *string) (*Invocation, error) {
	bind, raw, err := p.split(line)
	if err != nil {
		return nil, err
	}

	tokens, err := shellquote.Split(raw)
	if err != nil {
		return nil, p.fail("%v", err)
	}

	args, err := p.parseTokens(tokens)
	if err != nil {
		return nil, err
	}

	if p.spec.Kind == KindCell {
		cell := ""
		if body != nil {
			cell = *body
		}
		args[CellParam] = cell
	}

	return &Invocation{BindVariable: bind, Args: args}, nil
}

// split separates the bind variable from the argument text.
func (p *Parser) split(line string) (string, string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return DiscardVariable, "", nil
	}

	seps := separators(line)
	if len(seps) == 0 {
		return p.bindVariable(line, "")
	}
	if len(seps) > 1 {
		return "", "", p.fail("only one standalone -- separator is allowed")
	}

	before := strings.TrimSpace(line[:seps[0][0]])
	after := strings.TrimSpace(line[seps[0][1]:])
	switch {
	case before == "" && after == "":
		return "", "", p.fail("a lone -- needs a bind variable or arguments")
	case before == "":
		return DiscardVariable, after, nil
	}
	return p.bindVariable(before, after)
}

// separators returns the offsets of every unquoted "--" token in line.
// Quoting follows the shell rules the arguments are later split with.
func separators(line string) [][2]int {
	var (
		seps   [][2]int
		start  = -1
		quote  rune
		escape bool
	)
	flush := func(end int) {
		if start >= 0 && line[start:end] == "--" {
			seps = append(seps, [2]int{start, end})
		}
		start = -1
	}
	for i, r := range line {
		switch {
		case escape:
			escape = false
		case quote != 0:
			if r == quote {
				quote = 0
			} else if r == '\\' && quote == '"' {
				escape = true
			}
		case r == ' ' || r == '\t' || r == '\n':
			flush(i)
			continue
		case r == '\\':
			escape = true
		case r == '\'' || r == '"':
			quote = r
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(line))
	return seps
}

func (p *Parser) bindVariable(name, raw string) (string, string, error) {
	if !parser.IsIdentifier(name) {
		return "", "", p.fail("%q isn't a valid bind variable; use `name -- arguments`", name)
	}
	return name, raw, nil
}

// newFlagSet declares one flag per defaulted parameter.
func (p *Parser) newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(p.spec.Name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false

	for _, name := range p.spec.Optional {
		desc := p.spec.Descriptions[name]
		switch def := p.spec.Defaults[name].(type) {
		case bool:
			fs.Bool(name, def, desc)
			// Presence of the flag always flips the default.
			fs.Lookup(name).NoOptDefVal = strconv.FormatBool(!def)
		case int:
			fs.Int(name, def, desc)
		case float64:
			fs.Float64(name, def, desc)
		default:
			fs.String(name, fmt.Sprint(def), desc)
		}
	}
	return fs
}

func (p *Parser) parseTokens(tokens []string) (Args, error) {
	fs := p.newFlagSet()
	if err := fs.Parse(tokens); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, &HelpRequested{Command: p.spec.Name, Help: p.help}
		}
		return nil, p.fail("%v", err)
	}

	args := make(Args, len(p.spec.Types))
	for _, name := range p.spec.Optional {
		value, err := flagValue(fs, name, p.spec.Types[name])
		if err != nil {
			return nil, p.fail("argument --%s: %v", name, err)
		}
		args[name] = value
	}

	positionals := p.spec.Positionals()
	rest := fs.Args()
	if len(rest) < len(positionals) {
		return nil, p.fail("the following arguments are required: %s", strings.Join(positionals[len(rest):], ", "))
	}
	if len(rest) > len(positionals) {
		return nil, p.fail("unrecognized arguments: %s", strings.Join(rest[len(positionals):], " "))
	}
	for i, name := range positionals {
		value, err := convert(p.spec.Types[name], rest[i])
		if err != nil {
			return nil, p.fail("argument %s: %v", name, err)
		}
		args[name] = value
	}

	return args, nil
}

func (p *Parser) fail(format string, args ...interface{}) error {
	return &ParsingError{
		Command: p.spec.Name,
		Reason:  fmt.Sprintf(format, args...),
		Usage:   p.usage,
	}
}

func flagValue(fs *pflag.FlagSet, name string, typ magictypes.ArgType) (any, error) {
	switch typ {
	case magictypes.TypeBool:
		return fs.GetBool(name)
	case magictypes.TypeInt:
		return fs.GetInt(name)
	case magictypes.TypeFloat:
		return fs.GetFloat64(name)
	default:
		return fs.GetString(name)
	}
}

// convert parses a positional argument into its declared type.
func convert(typ magictypes.ArgType, raw string) (any, error) {
	switch typ {
	case magictypes.TypeInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid int value: %q", raw)
		}
		return v, nil
	case magictypes.TypeFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float value: %q", raw)
		}
		return v, nil
	case magictypes.TypeBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bool value: %q", raw)
		}
		return v, nil
	default:
		return raw, nil
	}
}
