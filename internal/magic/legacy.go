package magic

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/spf13/pflag"

	"magicshell/internal/parser"
	"magicshell/pkg/magictypes"
)

// LegacyDataParam is the trailing positional parameter of the legacy grammar.
const LegacyDataParam = "data"

// legacyBindFlag names the flag that sets the bind variable in the legacy grammar.
const legacyBindFlag = "bindto"

var primitiveHints = map[string]bool{
	"str": true, "string": true, "unicode": true,
	"int": true, "float": true, "float64": true, "bool": true,
	"object": true,
}

// LegacyParser parses the older "--flag value ... data" grammar:
//
//	%name [--bindto NAME] [--flag VALUE ...] [data]
//	%%name [--flag VALUE ...] [bind_variable]
//
// Every parameter except data is a flag, written with one or two dashes.
// String values of the form {name} are replaced with the host binding of
// that name, checked against the docstring's type hint when one is given.
type LegacyParser struct {
	spec  *Spec
	host  magictypes.Host
	usage string
	help  string
}

// LegacyParser builds the legacy grammar for s. host resolves {name} values.
func (s *Spec) LegacyParser(host magictypes.Host) *LegacyParser {
	if host == nil {
		host = magictypes.NopHost{}
	}
	p := &LegacyParser{spec: s, host: host}
	p.usage = fmt.Sprintf("%%%s [arguments] data\nor\n%%%%%s [arguments]\ndata", s.Name, s.Name)
	p.help = "usage: " + p.usage + "\n\n" + s.ShortDescription() + "\n\noptions:\n" +
		"  -h, --help   show this help message and exit\n" + p.newFlagSet().FlagUsages()
	p.help = strings.TrimRight(p.help, "\n")
	return p
}

// Usage returns the legacy usage string.
func (p *LegacyParser) Usage() string { return p.usage }

// Help returns the legacy help text.
func (p *LegacyParser) Help() string { return p.help }

func (p *LegacyParser) flagParams() []string {
	var out []string
	for _, name := range append(append([]string{}, p.spec.Required...), p.spec.Optional...) {
		if name == LegacyDataParam || name == CellParam {
			continue
		}
		out = append(out, name)
	}
	return out
}

func (p *LegacyParser) newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(p.spec.Name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false

	for _, name := range p.flagParams() {
		desc := p.spec.Descriptions[name]
		def, hasDefault := p.spec.Defaults[name]
		switch p.spec.Types[name] {
		case magictypes.TypeBool:
			b, _ := def.(bool)
			fs.Bool(name, b, desc)
			fs.Lookup(name).NoOptDefVal = fmt.Sprint(!b)
		case magictypes.TypeInt:
			i, _ := def.(int)
			fs.Int(name, i, desc)
		case magictypes.TypeFloat:
			f, _ := def.(float64)
			fs.Float64(name, f, desc)
		default:
			s := ""
			if hasDefault {
				s = fmt.Sprint(def)
			}
			fs.String(name, s, desc)
		}
	}
	if !p.spec.HasParam(legacyBindFlag) {
		fs.String(legacyBindFlag, "", "Bind the results to a variable instead of being returned.")
	}
	return fs
}

// Parse parses line with the legacy grammar. For cell magics the trailing
// positional names the bind variable and body fills the cell parameter.
func (p *LegacyParser) Parse(line string, body *string) (*Invocation, error) {
	tokens := parser.Tokenize(line)
	for i, tok := range tokens {
		// Single-dash long flags are accepted as in "-limit 10".
		if len(tok) > 2 && tok[0] == '-' && tok[1] != '-' && !isNumber(tok) {
			tokens[i] = "-" + tok
		}
	}

	fs := p.newFlagSet()
	if err := fs.Parse(tokens); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, &HelpRequested{Command: p.spec.Name, Help: p.help}
		}
		return nil, p.fail("%v", err)
	}

	args := make(Args, len(p.spec.Types))
	for _, name := range p.flagParams() {
		if p.spec.IsRequired(name) && !fs.Changed(name) {
			return nil, p.fail("the following arguments are required: --%s", name)
		}
		value, err := flagValue(fs, name, p.spec.Types[name])
		if err != nil {
			return nil, p.fail("argument --%s: %v", name, err)
		}
		args[name] = value
	}

	bind := DiscardVariable
	if !p.spec.HasParam(legacyBindFlag) {
		if b, _ := fs.GetString(legacyBindFlag); b != "" {
			bind = b
		}
	}

	rest := fs.Args()
	if len(rest) > 1 {
		return nil, p.fail("unrecognized arguments: %s", strings.Join(rest[1:], " "))
	}

	if p.spec.Kind == KindCell {
		if len(rest) == 1 {
			bind = rest[0]
		}
		cell := ""
		if body != nil {
			cell = *body
		}
		args[CellParam] = cell
	} else if err := p.fillData(args, rest); err != nil {
		return nil, err
	}

	if !parser.IsIdentifier(bind) {
		return nil, p.fail("%q isn't a valid bind variable", bind)
	}

	if err := p.expand(args); err != nil {
		return nil, err
	}

	return &Invocation{BindVariable: bind, Args: args}, nil
}

func (p *LegacyParser) fillData(args Args, rest []string) error {
	if !p.spec.HasParam(LegacyDataParam) {
		if len(rest) > 0 {
			return p.fail("unrecognized arguments: %s", rest[0])
		}
		return nil
	}
	if len(rest) == 0 {
		if p.spec.IsRequired(LegacyDataParam) {
			return p.fail("the following arguments are required: %s", LegacyDataParam)
		}
		args[LegacyDataParam] = p.spec.Defaults[LegacyDataParam]
		return nil
	}
	value, err := convert(p.spec.Types[LegacyDataParam], rest[0])
	if err != nil {
		return p.fail("argument %s: %v", LegacyDataParam, err)
	}
	args[LegacyDataParam] = value
	return nil
}

// expand replaces {name} string values with host bindings.
func (p *LegacyParser) expand(args Args) error {
	for key, value := range args {
		if key == CellParam {
			continue
		}
		s, ok := value.(string)
		if !ok || len(s) < 3 || s[0] != '{' || s[len(s)-1] != '}' {
			continue
		}
		name := s[1 : len(s)-1]
		if strings.ContainsAny(name, "{}") {
			continue
		}

		obj, err := p.host.Lookup(name)
		if err != nil {
			return p.fail("argument %s: %v", key, err)
		}
		if hint := p.spec.TypeHints[key]; hint != "" && !primitiveHints[hint] && !typeMatches(obj, hint) {
			return p.fail("variable [%s] is not of the correct type [%s] for this magic; type is %T", name, hint, obj)
		}
		args[key] = obj
	}
	return nil
}

func (p *LegacyParser) fail(format string, args ...interface{}) error {
	return &ParsingError{
		Command: p.spec.Name,
		Reason:  fmt.Sprintf(format, args...),
		Usage:   p.usage,
	}
}

// typeMatches compares a value's type name with a docstring hint, allowing
// either to be a suffix of the other ("Frame" matches "*table.Frame").
func typeMatches(obj any, hint string) bool {
	if obj == nil {
		return false
	}
	name := strings.TrimLeft(reflect.TypeOf(obj).String(), "*")
	hint = strings.TrimLeft(hint, "*")
	return name == hint || strings.HasSuffix(name, hint) || strings.HasSuffix(hint, name)
}

func isNumber(tok string) bool {
	_, err := convert(magictypes.TypeFloat, tok)
	return err == nil
}
