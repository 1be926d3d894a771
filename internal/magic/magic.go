package magic

import (
	"context"
	"errors"
	"fmt"
	"io"

	"magicshell/internal/logger"
	"magicshell/pkg/magictypes"
)

// OutputSink receives the result of every successful invocation.
// bindTo is empty when the user did not ask for a binding. The returned
// value is what the caller should display.
type OutputSink interface {
	RecordOutput(value any, command string, bindTo string) any
}

// Magic couples a Spec, its parser and the function it runs.
type Magic struct {
	spec   *Spec
	parser *Parser
	legacy *LegacyParser
	fn     Func
	sink   OutputSink
	help   io.Writer
}

// Option configures a Magic at wrap time.
type Option func(*Magic)

// WithSink records every result through sink.
func WithSink(sink OutputSink) Option {
	return func(m *Magic) { m.sink = sink }
}

// WithHelpWriter sets where help text goes when the user passes -h.
func WithHelpWriter(w io.Writer) Option {
	return func(m *Magic) { m.help = w }
}

// WithLegacyParsing switches the magic to the --bindto grammar with {name}
// expansion against host.
func WithLegacyParsing(host magictypes.Host) Option {
	return func(m *Magic) { m.legacy = m.spec.LegacyParser(host) }
}

// Wrap validates def, synthesizes its parser and returns the callable magic.
// Wrapping does not register anything.
func Wrap(kind Kind, def Definition, name string, opts ...Option) (*Magic, error) {
	spec, err := Build(kind, def, name)
	if err != nil {
		return nil, err
	}
	if def.Fn == nil {
		return nil, specErrorf(spec.Name, "no function given")
	}

	m := &Magic{
		spec:   spec,
		parser: spec.Parser(),
		fn:     def.Fn,
		help:   io.Discard,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Name returns the magic's name.
func (m *Magic) Name() string { return m.spec.Name }

// Kind returns whether this is a line or a cell magic.
func (m *Magic) Kind() Kind { return m.spec.Kind }

// Spec returns the magic's specification.
func (m *Magic) Spec() *Spec { return m.spec }

// Doc returns the full docstring.
func (m *Magic) Doc() string { return m.spec.Doc }

// Usage returns the usage line of whichever grammar the magic uses.
func (m *Magic) Usage() string {
	if m.legacy != nil {
		return m.legacy.Usage()
	}
	return m.parser.Usage()
}

// Help returns the full help text of whichever grammar the magic uses.
func (m *Magic) Help() string {
	if m.legacy != nil {
		return m.legacy.Help()
	}
	return m.parser.Help()
}

// IsLegacy reports whether the magic uses the --bindto grammar.
func (m *Magic) IsLegacy() bool { return m.legacy != nil }

// Parse parses an invocation without running anything.
func (m *Magic) Parse(line string, body *string) (*Invocation, error) {
	if m.legacy != nil {
		return m.legacy.Parse(line, body)
	}
	return m.parser.Parse(line, body)
}

// Execute parses line and body and runs the function. It does not record
// the output anywhere. A help request yields a nil invocation and no error.
func (m *Magic) Execute(ctx context.Context, line string, body *string) (*Invocation, any, error) {
	inv, err := m.Parse(line, body)
	if err != nil {
		var help *HelpRequested
		if errors.As(err, &help) {
			fmt.Fprintln(m.help, help.Help)
			return nil, nil, nil
		}
		return nil, nil, err
	}

	logger.CommandExecution(m.spec.Name, line, inv.BindVariable)
	result, err := m.fn(ctx, inv.Args)
	if err != nil {
		return inv, nil, err
	}
	return inv, result, nil
}

// Call is the invocation surface handed to the host: it runs the magic and
// records the result through the sink, binding it when the line named a
// bind variable. Parse failures leave the sink untouched.
func (m *Magic) Call(ctx context.Context, line string, body *string) (any, error) {
	inv, result, err := m.Execute(ctx, line, body)
	if err != nil || inv == nil {
		return nil, err
	}
	if m.sink == nil {
		return result, nil
	}
	return m.sink.RecordOutput(result, m.spec.Name, BindTarget(inv.BindVariable)), nil
}

// CallArgs runs the function directly with keyword arguments, filling in
// defaults and checking that required arguments are present with the right types.
func (m *Magic) CallArgs(ctx context.Context, args Args) (any, error) {
	merged := make(Args, len(m.spec.Types))
	for name, def := range m.spec.Defaults {
		merged[name] = def
	}
	for name, value := range args {
		if !m.spec.HasParam(name) {
			return nil, fmt.Errorf("%s: unexpected argument %q", m.spec.Name, name)
		}
		v, err := coerce(m.spec.Types[name], value)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %q: %w", m.spec.Name, name, err)
		}
		merged[name] = v
	}
	for _, name := range m.spec.Required {
		if !merged.Has(name) {
			return nil, fmt.Errorf("%s: missing required argument %q", m.spec.Name, name)
		}
	}
	return m.fn(ctx, merged)
}

// BindTarget maps the discard variable to "no binding".
func BindTarget(bindVariable string) string {
	if bindVariable == DiscardVariable {
		return ""
	}
	return bindVariable
}
