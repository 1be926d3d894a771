// Package shell runs magics typed at an interactive prompt or read from a script.
// It routes each line to the registry, reads cell bodies and prints results.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"magicshell/internal/commands"
	"magicshell/internal/commands/builtin"
	"magicshell/internal/logger"
	"magicshell/internal/magic"
	"magicshell/internal/namespace"
	"magicshell/internal/output"
	"magicshell/internal/parser"
	"magicshell/internal/state"
)

// DefaultCellTerminator ends a cell body.
const DefaultCellTerminator = "%%end"

// LineReader yields input lines; it returns io.EOF when input is exhausted.
type LineReader interface {
	ReadLine() (string, error)
}

// promptSetter is implemented by interactive readers that can switch prompts
// while a cell body is being read.
type promptSetter interface {
	SetPrompt(prompt string)
}

// Options configures a Handler.
type Options struct {
	Printer        *output.Printer
	CellTerminator string
	// State receives every result. A nil State gets a fresh one.
	State *state.State
	// Settings are exposed under the shell context namespace.
	Settings map[string]any
}

// Handler owns one session: its variables, registry, namespaces and printer.
type Handler struct {
	env        *state.Environment
	state      *state.State
	registry   *commands.Registry
	root       *namespace.RootNamespace
	context    *namespace.RootContext
	printer    *output.Printer
	terminator string
}

// NewHandler creates a session with every builtin magic installed.
func NewHandler(opts Options) (*Handler, error) {
	printer := opts.Printer
	if printer == nil {
		printer = output.GetGlobalPrinter()
	}
	terminator := strings.TrimSpace(opts.CellTerminator)
	if terminator == "" {
		terminator = DefaultCellTerminator
	}

	env := state.NewEnvironment()
	st := opts.State
	if st == nil {
		st = state.New(env)
	} else {
		st.SetHost(env)
	}

	registry := commands.NewRegistry(env, st)
	if err := builtin.Install(registry, st, printer.Writer()); err != nil {
		return nil, fmt.Errorf("installing builtins: %w", err)
	}

	h := &Handler{
		env:        env,
		state:      st,
		registry:   registry,
		root:       namespace.NewRoot(registry, magic.WithSink(st), magic.WithHelpWriter(printer.Writer())),
		context:    namespace.NewRootContext(),
		printer:    printer,
		terminator: terminator,
	}
	if err := h.buildNamespaces(opts.Settings); err != nil {
		return nil, err
	}

	logger.Debug("Shell session ready", "state", st.ID(), "magics", len(registry.Names()))
	return h, nil
}

// Registry returns the session's registry.
func (h *Handler) Registry() *commands.Registry { return h.registry }

// State returns the session's runtime state.
func (h *Handler) State() *state.State { return h.state }

// Environment returns the session's variables.
func (h *Handler) Environment() *state.Environment { return h.env }

// Root returns the feature namespace tree.
func (h *Handler) Root() *namespace.RootNamespace { return h.root }

// Context returns the runtime parameter tree.
func (h *Handler) Context() *namespace.RootContext { return h.context }

// Run processes lines from r until EOF. Errors from individual lines are
// printed and do not stop the loop.
func (h *Handler) Run(ctx context.Context, r LineReader) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		_ = h.ProcessLine(ctx, line, r)
	}
}

// ProcessLine executes one input line. Cell magics read their body from r.
// The returned error has already been printed.
func (h *Handler) ProcessLine(ctx context.Context, raw string, r LineReader) error {
	in, err := parser.ParseInput(raw)
	if err != nil {
		h.printer.Error(err.Error())
		return err
	}

	switch in.Kind {
	case parser.InputEmpty:
		return nil
	case parser.InputHelp:
		return h.showHelp(in.Name)
	case parser.InputVariable:
		return h.showVariable(in.Name)
	case parser.InputCellMagic:
		body, err := h.readBody(r)
		if err != nil {
			h.printer.Error(err.Error())
			return err
		}
		return h.invoke(ctx, in, &body)
	default:
		return h.invoke(ctx, in, nil)
	}
}

// readBody collects lines up to the terminator or EOF.
func (h *Handler) readBody(r LineReader) (string, error) {
	if r == nil {
		return "", nil
	}
	if ps, ok := r.(promptSetter); ok {
		ps.SetPrompt("... ")
		defer ps.SetPrompt("")
	}

	var lines []string
	for {
		line, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) == h.terminator {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (h *Handler) invoke(ctx context.Context, in *parser.Input, body *string) error {
	result, err := h.registry.Invoke(ctx, in.Name, in.Line, body)
	if err != nil {
		h.printError(in, err)
		return err
	}
	h.printer.Value(result)
	return nil
}

func (h *Handler) printError(in *parser.Input, err error) {
	logger.Debug("Magic failed", "input", in.String(), "error", err)

	var parsing *magic.ParsingError
	switch {
	case errors.As(err, &parsing):
		h.printer.Error(parsing.Error())
		h.printer.Markdown("```\n" + parsing.Usage + "\n```")
	case errors.Is(err, commands.ErrNotRegistered):
		h.printer.Error(fmt.Sprintf("unknown magic %%%s; run %%magics to list them", in.Name))
	default:
		h.printer.Error(err.Error())
	}
}

func (h *Handler) showHelp(name string) error {
	if entry, ok := h.registry.Get(name); ok {
		h.printer.Markdown(helpMarkdown(entry.Magic))
		return nil
	}
	if helper, ok := h.registry.GetHelper(name); ok {
		h.printer.Markdown(fmt.Sprintf("# %s\n\n%s", helper.Name, helper.Help))
		return nil
	}
	err := fmt.Errorf("no magic or helper named %s", name)
	h.printer.Error(err.Error())
	return err
}

func helpMarkdown(m *magic.Magic) string {
	prefix := "%"
	if m.Kind() == magic.KindCell {
		prefix = "%%"
	}
	return fmt.Sprintf("# %s%s\n\n```\n%s\n```", prefix, m.Name(), m.Help())
}

func (h *Handler) showVariable(name string) error {
	value, err := h.env.Lookup(name)
	if err != nil {
		h.printer.Error(err.Error())
		return err
	}
	h.printer.Value(value)
	return nil
}
