package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
)

// Printer is the main output handler that supports both plain and styled output.
type Printer struct {
	styleProvider StyleProvider
	writer        io.Writer
	mode          Mode
	forcePlain    bool
	testMode      bool
	silent        bool
	prefix        string

	mu sync.Mutex
}

// NewPrinter creates a new Printer with the given options.
// By default, it writes to os.Stdout with automatic mode detection.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{
		writer: os.Stdout,
		mode:   ModeAuto,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Print outputs text without any semantic styling.
func (p *Printer) Print(text string) {
	p.output(SemanticPlain, text, false)
}

// Printf outputs formatted text without any semantic styling.
func (p *Printer) Printf(format string, args ...interface{}) {
	p.output(SemanticPlain, fmt.Sprintf(format, args...), false)
}

// Println outputs text with a newline without any semantic styling.
func (p *Printer) Println(text string) {
	p.output(SemanticPlain, text, true)
}

// Info outputs informational text with info styling.
func (p *Printer) Info(text string) {
	p.output(SemanticInfo, text, true)
}

// Success outputs success text with success styling.
func (p *Printer) Success(text string) {
	p.output(SemanticSuccess, text, true)
}

// Warning outputs warning text with warning styling.
func (p *Printer) Warning(text string) {
	p.output(SemanticWarning, text, true)
}

// Error outputs error text with error styling.
func (p *Printer) Error(text string) {
	p.output(SemanticError, text, true)
}

// Command outputs a magic invocation.
func (p *Printer) Command(text string) {
	p.output(SemanticCommand, text, false)
}

// Variable outputs a variable name.
func (p *Printer) Variable(text string) {
	p.output(SemanticVariable, text, false)
}

// Comment outputs dimmed text.
func (p *Printer) Comment(text string) {
	p.output(SemanticComment, text, true)
}

// Value prints an arbitrary magic result. Strings are printed as-is, tables
// through Table, and everything else with %v.
func (p *Printer) Value(v any) {
	switch value := v.(type) {
	case nil:
		return
	case string:
		p.Println(value)
	case fmt.Stringer:
		p.Println(value.String())
	case Tabular:
		p.Table(value.Headers(), value.Rows())
	default:
		p.Println(fmt.Sprintf("%v", value))
	}
}

// Tabular values are printed as tables.
type Tabular interface {
	Headers() []string
	Rows() [][]string
}

// Table prints rows under headers with a rounded border. Plain printers use
// an ASCII border so output stays diffable.
func (p *Printer) Table(headers []string, rows [][]string) {
	p.mu.Lock()
	styled := p.stylableLocked()
	jsonMode := p.mode == ModeJSON
	p.mu.Unlock()

	if jsonMode {
		p.write(tableJSON(headers, rows))
		return
	}

	t := table.New().Headers(headers...).Rows(rows...)
	if styled {
		header := p.styleProvider.GetStyle(string(SemanticHeader))
		t = t.Border(lipgloss.RoundedBorder()).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					if s, ok := header.(lipgloss.Style); ok {
						return s.Padding(0, 1)
					}
				}
				return lipgloss.NewStyle().Padding(0, 1)
			})
	} else {
		t = t.Border(lipgloss.ASCIIBorder()).
			StyleFunc(func(int, int) lipgloss.Style { return lipgloss.NewStyle().Padding(0, 1) })
	}
	p.write(t.Render() + "\n")
}

// Markdown renders md with glamour. Plain printers print the source unchanged.
func (p *Printer) Markdown(md string) {
	p.mu.Lock()
	styled := p.stylableLocked()
	theme := "auto"
	if styled {
		theme = p.styleProvider.GetThemeType()
	}
	jsonMode := p.mode == ModeJSON
	p.mu.Unlock()

	if jsonMode {
		p.output(SemanticPlain, md, false)
		return
	}

	if !styled {
		p.write(strings.TrimRight(md, "\n") + "\n")
		return
	}
	p.write(RenderMarkdown(md, theme) + "\n")
}

// RenderMarkdown renders md with the named glamour style, falling back to
// the source text if glamour fails.
func RenderMarkdown(md string, theme string) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(100)}
	if theme == "" || theme == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(theme))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil || strings.TrimSpace(out) == "" {
		return md
	}
	return strings.Trim(out, "\n")
}

func (p *Printer) output(semantic SemanticType, text string, addNewline bool) {
	if p.silent {
		return
	}

	p.mu.Lock()
	var finalText string
	switch p.mode {
	case ModeJSON:
		finalText = p.renderJSON(semantic, text)
	case ModeStyled:
		finalText = p.renderStyled(semantic, text, addNewline)
	default:
		finalText = p.renderText(semantic, text, addNewline)
	}
	p.mu.Unlock()

	p.write(finalText)
}

func (p *Printer) write(text string) {
	if p.silent {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mode == ModePlain {
		text = ansi.Strip(text)
	}
	if p.prefix != "" {
		text = p.prefix + text
	}
	_, _ = fmt.Fprint(p.writer, text)
}

func (p *Printer) renderText(semantic SemanticType, text string, addNewline bool) string {
	var provider StyleProvider = NewPlainStyleProvider()
	if p.stylableLocked() {
		provider = p.styleProvider
	}
	result := provider.GetStyle(string(semantic)).Render(text)
	if addNewline && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	return result
}

func (p *Printer) renderStyled(semantic SemanticType, text string, addNewline bool) string {
	if p.styleProvider == nil || !p.styleProvider.IsAvailable() {
		return p.renderText(semantic, text, addNewline)
	}
	result := p.styleProvider.GetStyle(string(semantic)).Render(text)
	if addNewline && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	return result
}

func (p *Printer) renderJSON(semantic SemanticType, text string) string {
	jsonBytes, err := json.Marshal(map[string]interface{}{
		"type":    semantic,
		"message": text,
	})
	if err != nil {
		return text + "\n"
	}
	return string(jsonBytes) + "\n"
}

// tableJSON emits one object per table with rows keyed by header.
func tableJSON(headers []string, rows [][]string) string {
	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		record := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[header] = row[i]
			}
		}
		records = append(records, record)
	}
	jsonBytes, err := json.Marshal(map[string]interface{}{
		"type": "table",
		"rows": records,
	})
	if err != nil {
		return fmt.Sprint(rows) + "\n"
	}
	return string(jsonBytes) + "\n"
}

// SetWriter changes the output writer.
func (p *Printer) SetWriter(writer io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = writer
}

// SetMode changes the output mode.
func (p *Printer) SetMode(mode Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
}

// SetStyleProvider changes the style provider. Pass nil to disable styling.
func (p *Printer) SetStyleProvider(provider StyleProvider) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.styleProvider = provider
}

// IsStylable returns true if the printer can apply styles.
func (p *Printer) IsStylable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stylableLocked()
}

func (p *Printer) stylableLocked() bool {
	return !p.forcePlain && p.styleProvider != nil && p.styleProvider.IsAvailable()
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writer
}

// String returns a string representation for debugging.
func (p *Printer) String() string {
	hasStyles := "no"
	if p.IsStylable() {
		hasStyles = "yes"
	}
	return fmt.Sprintf("Printer{mode: %v, styles: %s, writer: %T}", p.mode, hasStyles, p.writer)
}
