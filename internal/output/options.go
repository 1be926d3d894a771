package output

import "io"

// Option is a functional option for configuring Printer instances.
type Option func(*Printer)

// WithStyles configures the printer to use the provided StyleProvider for styling.
// If the provider is nil or not available, the printer will fall back to plain text.
func WithStyles(provider StyleProvider) Option {
	return func(p *Printer) {
		if provider != nil && provider.IsAvailable() {
			p.styleProvider = provider
		}
	}
}

// WithWriter configures the printer to write output to the specified writer.
// Default is os.Stdout if not specified.
func WithWriter(writer io.Writer) Option {
	return func(p *Printer) {
		if writer != nil {
			p.writer = writer
		}
	}
}

// WithMode configures the printer to operate in a specific output mode.
func WithMode(mode Mode) Option {
	return func(p *Printer) {
		p.mode = mode
	}
}

// PlainText forces plain output, ignoring any StyleProvider.
func PlainText() Option {
	return func(p *Printer) {
		p.mode = ModePlain
		p.forcePlain = true
	}
}

// JSON configures the printer for structured JSON output.
func JSON() Option {
	return func(p *Printer) {
		p.mode = ModeJSON
	}
}

// TestMode configures the printer for deterministic output in tests.
func TestMode() Option {
	return func(p *Printer) {
		p.testMode = true
		p.mode = ModePlain
		p.forcePlain = true
	}
}

// Silent configures the printer to suppress all output.
func Silent() Option {
	return func(p *Printer) {
		p.silent = true
	}
}

// WithPrefix adds a prefix to all output from this printer.
func WithPrefix(prefix string) Option {
	return func(p *Printer) {
		p.prefix = prefix
	}
}
