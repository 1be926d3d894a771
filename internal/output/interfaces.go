// Package output provides the console output system for magicshell.
// Printers render semantic messages, tables and markdown, styled or plain.
package output

// StyleProvider supplies styles for semantic message types.
// The printer depends only on this interface, not on a concrete theme.
type StyleProvider interface {
	// GetStyle returns a TextStyle for the given semantic type.
	GetStyle(semantic string) TextStyle

	// IsAvailable returns true if the style provider is ready to provide styles.
	IsAvailable() bool

	// GetThemeType returns the glamour style name for markdown ("dark", "light", "auto").
	GetThemeType() string
}

// TextStyle renders text with styling. lipgloss.Style satisfies it.
type TextStyle interface {
	Render(strs ...string) string
}

// Mode defines different output modes the printer can operate in.
type Mode int

const (
	// ModeAuto uses styles when a provider is set and falls back to plain text
	ModeAuto Mode = iota

	// ModeStyled forces styled output
	ModeStyled

	// ModePlain forces plain text output with ANSI sequences stripped
	ModePlain

	// ModeJSON outputs one JSON object per message
	ModeJSON
)

// SemanticType defines the semantic meaning of output for consistent styling.
type SemanticType string

const (
	// SemanticPlain represents plain text without any semantic meaning.
	SemanticPlain SemanticType = "plain"
	// SemanticInfo represents informational text.
	SemanticInfo SemanticType = "info"
	// SemanticSuccess represents success or completion text.
	SemanticSuccess SemanticType = "success"
	// SemanticWarning represents warning text.
	SemanticWarning SemanticType = "warning"
	// SemanticError represents error text.
	SemanticError SemanticType = "error"

	// SemanticCommand represents a magic invocation.
	SemanticCommand SemanticType = "command"
	// SemanticVariable represents a bound variable name.
	SemanticVariable SemanticType = "variable"
	// SemanticHeader represents table headers and titles.
	SemanticHeader SemanticType = "header"
	// SemanticComment represents dimmed, secondary text.
	SemanticComment SemanticType = "comment"
)
