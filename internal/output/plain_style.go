package output

import "strings"

// PlainTextStyle implements TextStyle for plain text output without any styling.
type PlainTextStyle struct {
	prefix string
}

// NewPlainTextStyle creates a new plain text style with an optional prefix.
func NewPlainTextStyle(prefix string) *PlainTextStyle {
	return &PlainTextStyle{prefix: prefix}
}

// Render returns the joined text with the prefix prepended.
func (p *PlainTextStyle) Render(strs ...string) string {
	return p.prefix + strings.Join(strs, " ")
}

// PlainStyleProvider implements StyleProvider with semantic prefixes instead of colors.
type PlainStyleProvider struct{}

// NewPlainStyleProvider creates a new plain style provider.
func NewPlainStyleProvider() *PlainStyleProvider {
	return &PlainStyleProvider{}
}

// GetStyle returns a prefix-only style for semantic.
func (p *PlainStyleProvider) GetStyle(semantic string) TextStyle {
	switch SemanticType(semantic) {
	case SemanticSuccess:
		return NewPlainTextStyle("✓ ")
	case SemanticWarning:
		return NewPlainTextStyle("⚠ ")
	case SemanticError:
		return NewPlainTextStyle("✗ ")
	case SemanticInfo:
		return NewPlainTextStyle("ℹ ")
	case SemanticCommand:
		return NewPlainTextStyle("%")
	default:
		return NewPlainTextStyle("")
	}
}

// IsAvailable implements StyleProvider.IsAvailable.
func (p *PlainStyleProvider) IsAvailable() bool {
	return true
}

// GetThemeType implements StyleProvider.GetThemeType.
func (p *PlainStyleProvider) GetThemeType() string {
	return "notty"
}

// String returns a string representation for debugging.
func (p *PlainStyleProvider) String() string {
	return "PlainStyleProvider{}"
}
