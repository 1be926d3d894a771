package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ThemeStyles is a lipgloss-backed StyleProvider.
type ThemeStyles struct {
	name   string
	styles map[SemanticType]lipgloss.Style
}

// NewThemeStyles builds the named theme ("dark", "light" or "auto").
// An "auto" theme asks the terminal for its background color.
func NewThemeStyles(name string) *ThemeStyles {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		name = "dark"
		if !termenv.HasDarkBackground() {
			name = "light"
		}
	}

	accent, muted, text := lipgloss.Color("39"), lipgloss.Color("244"), lipgloss.Color("252")
	if name == "light" {
		accent, muted, text = lipgloss.Color("25"), lipgloss.Color("242"), lipgloss.Color("235")
	}

	return &ThemeStyles{
		name: name,
		styles: map[SemanticType]lipgloss.Style{
			SemanticPlain:    lipgloss.NewStyle().Foreground(text),
			SemanticInfo:     lipgloss.NewStyle().Foreground(accent),
			SemanticSuccess:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			SemanticWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			SemanticError:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			SemanticCommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true),
			SemanticVariable: lipgloss.NewStyle().Foreground(lipgloss.Color("99")),
			SemanticHeader:   lipgloss.NewStyle().Foreground(accent).Bold(true),
			SemanticComment:  lipgloss.NewStyle().Foreground(muted).Italic(true),
		},
	}
}

// GetStyle implements StyleProvider.
func (t *ThemeStyles) GetStyle(semantic string) TextStyle {
	if style, ok := t.styles[SemanticType(semantic)]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// IsAvailable implements StyleProvider.
func (t *ThemeStyles) IsAvailable() bool { return true }

// GetThemeType implements StyleProvider.
func (t *ThemeStyles) GetThemeType() string { return t.name }

// DetectProfile reports the color profile of the terminal on stdout and
// applies it to lipgloss. NO_COLOR forces ASCII.
func DetectProfile() termenv.Profile {
	profile := termenv.EnvColorProfile()
	lipgloss.SetColorProfile(profile)
	return profile
}
