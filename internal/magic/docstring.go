package magic

import (
	"regexp"
	"strings"
)

// ParamDoc is one entry of a docstring's "Args:" section.
type ParamDoc struct {
	Name        string
	TypeHint    string
	Description string
}

// Docstring is the structured form of a magic's help text.
type Docstring struct {
	Short  string
	Params []ParamDoc
}

var (
	argsHeaders = map[string]bool{
		"Args:":       true,
		"Arguments:":  true,
		"Parameters:": true,
	}
	sectionHeaders = map[string]bool{
		"Returns:":  true,
		"Return:":   true,
		"Raises:":   true,
		"Yields:":   true,
		"Example:":  true,
		"Examples:": true,
		"Note:":     true,
		"Notes:":    true,
	}
	paramLinePattern = regexp.MustCompile(`^(\*{0,2}[A-Za-z_][A-Za-z0-9_]*)\s*(?:\(([^)]*)\))?\s*:\s*(.*)$`)
)

// ParseDocstring reads a Google-style docstring.
//
// The short description is the first non-blank line. Parameters come from the
// "Args:" section, one per line as "name: text" or "name (type): text", with
// deeper-indented lines continuing the previous description. The section ends
// at the first line indented no deeper than its header or at another header.
func ParseDocstring(doc string) Docstring {
	lines := strings.Split(strings.ReplaceAll(doc, "\t", "    "), "\n")

	var out Docstring
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out.Short = trimmed
			break
		}
	}

	start := -1
	headerIndent := 0
	for i, line := range lines {
		if argsHeaders[strings.TrimSpace(line)] {
			start = i
			headerIndent = indentOf(line)
			break
		}
	}
	if start < 0 {
		return out
	}

	paramIndent := -1
	var current *ParamDoc
	for _, line := range lines[start+1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indent := indentOf(line)
		if indent <= headerIndent || sectionHeaders[trimmed] {
			break
		}
		if paramIndent < 0 {
			paramIndent = indent
		}

		if indent <= paramIndent {
			if m := paramLinePattern.FindStringSubmatch(trimmed); m != nil {
				out.Params = append(out.Params, ParamDoc{
					Name:        m[1],
					TypeHint:    cleanTypeHint(m[2]),
					Description: strings.TrimSpace(m[3]),
				})
				current = &out.Params[len(out.Params)-1]
				continue
			}
		}

		if current != nil {
			if current.Description == "" {
				current.Description = trimmed
			} else {
				current.Description += " " + trimmed
			}
		}
	}

	return out
}

// Descriptions maps parameter names to their descriptions.
func (d Docstring) Descriptions() map[string]string {
	out := make(map[string]string, len(d.Params))
	for _, p := range d.Params {
		out[p.Name] = p.Description
	}
	return out
}

// TypeHints maps parameter names to the parenthesised type, when one was given.
func (d Docstring) TypeHints() map[string]string {
	out := make(map[string]string)
	for _, p := range d.Params {
		if p.TypeHint != "" {
			out[p.Name] = p.TypeHint
		}
	}
	return out
}

func cleanTypeHint(hint string) string {
	hint = strings.TrimSpace(hint)
	hint = strings.TrimSuffix(hint, ", optional")
	return strings.TrimSpace(hint)
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}
