package magic

import (
	"fmt"
	"strings"

	"magicshell/pkg/magictypes"
)

// Usage renders the one-line invocation grammar, e.g.
//
//	%search [bind_variable] -- [-h] [--limit LIMIT] query
func (s *Spec) Usage() string {
	parts := []string{"[-h]"}
	for _, name := range s.Optional {
		if s.Types[name] == magictypes.TypeBool {
			parts = append(parts, fmt.Sprintf("[--%s]", name))
			continue
		}
		parts = append(parts, fmt.Sprintf("[--%s %s]", name, strings.ToUpper(name)))
	}
	parts = append(parts, s.Positionals()...)

	if s.Kind == KindCell {
		return fmt.Sprintf("%%%%%s [bind_variable] -- %s\n%s", s.Name, strings.Join(parts, " "), CellParam)
	}
	return fmt.Sprintf("%%%s [bind_variable] -- %s", s.Name, strings.Join(parts, " "))
}

// Help renders the full help text: usage, description and one line per argument.
// flagUsages is the option listing produced by the flag set.
func (s *Spec) Help(flagUsages string) string {
	var b strings.Builder
	b.WriteString("usage: ")
	b.WriteString(s.Usage())
	b.WriteString("\n\n")
	b.WriteString(s.ShortDescription())
	b.WriteString("\n")

	if positionals := s.Positionals(); len(positionals) > 0 {
		b.WriteString("\npositional arguments:\n")
		width := 0
		for _, name := range positionals {
			width = max(width, len(name))
		}
		for _, name := range positionals {
			fmt.Fprintf(&b, "  %-*s  %s (%s)\n", width, name, s.Descriptions[name], s.Types[name])
		}
	}

	b.WriteString("\noptions:\n")
	b.WriteString("  -h, --help   show this help message and exit\n")
	b.WriteString(flagUsages)

	return strings.TrimRight(b.String(), "\n")
}
