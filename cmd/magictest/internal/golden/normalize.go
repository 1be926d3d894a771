package golden

import (
	"os"
	"os/user"
	"regexp"
	"strings"
)

// Pattern replaces machine- or run-specific text with a <name> placeholder.
type Pattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// Normalizer masks dynamic content so outputs compare across machines.
type Normalizer struct {
	patterns []Pattern
}

// NewNormalizer returns a normalizer with the builtin patterns.
func NewNormalizer() *Normalizer {
	n := &Normalizer{patterns: []Pattern{
		{Name: "uuid", Pattern: regexp.MustCompile(`\b[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\b`)},
		{Name: "memory_address", Pattern: regexp.MustCompile(`0x[a-fA-F0-9]{8,16}`)},
	}}
	n.addUsername()
	return n
}

// AddPattern appends a custom pattern.
func (n *Normalizer) AddPattern(name string, re *regexp.Regexp) {
	n.patterns = append(n.patterns, Pattern{Name: name, Pattern: re})
}

func (n *Normalizer) addUsername() {
	name := os.Getenv("USER")
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	if len(name) < 2 || len(name) > 50 || isCommonUsername(name) {
		return
	}
	n.AddPattern("username", regexp.MustCompile(`\b`+regexp.QuoteMeta(name)+`\b`))
}

func isCommonUsername(name string) bool {
	switch strings.ToLower(name) {
	case "runner", "ci", "github", "gitlab", "jenkins", "build",
		"admin", "user", "test", "guest", "root", "nobody",
		"dev", "developer", "ubuntu", "node", "app":
		return true
	}
	return false
}

// Normalize replaces every pattern match with its placeholder and drops
// trailing newlines.
func (n *Normalizer) Normalize(output string) string {
	for _, p := range n.patterns {
		output = p.Pattern.ReplaceAllString(output, "<"+p.Name+">")
	}
	return strings.TrimRight(output, "\n")
}

// Equal compares an expected golden text with actual output. Lines of the
// expected text that hold placeholders match after normalization.
func (n *Normalizer) Equal(expected, actual string) bool {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")
	if len(expectedLines) != len(actualLines) {
		return false
	}
	for i, want := range expectedLines {
		got := actualLines[i]
		if want == got {
			continue
		}
		if !strings.Contains(want, "<") || n.Normalize(want) != n.Normalize(got) {
			return false
		}
	}
	return true
}
