// Package parser provides input parsing for magicshell.
// It recognizes magic invocations typed into the shell and tokenizes legacy-style magic lines.
package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// InputKind classifies one line typed into the shell.
type InputKind int

const (
	// InputEmpty is a blank line or a comment.
	InputEmpty InputKind = iota
	// InputLineMagic is "%name line".
	InputLineMagic
	// InputCellMagic is "%%name line"; a body follows on the next lines.
	InputCellMagic
	// InputHelp is "?name".
	InputHelp
	// InputVariable is a bare identifier naming a bound variable.
	InputVariable
)

// Input is a parsed shell line.
type Input struct {
	Kind InputKind
	Name string
	Line string
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s is a bare identifier: letters, digits and
// underscores, not starting with a digit.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// ParseInput classifies a shell line. Lines starting with '#' are comments.
func ParseInput(raw string) (*Input, error) {
	text := strings.TrimSpace(raw)
	if text == "" || strings.HasPrefix(text, "#") {
		return &Input{Kind: InputEmpty}, nil
	}

	kind := InputVariable
	switch {
	case strings.HasPrefix(text, "%%"):
		kind = InputCellMagic
		text = text[2:]
	case strings.HasPrefix(text, "%"):
		kind = InputLineMagic
		text = text[1:]
	case strings.HasPrefix(text, "?"):
		kind = InputHelp
		text = strings.TrimSpace(text[1:])
	}

	name, line, _ := strings.Cut(text, " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty magic name")
	}
	if !IsIdentifier(name) {
		return nil, fmt.Errorf("%q is not a valid identifier", name)
	}
	if kind == InputVariable && strings.TrimSpace(line) != "" {
		return nil, fmt.Errorf("unexpected input after %q; magics start with %% or %%%%", name)
	}

	return &Input{
		Kind: kind,
		Name: name,
		Line: strings.TrimSpace(line),
	}, nil
}

// String renders the input back in shell syntax.
func (in *Input) String() string {
	var prefix string
	switch in.Kind {
	case InputEmpty:
		return ""
	case InputLineMagic:
		prefix = "%"
	case InputCellMagic:
		prefix = "%%"
	case InputHelp:
		prefix = "?"
	}
	if in.Line == "" {
		return prefix + in.Name
	}
	return prefix + in.Name + " " + in.Line
}
