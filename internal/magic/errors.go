package magic

import (
	"errors"
	"fmt"
)

var (
	// ErrSpecification is wrapped by every SpecificationError.
	ErrSpecification = errors.New("invalid magic specification")
	// ErrParsing is wrapped by every ParsingError.
	ErrParsing = errors.New("invalid magic arguments")
)

// SpecificationError reports a definition that breaks the authoring rules.
// It is only ever returned at build time.
type SpecificationError struct {
	Name   string
	Reason string
}

func (e *SpecificationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid magic: %s", e.Reason)
	}
	return fmt.Sprintf("invalid magic %q: %s", e.Name, e.Reason)
}

// Unwrap lets errors.Is match ErrSpecification.
func (e *SpecificationError) Unwrap() error { return ErrSpecification }

func specErrorf(name string, format string, args ...interface{}) error {
	return &SpecificationError{Name: name, Reason: fmt.Sprintf(format, args...)}
}

// ParsingError reports an invocation line that could not be turned into arguments.
// Usage holds the synthesized usage text for the magic.
type ParsingError struct {
	Command string
	Reason  string
	Usage   string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Reason)
}

// Unwrap lets errors.Is match ErrParsing.
func (e *ParsingError) Unwrap() error { return ErrParsing }

// HelpRequested is returned by Parse when the line asked for help (-h/--help).
// It is not a failure; callers should show Help and do nothing else.
type HelpRequested struct {
	Command string
	Help    string
}

func (e *HelpRequested) Error() string {
	return fmt.Sprintf("%s: help requested", e.Command)
}

// IsHelpRequested reports whether err is, or wraps, a HelpRequested.
func IsHelpRequested(err error) bool {
	var help *HelpRequested
	return errors.As(err, &help)
}
