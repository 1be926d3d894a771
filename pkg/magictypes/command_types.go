// Package magictypes defines command system types for magicshell.
// This file contains the magic kinds, argument types and structured help information.
package magictypes

import (
	"fmt"
	"reflect"
)

// Kind distinguishes line magics from cell magics.
type Kind int

const (
	// KindLine magics take a single line of text.
	KindLine Kind = iota
	// KindCell magics take a line plus a multi-line body bound to the cell parameter.
	KindCell
)

// CellParam is the reserved parameter name that receives a cell magic's body.
const CellParam = "cell"

// DiscardVariable is the bind variable used when the user asks for no binding.
const DiscardVariable = "_"

// String returns "line" or "cell".
func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindCell:
		return "cell"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ArgType is the primitive type of a magic argument.
// The zero value is TypeString, which is also what unannotated parameters get.
type ArgType int

const (
	// TypeString arguments are passed through as text.
	TypeString ArgType = iota
	// TypeBool arguments are toggle flags.
	TypeBool
	// TypeInt arguments are parsed as base-10 integers.
	TypeInt
	// TypeFloat arguments are parsed as float64.
	TypeFloat
)

// String returns the short type name used in usage text.
func (t ArgType) String() string {
	switch t {
	case TypeString:
		return "str"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	default:
		return fmt.Sprintf("ArgType(%d)", int(t))
	}
}

// ArgTypeOf maps a Go type onto an ArgType. A nil type is unannotated and maps to TypeString.
// The second result is false for any type outside bool, int, float64 and string.
func ArgTypeOf(t reflect.Type) (ArgType, bool) {
	if t == nil {
		return TypeString, true
	}
	switch t.Kind() {
	case reflect.String:
		return TypeString, true
	case reflect.Bool:
		return TypeBool, true
	case reflect.Int:
		return TypeInt, true
	case reflect.Float64:
		return TypeFloat, true
	default:
		return TypeString, false
	}
}

// HelpInfo represents structured help information for a magic.
type HelpInfo struct {
	Command     string       `json:"command" yaml:"command"`
	Description string       `json:"description" yaml:"description"`
	Kind        Kind         `json:"kind" yaml:"kind"`
	Usage       string       `json:"usage" yaml:"usage"`
	Options     []HelpOption `json:"options,omitempty" yaml:"options,omitempty"`
}

// HelpOption describes one magic parameter.
type HelpOption struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
	Type        string `json:"type" yaml:"type"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
}
