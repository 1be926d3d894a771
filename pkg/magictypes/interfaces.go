// Package magictypes defines the shared types and host contracts used throughout magicshell.
//
// The package is split into logical groupings:
//
// ## Host contract (interfaces.go)
//
//   - Host: the interactive environment a magic binds its results into
//   - NopHost: a Host that does nothing, used when no environment is attached
//
// ## Command types (command_types.go)
//
//   - Kind: line vs. cell magics
//   - ArgType: the primitive argument types a magic may declare
//   - HelpInfo, HelpOption: structured help data for listings and help text
//
// # Usage Patterns
//
// Components that need to expose values to the user take a Host:
//
//	func Publish(h magictypes.Host, v any) error {
//		return h.Bind("result", v)
//	}
//
// and degrade to NopHost when nothing is attached.
package magictypes

import (
	"errors"
	"fmt"
)

// ErrNameNotBound is returned by Host.Lookup and Host.Remove when the name is absent.
var ErrNameNotBound = errors.New("name not bound")

// Host is the live user environment magics publish values into.
// It is the only point of contact between the core and the interactive shell.
type Host interface {
	// Bind exposes value under name, replacing any previous binding.
	Bind(name string, value any) error
	// Lookup resolves a previously bound name.
	Lookup(name string) (any, error)
	// Remove deletes a binding.
	Remove(name string) error
}

// NopHost is a Host that accepts binds and forgets them.
type NopHost struct{}

// Bind discards the value.
func (NopHost) Bind(string, any) error { return nil }

// Lookup always fails since nothing is ever bound.
func (NopHost) Lookup(name string) (any, error) {
	return nil, fmt.Errorf("%w: %s (no host attached)", ErrNameNotBound, name)
}

// Remove is a no-op.
func (NopHost) Remove(string) error { return nil }
