package state

import (
	"fmt"
	"sort"
	"sync"

	"magicshell/pkg/magictypes"
)

// Environment is an in-memory magictypes.Host. The interactive shell uses it
// as the user's variable namespace.
type Environment struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]any)}
}

// Bind implements magictypes.Host.
func (e *Environment) Bind(name string, value any) error {
	if name == "" {
		return fmt.Errorf("cannot bind an empty name")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.values[name] = value
	return nil
}

// Lookup implements magictypes.Host.
func (e *Environment) Lookup(name string) (any, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", magictypes.ErrNameNotBound, name)
	}
	return v, nil
}

// Remove implements magictypes.Host.
func (e *Environment) Remove(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.values[name]; !ok {
		return fmt.Errorf("%w: %s", magictypes.ErrNameNotBound, name)
	}
	delete(e.values, name)
	return nil
}

// Names lists the bound names in sorted order.
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values returns a copy of all bindings.
func (e *Environment) Values() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]any, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}
