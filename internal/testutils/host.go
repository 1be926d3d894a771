// Package testutils provides shared fixtures for magicshell tests.
package testutils

import (
	"fmt"
	"sort"
	"sync"

	"magicshell/pkg/magictypes"
)

// RecordingHost is an in-memory magictypes.Host that remembers every operation.
type RecordingHost struct {
	mu       sync.Mutex
	values   map[string]any
	Bound    []string
	Removed  []string
	BindErr  error
	Attached bool
}

// NewRecordingHost returns an empty host, optionally pre-populated.
func NewRecordingHost(initial map[string]any) *RecordingHost {
	h := &RecordingHost{values: make(map[string]any), Attached: true}
	for k, v := range initial {
		h.values[k] = v
	}
	return h
}

// Bind stores value under name unless BindErr is set.
func (h *RecordingHost) Bind(name string, value any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.BindErr != nil {
		return h.BindErr
	}
	h.values[name] = value
	h.Bound = append(h.Bound, name)
	return nil
}

// Lookup returns the value bound to name.
func (h *RecordingHost) Lookup(name string) (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", magictypes.ErrNameNotBound, name)
	}
	return v, nil
}

// Remove deletes name.
func (h *RecordingHost) Remove(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.values[name]; !ok {
		return fmt.Errorf("%w: %s", magictypes.ErrNameNotBound, name)
	}
	delete(h.values, name)
	h.Removed = append(h.Removed, name)
	return nil
}

// Names returns the bound names in sorted order.
func (h *RecordingHost) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.values))
	for k := range h.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
