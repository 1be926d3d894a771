// Package namespace organizes magics, functions and runtime parameters into
// a discoverable tree of ordered, identifier-keyed namespaces.
package namespace

import (
	"fmt"
	"iter"
	"strings"
	"sync"

	"magicshell/internal/parser"
)

// Documented values contribute their docstring to records.
type Documented interface {
	Doc() string
}

// recorder is implemented by every namespace so nested ones flatten into records.
type recorder interface {
	Records(withDoc, withValues bool) []Record
}

// Namespace is an ordered mapping from identifiers to values of type T.
type Namespace[T any] struct {
	name string
	doc  string

	mu     sync.RWMutex
	keys   []string
	values map[string]T
}

// New creates an empty namespace. name is the fully qualified dotted name.
func New[T any](name, doc string) *Namespace[T] {
	return &Namespace[T]{
		name:   name,
		doc:    strings.TrimSpace(doc),
		values: make(map[string]T),
	}
}

// Name returns the fully qualified name.
func (n *Namespace[T]) Name() string { return n.name }

// Doc returns the namespace docstring.
func (n *Namespace[T]) Doc() string { return n.doc }

// Add stores value under key. The key must be a valid identifier not yet present.
func (n *Namespace[T]) Add(key string, value T) error {
	if !parser.IsIdentifier(key) {
		return fmt.Errorf("%w: %q isn't a valid identifier", ErrKey, key)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if _, exists := n.values[key]; exists {
		return &KeyExistsError{Namespace: n.name, Key: key}
	}
	n.keys = append(n.keys, key)
	n.values[key] = value
	return nil
}

// Get returns the value under key or a *KeyMissingError with a suggestion.
func (n *Namespace[T]) Get(key string) (T, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	value, ok := n.values[key]
	if !ok {
		return value, n.missing(key)
	}
	return value, nil
}

// GetOr returns the value under key, or def when it is absent.
func (n *Namespace[T]) GetOr(key string, def T) T {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if value, ok := n.values[key]; ok {
		return value
	}
	return def
}

// Delete removes key or returns a *KeyMissingError with a suggestion.
func (n *Namespace[T]) Delete(key string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.values[key]; !ok {
		return n.missing(key)
	}
	delete(n.values, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
	return nil
}

func (n *Namespace[T]) missing(key string) error {
	return &KeyMissingError{Namespace: n.name, Key: key, Suggestion: closestMatch(key, n.keys)}
}

// Has reports whether key is present.
func (n *Namespace[T]) Has(key string) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	_, ok := n.values[key]
	return ok
}

// Len returns the number of keys.
func (n *Namespace[T]) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.keys)
}

// Keys returns the keys in insertion order.
func (n *Namespace[T]) Keys() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]string(nil), n.keys...)
}

// Values returns the values in insertion order.
func (n *Namespace[T]) Values() []T {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]T, len(n.keys))
	for i, k := range n.keys {
		out[i] = n.values[k]
	}
	return out
}

// All iterates over key/value pairs in insertion order. The iteration works
// on a snapshot, so the namespace may be modified while iterating.
func (n *Namespace[T]) All() iter.Seq2[string, T] {
	keys, values := n.Keys(), n.Values()
	return func(yield func(string, T) bool) {
		for i, k := range keys {
			if !yield(k, values[i]) {
				return
			}
		}
	}
}

// Records flattens the namespace depth-first: one record for the namespace
// itself followed by its entries, with nested namespaces expanded in place.
func (n *Namespace[T]) Records(withDoc, withValues bool) []Record {
	records := []Record{newRecord(n.name, n, withDoc, false)}
	for key, value := range n.All() {
		if strings.HasPrefix(key, "_") {
			continue
		}
		if nested, ok := any(value).(recorder); ok {
			records = append(records, nested.Records(withDoc, withValues)...)
			continue
		}
		records = append(records, newRecord(joinKey(n.name, key), value, withDoc, withValues))
	}
	return records
}

// Table renders the namespace as a printable table.
func (n *Namespace[T]) Table(withDoc, withValues bool) Table {
	return Table{Records: n.Records(withDoc, withValues), WithDoc: withDoc, WithValues: withValues}
}

// Search returns the records whose name or docstring contains keyword.
func (n *Namespace[T]) Search(keyword string) Table {
	var matches []Record
	for _, r := range n.Records(true, false) {
		if strings.Contains(r.Name, keyword) || strings.Contains(r.Doc, keyword) {
			matches = append(matches, r)
		}
	}
	return Table{Records: matches, WithDoc: true}
}

func joinKey(parts ...string) string {
	return strings.Join(parts, ".")
}
