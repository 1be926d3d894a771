// Package commands provides magic registration and dispatch for magicshell.
// It keeps the set of registered magics and helpers and publishes their direct
// callables into the host environment.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"magicshell/internal/logger"
	"magicshell/internal/magic"
	"magicshell/pkg/magictypes"
)

var (
	// ErrAlreadyRegistered is returned when a name is registered twice.
	ErrAlreadyRegistered = errors.New("already registered")
	// ErrNotRegistered is returned when a name is not in the registry.
	ErrNotRegistered = errors.New("not registered")
)

// FuncSuffix is appended to a magic's name to form its direct-call binding.
const FuncSuffix = "_func"

// DirectFunc is the callable bound in the host as <name>_func. It takes
// keyword arguments instead of a text line.
type DirectFunc func(ctx context.Context, args magic.Args) (any, error)

// Entry is one registered magic.
type Entry struct {
	Name   string
	Magic  *magic.Magic
	Hidden bool
}

// Info is one row of the registry listing.
type Info struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Line        string `json:"line" yaml:"line"`
	Cell        string `json:"cell,omitempty" yaml:"cell,omitempty"`
	Function    string `json:"function" yaml:"function"`
}

// Summary pairs a magic name with its short description.
type Summary struct {
	Name        string
	Description string
}

type registerOptions struct {
	conditional func() bool
	hidden      bool
}

// RegisterOption configures a single Register call.
type RegisterOption func(*registerOptions)

// WithConditional registers the magic only if fn returns true.
func WithConditional(fn func() bool) RegisterOption {
	return func(o *registerOptions) { o.conditional = fn }
}

// Hidden keeps the magic callable but out of List and Summaries.
func Hidden() RegisterOption {
	return func(o *registerOptions) { o.hidden = true }
}

// Registry manages magic registration and lookup.
// It provides thread-safe registration and retrieval of magics by name.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	helpers map[string]*Helper
	host    magictypes.Host
	sink    magic.OutputSink
	log     *log.Logger
}

// NewRegistry creates an empty registry. Direct callables are bound in host
// and their results recorded through sink; either may be nil.
func NewRegistry(host magictypes.Host, sink magic.OutputSink) *Registry {
	if host == nil {
		host = magictypes.NopHost{}
	}
	return &Registry{
		entries: make(map[string]*Entry),
		helpers: make(map[string]*Helper),
		host:    host,
		sink:    sink,
		log:     logger.NewStyledLogger("Registry"),
	}
}

// Host returns the environment the registry binds into.
func (r *Registry) Host() magictypes.Host {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.host
}

// Register adds m to the registry and binds <name>_func in the host.
// A conditional returning false skips registration without error.
func (r *Registry) Register(m *magic.Magic, opts ...RegisterOption) error {
	if m == nil {
		return fmt.Errorf("cannot register a nil magic")
	}
	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.conditional != nil && !o.conditional() {
		r.log.Debug("Skipping magic", "command", m.Name())
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := m.Name()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("magic %s: %w", name, ErrAlreadyRegistered)
	}

	funcName := name + FuncSuffix
	if err := r.host.Bind(funcName, r.directFunc(m, funcName)); err != nil {
		return fmt.Errorf("binding %s: %w", funcName, err)
	}

	r.entries[name] = &Entry{Name: name, Magic: m, Hidden: o.hidden}
	r.log.Debug("Registered magic", "command", name, "kind", m.Kind())
	return nil
}

func (r *Registry) directFunc(m *magic.Magic, funcName string) DirectFunc {
	return func(ctx context.Context, args magic.Args) (any, error) {
		out, err := m.CallArgs(ctx, args)
		if err != nil {
			return nil, err
		}
		if r.sink == nil {
			return out, nil
		}
		return r.sink.RecordOutput(out, funcName, ""), nil
	}
}

// Deregister removes the magic and, best-effort, its host binding.
func (r *Registry) Deregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; !exists {
		return fmt.Errorf("magic %s: %w", name, ErrNotRegistered)
	}
	delete(r.entries, name)
	r.unbind(name)
	return nil
}

// unbind drops the direct callable of name from the host. Callers hold mu.
func (r *Registry) unbind(name string) {
	if err := r.host.Remove(name + FuncSuffix); err != nil {
		r.log.Debug("Direct callable was not bound", "command", name, "error", err)
	}
}

// Get retrieves a magic by name.
func (r *Registry) Get(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, exists := r.entries[name]
	return entry, exists
}

// Names returns every registered name, hidden ones included, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List describes every visible magic, sorted by name.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.entries))
	for _, entry := range r.entries {
		if entry.Hidden {
			continue
		}
		infos = append(infos, infoFor(entry))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func infoFor(entry *Entry) Info {
	info := Info{
		Name:        entry.Name,
		Description: entry.Magic.Spec().ShortDescription(),
		Line:        "%" + entry.Name,
		Function:    entry.Name + FuncSuffix,
	}
	if entry.Magic.Kind() == magic.KindCell {
		info.Cell = "%%" + entry.Name
	}
	return info
}

// Summaries returns (name, short description) pairs of visible magics, sorted.
func (r *Registry) Summaries() []Summary {
	infos := r.List()
	out := make([]Summary, len(infos))
	for i, info := range infos {
		out[i] = Summary{Name: info.Name, Description: info.Description}
	}
	return out
}

// Clear deregisters every magic in one step.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name := range r.entries {
		r.unbind(name)
	}
	r.entries = make(map[string]*Entry)
}

// Invoke runs the named magic. A line magic cannot take a body; a cell magic
// invoked without one gets an empty cell.
func (r *Registry) Invoke(ctx context.Context, name string, line string, body *string) (any, error) {
	entry, exists := r.Get(name)
	if !exists {
		return nil, fmt.Errorf("magic %s: %w", name, ErrNotRegistered)
	}
	if body != nil && entry.Magic.Kind() != magic.KindCell {
		return nil, fmt.Errorf("%s is a line magic and takes no cell body", name)
	}
	return entry.Magic.Call(ctx, line, body)
}
