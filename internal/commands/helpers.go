package commands

import (
	"fmt"
	"sort"
	"strings"

	"magicshell/internal/magic"
)

// Helper is a plain function published to the user environment alongside the magics.
type Helper struct {
	Name  string
	Help  string
	Fn    any
	Types map[string]string
}

// HelperInfo is one row of the helper listing.
type HelperInfo struct {
	Name      string `json:"name" yaml:"name"`
	Help      string `json:"help" yaml:"help"`
	Arguments string `json:"arguments" yaml:"arguments"`
}

// RegisterHelper publishes fn under name. doc's first line becomes the help
// text; types documents the arguments, name to type.
func (r *Registry) RegisterHelper(name string, fn any, doc string, types map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.helpers[name]; exists {
		return fmt.Errorf("helper %s: %w", name, ErrAlreadyRegistered)
	}
	help := magic.ParseDocstring(doc).Short
	if help == "" {
		help = "No help string supplied."
	}
	if err := r.host.Bind(name, fn); err != nil {
		return fmt.Errorf("binding %s: %w", name, err)
	}
	r.helpers[name] = &Helper{Name: name, Help: help, Fn: fn, Types: types}
	return nil
}

// DeregisterHelper removes the helper and its host binding.
func (r *Registry) DeregisterHelper(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.helpers[name]; !exists {
		return fmt.Errorf("helper %s: %w", name, ErrNotRegistered)
	}
	delete(r.helpers, name)
	_ = r.host.Remove(name)
	return nil
}

// GetHelper retrieves a helper by name.
func (r *Registry) GetHelper(name string) (*Helper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.helpers[name]
	return h, ok
}

// Helpers describes every helper, sorted by name.
func (r *Registry) Helpers() []HelperInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]HelperInfo, 0, len(r.helpers))
	for _, h := range r.helpers {
		keys := make([]string, 0, len(h.Types))
		for k := range h.Types {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		args := make([]string, len(keys))
		for i, k := range keys {
			args[i] = fmt.Sprintf("%s [%s]", k, h.Types[k])
		}
		out = append(out, HelperInfo{Name: h.Name, Help: h.Help, Arguments: strings.Join(args, ", ")})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ClearHelpers removes every helper.
func (r *Registry) ClearHelpers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name := range r.helpers {
		_ = r.host.Remove(name)
	}
	r.helpers = make(map[string]*Helper)
}
