package namespace

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"magicshell/internal/commands"
	"magicshell/internal/magic"
)

// Root and context namespace names.
const (
	RootName    = "magicshell"
	ContextName = "magicshell_context"
)

func defaultDoc(key, parent string) string {
	return fmt.Sprintf("`%s` contains all magicshell features of %s", key, parent)
}

// MagicNamespace holds magics and keeps them in sync with a registry.
type MagicNamespace struct {
	*Namespace[*magic.Magic]
	registry *commands.Registry
	opts     []magic.Option
}

// NewMagicNamespace creates a magic namespace registering into registry.
// opts are applied to every magic it wraps.
func NewMagicNamespace(name, doc string, registry *commands.Registry, opts ...magic.Option) *MagicNamespace {
	return &MagicNamespace{
		Namespace: New[*magic.Magic](name, doc),
		registry:  registry,
		opts:      opts,
	}
}

// AddLineMagic wraps def as a line magic, stores it and registers it.
func (n *MagicNamespace) AddLineMagic(def magic.Definition, name string) (*magic.Magic, error) {
	return n.add(magic.KindLine, def, name)
}

// AddCellMagic wraps def as a cell magic, stores it and registers it.
func (n *MagicNamespace) AddCellMagic(def magic.Definition, name string) (*magic.Magic, error) {
	return n.add(magic.KindCell, def, name)
}

func (n *MagicNamespace) add(kind magic.Kind, def magic.Definition, name string) (*magic.Magic, error) {
	m, err := magic.Wrap(kind, def, name, n.opts...)
	if err != nil {
		return nil, err
	}
	if err := n.Add(m.Name(), m); err != nil {
		return nil, err
	}
	if err := n.registry.Register(m); err != nil {
		_ = n.Namespace.Delete(m.Name())
		return nil, err
	}
	return m, nil
}

// Delete removes the magic from the namespace and the registry.
func (n *MagicNamespace) Delete(key string) error {
	if err := n.Namespace.Delete(key); err != nil {
		return err
	}
	return n.registry.Deregister(key)
}

// FeatureNamespace holds plain functions and values.
type FeatureNamespace struct {
	*Namespace[any]
}

// NewFeatureNamespace creates an empty feature namespace.
func NewFeatureNamespace(name, doc string) *FeatureNamespace {
	return &FeatureNamespace{Namespace: New[any](name, doc)}
}

// AddFunction stores fn under name, or under the function's own name when
// name is empty.
func (n *FeatureNamespace) AddFunction(name string, fn any) error {
	if name == "" {
		name = funcName(fn)
	}
	return n.Add(name, fn)
}

// funcName returns the unqualified name of a named function, or "".
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return ""
	}
	full := rf.Name()
	return full[strings.LastIndex(full, ".")+1:]
}

// RootNamespace is the top of the feature tree. Its "magic" entry holds
// every magic added through it.
type RootNamespace struct {
	*FeatureNamespace
	Magic *MagicNamespace
}

// NewRoot creates the root namespace with an empty magic namespace bound
// to registry.
func NewRoot(registry *commands.Registry, opts ...magic.Option) *RootNamespace {
	root := &RootNamespace{
		FeatureNamespace: NewFeatureNamespace(RootName, "Namespace for all magicshell features."),
		Magic:            NewMagicNamespace(joinKey(RootName, "magic"), defaultDoc("magic", RootName), registry, opts...),
	}
	// A fresh namespace always accepts "magic".
	_ = root.Add("magic", root.Magic)
	return root
}

// AddLineMagic adds a line magic to the magic namespace.
func (r *RootNamespace) AddLineMagic(def magic.Definition, name string) (*magic.Magic, error) {
	return r.Magic.AddLineMagic(def, name)
}

// AddCellMagic adds a cell magic to the magic namespace.
func (r *RootNamespace) AddCellMagic(def magic.Definition, name string) (*magic.Magic, error) {
	return r.Magic.AddCellMagic(def, name)
}

// AddNamespace creates and stores a child feature namespace. An empty doc
// gets a default description.
func (r *RootNamespace) AddNamespace(name, doc string) (*FeatureNamespace, error) {
	if doc == "" {
		doc = defaultDoc(name, r.Name())
	}
	child := NewFeatureNamespace(joinKey(r.Name(), name), doc)
	if err := r.Add(name, child); err != nil {
		return nil, err
	}
	return child, nil
}

// FeatureContext holds runtime parameters of one feature.
type FeatureContext struct {
	*Namespace[any]
}

// NewFeatureContext creates an empty context.
func NewFeatureContext(name, doc string) *FeatureContext {
	return &FeatureContext{Namespace: New[any](name, doc)}
}

// RootContext is the top of the context tree.
type RootContext struct {
	*Namespace[*FeatureContext]
}

// NewRootContext creates an empty root context.
func NewRootContext() *RootContext {
	return &RootContext{Namespace: New[*FeatureContext](ContextName, "Context for all magicshell features.")}
}

// AddNamespace creates and stores a child context.
func (r *RootContext) AddNamespace(name, doc string) (*FeatureContext, error) {
	if doc == "" {
		doc = defaultDoc(name, r.Name())
	}
	child := NewFeatureContext(joinKey(r.Name(), name), doc)
	if err := r.Add(name, child); err != nil {
		return nil, err
	}
	return child, nil
}
