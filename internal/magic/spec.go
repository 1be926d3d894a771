// Package magic turns documented Go functions into magics: commands invoked
// with a single text line (plus an optional body) whose argument grammar is
// synthesized from the function's declared parameters and docstring.
package magic

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"magicshell/internal/parser"
	"magicshell/pkg/magictypes"
)

// Kind aliases magictypes.Kind so callers of this package need only one import.
type Kind = magictypes.Kind

// Kinds of magics.
const (
	KindLine = magictypes.KindLine
	KindCell = magictypes.KindCell
)

// CellParam is the reserved name of the parameter receiving a cell body.
const CellParam = magictypes.CellParam

// Spec is the immutable description of one magic, derived from a Definition.
type Spec struct {
	Name         string
	Kind         Kind
	Doc          string
	Required     []string
	Optional     []string
	Defaults     map[string]any
	Types        map[string]magictypes.ArgType
	Descriptions map[string]string
	TypeHints    map[string]string
}

// Build validates def and derives its Spec. name overrides def.Name when non-empty.
// Build has no side effects; registration is a separate step.
func Build(kind Kind, def Definition, name string) (*Spec, error) {
	if name == "" {
		name = def.Name
	}
	if !parser.IsIdentifier(name) {
		return nil, specErrorf(name, "name must be a valid identifier")
	}
	if strings.TrimSpace(def.Doc) == "" {
		return nil, specErrorf(name, "magics have to have a docstring")
	}

	spec := &Spec{
		Name:     name,
		Kind:     kind,
		Doc:      def.Doc,
		Defaults: make(map[string]any),
		Types:    make(map[string]magictypes.ArgType),
	}

	seen := make(map[string]bool, len(def.Params))
	for _, p := range def.Params {
		if !parser.IsIdentifier(p.Name) {
			return nil, specErrorf(name, "parameter %q is not a valid identifier", p.Name)
		}
		if seen[p.Name] {
			return nil, specErrorf(name, "parameter %q declared twice", p.Name)
		}
		seen[p.Name] = true

		switch p.Kind {
		case ParamVarPositional, ParamVarKeyword:
			return nil, specErrorf(name, "magics can't have variadic arguments; got %q", p.Name)
		case ParamKeywordOnly:
			if !p.HasDefault {
				return nil, specErrorf(name, "keyword-only argument %q needs a default value", p.Name)
			}
		}

		typ, ok := magictypes.ArgTypeOf(p.Type)
		if !ok {
			return nil, specErrorf(name, "argument %q has type %s; only bool, int, float64 and string are allowed", p.Name, p.Type)
		}
		spec.Types[p.Name] = typ

		if !p.HasDefault {
			if typ == magictypes.TypeBool {
				return nil, specErrorf(name, "bool argument %q has to have a default value", p.Name)
			}
			spec.Required = append(spec.Required, p.Name)
			continue
		}

		def, err := coerce(typ, p.Default)
		if err != nil {
			return nil, specErrorf(name, "default for %q: %v", p.Name, err)
		}
		spec.Optional = append(spec.Optional, p.Name)
		spec.Defaults[p.Name] = def
	}

	doc := ParseDocstring(def.Doc)
	spec.Descriptions = doc.Descriptions()
	spec.TypeHints = doc.TypeHints()

	if len(def.Params) > 0 && len(spec.Descriptions) == 0 {
		return nil, specErrorf(name, "magics have to have an Args: docstring section describing their arguments")
	}
	for _, p := range def.Params {
		if _, ok := spec.Descriptions[p.Name]; !ok {
			return nil, specErrorf(name, "docstring missing for argument %q", p.Name)
		}
	}

	if kind == KindCell && !spec.IsRequired(CellParam) {
		return nil, specErrorf(name, "cell magics have to have a positional argument called %q", CellParam)
	}

	return spec, nil
}

// ShortDescription is the first line of the docstring.
func (s *Spec) ShortDescription() string {
	return ParseDocstring(s.Doc).Short
}

// IsRequired reports whether name is a required parameter.
func (s *Spec) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Positionals are the required parameters taken from the line, i.e. all but the cell body.
func (s *Spec) Positionals() []string {
	out := make([]string, 0, len(s.Required))
	for _, r := range s.Required {
		if s.Kind == KindCell && r == CellParam {
			continue
		}
		out = append(out, r)
	}
	return out
}

// HasParam reports whether name is declared.
func (s *Spec) HasParam(name string) bool {
	_, ok := s.Types[name]
	return ok
}

// HelpInfo describes the magic for listings.
func (s *Spec) HelpInfo() magictypes.HelpInfo {
	info := magictypes.HelpInfo{
		Command:     s.Name,
		Description: s.ShortDescription(),
		Kind:        s.Kind,
		Usage:       s.Usage(),
	}
	for _, name := range s.Positionals() {
		info.Options = append(info.Options, magictypes.HelpOption{
			Name:        name,
			Description: s.Descriptions[name],
			Required:    true,
			Type:        s.Types[name].String(),
		})
	}
	for _, name := range s.Optional {
		info.Options = append(info.Options, magictypes.HelpOption{
			Name:        name,
			Description: s.Descriptions[name],
			Type:        s.Types[name].String(),
			Default:     cast.ToString(s.Defaults[name]),
		})
	}
	return info
}

// coerce converts v to the Go type backing typ.
func coerce(typ magictypes.ArgType, v any) (any, error) {
	switch typ {
	case magictypes.TypeBool:
		return cast.ToBoolE(v)
	case magictypes.TypeInt:
		return cast.ToIntE(v)
	case magictypes.TypeFloat:
		return cast.ToFloat64E(v)
	case magictypes.TypeString:
		return cast.ToStringE(v)
	default:
		return nil, fmt.Errorf("unsupported type %s", typ)
	}
}
