package magic

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// Func is the body of a magic. It receives fully parsed, typed arguments.
type Func func(ctx context.Context, args Args) (any, error)

// ParamKind tells how a parameter is passed.
type ParamKind int

const (
	// ParamPositional parameters are required unless they have a default.
	ParamPositional ParamKind = iota
	// ParamKeywordOnly parameters can only be given as flags and must have a default.
	ParamKeywordOnly
	// ParamVarPositional is a "rest of the arguments" parameter. Magics may not declare one.
	ParamVarPositional
	// ParamVarKeyword is a "rest of the keyword arguments" parameter. Magics may not declare one.
	ParamVarKeyword
)

// Reflect types accepted for magic parameters.
var (
	StringType = reflect.TypeOf("")
	BoolType   = reflect.TypeOf(false)
	IntType    = reflect.TypeOf(0)
	FloatType  = reflect.TypeOf(0.0)
)

// Param declares one parameter of a magic function.
// A nil Type means the parameter is unannotated and is treated as a string.
type Param struct {
	Name       string
	Kind       ParamKind
	Type       reflect.Type
	Default    any
	HasDefault bool
}

// Definition is what a magic author hands to Build: a name, a docstring with
// an "Args:" section, the ordered parameter list and the function itself.
type Definition struct {
	Name   string
	Doc    string
	Params []Param
	Fn     Func
}

// Arg declares a required positional parameter.
func Arg(name string, typ reflect.Type) Param {
	return Param{Name: name, Kind: ParamPositional, Type: typ}
}

// Cell declares the parameter that receives a cell magic's body.
func Cell() Param {
	return Arg(CellParam, StringType)
}

// Opt declares a defaulted parameter; its type follows the default value.
func Opt(name string, def any) Param {
	return Param{Name: name, Kind: ParamPositional, Type: reflect.TypeOf(def), Default: def, HasDefault: true}
}

// KeywordOnly declares a keyword-only parameter with a default.
func KeywordOnly(name string, def any) Param {
	p := Opt(name, def)
	p.Kind = ParamKeywordOnly
	return p
}

// Args holds the typed keyword arguments of one invocation.
type Args map[string]any

// Has reports whether name was set.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// String returns the named argument as a string.
func (a Args) String(name string) string {
	return cast.ToString(a[name])
}

// Int returns the named argument as an int.
func (a Args) Int(name string) int {
	return cast.ToInt(a[name])
}

// Float returns the named argument as a float64.
func (a Args) Float(name string) float64 {
	return cast.ToFloat64(a[name])
}

// Bool returns the named argument as a bool.
func (a Args) Bool(name string) bool {
	return cast.ToBool(a[name])
}

// Clone returns a shallow copy.
func (a Args) Clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Decode copies the arguments into a struct tagged with `magic:"name"`.
func (a Args) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "magic",
		Result:  out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(map[string]any(a))
}

// FromStruct derives a Definition from the exported fields of struct T.
//
// Each field becomes a parameter named by its `magic` tag (or its lower-cased
// field name). A `default` tag makes the parameter optional; adding ",kwonly"
// to the magic tag makes it keyword-only. Slice and map fields are reported as
// variadic parameters, which Build rejects. Fields tagged `magic:"-"` are skipped.
func FromStruct[T any](name, doc string, fn func(ctx context.Context, args T) (any, error)) (Definition, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return Definition{}, fmt.Errorf("FromStruct needs a struct type, got %s", t)
	}

	params := make([]Param, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("magic")
		if tag == "-" {
			continue
		}
		paramName, options, _ := strings.Cut(tag, ",")
		if paramName == "" {
			paramName = strings.ToLower(field.Name)
		}

		param := Param{Name: paramName, Kind: ParamPositional, Type: field.Type}
		if options == "kwonly" {
			param.Kind = ParamKeywordOnly
		}
		switch field.Type.Kind() {
		case reflect.Slice, reflect.Array:
			param.Kind = ParamVarPositional
		case reflect.Map:
			param.Kind = ParamVarKeyword
		}
		if def, ok := field.Tag.Lookup("default"); ok {
			param.Default = def
			param.HasDefault = true
		}
		params = append(params, param)
	}

	return Definition{
		Name:   name,
		Doc:    doc,
		Params: params,
		Fn: func(ctx context.Context, args Args) (any, error) {
			var in T
			if err := args.Decode(&in); err != nil {
				return nil, fmt.Errorf("decoding arguments for %s: %w", name, err)
			}
			return fn(ctx, in)
		},
	}, nil
}
