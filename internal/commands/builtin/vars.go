package builtin

import (
	"context"
	"fmt"
	"reflect"
	"regexp"

	"magicshell/internal/magic"
)

// namedHost is implemented by hosts that can enumerate their bindings.
type namedHost interface {
	Names() []string
}

// VarTable lists host bindings with their Go types.
type VarTable [][]string

// Headers implements output.Tabular.
func (t VarTable) Headers() []string { return []string{"name", "type", "value"} }

// Rows implements output.Tabular.
func (t VarTable) Rows() [][]string { return t }

const maxValueWidth = 60

func newVarsMagic(env *environment) (*magic.Magic, error) {
	def := magic.Definition{
		Name: "vars",
		Doc: `Lists the variables bound in the session.

    Args:
      pattern: only list names matching this regular expression
      funcs: include the <name>_func callables
`,
		Params: []magic.Param{magic.Opt("pattern", ""), magic.Opt("funcs", false)},
		Fn: func(_ context.Context, args magic.Args) (any, error) {
			host := env.registry.Host()
			named, ok := host.(namedHost)
			if !ok {
				return nil, fmt.Errorf("the attached environment cannot list its variables")
			}

			var filter *regexp.Regexp
			if pattern := args.String("pattern"); pattern != "" {
				re, err := regexp.Compile(pattern)
				if err != nil {
					return nil, fmt.Errorf("invalid pattern: %w", err)
				}
				filter = re
			}

			table := VarTable{}
			for _, name := range named.Names() {
				if filter != nil && !filter.MatchString(name) {
					continue
				}
				value, err := host.Lookup(name)
				if err != nil {
					continue
				}
				if !args.Bool("funcs") && isCallable(value) {
					continue
				}
				table = append(table, []string{name, fmt.Sprintf("%T", value), truncate(fmt.Sprintf("%v", value))})
			}
			return table, nil
		},
	}
	return magic.Wrap(magic.KindLine, def, "", env.opts...)
}

func isCallable(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxValueWidth {
		return s
	}
	return string(r[:maxValueWidth-1]) + "…"
}
