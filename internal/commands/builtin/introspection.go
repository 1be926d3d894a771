package builtin

import (
	"context"
	"strings"

	"magicshell/internal/commands"
	"magicshell/internal/magic"
)

func newMagicsMagic(env *environment) (*magic.Magic, error) {
	def := magic.Definition{
		Name: "magics",
		Doc: `Provides information about registered magics.

    Args:
      data (str): if empty an overview of all registered magics is
          provided, otherwise the help text of that magic.
`,
		Params: []magic.Param{magic.Opt(magic.LegacyDataParam, "")},
		Fn: func(_ context.Context, args magic.Args) (any, error) {
			name := strings.TrimSpace(args.String(magic.LegacyDataParam))
			if name == "" {
				return commands.InfoTable(env.registry.List()), nil
			}
			entry, ok := env.registry.Get(strings.TrimPrefix(name, "%"))
			if !ok {
				return commands.InfoTable{}, nil
			}
			return entry.Magic.Help(), nil
		},
	}
	return magic.Wrap(magic.KindLine, def, "", env.legacy()...)
}

func newHelpersMagic(env *environment) (*magic.Magic, error) {
	def := magic.Definition{
		Name: "helpers",
		Doc: `Provides information about registered helpers.

    Args:
      data (str): if empty all helpers are listed, otherwise only the
          named one.
`,
		Params: []magic.Param{magic.Opt(magic.LegacyDataParam, "")},
		Fn: func(_ context.Context, args magic.Args) (any, error) {
			all := env.registry.Helpers()
			name := strings.TrimSpace(args.String(magic.LegacyDataParam))
			if name == "" {
				return commands.HelperTable(all), nil
			}
			var filtered commands.HelperTable
			for _, h := range all {
				if h.Name == name {
					filtered = append(filtered, h)
				}
			}
			return filtered, nil
		},
	}
	return magic.Wrap(magic.KindLine, def, "", env.legacy()...)
}

func newLastOutputMagic(env *environment) (*magic.Magic, error) {
	def := magic.Definition{
		Name: "last_output",
		Doc: `Returns the last output from a magic that was executed.

    Args:
      data (str): optional string that does nothing.
`,
		Params: []magic.Param{magic.Opt(magic.LegacyDataParam, "")},
		Fn: func(context.Context, magic.Args) (any, error) {
			out, _ := env.state.LastOutput()
			return out, nil
		},
	}
	return magic.Wrap(magic.KindLine, def, "", env.legacy()...)
}
