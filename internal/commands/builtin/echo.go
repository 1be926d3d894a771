package builtin

import (
	"context"
	"strings"

	"magicshell/internal/magic"
)

func newEchoMagic(env *environment) (*magic.Magic, error) {
	def := magic.Definition{
		Name: "echo",
		Doc: `Returns the body of the cell.

    Args:
      cell: the body of the cell
      upper: upper-case the text
      strip: trim surrounding whitespace
`,
		Params: []magic.Param{magic.Cell(), magic.Opt("upper", false), magic.Opt("strip", true)},
		Fn: func(_ context.Context, args magic.Args) (any, error) {
			text := args.String(magic.CellParam)
			if args.Bool("strip") {
				text = strings.TrimSpace(text)
			}
			if args.Bool("upper") {
				text = strings.ToUpper(text)
			}
			return text, nil
		},
	}
	return magic.Wrap(magic.KindCell, def, "", env.opts...)
}
