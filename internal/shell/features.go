package shell

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"magicshell/internal/magic"
)

// Names of the namespaces every session starts with.
const (
	HelpersNamespace = "helpers"
	ShellContext     = "shell"
)

const featuresDoc = `Lists the features of this session.

    Args:
      search: only show entries whose name or docstring contains this keyword
      doc: include full docstrings
      values: include values
      context: list runtime parameters instead of features
`

// buildNamespaces exposes builtin helpers and settings and adds the
// features magic that lists them.
func (h *Handler) buildNamespaces(settings map[string]any) error {
	helpers, err := h.root.AddNamespace(HelpersNamespace, "Helper functions available in every session.")
	if err != nil {
		return err
	}
	for _, info := range h.registry.Helpers() {
		helper, ok := h.registry.GetHelper(info.Name)
		if !ok {
			continue
		}
		if err := helpers.AddFunction(info.Name, helper.Fn); err != nil {
			return fmt.Errorf("exposing helper %s: %w", info.Name, err)
		}
	}

	shellCtx, err := h.context.AddNamespace(ShellContext, "Settings of the running shell.")
	if err != nil {
		return err
	}
	if err := shellCtx.Add("cell_terminator", h.terminator); err != nil {
		return err
	}
	for _, key := range slices.Sorted(maps.Keys(settings)) {
		if err := shellCtx.Add(key, settings[key]); err != nil {
			return fmt.Errorf("exposing setting %s: %w", key, err)
		}
	}

	_, err = h.root.AddLineMagic(magic.Definition{
		Name: "features",
		Doc:  featuresDoc,
		Params: []magic.Param{
			magic.Opt("search", ""),
			magic.Opt("doc", false),
			magic.Opt("values", false),
			magic.Opt("context", false),
		},
		Fn: h.listFeatures,
	}, "")
	return err
}

func (h *Handler) listFeatures(_ context.Context, args magic.Args) (any, error) {
	if args.Bool("context") {
		if keyword := args.String("search"); keyword != "" {
			return h.context.Search(keyword), nil
		}
		return h.context.Table(args.Bool("doc"), args.Bool("values")), nil
	}
	if keyword := args.String("search"); keyword != "" {
		return h.root.Search(keyword), nil
	}
	return h.root.Table(args.Bool("doc"), args.Bool("values")), nil
}
