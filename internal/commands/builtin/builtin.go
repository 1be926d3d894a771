// Package builtin provides the magics and helpers every magicshell session starts with.
package builtin

import (
	"fmt"
	"io"

	"magicshell/internal/commands"
	"magicshell/internal/magic"
	"magicshell/internal/state"
)

type constructor func(env *environment) (*magic.Magic, error)

// environment is what the builtin magics close over.
type environment struct {
	registry *commands.Registry
	state    *state.State
	opts     []magic.Option
}

var constructors = []constructor{
	newMagicsMagic,
	newHelpersMagic,
	newLastOutputMagic,
	newCacheSetMagic,
	newCacheGetMagic,
	newCacheDelMagic,
	newVarsMagic,
	newClipMagic,
	newEchoMagic,
	newAssertEqualMagic,
}

// Install wraps and registers every builtin magic and helper. Results are
// recorded in st; help text goes to help.
func Install(reg *commands.Registry, st *state.State, help io.Writer) error {
	env := &environment{
		registry: reg,
		state:    st,
		opts:     []magic.Option{magic.WithSink(st), magic.WithHelpWriter(help)},
	}

	for _, build := range constructors {
		m, err := build(env)
		if err != nil {
			return err
		}
		if err := reg.Register(m); err != nil {
			return fmt.Errorf("failed to register %s magic: %w", m.Name(), err)
		}
	}

	return installHelpers(reg, st)
}

// Names lists the builtin magics in registration order.
func Names() []string {
	return []string{"magics", "helpers", "last_output", "cache_set", "cache_get", "cache_del", "vars", "clip", "echo", "assert_equal"}
}

func (env *environment) legacy() []magic.Option {
	return append(append([]magic.Option{}, env.opts...), magic.WithLegacyParsing(env.registry.Host()))
}
