package builtin

import (
	"magicshell/internal/commands"
	"magicshell/internal/state"
)

func installHelpers(reg *commands.Registry, st *state.State) error {
	helpers := []struct {
		name  string
		fn    any
		doc   string
		types map[string]string
	}{
		{
			name: "cache_keys",
			fn:   st.CacheKeys,
			doc:  "Lists the keys of the shared cache.",
		},
		{
			name:  "cache_lookup",
			fn:    st.CacheGet,
			doc:   "Returns a cached value or the default.",
			types: map[string]string{"key": "string", "def": "any"},
		},
		{
			name: "last_command",
			fn:   st.LastCommand,
			doc:  "Returns the name of the magic that produced the last output.",
		},
	}

	for _, h := range helpers {
		if err := reg.RegisterHelper(h.name, h.fn, h.doc, h.types); err != nil {
			return err
		}
	}
	return nil
}
