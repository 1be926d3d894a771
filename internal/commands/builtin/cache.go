package builtin

import (
	"context"

	"magicshell/internal/magic"
)

func newCacheSetMagic(env *environment) (*magic.Magic, error) {
	def := magic.Definition{
		Name: "cache_set",
		Doc: `Stores a value in the shared cache.

    Args:
      key: the cache key
      value: the value to store
`,
		Params: []magic.Param{magic.Arg("key", magic.StringType), magic.Arg("value", magic.StringType)},
		Fn: func(_ context.Context, args magic.Args) (any, error) {
			env.state.CachePut(args.String("key"), args.String("value"))
			return nil, nil
		},
	}
	return magic.Wrap(magic.KindLine, def, "", env.opts...)
}

func newCacheGetMagic(env *environment) (*magic.Magic, error) {
	def := magic.Definition{
		Name: "cache_get",
		Doc: `Reads a value from the shared cache.

    Args:
      key: the cache key
      default: returned when the key is not cached
`,
		Params: []magic.Param{magic.Arg("key", magic.StringType), magic.Opt("default", "")},
		Fn: func(_ context.Context, args magic.Args) (any, error) {
			return env.state.CacheGet(args.String("key"), args["default"]), nil
		},
	}
	return magic.Wrap(magic.KindLine, def, "", env.opts...)
}

func newCacheDelMagic(env *environment) (*magic.Magic, error) {
	def := magic.Definition{
		Name: "cache_del",
		Doc: `Removes a key from the shared cache.

    Args:
      key: the cache key
`,
		Params: []magic.Param{magic.Arg("key", magic.StringType)},
		Fn: func(_ context.Context, args magic.Args) (any, error) {
			env.state.CacheRemove(args.String("key"))
			return nil, nil
		},
	}
	return magic.Wrap(magic.KindLine, def, "", env.opts...)
}
