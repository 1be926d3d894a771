package builtin

import (
	"context"
	"fmt"
	"strings"

	"magicshell/internal/logger"
	"magicshell/internal/magic"
)

// ClipboardKey is the cache key used when the system clipboard is unavailable.
const ClipboardKey = "_clipboard"

func newClipMagic(env *environment) (*magic.Magic, error) {
	def := magic.Definition{
		Name: "clip",
		Doc: `Copies text to the system clipboard.

    Args:
      text: the text to copy; defaults to the last output
`,
		Params: []magic.Param{magic.Opt("text", "")},
		Fn: func(_ context.Context, args magic.Args) (any, error) {
			text := args.String("text")
			if strings.TrimSpace(text) == "" {
				last, ok := env.state.LastOutput()
				if !ok || last == nil {
					return "No content specified. Clipboard unchanged.", nil
				}
				text = fmt.Sprintf("%v", last)
			}
			return copyText(env, text), nil
		},
	}
	return magic.Wrap(magic.KindLine, def, "", env.opts...)
}

// copyText writes to the clipboard, falling back to the shared cache.
func copyText(env *environment, text string) string {
	if !clipboardAvailable {
		return fallbackToCache(env, text, "clipboard not available on this platform")
	}
	if err := initClipboard(); err != nil {
		return fallbackToCache(env, text, fmt.Sprintf("clipboard initialization failed: %v", err))
	}
	if err := writeToClipboard(text); err != nil {
		return fallbackToCache(env, text, fmt.Sprintf("failed to write to clipboard: %v", err))
	}
	return fmt.Sprintf("Copied %d characters to clipboard", len(text))
}

func fallbackToCache(env *environment, text, reason string) string {
	logger.Debug("Clipboard fallback", "reason", reason)
	env.state.CachePut(ClipboardKey, text)
	return fmt.Sprintf("Stored %d characters in the %s cache key (%s)", len(text), ClipboardKey, reason)
}
