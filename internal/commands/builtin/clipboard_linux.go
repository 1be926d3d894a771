//go:build linux

package builtin

import "fmt"

// clipboardAvailable indicates if clipboard functionality is available on this platform
const clipboardAvailable = false

func initClipboard() error {
	return fmt.Errorf("clipboard not available on this platform (Linux without X11)")
}

func writeToClipboard(string) error {
	return fmt.Errorf("clipboard not available on this platform (Linux without X11)")
}
