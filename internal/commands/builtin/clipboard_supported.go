//go:build !linux

package builtin

import "golang.design/x/clipboard"

// clipboardAvailable indicates if clipboard functionality is available on this platform
const clipboardAvailable = true

func initClipboard() error {
	return clipboard.Init()
}

func writeToClipboard(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
