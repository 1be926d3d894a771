package output

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
)

var (
	globalPrinter *Printer
	globalMu      sync.RWMutex
)

func init() {
	globalPrinter = NewPrinter()
}

// SetGlobalPrinter sets the global printer instance.
func SetGlobalPrinter(printer *Printer) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalPrinter = printer
}

// GetGlobalPrinter returns the current global printer instance.
func GetGlobalPrinter() *Printer {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalPrinter
}

// ConfigureGlobal replaces the global printer with one built from options.
func ConfigureGlobal(options ...Option) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalPrinter = NewPrinter(options...)
}

// Println outputs text with newline using the global printer.
func Println(text string) {
	GetGlobalPrinter().Println(text)
}

// Info outputs informational text using the global printer.
func Info(text string) {
	GetGlobalPrinter().Info(text)
}

// Success outputs success text using the global printer.
func Success(text string) {
	GetGlobalPrinter().Success(text)
}

// Warning outputs warning text using the global printer.
func Warning(text string) {
	GetGlobalPrinter().Warning(text)
}

// Error outputs error text using the global printer.
func Error(text string) {
	GetGlobalPrinter().Error(text)
}

// IsTerminal checks if stdout is a terminal.
func IsTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) == os.ModeCharDevice
}

// SupportsColor reports whether stdout can render at least ANSI colors.
func SupportsColor() bool {
	if !IsTerminal() {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}
