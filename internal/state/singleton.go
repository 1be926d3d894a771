package state

import (
	"sync"

	"magicshell/internal/logger"
	"magicshell/pkg/magictypes"
)

var (
	globalState *State
	globalHost  magictypes.Host
	globalMu    sync.Mutex
)

// Get returns the process-wide State, creating it on first use. With refresh
// set, the current instance is replaced by a fresh, empty one.
func Get(refresh bool) *State {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalState == nil || refresh {
		globalState = New(globalHost)
		logger.Debug("Created shared state", "state", globalState.ID())
	}
	return globalState
}

// SetHost sets the environment used by the current and future global states.
func SetHost(host magictypes.Host) {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalHost = host
	if globalState != nil {
		globalState.SetHost(host)
	}
}

// Reset drops the global state and host. Intended for tests.
func Reset() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalState = nil
	globalHost = nil
}
