// Package state holds the process-wide runtime state shared by all magics:
// a key/value cache and the output of the most recent invocation.
package state

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"magicshell/internal/logger"
	"magicshell/pkg/magictypes"
)

// State is the shared runtime state. All mutations go through one mutex so
// readers never see a half-applied RecordOutput.
type State struct {
	id   string
	mu   sync.Mutex
	host magictypes.Host

	cache       map[string]any
	lastOutput  any
	lastCommand string
	hasOutput   bool
}

// Snapshot is a consistent copy of the state at one point in time.
type Snapshot struct {
	ID          string         `yaml:"id"`
	CacheKeys   []string       `yaml:"cache_keys"`
	LastOutput  any            `yaml:"last_output,omitempty"`
	LastCommand string         `yaml:"last_command,omitempty"`
	Cache       map[string]any `yaml:"-"`
}

// New creates an empty State bound to host. A nil host means bindings are dropped.
func New(host magictypes.Host) *State {
	if host == nil {
		host = magictypes.NopHost{}
	}
	return &State{
		id:    uuid.New().String(),
		host:  host,
		cache: make(map[string]any),
	}
}

// ID identifies this State instance.
func (s *State) ID() string { return s.id }

// Host returns the environment results are bound into.
func (s *State) Host() magictypes.Host {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.host
}

// SetHost attaches a different environment. A nil host detaches.
func (s *State) SetHost(host magictypes.Host) {
	if host == nil {
		host = magictypes.NopHost{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.host = host
}

// CachePut stores value under key, replacing any previous value.
func (s *State) CachePut(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = value
}

// CacheGet returns the value under key, or def when the key is absent.
func (s *State) CacheGet(key string, def any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.cache[key]; ok {
		return v
	}
	return def
}

// CacheRemove deletes key. Removing a missing key is a no-op.
func (s *State) CacheRemove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, key)
}

// CacheKeys returns the cached keys in sorted order.
func (s *State) CacheKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cacheKeysLocked()
}

func (s *State) cacheKeysLocked() []string {
	keys := make([]string, 0, len(s.cache))
	for k := range s.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RecordOutput remembers value as the last output of command. When bindTo is
// non-empty the value is also bound in the host under that name and nil is
// returned, so the caller has nothing left to display.
func (s *State) RecordOutput(value any, command string, bindTo string) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastOutput = value
	s.lastCommand = command
	s.hasOutput = true

	if bindTo == "" {
		return value
	}
	if err := s.host.Bind(bindTo, value); err != nil {
		logger.Warn("Unable to bind output", "command", command, "bind", bindTo, "error", err, "state", s.id)
	} else {
		logger.VariableOperation("bind", bindTo)
	}
	return nil
}

// LastOutput returns the most recently recorded value and whether there is one.
func (s *State) LastOutput() (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOutput, s.hasOutput
}

// LastCommand returns the name of the magic that produced LastOutput.
func (s *State) LastCommand() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCommand
}

// Snapshot copies the state under the lock.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache := make(map[string]any, len(s.cache))
	for k, v := range s.cache {
		cache[k] = v
	}
	return Snapshot{
		ID:          s.id,
		CacheKeys:   s.cacheKeysLocked(),
		LastOutput:  s.lastOutput,
		LastCommand: s.lastCommand,
		Cache:       cache,
	}
}
