package registry

import (
	"sync"
)

// Registry is a thread-safe key-value store with per-key locking.
// Extension registries (cmd, cron, api, graphql) store their entries here
// during init() and lock the key on first Apply — registration after that
// is a programming error and panics at the call site.
type Registry struct {
	values sync.Map
	locked sync.Map
}

// GlobalRegistry is the process-wide registry instance.
var GlobalRegistry = &Registry{}

// SetGlobal stores a value for a key.
func (r *Registry) SetGlobal(key string, value interface{}) {
	r.values.Store(key, value)
}

// GetGlobal returns the value for a key.
func (r *Registry) GetGlobal(key string) (interface{}, bool) {
	return r.values.Load(key)
}

// Lock marks a key immutable. Registrars must check IsLocked before writing.
func (r *Registry) Lock(key string) {
	r.locked.Store(key, true)
}

// IsLocked reports whether a key has been locked.
func (r *Registry) IsLocked(key string) bool {
	v, ok := r.locked.Load(key)
	return ok && v.(bool)
}

// UnlockForTesting clears the lock on a key so tests can re-register.
func (r *Registry) UnlockForTesting(key string) {
	r.locked.Delete(key)
}
