// Package store persists the simulation snapshot through a small
// key-value abstraction, mirroring the browser-local storage the
// simulator's state model was designed around.
package store

// KV is the backing key-value store. Implementations are in-process and
// synchronous: a Get after a successful Set observes that Set.
type KV interface {
	// Get returns the value for key, and false if the key is absent.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Clear removes every key.
	Clear() error
}
