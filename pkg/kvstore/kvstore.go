package kvstore

import "errors"

// ErrKeyNotFound is returned by Get when no entry exists for the key.
var ErrKeyNotFound = errors.New("key not found")

// KVStore defines the interface for a string-keyed byte store.
type KVStore interface {
	// Put stores a key-value pair, overwriting any existing entry.
	Put(key string, value []byte) error

	// Get retrieves the value associated with a key. If the key is not found, it returns ErrKeyNotFound.
	Get(key string) ([]byte, error)

	// Delete removes a key-value pair. Deleting a missing key is not an error.
	Delete(key string) error

	// Close closes the key-value store.
	Close() error
}
