package storable

import (
	"errors"

	"github.com/fystack/storable/pkg/codec"
	errs "github.com/fystack/storable/pkg/common/errors"
	"github.com/fystack/storable/pkg/kvstore"
	"github.com/fystack/storable/pkg/logger"
)

var (
	// ErrNotFound means no entry exists for the key.
	ErrNotFound = errors.New("entry not found")
	// ErrEncode means the value could not be serialized.
	ErrEncode = errors.New("encode value")
	// ErrDecode means an entry exists but could not be decoded into the target type.
	ErrDecode = errors.New("decode entry")
)

// Accessor moves typed values in and out of a byte store.
type Accessor struct {
	kv kvstore.KVStore
}

func NewAccessor(kv kvstore.KVStore) *Accessor {
	return &Accessor{kv: kv}
}

// Store encodes value and writes it under key. Failures are logged and
// otherwise ignored: the store is left unchanged.
func (a *Accessor) Store(value any, key string, encoder codec.Codec) {
	if err := a.Put(value, key, encoder); err != nil {
		logger.Warn("Dropped write", "key", key, "error", err.Error())
	}
}

// Put is Store that reports why nothing was written.
func (a *Accessor) Put(value any, key string, encoder codec.Codec) error {
	data, err := codec.OrDefault(encoder).Marshal(value)
	if err != nil {
		return errs.Wrapf(errors.Join(ErrEncode, err), "put %q", key)
	}
	if err := a.kv.Put(key, data); err != nil {
		return errs.Wrapf(err, "put %q", key)
	}
	return nil
}

// Remove deletes the entry at key. A missing key is not an error and backing
// store failures are only logged.
func (a *Accessor) Remove(key string) {
	if err := a.kv.Delete(key); err != nil {
		logger.Warn("Failed to remove entry", "key", key, "error", err.Error())
	}
}

// Fetch reads and decodes the entry at key. ok is false when the entry is
// missing or cannot be decoded; a corrupt entry is left in place.
func Fetch[T any](a *Accessor, key string, decoder codec.Codec) (value T, ok bool) {
	value, err := Get[T](a, key, decoder)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("Ignoring unreadable entry", "key", key, "error", err.Error())
		}
		var zero T
		return zero, false
	}
	return value, true
}

// Get is Fetch that tells a missing entry (ErrNotFound) apart from a corrupt
// one (ErrDecode) or a failing backing store.
func Get[T any](a *Accessor, key string, decoder codec.Codec) (T, error) {
	var value T

	data, err := a.kv.Get(key)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return value, errs.Wrapf(ErrNotFound, "get %q", key)
	}
	if err != nil {
		return value, errs.Wrapf(err, "get %q", key)
	}

	if err := codec.OrDefault(decoder).Unmarshal(data, &value); err != nil {
		var zero T
		return zero, errs.Wrapf(errors.Join(ErrDecode, err), "get %q", key)
	}
	return value, nil
}
