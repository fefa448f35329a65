// Package storable gives serializable Go types default read, write and clear
// operations against a byte store.
//
// A Storable[T] is bound to one type. Entries are keyed by an explicit key or,
// when the key is empty, by the type's identifier, so two values of the same
// type written without a key share one entry.
//
// Failures are silent: a value that cannot be encoded is not written, and an
// entry that is missing or cannot be decoded reads back as the default. Use
// Accessor.Put and Get for the error-returning paths.
package storable

import (
	"reflect"

	"github.com/fystack/storable/pkg/codec"
	"github.com/fystack/storable/pkg/kvstore"
	"github.com/samber/lo"
)

// Identifier may be implemented by a stored type to choose its own default key.
// It is called on the zero value, or on a
// pointer to a zero value when T is a pointer type.
type Identifier interface {
	StorageIdentifier() string
}

type Storable[T any] struct {
	accessor     *Accessor
	identifier   string
	defaultValue *T
	codec        codec.Codec
}

type Option[T any] func(*Storable[T])

// WithIdentifier overrides the key used when none is given.
func WithIdentifier[T any](id string) Option[T] {
	return func(s *Storable[T]) {
		s.identifier = id
	}
}

// WithDefault sets the value Read falls back to.
func WithDefault[T any](value T) Option[T] {
	return func(s *Storable[T]) {
		s.defaultValue = &value
	}
}

func WithCodec[T any](c codec.Codec) Option[T] {
	return func(s *Storable[T]) {
		s.codec = c
	}
}

func New[T any](kv kvstore.KVStore, opts ...Option[T]) *Storable[T] {
	return NewWithAccessor(NewAccessor(kv), opts...)
}

// NewWithAccessor lets several Storables share one Accessor.
func NewWithAccessor[T any](accessor *Accessor, opts ...Option[T]) *Storable[T] {
	s := &Storable[T]{
		accessor: accessor,
		codec:    codec.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.identifier == "" {
		s.identifier = DefaultIdentifier[T]()
	}
	s.codec = codec.OrDefault(s.codec)
	return s
}

// DefaultIdentifier derives the key used for T when no key is given: the
// type's StorageIdentifier if it has one, otherwise its Go type name.
func DefaultIdentifier[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()

	var candidate any = *new(T)
	if t.Kind() == reflect.Pointer {
		// a nil pointer cannot be trusted with a value-receiver method
		candidate = reflect.New(t.Elem()).Interface()
	}
	if id, ok := candidate.(Identifier); ok {
		if name := id.StorageIdentifier(); name != "" {
			return name
		}
	}

	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

func (s *Storable[T]) Identifier() string {
	return s.identifier
}

// DefaultValue returns the declared fallback, if any.
func (s *Storable[T]) DefaultValue() (T, bool) {
	if s.defaultValue == nil {
		var zero T
		return zero, false
	}
	return *s.defaultValue, true
}

func (s *Storable[T]) Codec() codec.Codec {
	return s.codec
}

func (s *Storable[T]) resolveKey(key string) string {
	return lo.Ternary(key != "", key, s.identifier)
}

// Write stores value under key, or under the identifier when key is empty.
func (s *Storable[T]) Write(value T, key string) {
	s.accessor.Store(value, s.resolveKey(key), s.codec)
}

// Read returns the value stored under key (or the identifier). When nothing
// usable is stored it returns the default; ok is false only if there is no
// default either.
func (s *Storable[T]) Read(key string) (value T, ok bool) {
	if stored, found := Fetch[T](s.accessor, s.resolveKey(key), s.codec); found {
		return stored, true
	}
	return s.DefaultValue()
}

// Clear removes the entry under key (or the identifier). Clearing a missing
// entry is a no-op.
func (s *Storable[T]) Clear(key string) {
	s.accessor.Remove(s.resolveKey(key))
}

// Of binds value so it can be written or cleared on its own.
func (s *Storable[T]) Of(value T) Item[T] {
	return Item[T]{storable: s, Value: value}
}

// Item is a value bound to the Storable of its type.
type Item[T any] struct {
	storable *Storable[T]
	Value    T
}

func (i Item[T]) Write(key string) {
	i.storable.Write(i.Value, key)
}

// Clear removes the entry for the item's type under key; the item's own value
// is not consulted.
func (i Item[T]) Clear(key string) {
	i.storable.Clear(key)
}
