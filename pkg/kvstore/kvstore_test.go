package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runKVStoreContract checks the behavior every backing store must share.
func runKVStoreContract(t *testing.T, store KVStore) {
	t.Helper()

	t.Run("missing key returns ErrKeyNotFound", func(t *testing.T) {
		value, err := store.Get("never-written")
		assert.ErrorIs(t, err, ErrKeyNotFound)
		assert.Nil(t, value)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, store.Put("Settings", []byte(`{"volume":80}`)))

		value, err := store.Get("Settings")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"volume":80}`), value)
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, store.Put("Settings", []byte(`{"volume":10}`)))

		value, err := store.Get("Settings")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"volume":10}`), value)
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, store.Put("profileA", []byte("a")))
		require.NoError(t, store.Put("profileB", []byte("b")))
		require.NoError(t, store.Delete("profileA"))

		_, err := store.Get("profileA")
		assert.ErrorIs(t, err, ErrKeyNotFound)

		value, err := store.Get("profileB")
		require.NoError(t, err)
		assert.Equal(t, []byte("b"), value)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Delete("Settings"))
		require.NoError(t, store.Delete("Settings"))
		require.NoError(t, store.Delete("never-written"))

		_, err := store.Get("Settings")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("empty value round trips", func(t *testing.T) {
		require.NoError(t, store.Put("empty", []byte{}))

		value, err := store.Get("empty")
		require.NoError(t, err)
		assert.Empty(t, value)
	})
}
