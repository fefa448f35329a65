package kvstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerKVStore_Contract(t *testing.T) {
	store, err := NewBadgerKVStore(filepath.Join(t.TempDir(), "db"), nil)
	require.NoError(t, err)
	defer store.Close()

	runKVStoreContract(t, store)
}

func TestInMemoryKVStore_Contract(t *testing.T) {
	store, err := NewInMemoryKVStore()
	require.NoError(t, err)
	defer store.Close()

	runKVStoreContract(t, store)
}

func TestBadgerKVStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db")
	key := generateRandomKey(32)

	store, err := NewBadgerKVStore(dbPath, key)
	require.NoError(t, err)
	require.NoError(t, store.Put("Settings", []byte(`{"volume":80}`)))
	require.NoError(t, store.Close())

	reopened, err := NewBadgerKVStore(dbPath, key)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get("Settings")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"volume":80}`), value)
}

func TestBadgerKVStore_WrongEncryptionKey(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db")

	store, err := NewBadgerKVStore(dbPath, generateRandomKey(32))
	require.NoError(t, err)
	require.NoError(t, store.Put("Settings", []byte("x")))
	require.NoError(t, store.Close())

	_, err = NewBadgerKVStore(dbPath, generateRandomKey(32))
	assert.Error(t, err)
}

func TestBadgerKVStore_GetReturnsCopy(t *testing.T) {
	store, err := NewInMemoryKVStore()
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put("k", []byte("abc")))
	first, err := store.Get("k")
	require.NoError(t, err)
	first[0] = 'z'

	second, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), second)
}
