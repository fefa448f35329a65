package kvstore

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/fystack/storable/pkg/logger"
)

// BadgerKVStore is an implementation of the KVStore interface using BadgerDB.
type BadgerKVStore struct {
	db *badger.DB
}

// NewBadgerKVStore opens (or creates) a BadgerDB at dbPath. The encryption key
// is optional; when given it must be 16, 24 or 32 bytes.
func NewBadgerKVStore(dbPath string, encryptionKey []byte) (*BadgerKVStore, error) {
	opts := badger.DefaultOptions(dbPath).
		WithCompression(options.ZSTD).
		WithLogger(newQuietBadgerLogger())
	if len(encryptionKey) > 0 {
		opts = opts.WithEncryptionKey(encryptionKey).WithIndexCacheSize(100 << 20) // 100MB
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	logger.Info("Connected to BadgerDB successfully!", "path", dbPath, "encrypted", len(encryptionKey) > 0)

	return &BadgerKVStore{db: db}, nil
}

// NewInMemoryKVStore creates a BadgerKVStore that keeps everything in memory.
// Entries do not survive Close.
func NewInMemoryKVStore() (*BadgerKVStore, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(newQuietBadgerLogger())

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerKVStore{db: db}, nil
}

// Put stores a key-value pair in the BadgerDB.
func (b *BadgerKVStore) Put(key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Get retrieves the value associated with a key from BadgerDB.
func (b *BadgerKVStore) Get(key string) ([]byte, error) {
	var result []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result = append([]byte{}, val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}

	return result, err
}

// Delete removes a key-value pair from BadgerDB.
func (b *BadgerKVStore) Delete(key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// DB exposes the underlying database for backups.
func (b *BadgerKVStore) DB() *badger.DB {
	return b.db
}

// Close closes the BadgerDB.
func (b *BadgerKVStore) Close() error {
	return b.db.Close()
}
