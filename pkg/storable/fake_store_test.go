package storable

import (
	"sync"

	"github.com/fystack/storable/pkg/kvstore"
)

// fakeStore is an in-memory KVStore whose operations can be made to fail.
type fakeStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	puts    int
	failPut error
	failGet error
	failDel error
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string][]byte{}}
}

func (f *fakeStore) Put(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut != nil {
		return f.failPut
	}
	f.puts++
	f.entries[key] = append([]byte{}, value...)
	return nil
}

func (f *fakeStore) Get(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	value, ok := f.entries[key]
	if !ok {
		return nil, kvstore.ErrKeyNotFound
	}
	return append([]byte{}, value...), nil
}

func (f *fakeStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDel != nil {
		return f.failDel
	}
	delete(f.entries, key)
	return nil
}

func (f *fakeStore) Close() error {
	return nil
}

func (f *fakeStore) raw(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.entries[key]
	return value, ok
}
