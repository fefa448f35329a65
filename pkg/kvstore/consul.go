package kvstore

import (
	"strings"

	"github.com/fystack/storable/pkg/infra"
	"github.com/hashicorp/consul/api"
)

// ConsulKVStore keeps entries in Consul's KV store under a common prefix.
type ConsulKVStore struct {
	kv     infra.ConsulKV
	prefix string
}

func NewConsulKVStore(kv infra.ConsulKV, prefix string) *ConsulKVStore {
	return &ConsulKVStore{kv: kv, prefix: strings.Trim(prefix, "/")}
}

func (c *ConsulKVStore) Put(key string, value []byte) error {
	_, err := c.kv.Put(&api.KVPair{Key: c.composeKey(key), Value: value}, nil)
	return err
}

func (c *ConsulKVStore) Get(key string) ([]byte, error) {
	pair, _, err := c.kv.Get(c.composeKey(key), nil)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, ErrKeyNotFound
	}
	return pair.Value, nil
}

func (c *ConsulKVStore) Delete(key string) error {
	_, err := c.kv.Delete(c.composeKey(key), nil)
	return err
}

// Close is a no-op; the consul client has no connection to release.
func (c *ConsulKVStore) Close() error {
	return nil
}

// composeKey places key under the prefix. Empty keys and keys with a leading
// slash, which consul rejects or folds into another key, are stored encoded.
func (c *ConsulKVStore) composeKey(key string) string {
	key = escapeKey(key, consulKeyAccepted)
	if c.prefix == "" {
		return key
	}
	return c.prefix + "/" + key
}

func consulKeyAccepted(key string) bool {
	return key != "" && !strings.HasPrefix(key, "/")
}
