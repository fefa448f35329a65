package kvstore

import (
	"errors"
	"regexp"
	"strings"

	"github.com/nats-io/nats.go"
)

// natsKeyValue is the subset of nats.KeyValue used here.
type natsKeyValue interface {
	Put(key string, value []byte) (uint64, error)
	Get(key string) (nats.KeyValueEntry, error)
	Delete(key string, opts ...nats.DeleteOpt) error
}

var validNATSKey = regexp.MustCompile(`\A[-/_=\.a-zA-Z0-9]+\z`)

// NATSKVStore keeps entries in a JetStream key-value bucket.
type NATSKVStore struct {
	kv   natsKeyValue
	conn *nats.Conn
}

// NewNATSKVStore wraps a bucket. conn may be nil; when set it is drained on Close.
func NewNATSKVStore(kv natsKeyValue, conn *nats.Conn) *NATSKVStore {
	return &NATSKVStore{kv: kv, conn: conn}
}

func (n *NATSKVStore) Put(key string, value []byte) error {
	_, err := n.kv.Put(encodeNATSKey(key), value)
	return err
}

func (n *NATSKVStore) Get(key string) ([]byte, error) {
	entry, err := n.kv.Get(encodeNATSKey(key))
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return append([]byte{}, entry.Value()...), nil
}

func (n *NATSKVStore) Delete(key string) error {
	err := n.kv.Delete(encodeNATSKey(key))
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (n *NATSKVStore) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Drain()
}

// encodeNATSKey maps arbitrary keys onto what a bucket accepts: the key
// alphabet, no leading or trailing dot and no empty subject token.
func encodeNATSKey(key string) string {
	return escapeKey(key, natsKeyAccepted)
}

func natsKeyAccepted(key string) bool {
	if key == "" || strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".") || strings.Contains(key, "..") {
		return false
	}
	return validNATSKey.MatchString(key)
}
