package kvstore

import (
	"fmt"

	"github.com/fystack/storable/pkg/config"
	"github.com/fystack/storable/pkg/constant"
	"github.com/fystack/storable/pkg/infra"
)

// Open builds the backing store selected by cfg.Store.Backend.
func Open(cfg *config.AppConfig) (KVStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := cfg.Store
	switch store.Backend {
	case constant.BackendMemory:
		db, err := NewInMemoryKVStore()
		if err != nil {
			return nil, err
		}
		return db, nil
	case constant.BackendBadger:
		db, err := NewBadgerKVStore(store.Badger.Path, []byte(store.Badger.Password))
		if err != nil {
			return nil, fmt.Errorf("open badger at %s: %w", store.Badger.Path, err)
		}
		return db, nil
	case constant.BackendConsul:
		client, err := infra.GetConsulClient(store.Consul, cfg.Environment)
		if err != nil {
			return nil, fmt.Errorf("connect consul: %w", err)
		}
		return NewConsulKVStore(client.KV(), store.Consul.Prefix), nil
	case constant.BackendNATS:
		conn, err := infra.GetNATSConnection(store.NATS, cfg.Environment)
		if err != nil {
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		kv, err := infra.GetKeyValueBucket(conn, store.NATS.Bucket)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("bind nats bucket %q: %w", store.NATS.Bucket, err)
		}
		return NewNATSKVStore(kv, conn), nil
	}
	return nil, fmt.Errorf("unsupported store backend %q", store.Backend)
}
