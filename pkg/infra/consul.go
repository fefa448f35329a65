package infra

import (
	"time"

	"github.com/avast/retry-go"
	"github.com/fystack/storable/pkg/config"
	"github.com/fystack/storable/pkg/constant"
	"github.com/fystack/storable/pkg/logger"
	"github.com/hashicorp/consul/api"
)

// Connection retry budget shared by consul and nats.
var (
	connectAttempts uint = 5
	connectDelay         = 200 * time.Millisecond
)

// ConsulKV is the subset of *api.KV the consul backing store needs.
type ConsulKV interface {
	Put(kv *api.KVPair, options *api.WriteOptions) (*api.WriteMeta, error)
	Get(key string, options *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
	Delete(key string, options *api.WriteOptions) (*api.WriteMeta, error)
}

func GetConsulClient(cfg *config.ConsulConfig, environment string) (*api.Client, error) {
	apiConfig := api.DefaultConfig()
	if environment == constant.EnvProduction {
		apiConfig.Token = cfg.Token
		if cfg.Username != "" || cfg.Password != "" {
			apiConfig.HttpAuth = &api.HttpBasicAuth{
				Username: cfg.Username,
				Password: cfg.Password,
			}
		}
	}

	apiConfig.Address = cfg.Address
	apiConfig.WaitTime = cfg.WaitTime
	if apiConfig.WaitTime == 0 {
		apiConfig.WaitTime = 10 * time.Second
	}

	logger.Info("Consul config",
		"environment", environment,
		"address", apiConfig.Address,
		"wait_time", apiConfig.WaitTime,
		"token_length", len(apiConfig.Token),
		"http_auth", apiConfig.HttpAuth != nil,
	)

	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, err
	}

	// Ping the Consul server to verify connectivity
	err = retry.Do(
		func() error {
			_, err := client.Status().Leader()
			return err
		},
		retry.Attempts(connectAttempts),
		retry.Delay(connectDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("Consul not reachable, retrying", "attempt", n+1, "address", apiConfig.Address, "error", err.Error())
		}),
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}
