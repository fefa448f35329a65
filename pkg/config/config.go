package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fystack/storable/pkg/constant"
	"github.com/fystack/storable/pkg/logger"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

var supportedBackends = []string{
	constant.BackendBadger,
	constant.BackendMemory,
	constant.BackendConsul,
	constant.BackendNATS,
}

type AppConfig struct {
	Environment string       `mapstructure:"environment"`
	Debug       bool         `mapstructure:"debug"`
	Codec       string       `mapstructure:"codec"`
	Store       *StoreConfig `mapstructure:"store"`
}

type StoreConfig struct {
	Backend string        `mapstructure:"backend"`
	Badger  *BadgerConfig `mapstructure:"badger"`
	Consul  *ConsulConfig `mapstructure:"consul"`
	NATS    *NATSConfig   `mapstructure:"nats"`
}

type BadgerConfig struct {
	Path     string `mapstructure:"path"`
	Password string `mapstructure:"password"`
}

type ConsulConfig struct {
	Address  string        `mapstructure:"address"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Token    string        `mapstructure:"token"`
	Prefix   string        `mapstructure:"prefix"`
	WaitTime time.Duration `mapstructure:"wait_time"`
}

type NATSConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Bucket   string `mapstructure:"bucket"`
}

// MarshalJSONMask renders the config with every secret replaced by asterisks.
func (c AppConfig) MarshalJSONMask() string {
	if c.Store != nil {
		store := *c.Store
		if store.Badger != nil {
			badger := *store.Badger
			badger.Password = mask(badger.Password)
			store.Badger = &badger
		}
		if store.Consul != nil {
			consul := *store.Consul
			consul.Password = mask(consul.Password)
			consul.Token = mask(consul.Token)
			store.Consul = &consul
		}
		if store.NATS != nil {
			nats := *store.NATS
			nats.Password = mask(nats.Password)
			store.NATS = &nats
		}
		c.Store = &store
	}

	bytes, err := json.Marshal(c)
	if err != nil {
		logger.Error("Failed to marshal app config", err)
	}
	return string(bytes)
}

func mask(s string) string {
	return strings.Repeat("*", len(s))
}

// Validate checks that the selected backend is known and has what it needs.
func (c *AppConfig) Validate() error {
	if c.Store == nil {
		return fmt.Errorf("store config is required")
	}
	if !lo.Contains(supportedBackends, c.Store.Backend) {
		return fmt.Errorf("unsupported store backend %q (supported: %s)", c.Store.Backend, strings.Join(supportedBackends, ", "))
	}

	switch c.Store.Backend {
	case constant.BackendBadger:
		if c.Store.Badger == nil || c.Store.Badger.Path == "" {
			return fmt.Errorf("store.badger.path is required")
		}
		if n := len(c.Store.Badger.Password); n != 0 && n != 16 && n != 24 && n != 32 {
			return fmt.Errorf("store.badger.password must be 16, 24 or 32 bytes, got %d", n)
		}
	case constant.BackendConsul:
		if c.Store.Consul == nil || c.Store.Consul.Address == "" {
			return fmt.Errorf("store.consul.address is required")
		}
	case constant.BackendNATS:
		if c.Store.NATS == nil || c.Store.NATS.URL == "" {
			return fmt.Errorf("store.nats.url is required")
		}
		if c.Store.NATS.Bucket == "" {
			return fmt.Errorf("store.nats.bucket is required")
		}
	}
	return nil
}

// InitViperConfig reads the YAML config file. An empty path searches for
// config.yaml in the working directory.
func InitViperConfig(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config") // name of config file (without extension)
		viper.AddConfigPath(".")
	}
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("environment", constant.EnvDevelopment)
	viper.SetDefault("codec", constant.CodecJSON)
	viper.SetDefault("store.backend", constant.BackendBadger)
	viper.SetDefault("store.badger.path", "./db")
	viper.SetDefault("store.consul.address", "localhost:8500")
	viper.SetDefault("store.consul.prefix", "storable")
	viper.SetDefault("store.consul.wait_time", "10s")
	viper.SetDefault("store.nats.url", "nats://localhost:4222")
	viper.SetDefault("store.nats.bucket", "storable")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	logger.Info("Reading config file", "file", viper.ConfigFileUsed())
	return nil
}

func LoadConfig() (*AppConfig, error) {
	return decode(viper.AllSettings())
}

func decode(settings map[string]interface{}) (*AppConfig, error) {
	var config AppConfig
	decoderConfig := &mapstructure.DecoderConfig{
		Result:           &config,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	}

	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return nil, fmt.Errorf("create config decoder: %w", err)
	}

	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &config, nil
}
