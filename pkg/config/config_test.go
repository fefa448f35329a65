package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullConfig() AppConfig {
	return AppConfig{
		Environment: "production",
		Codec:       "json",
		Store: &StoreConfig{
			Backend: "consul",
			Badger: &BadgerConfig{
				Path:     "./db",
				Password: "badger_secret_0123456789abcdef!!",
			},
			Consul: &ConsulConfig{
				Address:  "localhost:8500",
				Username: "admin",
				Password: "secret123",
				Token:    "token456",
				Prefix:   "storable",
			},
			NATS: &NATSConfig{
				URL:      "nats://localhost:4222",
				Username: "nats_user",
				Password: "nats_pass",
				Bucket:   "settings",
			},
		},
	}
}

func TestAppConfig_MarshalJSONMask(t *testing.T) {
	config := fullConfig()

	masked := config.MarshalJSONMask()

	assert.Contains(t, masked, "localhost:8500")
	assert.Contains(t, masked, "admin")
	assert.Contains(t, masked, "nats_user")
	assert.Contains(t, masked, "nats://localhost:4222")

	assert.NotContains(t, masked, "secret123")
	assert.NotContains(t, masked, "token456")
	assert.NotContains(t, masked, "nats_pass")
	assert.NotContains(t, masked, "badger_secret")

	assert.Contains(t, masked, strings.Repeat("*", len("secret123")))
	assert.Contains(t, masked, strings.Repeat("*", len("token456")))
}

func TestAppConfig_MarshalJSONMask_DoesNotMutate(t *testing.T) {
	config := fullConfig()

	_ = config.MarshalJSONMask()

	assert.Equal(t, "secret123", config.Store.Consul.Password)
	assert.Equal(t, "nats_pass", config.Store.NATS.Password)
	assert.Equal(t, "badger_secret_0123456789abcdef!!", config.Store.Badger.Password)
}

func TestAppConfig_MarshalJSONMask_PartialConfig(t *testing.T) {
	config := AppConfig{Store: &StoreConfig{Backend: "memory"}}
	assert.NotEmpty(t, config.MarshalJSONMask())

	config = AppConfig{}
	assert.NotEmpty(t, config.MarshalJSONMask())
}

func TestAppConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr string
	}{
		{name: "consul ok", mutate: func(c *AppConfig) {}},
		{name: "memory ok", mutate: func(c *AppConfig) { c.Store.Backend = "memory" }},
		{name: "badger ok", mutate: func(c *AppConfig) { c.Store.Backend = "badger" }},
		{name: "nats ok", mutate: func(c *AppConfig) { c.Store.Backend = "nats" }},
		{
			name:    "missing store",
			mutate:  func(c *AppConfig) { c.Store = nil },
			wantErr: "store config is required",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *AppConfig) { c.Store.Backend = "redis" },
			wantErr: "unsupported store backend",
		},
		{
			name: "badger bad key size",
			mutate: func(c *AppConfig) {
				c.Store.Backend = "badger"
				c.Store.Badger.Password = "short"
			},
			wantErr: "16, 24 or 32 bytes",
		},
		{
			name: "badger without path",
			mutate: func(c *AppConfig) {
				c.Store.Backend = "badger"
				c.Store.Badger.Path = ""
			},
			wantErr: "store.badger.path",
		},
		{
			name:    "consul without address",
			mutate:  func(c *AppConfig) { c.Store.Consul.Address = "" },
			wantErr: "store.consul.address",
		},
		{
			name: "nats without bucket",
			mutate: func(c *AppConfig) {
				c.Store.Backend = "nats"
				c.Store.NATS.Bucket = ""
			},
			wantErr: "store.nats.bucket",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := fullConfig()
			tt.mutate(&config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecode_WeakTypesAndDurations(t *testing.T) {
	config, err := decode(map[string]interface{}{
		"debug": "true",
		"store": map[string]interface{}{
			"backend": "consul",
			"consul": map[string]interface{}{
				"address":   "consul:8500",
				"wait_time": "15s",
			},
		},
	})
	require.NoError(t, err)

	assert.True(t, config.Debug)
	assert.Equal(t, "consul:8500", config.Store.Consul.Address)
	assert.Equal(t, 15*time.Second, config.Store.Consul.WaitTime)
}

func TestInitViperConfig_LoadsFileAndDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
codec: yaml
store:
  backend: memory
`), 0600))

	require.NoError(t, InitViperConfig(path))
	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "yaml", config.Codec)
	assert.Equal(t, "memory", config.Store.Backend)
	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "./db", config.Store.Badger.Path)
	assert.Equal(t, "storable", config.Store.NATS.Bucket)
	assert.Equal(t, 10*time.Second, config.Store.Consul.WaitTime)
	assert.NoError(t, config.Validate())
}

func TestInitViperConfig_MissingFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	err := InitViperConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
