package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/fystack/storable/pkg/codec"
	"github.com/fystack/storable/pkg/config"
	"github.com/fystack/storable/pkg/constant"
	"github.com/fystack/storable/pkg/kvstore"
	"github.com/fystack/storable/pkg/logger"
	"github.com/fystack/storable/pkg/security"
	"github.com/fystack/storable/pkg/storable"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

func loadConfig(c *cli.Command) (*config.AppConfig, error) {
	if err := config.InitViperConfig(c.String("config")); err != nil {
		return nil, err
	}
	appConfig, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(appConfig.Environment, appConfig.Debug)

	if c.Bool("prompt-password") && appConfig.Store != nil && appConfig.Store.Backend == constant.BackendBadger {
		password, err := promptPassword("Enter badger encryption password: ")
		if err != nil {
			return nil, err
		}
		appConfig.Store.Badger.Password = string(password)
		security.ZeroBytes(password)
	}

	logger.Debug("Loaded config", "config", appConfig.MarshalJSONMask())
	return appConfig, nil
}

func promptPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// openEntries opens the configured backing store and a Storable over untyped
// values, so entries written by any type can be inspected.
func openEntries(c *cli.Command) (*storable.Storable[any], kvstore.KVStore, error) {
	appConfig, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	valueCodec, err := codec.ByName(appConfig.Codec)
	if err != nil {
		return nil, nil, err
	}
	store, err := kvstore.Open(appConfig)
	if err != nil {
		return nil, nil, err
	}
	return storable.New(store, storable.WithCodec[any](valueCodec)), store, nil
}

func requireArgs(c *cli.Command, n int) error {
	if c.Args().Len() != n {
		return fmt.Errorf("expected %d argument(s), got %d", n, c.Args().Len())
	}
	return nil
}

func getEntry(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	entries, store, err := openEntries(c)
	if err != nil {
		return err
	}
	defer store.Close()

	key := c.Args().First()
	value, err := storable.Get[any](storable.NewAccessor(store), key, entries.Codec())
	if errors.Is(err, storable.ErrNotFound) {
		return fmt.Errorf("no entry for key %q", key)
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(jsonCompatible(value), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

func setEntry(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}
	var value any
	if err := json.Unmarshal([]byte(c.Args().Get(1)), &value); err != nil {
		return fmt.Errorf("value is not valid JSON: %w", err)
	}

	entries, store, err := openEntries(c)
	if err != nil {
		return err
	}
	defer store.Close()

	key := c.Args().First()
	if err := storable.NewAccessor(store).Put(value, key, entries.Codec()); err != nil {
		return err
	}
	logger.Info("Stored entry", "key", key, "codec", entries.Codec().Name())
	return nil
}

func clearEntry(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	entries, store, err := openEntries(c)
	if err != nil {
		return err
	}
	defer store.Close()

	entries.Clear(c.Args().First())
	logger.Info("Cleared entry", "key", c.Args().First())
	return nil
}

// jsonCompatible converts the map[string]interface{} trees yaml produces into
// shapes encoding/json accepts.
func jsonCompatible(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = jsonCompatible(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = jsonCompatible(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = jsonCompatible(item)
		}
		return t
	default:
		return v
	}
}
