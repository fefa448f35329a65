package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fystack/storable/pkg/constant"
	"github.com/fystack/storable/pkg/kvstore"
	"github.com/fystack/storable/pkg/security"
	"github.com/urfave/cli/v3"
)

func backupStore(ctx context.Context, c *cli.Command) error {
	appConfig, err := loadConfig(c)
	if err != nil {
		return err
	}
	if appConfig.Store == nil || appConfig.Store.Backend != constant.BackendBadger {
		return fmt.Errorf("backup is only supported for the badger backend")
	}

	store, err := kvstore.Open(appConfig)
	if err != nil {
		return err
	}
	defer store.Close()

	executor, err := kvstore.NewBackupExecutor(c.String("name"), store.(*kvstore.BadgerKVStore).DB(), c.String("backup-dir"))
	if err != nil {
		return err
	}
	path, err := executor.Execute()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	if path == "" {
		fmt.Println("No changes since last backup")
		return nil
	}
	fmt.Println("Backup written:", path)
	return nil
}

func restoreStore(ctx context.Context, c *cli.Command) error {
	backupDir := c.String("backup-dir")
	recoveryPath := c.String("recovery-path")

	if _, err := os.Stat(backupDir); os.IsNotExist(err) {
		return fmt.Errorf("backup directory does not exist: %s", backupDir)
	}
	if _, err := os.Stat(recoveryPath); err == nil {
		if !c.Bool("force") {
			return fmt.Errorf("recovery path already exists: %s (use --force to overwrite)", recoveryPath)
		}
		if err := os.RemoveAll(recoveryPath); err != nil {
			return fmt.Errorf("failed to remove existing recovery path: %w", err)
		}
	}

	var encryptionKey []byte
	if c.Bool("prompt-password") {
		password, err := promptPassword("Enter encryption password for the restored store: ")
		if err != nil {
			return err
		}
		encryptionKey = password
		defer security.ZeroBytes(encryptionKey)
	}

	executor, err := kvstore.NewBackupExecutor("restore", nil, backupDir)
	if err != nil {
		return err
	}
	if err := executor.RestoreAll(recoveryPath, encryptionKey); err != nil {
		return fmt.Errorf("recovery failed: %w", err)
	}

	fmt.Println("Restored database is available at:", recoveryPath)
	return nil
}
