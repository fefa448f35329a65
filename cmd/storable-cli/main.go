package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	configFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to config file (defaults to ./config.yaml)",
		},
		&cli.BoolFlag{
			Name:    "prompt-password",
			Aliases: []string{"p"},
			Usage:   "Prompt for the badger encryption password",
		},
	}

	app := &cli.Command{
		Name:  "storable-cli",
		Usage: "Inspect and manage typed entries in a storable backing store",
		Flags: configFlags,
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Print the entry stored under a key as JSON",
				ArgsUsage: "<key>",
				Action:    getEntry,
			},
			{
				Name:      "set",
				Usage:     "Store a JSON value under a key using the configured codec",
				ArgsUsage: "<key> <json-value>",
				Action:    setEntry,
			},
			{
				Name:      "clear",
				Usage:     "Remove the entry stored under a key",
				ArgsUsage: "<key>",
				Action:    clearEntry,
			},
			{
				Name:  "backup",
				Usage: "Write an incremental backup of the badger store",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "backup-dir",
						Value: "./backups",
						Usage: "Directory that holds backup files",
					},
					&cli.StringFlag{
						Name:  "name",
						Value: "storable",
						Usage: "Name embedded in backup file names",
					},
				},
				Action: backupStore,
			},
			{
				Name:  "restore",
				Usage: "Rebuild a badger store from every backup in a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "backup-dir",
						Value: "./backups",
						Usage: "Directory that holds backup files",
					},
					&cli.StringFlag{
						Name:     "recovery-path",
						Usage:    "Directory for the restored database",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite recovery-path if it exists",
					},
				},
				Action: restoreStore,
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
