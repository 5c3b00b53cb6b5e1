// Command shopgenius-cli is the admin tool for the shopping assistant:
// account management and history inspection against the configured store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GitSubham-00/shopgenius-ai-backend/internal/config"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/storage"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "shopgenius-cli",
		Short:        "Admin tool for the shopping assistant backend",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	root.AddCommand(usersCmd())
	root.AddCommand(historyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore connects to the store the API uses. The CLI is useless without
// one, so a disabled store is an error here.
func openStore() (*storage.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Store.Driver == "" {
		return nil, fmt.Errorf("no store configured; set store.driver or STORE_DRIVER")
	}

	return storage.Open(storage.Config{
		Driver:          cfg.Store.Driver,
		SQLitePath:      cfg.Store.SQLite.Path,
		PostgresDSN:     cfg.Store.Postgres.DSN,
		MaxOpenConns:    cfg.Store.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Store.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Store.Postgres.ConnMaxLifetime,
	})
}
