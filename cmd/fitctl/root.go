package main

import (
	"context"
	"fmt"

	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	envFlag    string
	configPath string

	dbParams db.NewDBPoolParams
)

var rootCmd = &cobra.Command{
	Use:   "fitctl",
	Short: "FitTrack admin tool",
	Long: `fitctl runs maintenance tasks against the FitTrack database.

  $ fitctl migrate up                          # apply all pending migrations
  $ fitctl migrate down 1                      # roll back one migration
  $ fitctl migrate version                     # show the current schema version
  $ fitctl user create me@example.com secret1  # register a user
  $ fitctl seed categories                     # insert the default categories

Connection settings come from the TOML config (-config, -env); the DB password
from FITTRACK_DB_PASSWORD.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		cfg, err := config.Load(envFlag, configPath)
		if err != nil {
			return err
		}
		secrets, err := config.LoadSecrets()
		if err != nil {
			return err
		}

		dbParams = db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBUser:     cfg.PostgresUser,
			DBPassword: secrets.DBPassword,
			SSLMode:    cfg.PostgresSSL,
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.toml", "path for the TOML config file")
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := db.NewDBPool(ctx, dbParams)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}
