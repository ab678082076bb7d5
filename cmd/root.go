package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"finance-ledger/internal/config"
	"finance-ledger/internal/database"
	"finance-ledger/internal/ledger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	flagConfig  string
	flagEnvFile string
)

var rootCmd = &cobra.Command{
	Use:           "finance-ledger",
	Short:         "Personal finance ledger",
	Long:          "Accounts, transactions, budgets, savings goals and recurring bills kept consistent per owner.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagEnvFile != "" {
			if err := godotenv.Load(flagEnvFile); err != nil {
				return fmt.Errorf("load env file: %w", err)
			}
			return nil
		}
		// .env is optional
		_ = godotenv.Load()
		return nil
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "Env file loaded before the config (default ./.env if present)")
}

// app is what every subcommand needs: config, logger, database and service.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	db     *gorm.DB
	svc    *ledger.Service
	closer io.Closer
}

// openApp loads configuration, opens the database and runs migrations.
func openApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	logger, closer, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(logger)

	db, err := database.Init(cfg.Database)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	svc := ledger.NewService(db,
		ledger.WithLogger(logger),
		ledger.WithHorizon(cfg.Ledger.DefaultHorizon),
	)
	return &app{cfg: cfg, log: logger, db: db, svc: svc, closer: closer}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.closer.Close()
}
