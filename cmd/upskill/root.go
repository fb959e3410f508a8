package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/upskill/internal/cli"
	"github.com/aretw0/upskill/internal/config"
	"github.com/aretw0/upskill/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "upskill",
	Short: "AI training assessment, recommendation and quote engine",
	Long: `upskill walks a team through a short assessment, recommends a training
track and prices it for the team size and delivery mode.

Configuration is read from --config (YAML), a .env file and UPSKILL_* variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file")
	flags.String("env-file", "", "Path to a .env file (default: ./.env when present)")
	flags.String("catalog", "", "Path to a YAML catalog (default: built-in catalog)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text or json")
}

// loadConfig resolves the configuration and applies the global flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, nil, err
	}
	if v, _ := cmd.Flags().GetString("catalog"); v != "" {
		cfg.CatalogPath = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewWithWriter(os.Stderr, level, cfg.LogFormat)
	return cfg, logger, nil
}

// buildApp loads the configuration and wires the application.
func buildApp(ctx context.Context, cmd *cobra.Command) (*cli.App, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.Build(ctx, cfg, logger)
}
