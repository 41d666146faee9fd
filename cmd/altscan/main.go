package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/panicdrop/altscan/internal/config"
)

const (
	appName = "altscan"
	version = "v1.4.0"
)

var (
	configPath string
	cfg        config.Config
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// A local .env is optional; missing is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "AI-assisted crypto token scanner",
		Version: version,
		Long: `altscan ranks crypto tokens by a weighted composite of narrative
momentum, social hype, network usage and fundamental strength.

Tokens are fetched from a market listings API and scored through an
AI research provider; tokens the provider cannot score fall back to a
rank-anchored estimate so every token stays rankable.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			level, err := zerolog.ParseLevel(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("parse log level: %w", err)
			}
			zerolog.SetGlobalLevel(level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to YAML config file (defaults are built in)")

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPositionCmd())
	rootCmd.AddCommand(newJournalCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
