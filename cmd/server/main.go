package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vytor/learnearn/internal/config"
	"github.com/vytor/learnearn/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:          "learnearn",
	Short:        "Learn South African languages and earn simulated CELO",
	SilenceUsage: true,
	// serve is the default
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, accountsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads and validates configuration and installs the default logger.
func setup() (config.Config, *logger.Logger, error) {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		return cfg, log, err
	}
	return cfg, log, nil
}
