package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantlab/stocksim/config"
)

var rootCmd = &cobra.Command{
	Use:   "stocksim",
	Short: "An offline stock-trading simulator",
	Long: `Stocksim is a single-user, offline stock-market simulation.

A fixed catalog of synthetic instruments random-walks on a 30-second
cadence while you buy and sell against a virtual cash balance. Every
trade is journaled and the whole session survives restarts.`,
	SilenceUsage: true,
}

var cfgPath string

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "", "path to config file (YAML or JSON)")
}

// loadConfig returns the config from --config, or the defaults when no
// file was given.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
