// Package cmd provides the CLI commands for reservation-analysis.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"reservation-analysis/clouds"
	"reservation-analysis/core/engine"
	"reservation-analysis/internal/config"
	"reservation-analysis/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile string
	envFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reservation-analysis",
	Short: "Reconcile Azure VMs against reservations",
	Long: `reservation-analysis compares the virtual machines running in an Azure
subscription with the reservations that apply to it, and reports for every
(VM size, location) bucket whether it is under-reserved, over-reserved or a
perfect match.

Examples:
  reservation-analysis analyze --subscription 00000000-0000-0000-0000-000000000000
  reservation-analysis analyze --format json
  reservation-analysis snapshot capture --out snapshot.yaml
  reservation-analysis analyze --source snapshot --snapshot snapshot.yaml
  reservation-analysis serve --addr :8080`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.hcl, .yaml or .json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// initConfig resolves configuration in order: defaults, config file,
// dotenv, environment. Command flags are applied by each command afterwards.
func initConfig(cmd *cobra.Command, args []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return err
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	return nil
}

// newEngine opens the configured source and wraps it in an engine
func newEngine(cfg *config.Config) (*engine.Engine, error) {
	source, _, err := clouds.FromConfig(cfg, logging.Logger)
	if err != nil {
		return nil, err
	}
	logging.Debug("source selected", zap.String("source", source.Name()))
	return engine.NewEngine(source, engine.ConfigFromAnalysis(cfg.Analysis), logging.Logger), nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "reservation-analysis version %s\n", Version)
	},
}
