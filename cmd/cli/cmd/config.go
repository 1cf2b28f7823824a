// Package cmd - config command
package cmd

import (
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"reservation-analysis/internal/config"
)

var configShowJSON bool

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// configShowCmd prints the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration after file and environment overrides",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if configShowJSON {
			data, err = json.MarshalIndent(config.Get(), "", "  ")
		} else {
			data, err = yaml.Marshal(config.Get())
		}
		if err != nil {
			return err
		}
		if configShowJSON {
			data = append(data, '\n')
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// configValidateCmd checks the effective configuration
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the configuration is complete enough to run an analysis",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Get().Validate(); err != nil {
			return err
		}
		cmd.Println("configuration is valid")
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "print as JSON")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}
