package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/config"
)

var configurationCmd = &cobra.Command{
	Use:   "configuration",
	Short: "Inspect the server configuration",
	Run:   requireSubcommand,
}

var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration attributes and their sources",
	Long: `Show configuration attributes and their sources.

The values reflect the current config file and environment, which may
differ from what a running server loaded.

Config file location: /etc/aiact/config/aiact.yml (or AIACT_CONFIG_PATH)

Example:
  compliancectl configuration show
  compliancectl configuration show --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		exitOnError("Failed to show configuration", showConfiguration(output))
	},
}

func init() {
	rootCmd.AddCommand(configurationCmd)
	configurationCmd.AddCommand(configurationShowCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showConfiguration(output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	switch output {
	case "json":
		out, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Println(out)
	case "text":
		fmt.Print(cfg.FormatText())
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
	return nil
}
