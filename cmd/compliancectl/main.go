package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "compliancectl",
	Short: "EU AI Act compliance service",
	Long: `Run the compliance API server and maintain its database, provider
keys and reference data.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// a missing .env is fine
		_ = godotenv.Load()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
