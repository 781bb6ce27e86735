package main

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/datakey"
)

var dataKeyCmd = &cobra.Command{
	Use:   "data-key",
	Short: "Manage the data encryption key",
	Run:   requireSubcommand,
}

var dataKeyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a data encryption key",
	Long: `Generate a new Base64-encoded 256 bit key.

Place it in AIACT_DATA_KEY to seal the provider keys stored in the
database. The same command produces a suitable AIACT_JWT_SECRET.

Example:

$ export AIACT_DATA_KEY="$(compliancectl data-key generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := datakey.Generate()
		exitOnError("Failed to generate key", err)
		fmt.Print(base64.StdEncoding.Strict().EncodeToString(key))
	},
}

func init() {
	rootCmd.AddCommand(dataKeyCmd)
	dataKeyCmd.AddCommand(dataKeyGenerateCmd)
}
