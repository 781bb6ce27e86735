package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/glossary"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/seed"
	gormstore "github.com/doodlesbykumbi/aiact-compliance/pkg/server/store/gorm"
)

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Manage the regulatory glossary",
	Run:   requireSubcommand,
}

var termsImportCmd = &cobra.Command{
	Use:   "import <glossary.md>",
	Short: "Import glossary terms from markdown",
	Long: `Import glossary terms from a markdown file.

Every second level heading starts a term. An optional "Article:" and
"Category:" line may follow the heading; the rest is the definition.
Existing terms are updated.

Example:
  compliancectl terms import docs/glossary.md`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := os.ReadFile(args[0])
		exitOnError("Import failed", err)

		entries, err := glossary.Parse(source)
		exitOnError("Import failed", err)

		database, err := openDB(false)
		exitOnError("Import failed", err)
		defer closeDB(database)

		n, err := gormstore.NewTermsStore(database).UpsertTerms(cmd.Context(), seed.TermsFromEntries(entries))
		exitOnError("Import failed", err)

		fmt.Printf("Imported %d terms from %s\n", n, args[0])
	},
}

func init() {
	rootCmd.AddCommand(termsCmd)
	termsCmd.AddCommand(termsImportCmd)
}
