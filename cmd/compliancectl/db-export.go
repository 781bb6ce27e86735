package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/audit"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/dbexport"
)

var dbExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the database to a JSON or YAML archive",
	Long: `Export the database to a JSON or YAML archive.

Rows are written as stored: provider keys stay sealed with AIACT_DATA_KEY,
so an archive can only be imported by a server using the same key.

Example:
  compliancectl db export -o backup.json
  compliancectl db export --format yaml --tables users,ai_systems`,
	Run: func(cmd *cobra.Command, args []string) {
		out, _ := cmd.Flags().GetString("output")
		format, _ := cmd.Flags().GetString("format")
		tables, _ := cmd.Flags().GetStringSlice("tables")

		exitOnError("Export failed", runExport(cmd.Context(), out, format, tables))
	},
}

var dbImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a database archive",
	Long: `Import an archive written by 'db export'.

Rows whose id already exists are skipped. With --truncate the archive's
tables are emptied first. The whole import runs in one transaction.

Example:
  compliancectl db import backup.json
  compliancectl db import --truncate backup.yaml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		truncate, _ := cmd.Flags().GetBool("truncate")
		format, _ := cmd.Flags().GetString("format")

		exitOnError("Import failed", runImport(cmd.Context(), args[0], format, truncate))
	},
}

func init() {
	dbCmd.AddCommand(dbExportCmd)
	dbCmd.AddCommand(dbImportCmd)

	dbExportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	dbExportCmd.Flags().String("format", "json", "archive format (json or yaml)")
	dbExportCmd.Flags().StringSlice("tables", nil, "tables to export (default all): "+strings.Join(dbexport.Tables, ","))

	dbImportCmd.Flags().Bool("truncate", false, "empty the archive's tables before importing")
	dbImportCmd.Flags().String("format", "", "archive format (detected when empty)")
}

func runExport(ctx context.Context, out, formatName string, tables []string) error {
	format, err := dbexport.ParseFormat(formatName)
	if err != nil {
		return err
	}

	database, err := openDB(false)
	if err != nil {
		return err
	}
	defer closeDB(database)

	var w io.Writer = os.Stdout
	path := "stdout"
	if out != "" {
		f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w, path = f, out
	}

	archive, err := dbexport.Export(ctx, database, w, dbexport.Options{Format: format, Tables: tables})
	event := audit.DataExportEvent{Operation: "export", Path: path, Success: err == nil, ErrorMessage: errString(err)}
	if archive != nil {
		event.ArchiveID = archive.ID
		event.Tables = archive.Counts()
	}
	audit.Log(event)
	if err != nil {
		return err
	}

	if out != "" {
		printCounts("Exported", archive.Counts())
	}
	return nil
}

func runImport(ctx context.Context, path, formatName string, truncate bool) error {
	var format dbexport.Format
	if formatName != "" {
		f, err := dbexport.ParseFormat(formatName)
		if err != nil {
			return err
		}
		format = f
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	database, err := openDB(false)
	if err != nil {
		return err
	}
	defer closeDB(database)

	archive, inserted, err := dbexport.Import(ctx, database, f, dbexport.Options{Format: format, Truncate: truncate})
	event := audit.DataExportEvent{Operation: "import", Path: path, Tables: inserted, Success: err == nil, ErrorMessage: errString(err)}
	if archive != nil {
		event.ArchiveID = archive.ID
	}
	audit.Log(event)
	if err != nil {
		return err
	}

	printCounts("Imported", inserted)
	if skipped := sum(archive.Counts()) - sum(inserted); skipped > 0 {
		fmt.Printf("%d rows already existed and were skipped\n", skipped)
	}
	return nil
}

func printCounts(verb string, counts map[string]int) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]interface{}, 0, len(names))
	for _, name := range names {
		rows = append(rows, []interface{}{name, counts[name]})
	}
	renderTable([]string{"Table", "Rows"}, rows)
	fmt.Printf("%s %d rows\n", verb, sum(counts))
}

func sum(counts map[string]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
