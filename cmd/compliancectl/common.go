package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/datakey"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/db"
)

func loadCipher(required bool) (datakey.Cipher, error) {
	encoded, ok := os.LookupEnv("AIACT_DATA_KEY")
	if !ok || encoded == "" {
		if required {
			return nil, fmt.Errorf("AIACT_DATA_KEY environment variable is required")
		}
		return nil, nil
	}
	cipher, err := datakey.FromBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("bad AIACT_DATA_KEY: %w", err)
	}
	return cipher, nil
}

// openDB connects to DATABASE_URL. The data key is attached when set, and
// must be set when needCipher is true.
func openDB(needCipher bool) (*gorm.DB, error) {
	cipher, err := loadCipher(needCipher)
	if err != nil {
		return nil, err
	}
	return db.Connect(db.Config{Cipher: cipher})
}

func closeDB(database *gorm.DB) {
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func exitOnError(prefix string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", prefix, err)
		os.Exit(1)
	}
}

// requireSubcommand is the Run of command groups invoked without a subcommand.
func requireSubcommand(cmd *cobra.Command, _ []string) {
	var names []string
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() {
			names = append(names, c.Name())
		}
	}
	fmt.Fprintf(os.Stderr, "error: %q requires a subcommand (%s)\n\n", cmd.Name(), strings.Join(names, ", "))
	_ = cmd.Help()
	os.Exit(1)
}
