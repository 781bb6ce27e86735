package main

import "github.com/spf13/cobra"

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database schema and its data",
	Run:   requireSubcommand,
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
