package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load fixture users and demo content",
	Run:   requireSubcommand,
}

var seedUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Create or reset users",
	Long: `Create or reset users by email.

Without --file one user per role is seeded (admin@example.com,
officer@example.com, viewer@example.com). Existing users keep their id;
their password, name and role are reset and they are reactivated.

Example:
  compliancectl seed users --password 'S3cure-demo!'
  compliancectl seed users --file users.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = seed.DefaultPassword
		}

		users := seed.DefaultUsers(password)
		if file != "" {
			var err error
			users, err = seed.LoadUsersFile(file, password)
			exitOnError("Seeding users failed", err)
		}

		database, err := openDB(false)
		exitOnError("Seeding users failed", err)
		defer closeDB(database)

		res, err := seed.Users(cmd.Context(), database, users)
		exitOnError("Seeding users failed", err)

		rows := make([][]interface{}, 0, len(users))
		for _, u := range users {
			rows = append(rows, []interface{}{u.Email, u.Name, u.Role})
		}
		renderTable([]string{"Email", "Name", "Role"}, rows)
		fmt.Printf("Created %d, updated %d users\n", res.Created, res.Updated)
	},
}

var seedDemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Insert demo systems, training modules and glossary terms",
	Long: `Insert demo systems, training modules and glossary terms that do not
exist yet. Running it again changes nothing.`,
	Run: func(cmd *cobra.Command, args []string) {
		database, err := openDB(false)
		exitOnError("Seeding demo data failed", err)
		defer closeDB(database)

		created, err := seed.Demo(cmd.Context(), database)
		exitOnError("Seeding demo data failed", err)

		printCounts("Created", created)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedUsersCmd)
	seedCmd.AddCommand(seedDemoCmd)

	seedUsersCmd.Flags().StringP("file", "f", "", "YAML file with a users list")
	seedUsersCmd.Flags().String("password", "", "password for users without one (default "+seed.DefaultPassword+")")
}
