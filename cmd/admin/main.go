package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rutan-admin",
	Short: "Maintenance commands for the agenda service",
	Long: `Maintenance commands for the agenda service database.

Available subcommands:
  migrate     - Create or update the schema
  seed        - Create the first facility head from SEED_ADMIN_*
  create-user - Add a leadership account`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(migrateCmd, seedCmd, createUserCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
