package main

import (
	"fmt"
	"strconv"

	"github.com/2beens/fittrack/internal/db"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.MigrateUp(dbParams.ConnString()); err != nil {
			return err
		}
		color.Green("✓ schema is up to date")
		return printVersion()
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down <steps>",
	Short: "Roll back the given number of migrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := strconv.Atoi(args[0])
		if err != nil || steps <= 0 {
			return fmt.Errorf("steps must be a positive number, got [%s]", args[0])
		}
		if err := db.MigrateDown(dbParams.ConnString(), steps); err != nil {
			return err
		}
		color.Yellow("✓ rolled back %d migration(s)", steps)
		return printVersion()
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion()
	},
}

func printVersion() error {
	version, dirty, err := db.MigrationVersion(dbParams.ConnString())
	if err != nil {
		return err
	}
	if dirty {
		color.Red("  schema version %d (dirty)", version)
		return nil
	}
	fmt.Printf("  schema version %s\n", color.New(color.Bold).Sprint(version))
	return nil
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
