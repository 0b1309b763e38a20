package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/database/postgres"
)

// NewMigrateCmd builds `roofsight migrate` with up/down/status/force
// subcommands. Migrations run against the database named in configuration;
// no planner service is required.
func NewMigrateCmd() *cobra.Command {
	var migrationsPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}

	pathFor := func(cmd *cobra.Command) (dbURL, path string, err error) {
		cliCtx, err := GetCLIContext(cmd)
		if err != nil {
			return "", "", err
		}
		path = migrationsPath
		if path == "" {
			path = cliCtx.Config.Database.MigrationPath
		}
		return postgres.DSN(cliCtx.Config.Database), path, nil
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbURL, path, err := pathFor(cmd)
			if err != nil {
				return err
			}
			if err := postgres.MigrateUp(dbURL, path); err != nil {
				return err
			}
			PrintSuccess(cmd, "migrations applied")
			return nil
		},
	}

	downSteps := 1
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbURL, path, err := pathFor(cmd)
			if err != nil {
				return err
			}
			if err := postgres.MigrateDown(dbURL, path, downSteps); err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("rolled back %d migration(s)", downSteps))
			return nil
		},
	}
	down.Flags().IntVar(&downSteps, "steps", 1, "number of migrations to roll back")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the current migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbURL, path, err := pathFor(cmd)
			if err != nil {
				return err
			}
			version, dirty, err := postgres.MigrationStatus(dbURL, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d  dirty: %t\n", version, dirty)
			return nil
		},
	}

	force := &cobra.Command{
		Use:   "force <version>",
		Short: "Force the migration version after a failed migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("version must be an integer: %w", err)
			}
			dbURL, path, err := pathFor(cmd)
			if err != nil {
				return err
			}
			if err := postgres.ForceMigrationVersion(dbURL, path, version); err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("forced migration version to %d", version))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "migrations directory (default from configuration)")
	cmd.AddCommand(up, down, status, force)
	return cmd
}
