package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/cabinet-cpq/internal/config"
	"github.com/Simplici0/cabinet-cpq/internal/db"
	"github.com/Simplici0/cabinet-cpq/internal/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	Long: `Apply the embedded migrations to the configured SQL database.
The Redis backend needs no schema and is left untouched.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	out := cmd.OutOrStdout()

	if cfg.StoreBackend == config.StoreRedis {
		fmt.Fprintln(out, "redis backend: nothing to migrate")
		return nil
	}

	dsn := cfg.DBPath
	if cfg.DBDriver == db.DriverPostgres {
		dsn = cfg.DatabaseURL
	}
	conn, err := db.Open(cfg.DBDriver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	if err := migrations.Up(conn, cfg.DBDriver); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	version, err := migrations.Version(conn, cfg.DBDriver)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	fmt.Fprintf(out, "%s schema at version %d\n", cfg.DBDriver, version)
	return nil
}
