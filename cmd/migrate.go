package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/pressly/goose/v3"
	"github.com/rosterly/roster-management/db"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "apply the embedded sql migrations to the database file",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "rollback the latest migration instead of migrating up")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	sqlDB, err := sql.Open("sqlite3", sqliteDSN(cfg.Database.Path))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer sqlDB.Close()

	direction := "up"
	if migrateRollback {
		direction = "down"
	}

	return migrateDB(ctx, sqlDB, direction)
}

func migrateDB(ctx context.Context, sqlDB *sql.DB, direction string) error {
	goose.SetBaseFS(db.Migrations)
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, direction, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("goose %s: %w", direction, err)
	}
	return nil
}
