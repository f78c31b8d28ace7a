package app

import (
	"context"
	"database/sql"
	"fmt"

	goose "github.com/pressly/goose/v3"

	"github.com/guttosm/pulsefilter/db"
	"github.com/guttosm/pulsefilter/internal/logger"
)

// Migrate applies the embedded goose migrations up to the latest version.
func Migrate(ctx context.Context, conn *sql.DB) error {
	goose.SetBaseFS(db.Migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, conn, db.MigrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, conn)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.L().Info().Int64("version", version).Msg("migrations applied")
	return nil
}
