package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// goose keeps its dialect and filesystem in package globals; configure them
// once for every store in the process.
var (
	gooseOnce sync.Once
	gooseErr  error
)

func configureGoose() {
	gooseOnce.Do(func() {
		goose.SetBaseFS(embedMigrations)
		goose.SetLogger(goose.NopLogger())
		if err := goose.SetDialect("sqlite3"); err != nil {
			gooseErr = fmt.Errorf("set dialect: %w", err)
		}
	})
}

func migrate(ctx context.Context, db *sql.DB) (int64, error) {
	configureGoose()
	if gooseErr != nil {
		return 0, gooseErr
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return 0, fmt.Errorf("run migrations: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}
