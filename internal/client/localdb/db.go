// Package localdb opens the client's SQLite state database, runs
// migrations, and hands out the local repositories.
package localdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/adelorme/partage/internal/client/migrations"
	"github.com/adelorme/partage/internal/client/repositories/downloads"
	"github.com/adelorme/partage/internal/client/repositories/secrets"
	"github.com/adelorme/partage/internal/client/repositories/uploads"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	Uploads   uploads.Repository
	Downloads downloads.Repository
	Secrets   secrets.Repository
	DB        *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// NewRepositories wraps an already opened and migrated database.
func NewRepositories(db *sql.DB) (*Repositories, error) {
	if db == nil {
		return nil, errors.New("nil database handle")
	}
	return &Repositories{
		Uploads:   uploads.NewSQLiteRepository(db),
		Downloads: downloads.NewSQLiteRepository(db),
		Secrets:   secrets.NewSQLiteRepository(db),
		DB:        db,
	}, nil
}

func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return NewRepositories(db)
}
