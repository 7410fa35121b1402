// Package db wires the metadata store: it opens the connection, runs
// migrations, and hands out repositories.
package db

import (
	"context"
	"database/sql"

	"github.com/adelorme/partage/internal/server/repositories/files"
)

type RepositoryManager interface {
	Conn() *sql.DB
	Files() files.Repository
	RunMigrations(ctx context.Context) error
}
