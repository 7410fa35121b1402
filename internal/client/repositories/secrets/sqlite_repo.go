package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/adelorme/partage/internal/common"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, identifier string) (string, error) {

	var secretKey string
	err := r.db.QueryRowContext(ctx,
		`SELECT secret_key FROM secrets WHERE identifier = ?`, identifier).Scan(&secretKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("failed to query secret: %w", err)
	}

	return secretKey, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, identifier, secretKey string) error {

	query := `INSERT INTO secrets (identifier, secret_key)
		VALUES (?, ?)
		ON CONFLICT(identifier) DO UPDATE SET secret_key = excluded.secret_key`

	_, err := r.db.ExecContext(ctx, query, identifier, secretKey)
	if err != nil {
		return fmt.Errorf("failed to upsert secret: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, identifier string) error {

	_, err := r.db.ExecContext(ctx, `DELETE FROM secrets WHERE identifier = ?`, identifier)
	if err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}

	return nil
}
