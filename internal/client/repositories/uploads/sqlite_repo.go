package uploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/adelorme/partage/internal/client/models"
	"github.com/adelorme/partage/internal/common"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, path string) (*models.UploadState, error) {

	query := `SELECT path, secret_key, bytes_sent, last_offset FROM uploads WHERE path = ?`

	st := &models.UploadState{}
	err := r.db.QueryRowContext(ctx, query, path).
		Scan(&st.Path, &st.SecretKey, &st.BytesSent, &st.LastOffset)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query upload state: %w", err)
	}

	return st, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, st *models.UploadState) error {

	query := `INSERT INTO uploads (path, secret_key, bytes_sent, last_offset)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			secret_key = excluded.secret_key,
			bytes_sent = excluded.bytes_sent,
			last_offset = excluded.last_offset`

	_, err := r.db.ExecContext(ctx, query, st.Path, st.SecretKey, st.BytesSent, st.LastOffset)
	if err != nil {
		return fmt.Errorf("failed to upsert upload state: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, path string) error {

	_, err := r.db.ExecContext(ctx, `DELETE FROM uploads WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("failed to delete upload state: %w", err)
	}

	return nil
}
