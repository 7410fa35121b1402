package downloads

import (
	"context"
	"database/sql"
	"encoding/json"
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

func (r *SQLiteRepository) Get(ctx context.Context, identifier string) (*models.DownloadState, error) {

	query := `SELECT identifier, dest_path, name, total_size, parts_json, parts_done
		FROM downloads WHERE identifier = ?`

	st := &models.DownloadState{}
	var partsJSON string
	err := r.db.QueryRowContext(ctx, query, identifier).
		Scan(&st.Identifier, &st.DestPath, &st.Name, &st.TotalSize, &partsJSON, &st.PartsDone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query download state: %w", err)
	}

	if err := json.Unmarshal([]byte(partsJSON), &st.Parts); err != nil {
		return nil, fmt.Errorf("failed to decode cached part list: %w", err)
	}

	return st, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, st *models.DownloadState) error {

	partsJSON, err := json.Marshal(st.Parts)
	if err != nil {
		return fmt.Errorf("failed to encode part list: %w", err)
	}

	query := `INSERT INTO downloads (identifier, dest_path, name, total_size, parts_json, parts_done)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(identifier) DO UPDATE SET
			dest_path = excluded.dest_path,
			name = excluded.name,
			total_size = excluded.total_size,
			parts_json = excluded.parts_json,
			parts_done = excluded.parts_done`

	_, err = r.db.ExecContext(ctx, query,
		st.Identifier, st.DestPath, st.Name, st.TotalSize, string(partsJSON), st.PartsDone)
	if err != nil {
		return fmt.Errorf("failed to upsert download state: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, identifier string) error {

	_, err := r.db.ExecContext(ctx, `DELETE FROM downloads WHERE identifier = ?`, identifier)
	if err != nil {
		return fmt.Errorf("failed to delete download state: %w", err)
	}

	return nil
}
