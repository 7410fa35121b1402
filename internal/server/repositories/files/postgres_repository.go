package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/adelorme/partage/internal/common"
	"github.com/adelorme/partage/internal/dbx"
	"github.com/adelorme/partage/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, key models.SecretKey, expiresAt time.Time) error {

	query := `INSERT INTO files (secret_key, expires_at) VALUES ($1, $2)`

	_, err := r.db.ExecContext(ctx, query, string(key), expiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Status(ctx context.Context, key models.SecretKey) (*models.PartStatus, error) {

	query := `SELECT p.offset_no, p.hash, p.size, f.total_size
		FROM parts p
		JOIN files f ON f.id = p.file_id
		WHERE f.secret_key = $1 AND f.identifier IS NULL
		ORDER BY p.offset_no DESC
		LIMIT 1`

	st := &models.PartStatus{}
	err := r.db.QueryRowContext(ctx, query, string(key)).
		Scan(&st.Offset, &st.Hash, &st.Size, &st.BytesTotal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query status: %w", err)
	}

	return st, nil
}

func (r *PostgresRepository) AppendPart(ctx context.Context, key models.SecretKey, part *models.Part, claimedOffset int64, now time.Time) (int64, bool, error) {

	var offset int64
	var retry bool

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		// FOR UPDATE serializes appends per session; the expiry filter keeps
		// an append from racing the sweeper's part snapshot
		var fileID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM files WHERE secret_key = $1 AND identifier IS NULL AND expires_at > $2 FOR UPDATE`,
			string(key), now).Scan(&fileID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrNotFound
			}
			return fmt.Errorf("failed to lock session: %w", err)
		}

		var lastOffset int64
		var lastHash string
		err = tx.QueryRowContext(ctx,
			`SELECT offset_no, hash FROM parts WHERE file_id = $1 ORDER BY offset_no DESC LIMIT 1`,
			fileID).Scan(&lastOffset, &lastHash)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to query last part: %w", err)
		}

		// a retry is a re-sent copy of the newest chunk claiming its offset;
		// the same bytes claiming the next offset are a new part
		if lastOffset > 0 && lastHash == part.Hash && claimedOffset == lastOffset {
			offset = lastOffset
			retry = true
			return nil
		}

		offset = lastOffset + 1

		_, err = tx.ExecContext(ctx,
			`INSERT INTO parts (file_id, identifier, offset_no, size, hash) VALUES ($1, $2, $3, $4, $5)`,
			fileID, part.Identifier, offset, part.Size, part.Hash)
		if err != nil {
			return fmt.Errorf("failed to insert part: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE files SET total_size = total_size + $1 WHERE id = $2`,
			part.Size, fileID)
		if err != nil {
			return fmt.Errorf("failed to update total size: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, false, err
	}

	part.Offset = offset
	return offset, retry, nil
}

func (r *PostgresRepository) Finalize(ctx context.Context, key models.SecretKey, id models.FileID, name string, expiresAt time.Time, maxDownloads int64) error {

	query := `UPDATE files
		SET identifier = $2, name = $3, expires_at = $4, max_downloads = $5
		WHERE secret_key = $1 AND identifier IS NULL`

	res, err := r.db.ExecContext(ctx, query, string(key), string(id), name, expiresAt, maxDownloads)
	if err != nil {
		return fmt.Errorf("failed to finalize session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) GetByIdentifier(ctx context.Context, id models.FileID, now time.Time) (*models.File, []models.Part, error) {

	file := &models.File{Identifier: id}
	var parts []models.Part

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		err := tx.QueryRowContext(ctx,
			`SELECT id, name, total_size, expires_at, max_downloads, download_count
			FROM files
			WHERE identifier = $1 AND expires_at > $2 AND download_count < max_downloads
			FOR UPDATE`,
			string(id), now).
			Scan(&file.ID, &file.Name, &file.TotalSize, &file.ExpiresAt, &file.MaxDownloads, &file.DownloadCount)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrNotFound
			}
			return fmt.Errorf("failed to query file: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE files SET download_count = download_count + 1 WHERE id = $1`, file.ID)
		if err != nil {
			return fmt.Errorf("failed to count download: %w", err)
		}

		rows, err := tx.QueryContext(ctx,
			`SELECT identifier, offset_no, size, hash FROM parts WHERE file_id = $1 ORDER BY offset_no`,
			file.ID)
		if err != nil {
			return fmt.Errorf("failed to query parts: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			p := models.Part{FileID: file.ID}
			if err := rows.Scan(&p.Identifier, &p.Offset, &p.Size, &p.Hash); err != nil {
				return fmt.Errorf("failed to scan part: %w", err)
			}
			parts = append(parts, p)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, nil, err
	}

	return file, parts, nil
}

func (r *PostgresRepository) DeleteBySecretKey(ctx context.Context, key models.SecretKey) ([]string, error) {

	var partIDs []string

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		var fileID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM files WHERE secret_key = $1 FOR UPDATE`, string(key)).Scan(&fileID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrNotFound
			}
			return fmt.Errorf("failed to lock file: %w", err)
		}

		partIDs, err = partIdentifiers(ctx, tx, fileID)
		if err != nil {
			return err
		}

		// parts go with the file via ON DELETE CASCADE
		if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, fileID); err != nil {
			return fmt.Errorf("failed to delete file: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return partIDs, nil
}

func (r *PostgresRepository) ListExpired(ctx context.Context, now time.Time) ([]Expired, error) {

	query := `SELECT id FROM files
		WHERE expires_at <= $1
		   OR (identifier IS NOT NULL AND download_count >= max_downloads)`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired files: %w", err)
	}
	defer rows.Close()

	var fileIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan file id: %w", err)
		}
		fileIDs = append(fileIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	expired := make([]Expired, 0, len(fileIDs))
	for _, fileID := range fileIDs {
		partIDs, err := partIdentifiers(ctx, r.db, fileID)
		if err != nil {
			return nil, err
		}
		expired = append(expired, Expired{FileRowID: fileID, PartIDs: partIDs})
	}

	return expired, nil
}

func (r *PostgresRepository) DeleteFile(ctx context.Context, fileRowID int64) error {

	_, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, fileRowID)
	if err != nil {
		return fmt.Errorf("failed to delete file %d: %w", fileRowID, err)
	}

	return nil
}

func partIdentifiers(ctx context.Context, db dbx.DBTX, fileID int64) ([]string, error) {

	rows, err := db.QueryContext(ctx,
		`SELECT identifier FROM parts WHERE file_id = $1 ORDER BY offset_no`, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query part identifiers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan part identifier: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
