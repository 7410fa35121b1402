package files

import (
	"context"
	"sync"
	"time"

	"github.com/adelorme/partage/internal/common"
	"github.com/adelorme/partage/internal/server/models"
)

// MemoryRepository keeps all rows in maps guarded by one mutex; convenient
// for service and handler tests. The mutex gives the same per-owner
// serialization the Postgres implementation gets from row locks.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	files  map[models.SecretKey]*models.File
	parts  map[int64][]models.Part // keyed by file row id
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		files: map[models.SecretKey]*models.File{},
		parts: map[int64][]models.Part{},
	}
}

func (r *MemoryRepository) Create(_ context.Context, key models.SecretKey, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.files[key] = &models.File{
		ID:           r.nextID,
		SecretKey:    key,
		ExpiresAt:    expiresAt,
		MaxDownloads: common.DefaultMaxDownloads,
		CreatedAt:    time.Now(),
	}
	return nil
}

func (r *MemoryRepository) Status(_ context.Context, key models.SecretKey) (*models.PartStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[key]
	if !ok || f.Finalized() {
		return nil, common.ErrNotFound
	}
	parts := r.parts[f.ID]
	if len(parts) == 0 {
		return nil, common.ErrNotFound
	}

	last := parts[len(parts)-1]
	return &models.PartStatus{
		Offset:     last.Offset,
		Hash:       last.Hash,
		Size:       last.Size,
		BytesTotal: f.TotalSize,
	}, nil
}

func (r *MemoryRepository) AppendPart(_ context.Context, key models.SecretKey, part *models.Part, claimedOffset int64, now time.Time) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[key]
	if !ok || f.Finalized() || !f.ExpiresAt.After(now) {
		return 0, false, common.ErrNotFound
	}

	parts := r.parts[f.ID]
	if n := len(parts); n > 0 && parts[n-1].Hash == part.Hash && claimedOffset == parts[n-1].Offset {
		part.Offset = parts[n-1].Offset
		return part.Offset, true, nil
	}

	part.FileID = f.ID
	part.Offset = int64(len(parts)) + 1
	r.parts[f.ID] = append(parts, *part)
	f.TotalSize += part.Size

	return part.Offset, false, nil
}

func (r *MemoryRepository) Finalize(_ context.Context, key models.SecretKey, id models.FileID, name string, expiresAt time.Time, maxDownloads int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[key]
	if !ok || f.Finalized() {
		return common.ErrNotFound
	}

	f.Identifier = id
	f.Name = name
	f.ExpiresAt = expiresAt
	f.MaxDownloads = maxDownloads
	return nil
}

func (r *MemoryRepository) GetByIdentifier(_ context.Context, id models.FileID, now time.Time) (*models.File, []models.Part, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.files {
		if f.Identifier != id {
			continue
		}
		if !f.ExpiresAt.After(now) || f.DownloadCount >= f.MaxDownloads {
			return nil, nil, common.ErrNotFound
		}

		f.DownloadCount++
		copied := *f
		parts := append([]models.Part(nil), r.parts[f.ID]...)
		return &copied, parts, nil
	}

	return nil, nil, common.ErrNotFound
}

func (r *MemoryRepository) DeleteBySecretKey(_ context.Context, key models.SecretKey) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[key]
	if !ok {
		return nil, common.ErrNotFound
	}

	ids := make([]string, 0, len(r.parts[f.ID]))
	for _, p := range r.parts[f.ID] {
		ids = append(ids, p.Identifier)
	}

	delete(r.parts, f.ID)
	delete(r.files, key)
	return ids, nil
}

func (r *MemoryRepository) ListExpired(_ context.Context, now time.Time) ([]Expired, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []Expired
	for _, f := range r.files {
		over := f.Finalized() && f.DownloadCount >= f.MaxDownloads
		if f.ExpiresAt.After(now) && !over {
			continue
		}

		e := Expired{FileRowID: f.ID}
		for _, p := range r.parts[f.ID] {
			e.PartIDs = append(e.PartIDs, p.Identifier)
		}
		expired = append(expired, e)
	}

	return expired, nil
}

func (r *MemoryRepository) DeleteFile(_ context.Context, fileRowID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, f := range r.files {
		if f.ID == fileRowID {
			delete(r.files, key)
			break
		}
	}
	delete(r.parts, fileRowID)
	return nil
}
