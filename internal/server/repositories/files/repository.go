// Package files persists the metadata rows for upload sessions, published
// files and their parts. It is the sole source of truth for offsets, hashes,
// sizes and expiry.
package files

import (
	"context"
	"time"

	"github.com/adelorme/partage/internal/server/models"
)

// Expired describes one file due for collection together with the blob keys
// of its parts.
type Expired struct {
	FileRowID int64
	PartIDs   []string
}

type Repository interface {
	// Create inserts a fresh unfinalized session row.
	Create(ctx context.Context, key models.SecretKey, expiresAt time.Time) error

	// Status returns the newest part of an open session plus the cumulative
	// byte count, or common.ErrNotFound when the session is unknown,
	// finalized, or has no parts yet.
	Status(ctx context.Context, key models.SecretKey) (*models.PartStatus, error)

	// AppendPart assigns part the next offset of the session and inserts it,
	// all inside one transaction per owner so concurrent appends for the
	// same session serialize and offsets stay gap-free. The call is an
	// idempotent retry only when the incoming hash equals the hash of the
	// newest stored part AND claimedOffset names that part's offset: then no
	// row is inserted, retry is true and the existing offset is returned. A
	// matching hash with a higher claimedOffset is a genuinely new part
	// (consecutive identical chunks are legal). Sessions past expires_at are
	// rejected with common.ErrNotFound so an append can never race a sweep
	// into leaking a blob. Part.Identifier, Size and Hash must be set by the
	// caller; Offset is assigned here.
	AppendPart(ctx context.Context, key models.SecretKey, part *models.Part, claimedOffset int64, now time.Time) (offset int64, retry bool, err error)

	// Finalize publishes an open session: sets identifier, name, expiry and
	// download quota. common.ErrNotFound when the session is unknown or
	// already finalized.
	Finalize(ctx context.Context, key models.SecretKey, id models.FileID, name string, expiresAt time.Time, maxDownloads int64) error

	// GetByIdentifier returns a published, unexpired file with its parts in
	// offset order, counting the access against the download quota.
	// common.ErrNotFound when unknown, expired or over quota.
	GetByIdentifier(ctx context.Context, id models.FileID, now time.Time) (*models.File, []models.Part, error)

	// DeleteBySecretKey removes the file row and its part rows atomically
	// and returns the blob keys of the removed parts.
	DeleteBySecretKey(ctx context.Context, key models.SecretKey) ([]string, error)

	// ListExpired returns files whose expiry has passed, or whose download
	// quota is exhausted, with their part blob keys.
	ListExpired(ctx context.Context, now time.Time) ([]Expired, error)

	// DeleteFile removes one file row and its part rows atomically.
	DeleteFile(ctx context.Context, fileRowID int64) error
}
