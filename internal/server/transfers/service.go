// Package transfers implements the server-side transfer logic: upload
// sessions, chunk acceptance, finalization into published files, the read
// path, and capability-gated deletion.
package transfers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/adelorme/partage/internal/common"
	"github.com/adelorme/partage/internal/durationx"
	"github.com/adelorme/partage/internal/hashx"
	"github.com/adelorme/partage/internal/logging"
	"github.com/adelorme/partage/internal/server/blob"
	"github.com/adelorme/partage/internal/server/models"
	"github.com/adelorme/partage/internal/server/repositories/files"
	"github.com/google/uuid"
)

// identifierLen is the length of the public read capability.
const identifierLen = 8

type Service struct {
	repo       files.Repository
	blobs      blob.Store
	logger     logging.Logger
	sessionTTL time.Duration
}

func NewService(repo files.Repository, blobs blob.Store, logger logging.Logger, sessionTTL time.Duration) *Service {
	return &Service{
		repo:       repo,
		blobs:      blobs,
		logger:     logger.With("module", "transfers"),
		sessionTTL: sessionTTL,
	}
}

// Open allocates a new write capability and an empty session with a
// provisional expiry, so abandoned sessions get collected like everything
// else.
func (s *Service) Open(ctx context.Context) (models.SecretKey, time.Time, error) {

	key := models.SecretKey(uuid.New().String())
	expiresAt := time.Now().Add(s.sessionTTL)

	if err := s.repo.Create(ctx, key, expiresAt); err != nil {
		return "", time.Time{}, fmt.Errorf("error creating session: %w", err)
	}

	return key, expiresAt, nil
}

// Accept verifies and stores one chunk. The claimed offset is a retry hint
// only; the authoritative offset is assigned inside the repository
// transaction. A re-sent copy of the newest committed chunk claiming that
// chunk's offset is acknowledged with the existing offset and stored
// nowhere twice; identical bytes claiming the next offset are a new part.
func (s *Service) Accept(ctx context.Context, key models.SecretKey, claimedOffset int64, digest string, data []byte) (int64, error) {

	if len(data) > common.MaxChunkSize {
		return 0, common.ErrPayloadTooLarge
	}
	if hashx.Sum(data) != digest {
		return 0, common.ErrHashMismatch
	}

	part := &models.Part{
		Identifier: uuid.New().String(),
		Size:       int64(len(data)),
		Hash:       digest,
	}

	// blob first: a failed row insert leaves at worst an orphan blob,
	// never a row pointing at missing bytes
	if _, err := s.blobs.Put(part.Identifier, bytes.NewReader(data)); err != nil {
		return 0, fmt.Errorf("error storing part bytes: %w", err)
	}

	offset, retry, err := s.repo.AppendPart(ctx, key, part, claimedOffset, time.Now())
	if err != nil || retry {
		if delErr := s.blobs.Delete(part.Identifier); delErr != nil {
			s.logger.Error(ctx, "failed to remove unused blob", "part", part.Identifier, "error", delErr)
		}
	}
	if err != nil {
		return 0, err
	}

	if claimedOffset != 0 && claimedOffset != offset {
		s.logger.Warn(ctx, "client offset hint differs from assigned offset",
			"claimed", claimedOffset, "assigned", offset)
	}

	return offset, nil
}

// Status returns the authoritative resume point of an open session.
func (s *Service) Status(ctx context.Context, key models.SecretKey) (*models.PartStatus, error) {
	return s.repo.Status(ctx, key)
}

// Finalize closes the session and publishes it under a fresh read
// capability.
func (s *Service) Finalize(ctx context.Context, key models.SecretKey, name, expireSpec string, maxDownloads int64) (models.FileID, time.Time, error) {

	if expireSpec == "" {
		expireSpec = common.DefaultExpirySpec
	}
	ttl, err := durationx.Parse(expireSpec)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", common.ErrInvalidExpiry, err)
	}

	if maxDownloads <= 0 {
		maxDownloads = common.DefaultMaxDownloads
	}

	id := models.FileID(uuid.New().String()[:identifierLen])
	expiresAt := time.Now().Add(ttl)

	if err := s.repo.Finalize(ctx, key, id, name, expiresAt, maxDownloads); err != nil {
		return "", time.Time{}, err
	}

	return id, expiresAt, nil
}

// Info returns a published file and its ordered part list, charging the
// access against the download quota.
func (s *Service) Info(ctx context.Context, id models.FileID) (*models.File, []models.Part, error) {
	return s.repo.GetByIdentifier(ctx, id, time.Now())
}

// OpenPart streams raw part bytes. A part deleted by a concurrent sweep
// surfaces as common.ErrNotFound.
func (s *Service) OpenPart(_ context.Context, partID string) (io.ReadCloser, error) {
	return s.blobs.Get(partID)
}

// Delete removes a file by its write capability: blobs first (logging and
// continuing past individual failures), then the metadata rows atomically.
func (s *Service) Delete(ctx context.Context, key models.SecretKey) error {

	partIDs, err := s.repo.DeleteBySecretKey(ctx, key)
	if err != nil {
		return err
	}

	for _, id := range partIDs {
		if err := s.blobs.Delete(id); err != nil {
			s.logger.Error(ctx, "failed to delete part blob", "part", id, "error", err)
		}
	}

	return nil
}
