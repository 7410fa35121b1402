// Package transfer implements the resumable upload and download
// controllers on top of the API client and the local state database.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adelorme/partage/internal/client/api"
	"github.com/adelorme/partage/internal/client/models"
	"github.com/adelorme/partage/internal/client/repositories/secrets"
	"github.com/adelorme/partage/internal/client/repositories/uploads"
	"github.com/adelorme/partage/internal/common"
	"github.com/adelorme/partage/internal/hashx"
	"github.com/adelorme/partage/internal/logging"
)

// UploadOptions carries the publish parameters passed through to the
// server on finalize. Zero values mean server defaults.
type UploadOptions struct {
	Name         string
	Expire       string
	MaxDownloads int64
}

type Uploader struct {
	api     *api.Client
	states  uploads.Repository
	secrets secrets.Repository
	logger  logging.Logger
}

func NewUploader(client *api.Client, states uploads.Repository, secrets secrets.Repository, logger logging.Logger) *Uploader {
	return &Uploader{
		api:     client,
		states:  states,
		secrets: secrets,
		logger:  logger.With("module", "uploader"),
	}
}

// Upload sends the file at path in chunks, resuming a previous run when
// local state for the path exists and the server still knows the session.
// On success the file is published and the local state removed.
func (u *Uploader) Upload(ctx context.Context, path string, opts UploadOptions) (*api.PublishedFile, error) {

	st, err := u.resume(ctx, path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if st.BytesSent > 0 {
		if _, err := f.Seek(st.BytesSent, io.SeekStart); err != nil {
			return nil, err
		}
		u.logger.Info(ctx, "resuming upload", "path", path, "bytes_sent", st.BytesSent, "offset", st.LastOffset)
	}

	buf := make([]byte, common.MaxChunkSize)
	for {
		n, err := io.ReadFull(f, buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, err
		}

		chunk := buf[:n]
		committed, err := u.api.SendChunk(ctx, st.SecretKey, st.LastOffset+1, hashx.Sum(chunk), chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to send chunk %d: %w", st.LastOffset+1, err)
		}

		st.LastOffset = committed
		st.BytesSent += int64(n)
		if err := u.states.Save(ctx, st); err != nil {
			return nil, err
		}
	}

	name := opts.Name
	if name == "" {
		name = filepath.Base(path)
	}

	pub, err := u.api.Finalize(ctx, st.SecretKey, name, opts.Expire, opts.MaxDownloads)
	if err != nil {
		return nil, err
	}

	if err := u.secrets.Save(ctx, pub.Identifier, st.SecretKey); err != nil {
		u.logger.Warn(ctx, "failed to record secret key", "identifier", pub.Identifier, "error", err)
	}
	if err := u.states.Delete(ctx, path); err != nil {
		u.logger.Warn(ctx, "failed to clear upload state", "path", path, "error", err)
	}

	u.logger.Info(ctx, "upload published", "path", path, "identifier", pub.Identifier)
	return pub, nil
}

// resume returns the state to continue from. A cached session is validated
// against the server, which is authoritative: a session the server no
// longer knows means the cache is stale and the upload starts over.
func (u *Uploader) resume(ctx context.Context, path string) (*models.UploadState, error) {

	st, err := u.states.Get(ctx, path)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return u.fresh(ctx, path)
	case err != nil:
		return nil, err
	}

	status, err := u.api.Status(ctx, st.SecretKey)
	if errors.Is(err, common.ErrNotFound) {
		u.logger.Warn(ctx, "cached session unknown to server, starting over", "path", path)
		if err := u.states.Delete(ctx, path); err != nil {
			return nil, err
		}
		return u.fresh(ctx, path)
	}
	if err != nil {
		return nil, err
	}

	// the server counts are the truth, not whatever the cache recorded
	st.LastOffset = status.Offset
	st.BytesSent = status.BytesTotal
	return st, nil
}

func (u *Uploader) fresh(ctx context.Context, path string) (*models.UploadState, error) {
	sess, err := u.api.Open(ctx)
	if err != nil {
		return nil, err
	}

	st := &models.UploadState{Path: path, SecretKey: sess.SecretKey}
	if err := u.states.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Remove deletes a published file by its public identifier, using the
// secret key recorded when this client uploaded it.
func (u *Uploader) Remove(ctx context.Context, identifier string) error {

	key, err := u.secrets.Get(ctx, identifier)
	if err != nil {
		return err
	}

	if err := u.api.Delete(ctx, key); err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}

	return u.secrets.Delete(ctx, identifier)
}
