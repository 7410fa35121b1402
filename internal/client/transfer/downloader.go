package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/adelorme/partage/internal/client/api"
	"github.com/adelorme/partage/internal/client/models"
	"github.com/adelorme/partage/internal/client/repositories/downloads"
	"github.com/adelorme/partage/internal/common"
	"github.com/adelorme/partage/internal/filex"
	"github.com/adelorme/partage/internal/hashx"
	"github.com/adelorme/partage/internal/logging"
)

type Downloader struct {
	api    *api.Client
	states downloads.Repository
	logger logging.Logger
}

func NewDownloader(client *api.Client, states downloads.Repository, logger logging.Logger) *Downloader {
	return &Downloader{
		api:    client,
		states: states,
		logger: logger.With("module", "downloader"),
	}
}

// Download fetches a published file part by part into destPath, resuming a
// previous run when consistent local state exists. An empty destPath means
// "use the published name"; the path actually written is returned. Every
// part's digest is verified before its bytes reach the destination file.
func (d *Downloader) Download(ctx context.Context, identifier, destPath string) (string, error) {

	st, err := d.resume(ctx, identifier, destPath)
	if err != nil {
		return "", err
	}
	dest := st.DestPath

	flags := os.O_WRONLY | os.O_CREATE
	if st.PartsDone == 0 {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(dest, flags, 0o660)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if st.PartsDone > 0 {
		d.logger.Info(ctx, "resuming download", "identifier", identifier, "parts_done", st.PartsDone)
	}

	for i := st.PartsDone; i < len(st.Parts); i++ {
		part := st.Parts[i]

		data, err := d.api.FetchPart(ctx, part.Identifier)
		if err != nil {
			return "", fmt.Errorf("failed to fetch part %d: %w", part.Offset, err)
		}

		if hashx.Sum(data) != part.Hash {
			return "", fmt.Errorf("part %d digest mismatch: %w", part.Offset, common.ErrIntegrity)
		}
		if int64(len(data)) != part.Size {
			return "", fmt.Errorf("part %d size mismatch: %w", part.Offset, common.ErrIntegrity)
		}

		if _, err := f.Write(data); err != nil {
			return "", err
		}

		st.PartsDone = i + 1
		if err := d.states.Save(ctx, st); err != nil {
			return "", err
		}
	}

	if err := f.Sync(); err != nil {
		return "", err
	}
	got, err := filex.FileSize(dest)
	if err != nil {
		return "", err
	}
	if got != st.TotalSize {
		return "", fmt.Errorf("assembled size %d, expected %d: %w", got, st.TotalSize, common.ErrIntegrity)
	}

	if err := d.states.Delete(ctx, identifier); err != nil {
		d.logger.Warn(ctx, "failed to clear download state", "identifier", identifier, "error", err)
	}

	d.logger.Info(ctx, "download complete", "identifier", identifier, "dest", dest)
	return dest, nil
}

// resume returns the state to continue from. Cached state is only trusted
// when it targets the same destination and the partial file on disk is
// exactly as long as the parts it claims were written; anything else
// discards the cache and starts from the server's part list.
func (d *Downloader) resume(ctx context.Context, identifier, destPath string) (*models.DownloadState, error) {

	st, err := d.states.Get(ctx, identifier)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return d.fresh(ctx, identifier, destPath)
	case err != nil:
		return nil, err
	}

	if destPath == "" {
		destPath = st.DestPath
	}
	onDisk, err := filex.FileSize(destPath)
	if err != nil {
		return nil, err
	}
	if st.DestPath == destPath && onDisk == consumed(st) {
		return st, nil
	}

	d.logger.Warn(ctx, "cached download state inconsistent, starting over", "identifier", identifier)
	if err := d.states.Delete(ctx, identifier); err != nil {
		return nil, err
	}
	return d.fresh(ctx, identifier, destPath)
}

func (d *Downloader) fresh(ctx context.Context, identifier, destPath string) (*models.DownloadState, error) {

	info, err := d.api.FileInfo(ctx, identifier)
	if err != nil {
		return nil, err
	}

	// one FileInfo call serves both name resolution and the part list, so
	// a download charges the quota exactly once
	if destPath == "" {
		destPath = info.File.Name
	}

	st := &models.DownloadState{
		Identifier: identifier,
		DestPath:   destPath,
		Name:       info.File.Name,
		TotalSize:  info.File.FileSize,
		Parts:      make([]models.PartRef, 0, len(info.Parts)),
	}
	for _, p := range info.Parts {
		st.Parts = append(st.Parts, models.PartRef{
			Identifier: p.Identifier,
			Offset:     p.Offset,
			Size:       p.FileSize,
			Hash:       p.Hash,
		})
	}

	if err := d.states.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// consumed is the number of destination-file bytes the first PartsDone
// parts account for.
func consumed(st *models.DownloadState) int64 {
	var total int64
	for i := 0; i < st.PartsDone && i < len(st.Parts); i++ {
		total += st.Parts[i].Size
	}
	return total
}
