// Package sweeper reclaims storage and metadata for expired files. It runs
// on a fixed interval independent of request traffic.
package sweeper

import (
	"context"
	"time"

	"github.com/adelorme/partage/internal/logging"
	"github.com/adelorme/partage/internal/server/blob"
	"github.com/adelorme/partage/internal/server/repositories/files"
)

type Sweeper struct {
	repo     files.Repository
	blobs    blob.Store
	logger   logging.Logger
	interval time.Duration
}

func New(repo files.Repository, blobs blob.Store, logger logging.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		repo:     repo,
		blobs:    blobs,
		logger:   logger.With("module", "sweeper"),
		interval: interval,
	}
}

// Run ticks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info(ctx, "starting expiry sweeper", "interval", s.interval.String())

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(ctx)
		case <-ctx.Done():
			s.logger.Info(ctx, "stopping expiry sweeper")
			return
		}
	}
}

// SweepOnce collects every file whose expiry has passed or whose download
// quota is exhausted: blobs are removed first (a missing blob is not fatal
// to the sweep), then the file and part rows go in one transaction per
// file. A failure on one file never aborts the sweep of the others.
func (s *Sweeper) SweepOnce(ctx context.Context) {

	expired, err := s.repo.ListExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error(ctx, "failed to list expired files", "error", err)
		return
	}

	for _, e := range expired {
		for _, partID := range e.PartIDs {
			if err := s.blobs.Delete(partID); err != nil {
				s.logger.Error(ctx, "failed to delete part blob", "part", partID, "error", err)
			}
		}

		if err := s.repo.DeleteFile(ctx, e.FileRowID); err != nil {
			s.logger.Error(ctx, "failed to delete file rows", "file", e.FileRowID, "error", err)
			continue
		}

		s.logger.Info(ctx, "collected expired file", "file", e.FileRowID, "parts", len(e.PartIDs))
	}
}
