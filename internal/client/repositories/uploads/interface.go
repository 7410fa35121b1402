// Package uploads persists the client-side resume state of running
// uploads, keyed by source path.
package uploads

import (
	"context"

	"github.com/adelorme/partage/internal/client/models"
)

type Repository interface {
	// Get returns the state for path or common.ErrNotFound.
	Get(ctx context.Context, path string) (*models.UploadState, error)

	// Save inserts or updates the state for its path.
	Save(ctx context.Context, st *models.UploadState) error

	// Delete removes the state for path; missing state is not an error.
	Delete(ctx context.Context, path string) error
}
