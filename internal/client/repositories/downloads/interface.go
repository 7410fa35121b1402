// Package downloads persists the client-side resume state of running
// downloads, keyed by public identifier.
package downloads

import (
	"context"

	"github.com/adelorme/partage/internal/client/models"
)

type Repository interface {
	// Get returns the state for identifier or common.ErrNotFound.
	Get(ctx context.Context, identifier string) (*models.DownloadState, error)

	// Save inserts or updates the state for its identifier.
	Save(ctx context.Context, st *models.DownloadState) error

	// Delete removes the state for identifier; missing state is not an
	// error.
	Delete(ctx context.Context, identifier string) error
}
