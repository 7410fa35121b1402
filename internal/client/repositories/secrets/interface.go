// Package secrets remembers which write capability produced which public
// identifier, so a file can later be deleted by the identifier its owner
// knows.
package secrets

import "context"

type Repository interface {
	// Get returns the secret key recorded for identifier or
	// common.ErrNotFound.
	Get(ctx context.Context, identifier string) (string, error)

	// Save records the identifier/secret-key pair.
	Save(ctx context.Context, identifier, secretKey string) error

	// Delete forgets the pair; missing records are not an error.
	Delete(ctx context.Context, identifier string) error
}
