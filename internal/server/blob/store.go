// Package blob stores raw part bytes keyed by part identifier. Blobs are
// write-once: a part is immutable from the moment it is accepted.
package blob

import "io"

type Store interface {
	// Put writes the blob for id and returns the number of bytes stored.
	// Writing to an existing id is an error.
	Put(id string, r io.Reader) (int64, error)

	// Get opens the blob for reading. Returns common.ErrNotFound if the
	// blob does not exist (e.g. it lost a race with the expiry sweeper).
	Get(id string) (io.ReadCloser, error)

	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(id string) error
}
