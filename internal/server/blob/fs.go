package blob

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adelorme/partage/internal/common"
	"github.com/adelorme/partage/internal/filex"
)

// FSStore keeps one file per part identifier under a data directory.
type FSStore struct {
	dir string
}

// NewFSStore creates the data directory if needed.
func NewFSStore(dir string) (*FSStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("blob dir: %w", err)
	}
	return &FSStore{dir: abs}, nil
}

func (s *FSStore) path(id string) string {
	// identifiers are server-generated UUIDs; Base guards against a
	// crafted id escaping the data dir anyway
	return filepath.Join(s.dir, filepath.Base(id))
}

func (s *FSStore) Put(id string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(s.path(id), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o660)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return 0, fmt.Errorf("blob %s already exists", id)
		}
		return 0, fmt.Errorf("create blob %s: %w", id, err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		_ = os.Remove(s.path(id))
		return 0, fmt.Errorf("write blob %s: %w", id, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(s.path(id))
		return 0, fmt.Errorf("close blob %s: %w", id, err)
	}

	return n, nil
}

func (s *FSStore) Get(id string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("open blob %s: %w", id, err)
	}
	return f, nil
}

func (s *FSStore) Delete(id string) error {
	err := os.Remove(s.path(id))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove blob %s: %w", id, err)
	}
	return nil
}
