package snapshot

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vango-dev/vui/internal/errors"
)

// FileStore writes snapshots as <dir>/<name>.html.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New(errors.CodeSnapshotStore).Wrap(err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the snapshot directory.
func (s *FileStore) Dir() string { return s.dir }

// Put writes the snapshot, replacing an older one of the same name.
func (s *FileStore) Put(ctx context.Context, snap Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkName(snap.Name); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, snap.Name+".html")
	tmp, err := os.CreateTemp(s.dir, snap.Name+".*.tmp")
	if err != nil {
		return "", errors.New(errors.CodeSnapshotStore).Wrap(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(snap.HTML); err != nil {
		tmp.Close()
		return "", errors.New(errors.CodeSnapshotStore).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.New(errors.CodeSnapshotStore).Wrap(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", errors.New(errors.CodeSnapshotStore).Wrap(err)
	}
	return path, nil
}
