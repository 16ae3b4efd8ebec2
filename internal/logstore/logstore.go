// Package logstore persists memory-thread messages as timestamped files on a
// local filesystem. Each write produces one file; there is no rotation, and a
// second write within the same second reuses the same name.
package logstore

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"cubebridge/internal/model"
)

const (
	filePrefix = "memory-thread-"
	fileSuffix = ".log"
)

// now is a seam for tests that need a fixed timestamp.
var now = time.Now

// Store writes memory-thread log entries.
type Store interface {
	// Write ensures the log directory exists and writes message plus a
	// trailing newline to a new file named by the current Unix timestamp.
	Write(ctx context.Context, message string) (*model.MemoryThreadEntry, error)
}

type fileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore returns a Store writing under dir on the given filesystem.
func NewFileStore(fs afero.Fs, dir string) Store {
	return &fileStore{fs: fs, dir: dir}
}

func (s *fileStore) Write(_ context.Context, message string) (*model.MemoryThreadEntry, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	ts := now()
	name := fmt.Sprintf("%s%d%s", filePrefix, ts.Unix(), fileSuffix)
	path := filepath.Join(s.dir, name)

	data := []byte(message + "\n")
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write log: %w", err)
	}

	return &model.MemoryThreadEntry{
		Filename:  name,
		Path:      path,
		Size:      int64(len(data)),
		WrittenAt: ts.UTC(),
	}, nil
}
