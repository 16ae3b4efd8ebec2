package logstore

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFixedNow(t *testing.T, ts time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = orig })
}

func TestWrite(t *testing.T) {
	withFixedNow(t, time.Unix(1700000000, 0))

	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, "cube/logs")

	entry, err := store.Write(context.Background(), "thread restored")

	require.NoError(t, err)
	assert.Equal(t, "memory-thread-1700000000.log", entry.Filename)
	assert.Equal(t, int64(len("thread restored\n")), entry.Size)

	content, err := afero.ReadFile(fs, entry.Path)
	require.NoError(t, err)
	assert.Equal(t, "thread restored\n", string(content))

	// Exactly one file in the log directory.
	infos, err := afero.ReadDir(fs, "cube/logs")
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestWrite_EmptyMessage(t *testing.T) {
	withFixedNow(t, time.Unix(42, 0))

	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, "cube/logs")

	entry, err := store.Write(context.Background(), "")

	require.NoError(t, err)
	content, err := afero.ReadFile(fs, entry.Path)
	require.NoError(t, err)
	assert.Equal(t, "\n", string(content))
}

func TestWrite_SameSecondOverwrites(t *testing.T) {
	withFixedNow(t, time.Unix(1700000000, 0))

	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, "cube/logs")

	_, err := store.Write(context.Background(), "first")
	require.NoError(t, err)
	entry, err := store.Write(context.Background(), "second")
	require.NoError(t, err)

	content, err := afero.ReadFile(fs, entry.Path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(content))

	infos, err := afero.ReadDir(fs, "cube/logs")
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestWrite_DirCreationFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	store := NewFileStore(fs, "cube/logs")

	_, err := store.Write(context.Background(), "message")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create log directory")
}
