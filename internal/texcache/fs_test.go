package texcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFSStore(t *testing.T) *FSStore {
	t.Helper()
	s, err := NewFSStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestFSStoreContract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		return newTestFSStore(t)
	})
}

func TestFSStoreCorruptEntryIsAMiss(t *testing.T) {
	s := newTestFSStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "bad", testTexture(8, 8)))
	require.NoError(t, os.WriteFile(s.path("bad"), []byte("not a png"), 0o644))

	_, err := s.Load(ctx, "bad")
	assert.ErrorIs(t, err, ErrNotFound)

	// The corrupt file is discarded so the next save starts clean.
	_, statErr := os.Stat(s.path("bad"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFSStoreLeavesNoTempFiles(t *testing.T) {
	s := newTestFSStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Save(ctx, "same-id", testTexture(16, 16)))
	}

	entries, err := os.ReadDir(filepath.Join(s.Dir(), storeVersion))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "same-id.png", entries[0].Name())
}

func TestFSStoreEmptyDirRejected(t *testing.T) {
	_, err := NewFSStore("", zerolog.Nop())
	assert.Error(t, err)
}

func TestFSStorePrune(t *testing.T) {
	s := newTestFSStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "old", testTexture(8, 8)))
	require.NoError(t, s.Save(ctx, "fresh", testTexture(8, 8)))

	// Backdate one entry past the age limit.
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(s.path("old"), past, past))

	// Plant debris: a stale temp file and a dir from an older format.
	versioned := filepath.Join(s.Dir(), storeVersion)
	require.NoError(t, os.WriteFile(filepath.Join(versioned, "tmp-old-123.png"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(s.Dir(), "v0"), 0o755))

	removed, err := s.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	_, err = s.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Load(ctx, "fresh")
	assert.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(s.Dir(), "v0"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFSStorePruneZeroAgeKeepsEntries(t *testing.T) {
	s := newTestFSStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "keep", testTexture(8, 8)))

	removed, err := s.Prune(0)
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = s.Load(ctx, "keep")
	assert.NoError(t, err)
}

func TestJanitorRejectsBadSchedule(t *testing.T) {
	s := newTestFSStore(t)
	_, err := NewJanitor(s, "not a schedule", time.Hour, zerolog.Nop())
	assert.Error(t, err)

	j, err := NewJanitor(s, "0 3 * * *", time.Hour, zerolog.Nop())
	require.NoError(t, err)
	j.Start()
	j.Stop()
}
