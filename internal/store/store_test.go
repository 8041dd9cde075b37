package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/civitas/api/internal/models"
)

func TestFileStore_LoadMissingReturnsNil(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "municipal.json"))
	require.NoError(t, err)

	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, doc, "A missing file is a fresh installation, not an error")
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "municipal.json")
	s, err := NewFileStore(path)
	require.NoError(t, err, "Parent directories are created as needed")

	seed, err := models.Seed()
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, seed))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Len(t, loaded.Users, 3)
	assert.Equal(t, seed.Properties[0].ID, loaded.Properties[0].ID)
	assert.Equal(t, seed.Finance.Revenue, loaded.Finance.Revenue)

	// No stray temp file left behind
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_SaveReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "municipal.json"))
	require.NoError(t, err)

	seed, err := models.Seed()
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, seed))

	seed.Finance.Revenue = 42
	require.NoError(t, s.Save(ctx, seed))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), loaded.Finance.Revenue)
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "municipal.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = s.Load(context.Background())
	assert.Error(t, err)
}

func TestNewFileStore_RequiresPath(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestFileStore_Ping(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "municipal.json"))
	require.NoError(t, err)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, doc)

	seed, err := models.Seed()
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, seed))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Len(t, loaded.Users, 3)

	// Each Load hands back an independent copy
	loaded.Users = nil
	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, again.Users, 3)
}
