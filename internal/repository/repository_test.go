package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/store"
)

func TestNew_SeedsEmptyStore(t *testing.T) {
	s := store.NewMemoryStore()

	repo, err := New(context.Background(), s)
	require.NoError(t, err)

	repo.View(func(doc *models.Document) {
		assert.Len(t, doc.Users, 3)
		assert.Len(t, doc.Properties, 1)
		assert.Len(t, doc.Taxes, 1)
		assert.Empty(t, doc.Payments)
		assert.Equal(t, int64(500000), doc.Finance.Revenue)
	})

	// The seed was flushed, not just held in memory
	persisted, err := s.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Len(t, persisted.Users, 3)
}

func TestNew_LoadsExistingDocument(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	first, err := New(ctx, s)
	require.NoError(t, err)

	err = first.Update(ctx, func(doc *models.Document) error {
		doc.Users = append(doc.Users, models.User{
			ID: "u-extra", Name: "Extra", Email: "extra@example.com", Role: models.RoleCitizen,
		})
		return nil
	})
	require.NoError(t, err)

	// A second repository over the same store sees the write, not a re-seed
	second, err := New(ctx, s)
	require.NoError(t, err)
	second.View(func(doc *models.Document) {
		assert.Len(t, doc.Users, 4)
		assert.NotNil(t, doc.UserByEmail("extra@example.com"))
	})
}

func TestUpdate_FnErrorLeavesDocumentUntouched(t *testing.T) {
	ctx := context.Background()
	repo, err := New(ctx, store.NewMemoryStore())
	require.NoError(t, err)

	boom := errors.New("boom")
	err = repo.Update(ctx, func(doc *models.Document) error {
		doc.Users = nil
		doc.Finance.Revenue = 0
		return boom
	})
	assert.ErrorIs(t, err, boom)

	repo.View(func(doc *models.Document) {
		assert.Len(t, doc.Users, 3)
		assert.Equal(t, int64(500000), doc.Finance.Revenue)
	})
}

// failingStore accepts the first save (the seed) and rejects the rest.
type failingStore struct {
	*store.MemoryStore
	saves int
}

func (s *failingStore) Save(ctx context.Context, doc *models.Document) error {
	s.saves++
	if s.saves > 1 {
		return errors.New("disk full")
	}
	return s.MemoryStore.Save(ctx, doc)
}

func TestUpdate_FlushErrorLeavesDocumentUntouched(t *testing.T) {
	ctx := context.Background()
	repo, err := New(ctx, &failingStore{MemoryStore: store.NewMemoryStore()})
	require.NoError(t, err)

	err = repo.Update(ctx, func(doc *models.Document) error {
		doc.Finance.Revenue = 0
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to flush document")

	// The mutation happened on a working copy that was never swapped in
	repo.View(func(doc *models.Document) {
		assert.Equal(t, int64(500000), doc.Finance.Revenue)
	})
}

func TestUpdate_FlushesEveryWrite(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	repo, err := New(ctx, s)
	require.NoError(t, err)

	err = repo.Update(ctx, func(doc *models.Document) error {
		doc.Finance.Revenue += 100
		return nil
	})
	require.NoError(t, err)

	persisted, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(500100), persisted.Finance.Revenue)
}
