package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/store"
)

// Repository owns the in-memory portal document and mediates every read and
// write against it. It is constructed once at startup and injected into each
// service; tests get isolation by building a fresh Repository over a memory
// store.
//
// All mutation goes through Update, which holds the write lock across the
// in-memory change and the flush to the store, so one operation's
// mutate-and-persist step can never interleave with another's.
type Repository struct {
	mu    sync.RWMutex
	store store.DocumentStore
	doc   *models.Document
}

// New loads the document from the store, seeding and persisting the initial
// document if none exists yet.
func New(ctx context.Context, s store.DocumentStore) (*Repository, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		doc, err = models.Seed()
		if err != nil {
			return nil, fmt.Errorf("failed to build seed document: %w", err)
		}
		if err := s.Save(ctx, doc); err != nil {
			return nil, fmt.Errorf("failed to persist seed document: %w", err)
		}
	}
	return &Repository{store: s, doc: doc}, nil
}

// View runs fn with read access to the document. fn must not retain or
// mutate anything reachable from the document; read paths build denormalized
// copies inside fn.
func (r *Repository) View(fn func(doc *models.Document)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(r.doc)
}

// Update runs fn against a working copy of the document, flushes the copy to
// the store, and only then makes it the live document. If fn or the flush
// fails the live document is untouched, so a failed operation leaves no
// partial state behind.
func (r *Repository) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	working, err := cloneDocument(r.doc)
	if err != nil {
		return err
	}
	if err := fn(working); err != nil {
		return err
	}
	if err := r.store.Save(ctx, working); err != nil {
		return fmt.Errorf("failed to flush document: %w", err)
	}
	r.doc = working
	return nil
}

// cloneDocument deep-copies the document through its JSON encoding. The
// document is small (it fit in browser local storage in a past life), so the
// round-trip is cheap relative to the flush that follows.
func cloneDocument(doc *models.Document) (*models.Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to clone document: %w", err)
	}
	var clone models.Document
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, fmt.Errorf("failed to clone document: %w", err)
	}
	return &clone, nil
}
