package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stwalsh4118/civitas/api/internal/models"
)

// MemoryStore keeps the document in process memory. It is used by tests and
// by tooling that operates on a throwaway document. The document is stored
// as encoded JSON so Load always hands back an independent copy, the same
// way the durable backends do.
type MemoryStore struct {
	data []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load decodes the stored document, or returns nil, nil if nothing has been
// saved yet.
func (s *MemoryStore) Load(_ context.Context) (*models.Document, error) {
	if s.data == nil {
		return nil, nil
	}
	var doc models.Document
	if err := json.Unmarshal(s.data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}

// Save encodes and stores the document.
func (s *MemoryStore) Save(_ context.Context, doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	s.data = data
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() {}
