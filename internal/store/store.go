package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stwalsh4118/civitas/api/internal/models"
)

// DocumentKey is the fixed storage key the portal document lives under.
const DocumentKey = "municipalDB"

// DocumentStore persists the portal state as one opaque JSON document under
// a fixed key. Load returns nil, nil when no document has been saved yet
// (not an error); the caller seeds in that case. Last writer wins; there is
// no versioning or multi-client isolation.
type DocumentStore interface {
	Load(ctx context.Context) (*models.Document, error)
	Save(ctx context.Context, doc *models.Document) error
	Ping(ctx context.Context) error
	Close()
}

// FileStore persists the document as a single JSON file on disk. Writes go
// through a temp file and rename so a crash mid-write cannot leave a
// truncated document behind.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore rooted at the given path, creating parent
// directories as needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Load reads and decodes the document. Returns nil, nil if the file does not
// exist yet.
func (s *FileStore) Load(_ context.Context) (*models.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read document %s: %w", s.path, err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", s.path, err)
	}
	return &doc, nil
}

// Save encodes and atomically replaces the document file.
func (s *FileStore) Save(_ context.Context, doc *models.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}

// Ping verifies the data directory is accessible.
func (s *FileStore) Ping(_ context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() {}
