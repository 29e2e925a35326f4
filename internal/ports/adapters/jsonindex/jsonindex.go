// Package jsonindex writes the index as the JSON document consumed by
// existing search tooling.
package jsonindex

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/forPelevin/cinedex/internal/types"
)

type Store struct {
	path string
}

func New(path string) *Store { return &Store{path: path} }

func (s *Store) WriteIndex(_ context.Context, doc types.IndexDocument) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, b, 0o644)
}

// Read loads an index document back, for tooling that post-processes a
// finished index.
func Read(path string) (types.IndexDocument, error) {
	var doc types.IndexDocument
	b, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("parse index %s: %w", path, err)
	}
	return doc, nil
}
