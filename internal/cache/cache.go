// Package cache persists the most recent profile record as pretty-printed
// JSON on disk, surviving restarts and serving as the offline copy.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pfczx/profilescraper/internal/profile"
)

const fileName = "linkedin_profile.json"

type Writer struct {
	path string
}

// New returns a writer rooted at dataDir.
func New(dataDir string) *Writer {
	return &Writer{path: filepath.Join(dataDir, fileName)}
}

// Path returns the on-disk location of the cached record.
func (w *Writer) Path() string {
	return w.path
}

// Save writes the record, creating the data directory if needed.
func (w *Writer) Save(rec *profile.Record) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", w.path, err)
	}
	return nil
}

// Load reads the cached record back. A missing file is an error the caller
// can detect with os.IsNotExist.
func (w *Writer) Load() (*profile.Record, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, err
	}
	var rec profile.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", w.path, err)
	}
	return &rec, nil
}
