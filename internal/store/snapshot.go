package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/asalazar/cv-features/internal/parsing"
)

// SnapshotWriter mirrors the raw parsed records of every processed
// document to a JSON file, keeping an auditable pre-embedding copy
// outside the database. Snapshots are keyed by filename.
type SnapshotWriter struct {
	dir string
}

// NewSnapshotWriter returns a writer rooted at dir, creating it if needed.
func NewSnapshotWriter(dir string) (*SnapshotWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &SnapshotWriter{dir: dir}, nil
}

// Write stores the parsed records as pretty-printed JSON and returns the
// path written.
func (w *SnapshotWriter) Write(filename string, resume parsing.Resume) (string, error) {
	data, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	path := filepath.Join(w.dir, snapshotName(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return path, nil
}

// snapshotName turns a document filename into a safe snapshot filename.
func snapshotName(filename string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", " ", "_")
	return r.Replace(filename) + ".json"
}
