// Package storage persists scrape results as human-readable JSON files.
// Writes are atomic (temporary file plus rename) so an interrupted run
// never leaves a truncated result behind.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"liscraper/pkg/linkedin"
)

// Manager handles result file storage.
type Manager struct {
	outputDir string
}

// NewManager creates a storage manager rooted at outputDir, creating the
// directory when needed.
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{outputDir: outputDir}, nil
}

// Save writes a scrape result to name under the output directory as
// indented UTF-8 JSON. HTML escaping is disabled so non-ASCII post content
// is stored verbatim.
func (m *Manager) Save(result *linkedin.FeedScrapeResult, name string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	path := filepath.Join(m.outputDir, name)

	// Write to a temporary file first, then rename into place
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to finalize result file: %w", err)
	}

	return nil
}

// Path returns the absolute location a named result would be written to.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.outputDir, name)
}

// List returns the names of result files currently in the output directory.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}
