// Package store persists the slot document: a single JSON object mapping
// slot numbers ("1".."100") to code text.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// File is the durable slot document at a fixed path.
type File struct {
	path   string
	logger *slog.Logger
}

// New creates a File bound to path. A nil logger discards records.
func New(path string, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &File{
		path:   path,
		logger: logger.With("store", path),
	}
}

// Path returns the document location
func (f *File) Path() string {
	return f.path
}

// Load reads the whole document. A missing, unreadable or malformed file
// yields an empty mapping; the fault is logged and never returned.
func (f *File) Load() map[string]string {
	slots, err := f.Read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.logger.Debug("slot document not found, starting empty")
		} else {
			f.logger.Warn("failed to load slot document", "error", err)
		}
		return map[string]string{}
	}

	f.logger.Debug("slot document loaded", "slots", len(slots))
	return slots
}

// Read is Load for callers that need to tell an empty document from one
// that could not be read. The returned map is never nil.
func (f *File) Read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return map[string]string{}, fmt.Errorf("failed to read slot document: %w", err)
	}

	var slots map[string]string
	if err := json.Unmarshal(data, &slots); err != nil {
		return map[string]string{}, fmt.Errorf("failed to parse slot document: %w", err)
	}
	if slots == nil {
		// A literal "null" document
		slots = map[string]string{}
	}
	return slots, nil
}

// Save writes the full mapping, replacing the previous document. Empty
// slots are omitted. The data goes to a temporary file that is renamed
// over the target, so an interrupted write leaves the old document intact.
func (f *File) Save(slots map[string]string) error {
	doc := make(map[string]string, len(slots))
	for key, code := range slots {
		if code == "" {
			continue
		}
		doc[key] = code
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal slot document: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	if err := f.replace(data); err != nil {
		return err
	}

	f.logger.Debug("slot document saved", "slots", len(doc), "bytes", len(data))
	return nil
}

// replace writes data to a synced temp file in the document's directory and
// renames it over the document
func (f *File) replace(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp slot document: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write slot document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync slot document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write slot document: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set slot document permissions: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("failed to replace slot document: %w", err)
	}

	success = true
	return nil
}
