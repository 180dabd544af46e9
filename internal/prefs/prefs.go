// Package prefs persists small user preferences, currently the selected card
// id, in a YAML file that is replaced atomically on every write.
package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/roach88/tapcard/internal/card"
)

const (
	dirPerms  = 0o750
	filePerms = 0o600
)

// document is the on-disk layout.
type document struct {
	SelectedCardID *int64 `yaml:"selected_card_id,omitempty"`
}

// File is a preference file. It implements selection.Cell.
//
// The file is re-read on every access so that separate processes sharing it
// observe each other's writes.
type File struct {
	mu   sync.Mutex
	path string
}

// Open returns a File for path. A missing file is treated as empty; a file
// that exists but cannot be parsed is an error.
func Open(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("open prefs: empty path")
	}
	f := &File{path: path}
	if _, err := f.load(); err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	return f, nil
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// ReadSelectedID implements selection.Cell.
func (f *File) ReadSelectedID() (card.ID, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return 0, false, err
	}
	if doc.SelectedCardID == nil {
		return 0, false, nil
	}
	return card.ID(*doc.SelectedCardID), true, nil
}

// WriteSelectedID implements selection.Cell.
func (f *File) WriteSelectedID(id card.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	v := int64(id)
	doc.SelectedCardID = &v
	return f.save(doc)
}

// ClearSelectedID implements selection.Cell.
func (f *File) ClearSelectedID() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	if doc.SelectedCardID == nil {
		return nil
	}
	doc.SelectedCardID = nil
	return f.save(doc)
}

func (f *File) load() (document, error) {
	var doc document
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read %s: %w", f.path, err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *File) save(doc document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), dirPerms); err != nil {
		return fmt.Errorf("create prefs directory: %w", err)
	}
	if err := atomic.WriteFile(f.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	// atomic.WriteFile does not set permissions on new files.
	if err := os.Chmod(f.path, filePerms); err != nil {
		return fmt.Errorf("chmod %s: %w", f.path, err)
	}
	return nil
}
