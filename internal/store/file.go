package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fincast-dev/fincast/internal/model"
)

// File is a Store persisted as a single JSON document mapping scenario
// names to snapshots. Every operation re-reads the document so separate
// processes sharing the file see each other's writes.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a store backed by the JSON document at path. The file is
// created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the document location.
func (f *File) Path() string { return f.path }

// load returns an empty map when the document is missing, empty or unreadable.
func (f *File) load() map[string][]model.Snapshot {
	scenarios := make(map[string][]model.Snapshot)
	data, err := os.ReadFile(f.path)
	if err != nil || len(data) == 0 {
		return scenarios
	}
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return make(map[string][]model.Snapshot)
	}
	return scenarios
}

// save writes to a temp file in the same directory and renames it over the
// document.
func (f *File) save(scenarios map[string][]model.Snapshot) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}
	data, err := json.MarshalIndent(scenarios, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scenarios: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", f.path, err)
	}
	return nil
}

func (f *File) Put(_ context.Context, name string, snaps []model.Snapshot) error {
	if err := checkName(name); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	scenarios := f.load()
	if snaps == nil {
		snaps = []model.Snapshot{}
	}
	scenarios[name] = snaps
	return f.save(scenarios)
}

func (f *File) Get(_ context.Context, name string) ([]model.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snaps, ok := f.load()[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return snaps, nil
}

func (f *File) All(_ context.Context) (map[string][]model.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load(), nil
}

func (f *File) Names(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return sortedNames(f.load()), nil
}

func (f *File) Delete(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	scenarios := f.load()
	if _, ok := scenarios[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	delete(scenarios, name)
	return f.save(scenarios)
}

func (f *File) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(make(map[string][]model.Snapshot))
}

func (f *File) Close() error { return nil }
