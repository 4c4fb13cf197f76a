// Package store keeps simulated scenarios by name so they can be aggregated
// and compared later.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fincast-dev/fincast/internal/config"
	"github.com/fincast-dev/fincast/internal/model"
)

// ErrNotFound is returned when a scenario name is not stored.
var ErrNotFound = errors.New("scenario not found")

// ErrEmptyName is returned when a scenario is stored without a name.
var ErrEmptyName = errors.New("scenario name is empty")

// Default paths used when store.path is empty.
const (
	DefaultFilePath   = "data/scenarios.json"
	DefaultSQLitePath = "data/fincast.db"
)

// Store maps scenario names to their monthly snapshots.
type Store interface {
	// Put replaces the named scenario.
	Put(ctx context.Context, name string, snaps []model.Snapshot) error
	// Get returns ErrNotFound when the scenario is missing.
	Get(ctx context.Context, name string) ([]model.Snapshot, error)
	All(ctx context.Context) (map[string][]model.Snapshot, error)
	// Names returns the stored names sorted.
	Names(ctx context.Context) ([]string, error)
	// Delete returns ErrNotFound when the scenario is missing.
	Delete(ctx context.Context, name string) error
	Clear(ctx context.Context) error
	Close() error
}

// Open builds the backend named by cfg. Relative paths are resolved
// against baseDir.
func Open(cfg config.StoreConfig, baseDir string) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendFile:
		return NewFile(resolve(baseDir, cfg.Path, DefaultFilePath)), nil
	case config.BackendSQLite:
		return NewSQLite(resolve(baseDir, cfg.Path, DefaultSQLitePath))
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func resolve(baseDir, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

func cloneSnapshots(snaps []model.Snapshot) []model.Snapshot {
	if snaps == nil {
		return nil
	}
	out := make([]model.Snapshot, len(snaps))
	for i, s := range snaps {
		out[i] = s
		if s.Balances != nil {
			out[i].Balances = append([]model.Balance(nil), s.Balances...)
		}
	}
	return out
}
