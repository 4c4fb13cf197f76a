package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fincast-dev/fincast/internal/model"
)

// Memory is a Store held in process memory.
type Memory struct {
	mu        sync.RWMutex
	scenarios map[string][]model.Snapshot
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{scenarios: make(map[string][]model.Snapshot)}
}

func (m *Memory) Put(_ context.Context, name string, snaps []model.Snapshot) error {
	if err := checkName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios[name] = cloneSnapshots(snaps)
	return nil
}

func (m *Memory) Get(_ context.Context, name string) ([]model.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snaps, ok := m.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return cloneSnapshots(snaps), nil
}

func (m *Memory) All(_ context.Context) (map[string][]model.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]model.Snapshot, len(m.scenarios))
	for name, snaps := range m.scenarios {
		out[name] = cloneSnapshots(snaps)
	}
	return out, nil
}

func (m *Memory) Names(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedNames(m.scenarios), nil
}

func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenarios[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	delete(m.scenarios, name)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios = make(map[string][]model.Snapshot)
	return nil
}

func (m *Memory) Close() error { return nil }

func sortedNames(scenarios map[string][]model.Snapshot) []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
