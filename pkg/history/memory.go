package history

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"conformance-hq/surveyor/pkg/assess"
)

// MemoryStore implements Store using an in-memory map. It is intended for
// tests and small one-shot runs.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]bool
	reports map[string][]*assess.Report // target -> reports, newest first
}

// NewMemoryStore creates a new in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]bool),
		reports: make(map[string][]*assess.Report),
	}
}

// Save stores a copy of the report.
func (s *MemoryStore) Save(ctx context.Context, report *assess.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byID[report.ID] {
		return NewStorageError("memory", "insert", fmt.Errorf("duplicate report id %q", report.ID))
	}
	s.byID[report.ID] = true

	list := append(s.reports[report.Target], report.Clone())
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].GeneratedAt.After(list[j].GeneratedAt)
	})
	s.reports[report.Target] = list
	return nil
}

// Latest returns up to limit reports for a target, newest first.
func (s *MemoryStore) Latest(ctx context.Context, target string, limit int) ([]*assess.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	list := s.reports[target]
	if len(list) > limit {
		list = list[:limit]
	}

	out := make([]*assess.Report, 0, len(list))
	for _, report := range list {
		out = append(out, report.Clone())
	}
	return out, nil
}

// Targets returns all known targets in sorted order.
func (s *MemoryStore) Targets(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	targets := make([]string, 0, len(s.reports))
	for target := range s.reports {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
