// Package memory provides in-memory storage implementations, used by the
// CLIs when no database is configured and by tests.
package memory

import (
	"context"
	"sync"

	"rentvsbuy-lab/internal/domain"
	"rentvsbuy-lab/internal/storage"
)

// BaselineStore is an in-memory implementation of storage.BaselineStore.
type BaselineStore struct {
	mu   sync.RWMutex
	data map[string]*domain.BaselineSnapshot // keyed by snapshot_id
}

// NewBaselineStore creates a new in-memory baseline store.
func NewBaselineStore() *BaselineStore {
	return &BaselineStore{data: make(map[string]*domain.BaselineSnapshot)}
}

// Compile-time interface check.
var _ storage.BaselineStore = (*BaselineStore)(nil)

// Insert adds a snapshot. Returns ErrDuplicateKey if snapshot_id exists.
func (s *BaselineStore) Insert(_ context.Context, snap *domain.BaselineSnapshot) error {
	if snap == nil || snap.SnapshotID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[snap.SnapshotID]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[snap.SnapshotID] = cloneSnapshot(snap)
	return nil
}

// GetByID retrieves a snapshot by ID. Returns ErrNotFound if not exists.
func (s *BaselineStore) GetByID(_ context.Context, snapshotID string) (*domain.BaselineSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[snapshotID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneSnapshot(snap), nil
}

// GetLatest retrieves the most recently captured snapshot.
func (s *BaselineStore) GetLatest(_ context.Context) (*domain.BaselineSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.BaselineSnapshot
	for _, snap := range s.data {
		if latest == nil ||
			snap.CreatedAt > latest.CreatedAt ||
			(snap.CreatedAt == latest.CreatedAt && snap.SnapshotID > latest.SnapshotID) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	return cloneSnapshot(latest), nil
}

// Delete removes a snapshot. Returns ErrNotFound if not exists.
func (s *BaselineStore) Delete(_ context.Context, snapshotID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[snapshotID]; !ok {
		return storage.ErrNotFound
	}
	delete(s.data, snapshotID)
	return nil
}

// cloneSnapshot deep-copies a snapshot so callers can never mutate
// stored state through a returned pointer.
func cloneSnapshot(s *domain.BaselineSnapshot) *domain.BaselineSnapshot {
	out := *s
	out.Invest = cloneBands(s.Invest)
	out.Buy = cloneBands(s.Buy)
	return &out
}

func cloneBands(b domain.BandSeries) domain.BandSeries {
	out := domain.BandSeries{
		P10: make([]float64, len(b.P10)),
		P50: make([]float64, len(b.P50)),
		P90: make([]float64, len(b.P90)),
	}
	copy(out.P10, b.P10)
	copy(out.P50, b.P50)
	copy(out.P90, b.P90)
	return out
}
