package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"rentvsbuy-lab/internal/domain"
	"rentvsbuy-lab/internal/storage"
)

// BandTimeseriesStore is an in-memory implementation of
// storage.BandTimeseriesStore.
type BandTimeseriesStore struct {
	mu   sync.RWMutex
	data map[string]*domain.BandPoint // keyed by run_id|series|month
}

// NewBandTimeseriesStore creates a new in-memory band timeseries store.
func NewBandTimeseriesStore() *BandTimeseriesStore {
	return &BandTimeseriesStore{data: make(map[string]*domain.BandPoint)}
}

// Compile-time interface check.
var _ storage.BandTimeseriesStore = (*BandTimeseriesStore)(nil)

func bandKey(runID, series string, month int) string {
	return fmt.Sprintf("%s|%s|%d", runID, series, month)
}

// InsertBulk adds band points atomically. Fails entire batch on any
// duplicate (run_id, series, month).
func (s *BandTimeseriesStore) InsertBulk(_ context.Context, points []*domain.BandPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: detect existing and intra-batch duplicates.
	batchKeys := make(map[string]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.RunID == "" || p.Series == "" {
			return storage.ErrInvalidInput
		}
		key := bandKey(p.RunID, p.Series, p.Month)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert copies.
	for _, p := range points {
		copy := *p
		s.data[bandKey(p.RunID, p.Series, p.Month)] = &copy
	}
	return nil
}

// GetByRun retrieves all points for a run and series, ordered by month ASC.
func (s *BandTimeseriesStore) GetByRun(_ context.Context, runID, series string) ([]*domain.BandPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.BandPoint
	for _, p := range s.data {
		if p.RunID == runID && p.Series == series {
			copy := *p
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
