// Package storage defines the persistence interfaces for baseline
// snapshots, run summaries and percentile-band timeseries. The
// simulation core never touches storage; only the cmds and the server
// wire these in.
package storage

import (
	"context"

	"rentvsbuy-lab/internal/domain"
)

// BaselineStore provides access to frozen baseline snapshots.
type BaselineStore interface {
	// Insert adds a snapshot. Returns ErrDuplicateKey if snapshot_id exists.
	Insert(ctx context.Context, s *domain.BaselineSnapshot) error

	// GetByID retrieves a snapshot by ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, snapshotID string) (*domain.BaselineSnapshot, error)

	// GetLatest retrieves the most recently captured snapshot.
	// Returns ErrNotFound when no snapshot has been taken.
	GetLatest(ctx context.Context) (*domain.BaselineSnapshot, error)

	// Delete removes a snapshot. Returns ErrNotFound if not exists.
	Delete(ctx context.Context, snapshotID string) error
}

// RunSummaryStore provides access to per-run scalar summaries.
type RunSummaryStore interface {
	// Insert adds a run summary. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.RunSummary) error

	// GetByID retrieves a summary by run ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.RunSummary, error)

	// GetAll retrieves every summary ordered by created_at ASC, run_id ASC.
	GetAll(ctx context.Context) ([]*domain.RunSummary, error)
}

// BandTimeseriesStore provides access to per-month percentile band rows,
// the columnar sink chart overlays read from.
type BandTimeseriesStore interface {
	// InsertBulk adds band points. Fails the entire batch on any
	// duplicate (run_id, series, month).
	InsertBulk(ctx context.Context, points []*domain.BandPoint) error

	// GetByRun retrieves all points for a run and series, ordered by
	// month ASC.
	GetByRun(ctx context.Context, runID, series string) ([]*domain.BandPoint, error)
}
