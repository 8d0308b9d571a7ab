package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentvsbuy-lab/internal/domain"
	"rentvsbuy-lab/internal/observability"
	"rentvsbuy-lab/internal/storage"
)

// BandTimeseriesStore implements storage.BandTimeseriesStore using ClickHouse.
type BandTimeseriesStore struct {
	conn *Conn
}

// NewBandTimeseriesStore creates a new BandTimeseriesStore.
func NewBandTimeseriesStore(conn *Conn) *BandTimeseriesStore {
	return &BandTimeseriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BandTimeseriesStore = (*BandTimeseriesStore)(nil)

// InsertBulk adds band points. Fails the entire batch on any duplicate
// (run_id, series, month). MergeTree does not enforce uniqueness, so
// duplicates are rejected by explicit checks before the batch is sent.
func (s *BandTimeseriesStore) InsertBulk(ctx context.Context, points []*domain.BandPoint) (retErr error) {
	start := time.Now()
	defer func() { observe("band_insert_bulk", start, retErr) }()

	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		runID  string
		series string
		month  int
	}
	seen := make(map[key]struct{})
	for _, p := range points {
		k := key{p.RunID, p.Series, p.Month}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, p := range points {
		exists, err := s.exists(ctx, p.RunID, p.Series, p.Month)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO band_timeseries (
			run_id, series, month, p10, p50, p90
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.RunID, p.Series, uint32(p.Month),
			p.P10, p.P50, p.P90,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRun retrieves all points for a run and series, ordered by month ASC.
func (s *BandTimeseriesStore) GetByRun(ctx context.Context, runID, series string) (_ []*domain.BandPoint, retErr error) {
	start := time.Now()
	defer func() { observe("band_get_by_run", start, retErr) }()

	query := `
		SELECT run_id, series, month, p10, p50, p90
		FROM band_timeseries
		WHERE run_id = ? AND series = ?
		ORDER BY month ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, series)
	if err != nil {
		return nil, fmt.Errorf("query bands by run: %w", err)
	}
	defer rows.Close()

	return scanBandPoints(rows)
}

// exists checks if a point with the given key exists.
func (s *BandTimeseriesStore) exists(ctx context.Context, runID, series string, month int) (bool, error) {
	query := `
		SELECT count(*) FROM band_timeseries
		WHERE run_id = ? AND series = ? AND month = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, runID, series, uint32(month)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// observe records query duration and errors. ErrDuplicateKey is an
// expected outcome for immutable band rows, not a query error.
func observe(operation string, start time.Time, err error) {
	if errors.Is(err, storage.ErrDuplicateKey) {
		err = nil
	}
	observability.RecordDBQuery("clickhouse", operation, time.Since(start).Seconds(), err)
}

// chRows is the subset of driver.Rows the scanners need.
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanBandPoints scans multiple rows.
func scanBandPoints(rows chRows) ([]*domain.BandPoint, error) {
	var points []*domain.BandPoint

	for rows.Next() {
		var p domain.BandPoint
		var month uint32

		err := rows.Scan(&p.RunID, &p.Series, &month, &p.P10, &p.P50, &p.P90)
		if err != nil {
			return nil, fmt.Errorf("scan band row: %w", err)
		}

		p.Month = int(month)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate band rows: %w", err)
	}

	return points, nil
}
