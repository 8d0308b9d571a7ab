package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"rentvsbuy-lab/internal/domain"
	"rentvsbuy-lab/internal/storage"
)

// BaselineStore implements storage.BaselineStore using PostgreSQL.
// Percentile bands are persisted as float8[] columns so a snapshot stays
// a single row.
type BaselineStore struct {
	pool *Pool
}

// NewBaselineStore creates a new BaselineStore.
func NewBaselineStore(pool *Pool) *BaselineStore {
	return &BaselineStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BaselineStore = (*BaselineStore)(nil)

// Insert adds a snapshot. Returns ErrDuplicateKey if snapshot_id exists.
func (s *BaselineStore) Insert(ctx context.Context, snap *domain.BaselineSnapshot) (retErr error) {
	start := time.Now()
	defer func() { observe("baseline_insert", start, retErr) }()

	query := `
		INSERT INTO baseline_snapshots (
			snapshot_id, created_at, label,
			invest_p10, invest_p50, invest_p90,
			buy_p10, buy_p50, buy_p90,
			prob_invest_beats_buy, invest_terminal_p50, buy_terminal_p50
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.pool.Exec(ctx, query,
		snap.SnapshotID,
		snap.CreatedAt,
		snap.Label,
		snap.Invest.P10,
		snap.Invest.P50,
		snap.Invest.P90,
		snap.Buy.P10,
		snap.Buy.P50,
		snap.Buy.P90,
		snap.ProbInvestBeatsBuy,
		snap.InvestTerminalP50,
		snap.BuyTerminalP50,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert baseline snapshot: %w", err)
	}
	return nil
}

// GetByID retrieves a snapshot by ID. Returns ErrNotFound if not exists.
func (s *BaselineStore) GetByID(ctx context.Context, snapshotID string) (_ *domain.BaselineSnapshot, retErr error) {
	start := time.Now()
	defer func() { observe("baseline_get_by_id", start, retErr) }()

	query := baselineSelect + ` WHERE snapshot_id = $1`

	row := s.pool.QueryRow(ctx, query, snapshotID)
	snap, err := scanBaseline(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get baseline by id: %w", err)
	}
	return snap, nil
}

// GetLatest retrieves the most recently captured snapshot. Returns
// ErrNotFound when the table is empty.
func (s *BaselineStore) GetLatest(ctx context.Context) (_ *domain.BaselineSnapshot, retErr error) {
	start := time.Now()
	defer func() { observe("baseline_get_latest", start, retErr) }()

	query := baselineSelect + ` ORDER BY created_at DESC, snapshot_id DESC LIMIT 1`

	row := s.pool.QueryRow(ctx, query)
	snap, err := scanBaseline(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest baseline: %w", err)
	}
	return snap, nil
}

// Delete removes a snapshot. Returns ErrNotFound if not exists.
func (s *BaselineStore) Delete(ctx context.Context, snapshotID string) (retErr error) {
	start := time.Now()
	defer func() { observe("baseline_delete", start, retErr) }()

	tag, err := s.pool.Exec(ctx, `DELETE FROM baseline_snapshots WHERE snapshot_id = $1`, snapshotID)
	if err != nil {
		return fmt.Errorf("delete baseline snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const baselineSelect = `
	SELECT snapshot_id, created_at, label,
		invest_p10, invest_p50, invest_p90,
		buy_p10, buy_p50, buy_p90,
		prob_invest_beats_buy, invest_terminal_p50, buy_terminal_p50
	FROM baseline_snapshots
`

// scanBaseline scans a single row into a BaselineSnapshot.
func scanBaseline(row pgx.Row) (*domain.BaselineSnapshot, error) {
	var snap domain.BaselineSnapshot

	err := row.Scan(
		&snap.SnapshotID,
		&snap.CreatedAt,
		&snap.Label,
		&snap.Invest.P10,
		&snap.Invest.P50,
		&snap.Invest.P90,
		&snap.Buy.P10,
		&snap.Buy.P50,
		&snap.Buy.P90,
		&snap.ProbInvestBeatsBuy,
		&snap.InvestTerminalP50,
		&snap.BuyTerminalP50,
	)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
