package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"rentvsbuy-lab/internal/domain"
	"rentvsbuy-lab/internal/storage"
)

// RunSummaryStore implements storage.RunSummaryStore using PostgreSQL.
type RunSummaryStore struct {
	pool *Pool
}

// NewRunSummaryStore creates a new RunSummaryStore.
func NewRunSummaryStore(pool *Pool) *RunSummaryStore {
	return &RunSummaryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunSummaryStore = (*RunSummaryStore)(nil)

// Insert adds a run summary. Returns ErrDuplicateKey if run_id exists.
func (s *RunSummaryStore) Insert(ctx context.Context, r *domain.RunSummary) (retErr error) {
	start := time.Now()
	defer func() { observe("run_summary_insert", start, retErr) }()

	query := `
		INSERT INTO run_summaries (
			run_id, city, created_at, months, paths, seed,
			closing_cash, monthly_payment,
			invest_terminal_p50, buy_terminal_p50, prob_invest_beats_buy,
			invest_worst_drawdown, buy_worst_drawdown
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID,
		r.City,
		r.CreatedAt,
		r.Months,
		r.Paths,
		r.Seed,
		r.ClosingCash,
		r.MonthlyPayment,
		r.InvestTerminalP50,
		r.BuyTerminalP50,
		r.ProbInvestBeatsBuy,
		r.InvestWorstDrawdown,
		r.BuyWorstDrawdown,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run summary: %w", err)
	}
	return nil
}

// GetByID retrieves a summary by run ID. Returns ErrNotFound if not exists.
func (s *RunSummaryStore) GetByID(ctx context.Context, runID string) (_ *domain.RunSummary, retErr error) {
	start := time.Now()
	defer func() { observe("run_summary_get_by_id", start, retErr) }()

	query := runSummarySelect + ` WHERE run_id = $1`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanRunSummary(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run summary by id: %w", err)
	}
	return r, nil
}

// GetAll retrieves every summary ordered by created_at ASC, run_id ASC.
func (s *RunSummaryStore) GetAll(ctx context.Context) (_ []*domain.RunSummary, retErr error) {
	start := time.Now()
	defer func() { observe("run_summary_get_all", start, retErr) }()

	query := runSummarySelect + ` ORDER BY created_at ASC, run_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all run summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.RunSummary
	for rows.Next() {
		r, err := scanRunSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run summary row: %w", err)
		}
		summaries = append(summaries, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run summary rows: %w", err)
	}
	return summaries, nil
}

const runSummarySelect = `
	SELECT run_id, city, created_at, months, paths, seed,
		closing_cash, monthly_payment,
		invest_terminal_p50, buy_terminal_p50, prob_invest_beats_buy,
		invest_worst_drawdown, buy_worst_drawdown
	FROM run_summaries
`

// scanRunSummary scans a single row into a RunSummary.
func scanRunSummary(row pgx.Row) (*domain.RunSummary, error) {
	var r domain.RunSummary

	err := row.Scan(
		&r.RunID,
		&r.City,
		&r.CreatedAt,
		&r.Months,
		&r.Paths,
		&r.Seed,
		&r.ClosingCash,
		&r.MonthlyPayment,
		&r.InvestTerminalP50,
		&r.BuyTerminalP50,
		&r.ProbInvestBeatsBuy,
		&r.InvestWorstDrawdown,
		&r.BuyWorstDrawdown,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
