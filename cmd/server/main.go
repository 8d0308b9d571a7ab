// Package main provides the unified HTTP service: one-shot simulation,
// baseline lifecycle, stored-run queries and a websocket control surface
// that recomputes bands as a client adjusts parameters.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"rentvsbuy-lab/internal/compose"
	"rentvsbuy-lab/internal/domain"
	"rentvsbuy-lab/internal/idhash"
	"rentvsbuy-lab/internal/observability"
	"rentvsbuy-lab/internal/presets"
	"rentvsbuy-lab/internal/stats"
	"rentvsbuy-lab/internal/storage"
	chstore "rentvsbuy-lab/internal/storage/clickhouse"
	"rentvsbuy-lab/internal/storage/memory"
	"rentvsbuy-lab/internal/storage/migrations"
	pgstore "rentvsbuy-lab/internal/storage/postgres"
)

// Server holds the stores and the websocket upgrader.
type Server struct {
	baselineStore storage.BaselineStore
	runStore      storage.RunSummaryStore
	bandStore     storage.BandTimeseriesStore

	upgrader websocket.Upgrader
	logger   *log.Logger
	started  time.Time
}

// allStores holds all storage implementations.
type allStores struct {
	baselineStore storage.BaselineStore
	runStore      storage.RunSummaryStore
	bandStore     storage.BandTimeseriesStore
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create stores
	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	server := &Server{
		baselineStore: stores.baselineStore,
		runStore:      stores.runStore,
		bandStore:     stores.bandStore,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		logger:  logger,
		started: time.Now(),
	}

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: server.routes(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
		cancel()
	}()

	logger.Printf("Listening on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			baselineStore: memory.NewBaselineStore(),
			runStore:      memory.NewRunSummaryStore(),
			bandStore:     memory.NewBandTimeseriesStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL for baselines and run summaries
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("apply postgres migrations: %w", err)
	}

	// ClickHouse for band timeseries
	conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	stores := &allStores{
		baselineStore: pgstore.NewBaselineStore(pool),
		runStore:      pgstore.NewRunSummaryStore(pool),
		bandStore:     chstore.NewBandTimeseriesStore(conn),
	}

	cleanup := func() {
		conn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// routes wires up every endpoint.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())
	mux.HandleFunc("GET /status", s.handleStatus)

	mux.HandleFunc("POST /simulate", s.handleSimulate)
	mux.HandleFunc("GET /runs", s.handleListRuns)
	mux.HandleFunc("GET /runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /runs/{id}/bands", s.handleGetBands)

	mux.HandleFunc("POST /baselines", s.handleCaptureBaseline)
	mux.HandleFunc("GET /baselines/latest", s.handleLatestBaseline)
	mux.HandleFunc("GET /baselines/{id}", s.handleGetBaseline)
	mux.HandleFunc("DELETE /baselines/{id}", s.handleDeleteBaseline)

	mux.HandleFunc("GET /ws", s.handleWS)

	return mux
}

// StatusResponse is the JSON response for the /status endpoint.
type StatusResponse struct {
	Status  string   `json:"status"`
	Uptime  string   `json:"uptime"`
	Presets []string `json:"presets"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "ok",
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Presets: presets.Names(),
	})
}

// SimulateRequest carries a scenario: a city preset or a full config,
// plus persistence and baseline options.
type SimulateRequest struct {
	City   string                   `json:"city,omitempty"`
	Config *domain.SimulationConfig `json:"config,omitempty"`

	Persist      bool `json:"persist,omitempty"`
	DiffBaseline bool `json:"diffBaseline,omitempty"`
}

// SimulateResponse is the full result payload for one run.
type SimulateResponse struct {
	RunID          string                `json:"runId"`
	City           string                `json:"city,omitempty"`
	ClosingCash    float64               `json:"closingCash"`
	MonthlyPayment float64               `json:"monthlyPayment"`
	Stats          *domain.StatsResult   `json:"stats"`
	Delta          *domain.BaselineDelta `json:"delta,omitempty"`
}

// resolveConfig turns a request into a validated config.
func resolveConfig(req *SimulateRequest) (domain.SimulationConfig, error) {
	var cfg domain.SimulationConfig
	if req.Config != nil {
		cfg = *req.Config
	} else {
		city := req.City
		if city == "" {
			city = presets.CityGlobal
		}
		resolved, err := presets.ForCity(city)
		if err != nil {
			return domain.SimulationConfig{}, err
		}
		cfg = resolved
	}
	if err := cfg.Validate(); err != nil {
		observability.RecordValidationFailure()
		return domain.SimulationConfig{}, err
	}
	return cfg, nil
}

// runSimulation composes, aggregates and optionally persists one run.
func (s *Server) runSimulation(ctx context.Context, req *SimulateRequest) (*SimulateResponse, error) {
	cfg, err := resolveConfig(req)
	if err != nil {
		return nil, err
	}

	city := req.City
	if city == "" {
		city = presets.CityGlobal
	}

	start := time.Now()
	res, err := compose.Compose(&cfg)
	if err != nil {
		observability.RecordRun(city, "error", time.Since(start).Seconds(), cfg.Paths, cfg.Months)
		return nil, err
	}
	result := stats.Summarize(res, &cfg)
	observability.RecordRun(city, "ok", time.Since(start).Seconds(), cfg.Paths, cfg.Months)

	runID, err := idhash.ComputeRunID(&cfg)
	if err != nil {
		return nil, err
	}

	resp := &SimulateResponse{
		RunID:          runID,
		City:           city,
		ClosingCash:    res.ClosingCash,
		MonthlyPayment: res.MonthlyPayment,
		Stats:          result,
	}

	if req.Persist {
		summary := &domain.RunSummary{
			RunID:               runID,
			City:                city,
			CreatedAt:           time.Now().UTC().Unix(),
			Months:              cfg.Months,
			Paths:               cfg.Paths,
			Seed:                cfg.Seed,
			ClosingCash:         res.ClosingCash,
			MonthlyPayment:      res.MonthlyPayment,
			InvestTerminalP50:   result.InvestTerminalP50,
			BuyTerminalP50:      result.BuyTerminalP50,
			ProbInvestBeatsBuy:  result.ProbInvestBeatsBuy,
			InvestWorstDrawdown: result.InvestDrawdown.Worst,
			BuyWorstDrawdown:    result.BuyDrawdown.Worst,
		}
		if err := s.runStore.Insert(ctx, summary); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			return nil, fmt.Errorf("persist run summary: %w", err)
		}
		points := domain.FlattenBands(runID, domain.SeriesInvest, result.Invest)
		points = append(points, domain.FlattenBands(runID, domain.SeriesBuy, result.Buy)...)
		if err := s.bandStore.InsertBulk(ctx, points); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			return nil, fmt.Errorf("persist bands: %w", err)
		}
	}

	if req.DiffBaseline {
		base, err := s.baselineStore.GetLatest(ctx)
		switch {
		case err == nil:
			resp.Delta = stats.DeltaVsBaseline(result, base)
			observability.RecordBaselineDiff()
		case errors.Is(err, storage.ErrNotFound):
			// No baseline yet; delta stays empty.
		default:
			return nil, err
		}
	}

	return resp, nil
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	defer s.observe("simulate", time.Now())

	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	resp, err := s.runSimulation(r.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidConfig) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	defer s.observe("runs", time.Now())

	runs, err := s.runStore.GetAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	defer s.observe("runs", time.Now())

	run, err := s.runStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetBands(w http.ResponseWriter, r *http.Request) {
	defer s.observe("bands", time.Now())

	series := r.URL.Query().Get("series")
	if series == "" {
		series = domain.SeriesInvest
	}
	if series != domain.SeriesInvest && series != domain.SeriesBuy {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown series %q", series))
		return
	}

	points, err := s.bandStore.GetByRun(r.Context(), r.PathValue("id"), series)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// CaptureBaselineRequest freezes the result of a fresh run as baseline.
type CaptureBaselineRequest struct {
	City   string                   `json:"city,omitempty"`
	Config *domain.SimulationConfig `json:"config,omitempty"`
	Label  string                   `json:"label,omitempty"`
}

func (s *Server) handleCaptureBaseline(w http.ResponseWriter, r *http.Request) {
	defer s.observe("baselines", time.Now())

	var req CaptureBaselineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	simReq := &SimulateRequest{City: req.City, Config: req.Config}
	resp, err := s.runSimulation(r.Context(), simReq)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidConfig) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	now := time.Now().UTC().Unix()
	snapID := idhash.ComputeSnapshotID(resp.RunID, now)
	snap := stats.Snapshot(snapID, req.Label, now, resp.Stats)
	if err := s.baselineStore.Insert(r.Context(), snap); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	observability.RecordBaselineCaptured()

	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleLatestBaseline(w http.ResponseWriter, r *http.Request) {
	defer s.observe("baselines", time.Now())

	snap, err := s.baselineStore.GetLatest(r.Context())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetBaseline(w http.ResponseWriter, r *http.Request) {
	defer s.observe("baselines", time.Now())

	snap, err := s.baselineStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteBaseline(w http.ResponseWriter, r *http.Request) {
	defer s.observe("baselines", time.Now())

	if err := s.baselineStore.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	observability.RecordBaselineDeleted()
	w.WriteHeader(http.StatusNoContent)
}

// wsError is the frame sent back when a pushed config cannot be run.
type wsError struct {
	Error string `json:"error"`
}

// handleWS is the interactive control surface: every JSON frame the client
// pushes is a SimulateRequest, and the recomputed result is pushed back on
// the same connection.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	observability.DefaultMetrics.ActiveWSClients.Inc()
	defer observability.DefaultMetrics.ActiveWSClients.Dec()

	s.logger.Printf("websocket client connected: %s", r.RemoteAddr)

	for {
		var req SimulateRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Printf("websocket read error: %v", err)
			}
			return
		}

		resp, err := s.runSimulation(r.Context(), &req)
		if err != nil {
			if writeErr := conn.WriteJSON(wsError{Error: err.Error()}); writeErr != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Printf("websocket write error: %v", err)
			return
		}
		observability.DefaultMetrics.WSPushesTotal.Inc()
	}
}

// observe records the request duration for one endpoint.
func (s *Server) observe(endpoint string, start time.Time) {
	observability.DefaultMetrics.RequestDuration.
		WithLabelValues(endpoint).
		Observe(time.Since(start).Seconds())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
