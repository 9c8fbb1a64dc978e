// Package runlog keeps a history of completed scans in a SQLite database.
package runlog

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ctscan/pkg/metrics"
	"ctscan/pkg/radon"
)

// schema.sql creates the scan_runs table if it does not exist yet.
//
//go:embed schema.sql
var schemaSQL string

// Run is one completed scan
type Run struct {
	ID         string
	Input      string
	Config     radon.ScanConfig
	Iterations int
	Quality    metrics.Report
	Duration   time.Duration
	CreatedAt  time.Time
}

// Store is a run history backed by SQLite
type Store struct {
	*sql.DB
}

// Open opens or creates the history database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise run history schema: %w", err)
	}

	return &Store{db}, nil
}

// Record stores run. An empty ID is replaced by a new UUID and a zero
// CreatedAt by the current time; the stored run is returned.
func (s *Store) Record(run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	cfg, err := json.Marshal(run.Config)
	if err != nil {
		return Run{}, fmt.Errorf("failed to encode scan config: %w", err)
	}

	query := `
		INSERT INTO scan_runs (run_id, input_path, config_json, iterations, mse, rmse, psnr, ssim, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.Exec(query,
		run.ID,
		run.Input,
		string(cfg),
		run.Iterations,
		run.Quality.MSE,
		run.Quality.RMSE,
		finite(run.Quality.PSNR),
		run.Quality.SSIM,
		run.Duration.Milliseconds(),
		run.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return Run{}, fmt.Errorf("failed to insert scan run: %w", err)
	}

	return run, nil
}

// List returns the most recent runs first, at most limit of them. A limit
// of 0 or less returns every run.
func (s *Store) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `
		SELECT run_id, input_path, config_json, iterations, mse, rmse, psnr, ssim, duration_ms, created_at
		FROM scan_runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`
	rows, err := s.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			cfg        string
			durationMs int64
			createdAt  int64
		)
		if err := rows.Scan(
			&run.ID,
			&run.Input,
			&cfg,
			&run.Iterations,
			&run.Quality.MSE,
			&run.Quality.RMSE,
			&run.Quality.PSNR,
			&run.Quality.SSIM,
			&durationMs,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		if err := json.Unmarshal([]byte(cfg), &run.Config); err != nil {
			return nil, fmt.Errorf("failed to decode config of run %s: %w", run.ID, err)
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		run.CreatedAt = time.UnixMilli(createdAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// finite maps the infinite PSNR of a perfect reconstruction to the largest
// float, which SQLite can store
func finite(v float64) float64 {
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}
