package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/hcip-dashboard-go/internal/errors"
	"github.com/jengzang/hcip-dashboard-go/internal/models"
)

// RefreshRunRepository handles database operations for the refresh history
type RefreshRunRepository struct {
	db *sql.DB
}

// NewRefreshRunRepository creates a new refresh run repository
func NewRefreshRunRepository(db *sql.DB) *RefreshRunRepository {
	return &RefreshRunRepository{db: db}
}

// Create records a refresh run, assigning an ID when it has none
func (r *RefreshRunRepository) Create(ctx context.Context, run *models.RefreshRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	failed, err := json.Marshal(nonNil(run.SourcesFailed))
	if err != nil {
		return fmt.Errorf("failed to encode failed sources: %w", err)
	}
	warnings, err := json.Marshal(nonNil(run.Warnings))
	if err != nil {
		return fmt.Errorf("failed to encode warnings: %w", err)
	}

	query := `
		INSERT INTO refresh_runs (
			id, forced, outcome, sources_succeeded, sources_failed_json,
			warnings_json, task_rows, site_rows, snapshot_name, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.Forced,
		run.Outcome,
		run.SourcesSucceeded,
		string(failed),
		string(warnings),
		run.TaskRows,
		run.SiteRows,
		run.SnapshotName,
		run.StartedAt.UTC().Format(storedTimeLayout),
		run.FinishedAt.UTC().Format(storedTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh run: %w", err)
	}
	return nil
}

const refreshRunColumns = `
	id, forced, outcome, sources_succeeded, sources_failed_json,
	warnings_json, task_rows, site_rows, snapshot_name, started_at, finished_at
`

// GetByID retrieves a refresh run by ID
func (r *RefreshRunRepository) GetByID(ctx context.Context, id string) (*models.RefreshRun, error) {
	query := "SELECT " + refreshRunColumns + " FROM refresh_runs WHERE id = ?"

	run, err := scanRefreshRun(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: refresh run %s", errors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh run: %w", err)
	}
	return run, nil
}

// List retrieves refresh runs, newest first
func (r *RefreshRunRepository) List(ctx context.Context, limit, offset int) ([]*models.RefreshRun, error) {
	query := "SELECT " + refreshRunColumns + " FROM refresh_runs ORDER BY started_at DESC LIMIT ? OFFSET ?"

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list refresh runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.RefreshRun
	for rows.Next() {
		run, err := scanRefreshRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan refresh run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Count returns the number of recorded runs
func (r *RefreshRunRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM refresh_runs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count refresh runs: %w", err)
	}
	return count, nil
}

func scanRefreshRun(row scanner) (*models.RefreshRun, error) {
	run := &models.RefreshRun{}
	var failed, warnings, started, finished string
	err := row.Scan(
		&run.ID,
		&run.Forced,
		&run.Outcome,
		&run.SourcesSucceeded,
		&failed,
		&warnings,
		&run.TaskRows,
		&run.SiteRows,
		&run.SnapshotName,
		&started,
		&finished,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(failed), &run.SourcesFailed); err != nil {
		return nil, fmt.Errorf("bad sources_failed_json: %w", err)
	}
	if err := json.Unmarshal([]byte(warnings), &run.Warnings); err != nil {
		return nil, fmt.Errorf("bad warnings_json: %w", err)
	}
	if run.StartedAt, err = time.Parse(storedTimeLayout, started); err != nil {
		return nil, fmt.Errorf("bad started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(storedTimeLayout, finished); err != nil {
		return nil, fmt.Errorf("bad finished_at: %w", err)
	}
	return run, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
