package repository

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/jengzang/hcip-dashboard-go/internal/database"
	"github.com/jengzang/hcip-dashboard-go/internal/errors"
	"github.com/jengzang/hcip-dashboard-go/internal/models"
)

// CacheTimestampLayout formats the "last refreshed" time shown to users
const CacheTimestampLayout = "2006-01-02 15:04:05"

const (
	latestDir  = "latest"
	latestFile = "latest.db"
)

// CacheRepository persists the latest task and site tables as one SQLite file
type CacheRepository struct {
	dir    string
	logger zerolog.Logger
}

// NewCacheRepository creates a cache repository rooted at dir
func NewCacheRepository(dir string, logger zerolog.Logger) *CacheRepository {
	return &CacheRepository{
		dir:    dir,
		logger: logger.With().Str("component", "cache").Logger(),
	}
}

// Path returns the location of the latest cache file
func (r *CacheRepository) Path() string {
	return filepath.Join(r.dir, latestDir, latestFile)
}

// SaveLatest replaces the persisted tables. Both tables are written to a
// temporary file that is renamed over the previous one, so readers see the
// old pair or the new pair, never a mix.
func (r *CacheRepository) SaveLatest(ctx context.Context, tasks []models.TaskRecord, sites []models.SiteSummary) error {
	target := r.Path()
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("%w: create cache dir: %w", errors.ErrPersistence, err)
	}

	tmp := target + ".tmp"
	if err := writeSQLiteFile(ctx, tmp, database.LatestSchema, r.logger, func(tx *sql.Tx) error {
		if err := insertTasks(ctx, tx, tasks); err != nil {
			return err
		}
		return insertSites(ctx, tx, "sites", sites, nil)
	}); err != nil {
		return fmt.Errorf("%w: write latest: %w", errors.ErrPersistence, err)
	}

	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: install latest: %w", errors.ErrPersistence, err)
	}

	r.logger.Debug().Int("tasks", len(tasks)).Int("sites", len(sites)).Str("path", target).Msg("latest cache saved")
	return nil
}

// LoadLatest reads both persisted tables. A missing or unreadable file
// yields errors.ErrCacheMiss.
func (r *CacheRepository) LoadLatest(ctx context.Context) ([]models.TaskRecord, []models.SiteSummary, error) {
	path := r.Path()
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", errors.ErrCacheMiss, path)
	}

	db, err := database.Open(ctx, database.Options{Path: path, ReadOnly: true})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errors.ErrCacheMiss, err)
	}
	defer db.Close()

	tasks, err := queryTasks(ctx, db)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read tasks: %w", errors.ErrCacheMiss, err)
	}
	sites, err := querySites(ctx, db)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read sites: %w", errors.ErrCacheMiss, err)
	}

	return tasks, sites, nil
}

// LatestTimestamp returns the modification time of the latest cache file
func (r *CacheRepository) LatestTimestamp() (time.Time, bool) {
	info, err := os.Stat(r.Path())
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// writeSQLiteFile creates a fresh SQLite file at path, applies schema and
// runs fill in one transaction.
func writeSQLiteFile(ctx context.Context, path string, schema fs.FS, logger zerolog.Logger, fill func(*sql.Tx) error) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	db, err := database.Open(ctx, database.Options{Path: path})
	if err != nil {
		return err
	}

	if err := database.Migrate(ctx, db, schema, logger); err != nil {
		db.Close()
		os.Remove(path)
		return err
	}
	if err := database.Transaction(ctx, db, fill); err != nil {
		db.Close()
		os.Remove(path)
		return err
	}
	return db.Close()
}

func insertTasks(ctx context.Context, tx *sql.Tx, tasks []models.TaskRecord) error {
	columns := append([]string{"row_index"}, taskColumns...)
	stmt, err := tx.PrepareContext(ctx, insertQuery("tasks", columns))
	if err != nil {
		return fmt.Errorf("failed to prepare task insert: %w", err)
	}
	defer stmt.Close()

	for i := range tasks {
		args, err := taskArgs(&tasks[i])
		if err != nil {
			return fmt.Errorf("failed to encode task %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, append([]any{i}, args...)...); err != nil {
			return fmt.Errorf("failed to insert task %d: %w", i, err)
		}
	}
	return nil
}

// insertSites writes sites into table; extra values are appended to every row.
func insertSites(ctx context.Context, tx *sql.Tx, table string, sites []models.SiteSummary, extra map[string]any) error {
	columns := append([]string(nil), siteColumns...)
	var extraArgs []any
	for col, v := range extra {
		columns = append(columns, col)
		extraArgs = append(extraArgs, v)
	}

	stmt, err := tx.PrepareContext(ctx, insertQuery(table, columns))
	if err != nil {
		return fmt.Errorf("failed to prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i := range sites {
		args := append(siteArgs(&sites[i]), extraArgs...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert %s row %d: %w", table, i, err)
		}
	}
	return nil
}

func queryTasks(ctx context.Context, db *sql.DB) ([]models.TaskRecord, error) {
	rows, err := db.QueryContext(ctx, selectQuery("tasks", taskColumns, "row_index"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.TaskRecord
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func querySites(ctx context.Context, db *sql.DB) ([]models.SiteSummary, error) {
	rows, err := db.QueryContext(ctx, selectQuery("sites", siteColumns, "package_name, district, site_name"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []models.SiteSummary
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}
