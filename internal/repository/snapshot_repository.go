package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jengzang/hcip-dashboard-go/internal/database"
	"github.com/jengzang/hcip-dashboard-go/internal/errors"
	"github.com/jengzang/hcip-dashboard-go/internal/models"
)

// Snapshot file names are the capture time; lexical order is chronological.
const (
	SnapshotNameLayout = "2006-01-02T15-04-05.000"
	snapshotExt        = ".db"
	snapshotsDir       = "snapshots"
)

// legacyNameLayout is accepted when parsing names without milliseconds
const legacyNameLayout = "2006-01-02T15-04-05"

// SnapshotRepository stores timestamped copies of the site table
type SnapshotRepository struct {
	dir    string
	loc    *time.Location
	logger zerolog.Logger
}

// NewSnapshotRepository creates a snapshot repository under <cacheDir>/snapshots.
// File names are written and parsed in loc.
func NewSnapshotRepository(cacheDir string, loc *time.Location, logger zerolog.Logger) *SnapshotRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &SnapshotRepository{
		dir:    filepath.Join(cacheDir, snapshotsDir),
		loc:    loc,
		logger: logger.With().Str("component", "snapshots").Logger(),
	}
}

// SnapshotName returns the file name for a snapshot taken at t
func (r *SnapshotRepository) SnapshotName(t time.Time) string {
	return t.In(r.loc).Format(SnapshotNameLayout) + snapshotExt
}

// ParseSnapshotName extracts the capture time from a snapshot file name
func (r *SnapshotRepository) ParseSnapshotName(name string) (time.Time, error) {
	base := strings.TrimSuffix(name, snapshotExt)
	for _, layout := range []string{SnapshotNameLayout, legacyNameLayout} {
		if t, err := time.ParseInLocation(layout, base, r.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s", errors.ErrSnapshotName, name)
}

// Save writes sites as a new snapshot tagged with takenAt
func (r *SnapshotRepository) Save(ctx context.Context, sites []models.SiteSummary, takenAt time.Time) (models.SnapshotFile, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return models.SnapshotFile{}, fmt.Errorf("%w: create snapshot dir: %w", errors.ErrPersistence, err)
	}

	name := r.SnapshotName(takenAt)
	target := filepath.Join(r.dir, name)
	tmp := target + ".tmp"

	ts := takenAt.In(r.loc).Format(storedTimeLayout)
	err := writeSQLiteFile(ctx, tmp, database.SnapshotSchema, r.logger, func(tx *sql.Tx) error {
		return insertSites(ctx, tx, "site_snapshots", sites, map[string]any{"snapshot_ts": ts})
	})
	if err != nil {
		return models.SnapshotFile{}, fmt.Errorf("%w: write snapshot %s: %w", errors.ErrPersistence, name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return models.SnapshotFile{}, fmt.Errorf("%w: install snapshot %s: %w", errors.ErrPersistence, name, err)
	}

	file := models.SnapshotFile{Name: name, TakenAt: takenAt.In(r.loc)}
	if info, err := os.Stat(target); err == nil {
		file.SizeBytes = info.Size()
	}

	r.logger.Info().Str("snapshot", name).Int("sites", len(sites)).Msg("snapshot saved")
	return file, nil
}

// List returns every snapshot file, oldest first. A missing directory is an
// empty list.
func (r *SnapshotRepository) List() ([]models.SnapshotFile, error) {
	entries, err := os.ReadDir(r.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var files []models.SnapshotFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != snapshotExt {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}

		takenAt, err := r.ParseSnapshotName(e.Name())
		if err != nil {
			takenAt = info.ModTime().In(r.loc)
		}
		files = append(files, models.SnapshotFile{
			Name:      e.Name(),
			TakenAt:   takenAt,
			SizeBytes: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// LoadAll concatenates every readable snapshot in chronological order.
// Unreadable files are logged and skipped.
func (r *SnapshotRepository) LoadAll(ctx context.Context) ([]models.SnapshotRow, error) {
	files, err := r.List()
	if err != nil {
		return nil, err
	}

	var all []models.SnapshotRow
	for _, f := range files {
		rows, err := r.load(ctx, filepath.Join(r.dir, f.Name))
		if err != nil {
			r.logger.Warn().Err(err).Str("snapshot", f.Name).Msg("skipping unreadable snapshot")
			continue
		}
		all = append(all, rows...)
	}
	return all, nil
}

func (r *SnapshotRepository) load(ctx context.Context, path string) ([]models.SnapshotRow, error) {
	db, err := database.Open(ctx, database.Options{Path: path, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer db.Close()

	columns := append(append([]string(nil), siteColumns...), "snapshot_ts")
	rows, err := db.QueryContext(ctx, selectQuery("site_snapshots", columns, "package_name, district, site_name"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SnapshotRow
	for rows.Next() {
		var ts string
		site, err := scanSite(rows, &ts)
		if err != nil {
			return nil, err
		}
		taken, err := time.Parse(storedTimeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("bad snapshot_ts %q: %w", ts, err)
		}
		out = append(out, models.SnapshotRow{SiteSummary: site, SnapshotTS: taken})
	}
	return out, rows.Err()
}

// Cleanup deletes snapshots older than retentionDays relative to now and
// returns how many were removed. Individual delete failures are logged and
// skipped.
func (r *SnapshotRepository) Cleanup(retentionDays int, now time.Time) (int, error) {
	files, err := r.List()
	if err != nil {
		return 0, err
	}

	cutoff := now.AddDate(0, 0, -retentionDays)
	removed := 0
	for _, f := range files {
		if !f.TakenAt.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(r.dir, f.Name)); err != nil {
			r.logger.Warn().Err(err).Str("snapshot", f.Name).Msg("failed to delete expired snapshot")
			continue
		}
		removed++
	}

	if removed > 0 {
		r.logger.Info().Int("removed", removed).Int("retention_days", retentionDays).Msg("expired snapshots deleted")
	}
	return removed, nil
}
