package service

import (
	"context"
	"fmt"

	"github.com/jengzang/hcip-dashboard-go/internal/models"
	"github.com/jengzang/hcip-dashboard-go/internal/stats"
)

// RunLister reads the refresh history
type RunLister interface {
	List(ctx context.Context, limit, offset int) ([]*models.RefreshRun, error)
	Count(ctx context.Context) (int64, error)
}

// DataService handles health, refresh and raw listings
type DataService struct {
	source DataSource
	runs   RunLister
}

// NewDataService creates a new data service. runs may be nil when no
// history database is configured.
func NewDataService(source DataSource, runs RunLister) *DataService {
	return &DataService{
		source: source,
		runs:   runs,
	}
}

// Health reports row counts of the current generation
func (s *DataService) Health() models.HealthStatus {
	gen := s.source.Current()
	return models.HealthStatus{
		Status:         "ok",
		RowsTasks:      len(gen.Tasks),
		RowsSites:      len(gen.Sites),
		CacheTimestamp: gen.CacheTimestamp,
	}
}

// Refresh forces a reload from every source
func (s *DataService) Refresh(ctx context.Context) models.RefreshResponse {
	res := s.source.Load(ctx, true)
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return models.RefreshResponse{
		Status:         "refreshed",
		RunID:          res.RunID,
		Outcome:        res.Outcome,
		Warnings:       warnings,
		RowsTasks:      res.TaskRows,
		RowsSites:      res.SiteRows,
		CacheTimestamp: res.CacheTimestamp,
	}
}

// Summary returns the global roll-up; all counts are zero when no data is loaded
func (s *DataService) Summary() models.DataSummary {
	gen := s.source.Current()
	summary := models.DataSummary{
		TotalSites:     len(gen.Sites),
		TotalTasks:     len(gen.Tasks),
		CacheTimestamp: gen.CacheTimestamp,
		Warnings:       append([]string{}, gen.Warnings...),
	}
	if len(gen.Sites) == 0 {
		return summary
	}

	progress := make([]float64, 0, len(gen.Sites))
	for _, site := range gen.Sites {
		progress = append(progress, site.SiteProgress)
		switch site.SiteStatus {
		case models.SiteActive:
			summary.ActiveSites++
		case models.SiteCompleted:
			summary.CompletedSites++
		case models.SiteInactive:
			summary.InactiveSites++
		}
		if site.SiteDelayDays > 30 {
			summary.SitesGT30Delayed++
		}
		if site.SiteDelayDays > 60 {
			summary.SitesGT60Delayed++
		}
	}
	summary.AvgProgress = stats.Round1(stats.MeanOrZero(progress))
	return summary
}

// Sites lists site rows matching the filter
func (s *DataService) Sites(f models.SiteFilter) []models.SiteSummary {
	return filterSites(s.source.Current().Sites, f)
}

// Tasks lists task rows matching the package, district and site filters
func (s *DataService) Tasks(f models.SiteFilter) []models.TaskRecord {
	return filterTasks(s.source.Current().Tasks, f)
}

// Snapshots lists persisted snapshot files, oldest first
func (s *DataService) Snapshots() ([]models.SnapshotFile, error) {
	files, err := s.source.SnapshotFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	if files == nil {
		files = []models.SnapshotFile{}
	}
	return files, nil
}

// RefreshHistory returns one page of recorded runs, newest first
func (s *DataService) RefreshHistory(ctx context.Context, limit, offset int) (*models.RefreshHistory, error) {
	history := &models.RefreshHistory{Runs: []*models.RefreshRun{}}
	if s.runs == nil {
		return history, nil
	}
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	runs, err := s.runs.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list refresh runs: %w", err)
	}
	total, err := s.runs.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count refresh runs: %w", err)
	}
	if runs != nil {
		history.Runs = runs
	}
	history.Total = total
	return history, nil
}
