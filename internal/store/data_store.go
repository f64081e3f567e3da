// Package store holds the live generation of derived tables for the process
// and implements the load algorithm: memory, persisted cache, fresh fetch,
// fallback, empty.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jengzang/hcip-dashboard-go/internal/clock"
	"github.com/jengzang/hcip-dashboard-go/internal/ingest"
	"github.com/jengzang/hcip-dashboard-go/internal/models"
	"github.com/jengzang/hcip-dashboard-go/internal/pipeline"
	"github.com/jengzang/hcip-dashboard-go/internal/repository"
)

// NoDataWarning is the only warning reported when nothing could be loaded
const NoDataWarning = "No data available; check network and try again"

// LatestCache persists the most recent task and site tables
type LatestCache interface {
	SaveLatest(ctx context.Context, tasks []models.TaskRecord, sites []models.SiteSummary) error
	LoadLatest(ctx context.Context) ([]models.TaskRecord, []models.SiteSummary, error)
	LatestTimestamp() (time.Time, bool)
}

// SnapshotStore persists timestamped site tables
type SnapshotStore interface {
	Save(ctx context.Context, sites []models.SiteSummary, takenAt time.Time) (models.SnapshotFile, error)
	Cleanup(retentionDays int, now time.Time) (int, error)
	LoadAll(ctx context.Context) ([]models.SnapshotRow, error)
	List() ([]models.SnapshotFile, error)
}

// RunRecorder records refresh runs
type RunRecorder interface {
	Create(ctx context.Context, run *models.RefreshRun) error
}

// Generation is one immutable set of derived tables. Readers hold a
// *Generation and never see tables from two different loads.
type Generation struct {
	pipeline.Result

	Warnings       []string
	Outcome        string
	LoadedAt       time.Time
	CacheTimestamp string
}

// LoadResult reports what a Load did
type LoadResult struct {
	RunID          string   `json:"run_id,omitempty"`
	Outcome        string   `json:"outcome"`
	Warnings       []string `json:"warnings"`
	FailedSources  []string `json:"failed_sources"`
	TaskRows       int      `json:"task_rows"`
	SiteRows       int      `json:"site_rows"`
	CacheTimestamp string   `json:"cache_timestamp,omitempty"`
	SnapshotName   string   `json:"snapshot_name,omitempty"`
}

// Options configures a DataStore
type Options struct {
	Sources       []ingest.Source
	Concurrency   int
	TTL           time.Duration
	RetentionDays int
	Location      *time.Location

	Pipeline  *pipeline.Pipeline
	Cache     LatestCache
	Snapshots SnapshotStore
	Runs      RunRecorder // optional

	Clock  clock.Clock
	Logger zerolog.Logger
}

// DataStore is the process-scoped holder of the current generation. It
// starts empty; Load populates it.
type DataStore struct {
	opts   Options
	logger zerolog.Logger

	// refreshMu covers deciding whether to refresh and installing the result
	refreshMu sync.Mutex
	group     singleflight.Group
	gen       atomic.Pointer[Generation]
}

// New creates an empty DataStore
func New(opts Options) *DataStore {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	s := &DataStore{
		opts:   opts,
		logger: opts.Logger.With().Str("component", "datastore").Logger(),
	}
	s.gen.Store(&Generation{})
	return s
}

// Current returns the installed generation; never nil
func (s *DataStore) Current() *Generation {
	return s.gen.Load()
}

// IsStale reports whether the held data is absent or older than the TTL
func (s *DataStore) IsStale() bool {
	return s.isStale(s.Current())
}

func (s *DataStore) isStale(g *Generation) bool {
	if g.LoadedAt.IsZero() {
		return true
	}
	return s.opts.Clock.Now().Sub(g.LoadedAt) > s.opts.TTL
}

// CacheTimestamp returns the persisted cache time of the current
// generation, empty when none
func (s *DataStore) CacheTimestamp() string {
	return s.Current().CacheTimestamp
}

// Snapshots loads the full snapshot history. Files are replaced by rename,
// so this runs without the refresh lock.
func (s *DataStore) Snapshots(ctx context.Context) ([]models.SnapshotRow, error) {
	return s.opts.Snapshots.LoadAll(ctx)
}

// SnapshotFiles lists persisted snapshots, oldest first
func (s *DataStore) SnapshotFiles() ([]models.SnapshotFile, error) {
	return s.opts.Snapshots.List()
}

// Load runs the load algorithm. Concurrent calls with the same force flag
// share one execution and all observe its result. Load never fails; problems
// are reported as warnings.
func (s *DataStore) Load(ctx context.Context, force bool) LoadResult {
	key := "load"
	if force {
		key = "refresh"
	}

	return s.do(ctx, key, force, force)
}

// Reload fetches from the sources like a forced Load but takes no snapshot.
// Snapshots stay tied to explicit refreshes.
func (s *DataStore) Reload(ctx context.Context) LoadResult {
	return s.do(ctx, "reload", true, false)
}

func (s *DataStore) do(ctx context.Context, key string, force, snapshot bool) LoadResult {
	// a started load runs to completion even if the first caller goes away
	ctx = context.WithoutCancel(ctx)
	v, _, _ := s.group.Do(key, func() (any, error) {
		return s.load(ctx, force, snapshot), nil
	})
	return v.(LoadResult)
}

func (s *DataStore) load(ctx context.Context, force, snapshot bool) LoadResult {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	started := s.opts.Clock.Now()
	cur := s.Current()

	// (1) current data is fresh enough
	if !force && !cur.Empty() && !s.isStale(cur) {
		return LoadResult{
			Outcome:        models.OutcomeMemory,
			Warnings:       cur.Warnings,
			TaskRows:       len(cur.Tasks),
			SiteRows:       len(cur.Sites),
			CacheTimestamp: cur.CacheTimestamp,
		}
	}

	run := &models.RefreshRun{ID: uuid.NewString(), Forced: force, StartedAt: started}

	// (2) persisted latest
	if !force {
		if gen, ok := s.fromCache(ctx); ok {
			gen.Warnings = []string{fmt.Sprintf("Loaded from cache (%s)", gen.CacheTimestamp)}
			gen.Outcome = models.OutcomeCache
			return s.finish(ctx, run, gen, nil, "")
		}
	}

	// (3) fresh fetch
	fetched := ingest.FetchAll(ctx, s.opts.Sources, s.opts.Concurrency, s.logger)
	run.SourcesSucceeded = len(fetched.Succeeded)

	var warnings []string
	if len(fetched.Failed) > 0 {
		warnings = append(warnings, "Failed to load: "+strings.Join(fetched.Failed, ", "))
	}

	if fetched.Empty() {
		// (4) fall back to persisted latest
		if gen, ok := s.fromCache(ctx); ok {
			gen.Warnings = append(warnings, fmt.Sprintf("All sources unavailable; cached data from %s", gen.CacheTimestamp))
			gen.Outcome = models.OutcomeFallback
			return s.finish(ctx, run, gen, fetched.Failed, "")
		}

		// (5) nothing at all; keep whatever is held
		s.logger.Error().Strs("failed", fetched.Failed).Msg("no source produced data and no cache exists")
		if cur.Empty() {
			s.gen.Store(&Generation{Warnings: []string{NoDataWarning}, Outcome: models.OutcomeEmpty})
		}
		run.Outcome = models.OutcomeEmpty
		run.Warnings = []string{NoDataWarning}
		run.SourcesFailed = fetched.Failed
		s.record(ctx, run)
		return LoadResult{
			RunID:         run.ID,
			Outcome:       models.OutcomeEmpty,
			Warnings:      run.Warnings,
			FailedSources: fetched.Failed,
		}
	}

	result := s.opts.Pipeline.Run(fetched.Rows)

	if err := s.opts.Cache.SaveLatest(ctx, result.Tasks, result.Sites); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist latest cache")
	}

	var snapshotName string
	if snapshot {
		snapshotName = s.snapshot(ctx, result.Sites)
	}

	warnings = append([]string{fmt.Sprintf("Loaded %d/%d sources successfully", len(fetched.Succeeded), fetched.Total)}, warnings...)
	gen := &Generation{
		Result:         result,
		Warnings:       warnings,
		Outcome:        models.OutcomeFresh,
		CacheTimestamp: s.cacheTimestamp(),
	}
	return s.finish(ctx, run, gen, fetched.Failed, snapshotName)
}

// fromCache builds a generation from the persisted latest tables. A cache
// with no tasks counts as absent.
func (s *DataStore) fromCache(ctx context.Context) (*Generation, bool) {
	tasks, sites, err := s.opts.Cache.LoadLatest(ctx)
	if err != nil {
		s.logger.Debug().Err(err).Msg("latest cache unavailable")
		return nil, false
	}
	if len(tasks) == 0 {
		return nil, false
	}
	return &Generation{
		Result:         pipeline.Derive(tasks, sites),
		CacheTimestamp: s.cacheTimestamp(),
	}, true
}

// snapshot saves a snapshot and applies retention; failures are logged only.
func (s *DataStore) snapshot(ctx context.Context, sites []models.SiteSummary) string {
	now := s.opts.Clock.Now()

	file, err := s.opts.Snapshots.Save(ctx, sites, now)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to save snapshot")
	}
	if _, err := s.opts.Snapshots.Cleanup(s.opts.RetentionDays, now); err != nil {
		s.logger.Warn().Err(err).Msg("snapshot retention cleanup failed")
	}
	return file.Name
}

// finish installs gen as the current generation and records the run.
func (s *DataStore) finish(ctx context.Context, run *models.RefreshRun, gen *Generation, failed []string, snapshotName string) LoadResult {
	gen.LoadedAt = s.opts.Clock.Now()
	s.gen.Store(gen)

	run.Outcome = gen.Outcome
	run.Warnings = gen.Warnings
	run.SourcesFailed = failed
	run.TaskRows = len(gen.Tasks)
	run.SiteRows = len(gen.Sites)
	run.SnapshotName = snapshotName
	s.record(ctx, run)

	s.logger.Info().
		Str("run_id", run.ID).
		Str("outcome", gen.Outcome).
		Int("tasks", run.TaskRows).
		Int("sites", run.SiteRows).
		Strs("failed", failed).
		Msg("data loaded")

	return LoadResult{
		RunID:          run.ID,
		Outcome:        gen.Outcome,
		Warnings:       gen.Warnings,
		FailedSources:  failed,
		TaskRows:       run.TaskRows,
		SiteRows:       run.SiteRows,
		CacheTimestamp: gen.CacheTimestamp,
		SnapshotName:   snapshotName,
	}
}

func (s *DataStore) record(ctx context.Context, run *models.RefreshRun) {
	if s.opts.Runs == nil {
		return
	}
	run.FinishedAt = s.opts.Clock.Now()
	if err := s.opts.Runs.Create(ctx, run); err != nil {
		s.logger.Warn().Err(err).Str("run_id", run.ID).Msg("failed to record refresh run")
	}
}

func (s *DataStore) cacheTimestamp() string {
	ts, ok := s.opts.Cache.LatestTimestamp()
	if !ok {
		return ""
	}
	return ts.In(s.opts.Location).Format(repository.CacheTimestampLayout)
}

// Watch checks staleness every interval and reloads from the sources when
// the held data is stale, until ctx is done. Background reloads take no
// snapshot.
func (s *DataStore) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.IsStale() {
				s.Reload(ctx)
			}
		}
	}
}
