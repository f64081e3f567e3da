package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/hcip-dashboard-go/internal/errors"
	"github.com/jengzang/hcip-dashboard-go/internal/ingest"
	"github.com/jengzang/hcip-dashboard-go/internal/models"
	"github.com/jengzang/hcip-dashboard-go/internal/pipeline"
	"github.com/jengzang/hcip-dashboard-go/internal/repository"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// stubSource serves two sites of one package, or fails when down is set
type stubSource struct {
	name  string
	down  atomic.Bool
	calls atomic.Int32
	gate  chan struct{} // optional; Fetch blocks until closed

	inFlight, maxInFlight *atomic.Int32
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context) (ingest.Table, error) {
	s.calls.Add(1)
	if s.inFlight != nil {
		n := s.inFlight.Add(1)
		defer s.inFlight.Add(-1)
		for {
			m := s.maxInFlight.Load()
			if n <= m || s.maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
	}
	if s.gate != nil {
		<-s.gate
	}
	if s.down.Load() {
		return ingest.Table{}, fmt.Errorf("%w: %s unreachable", errors.ErrSourceFetch, s.name)
	}
	return ingest.Table{
		Source: s.name,
		Rows: []ingest.Row{
			{"package_name": s.name, "district": "D1", "site_name": "S1", "discipline": "Civil", "task_name": "Slab", "progress_pct": "50", "planned_finish": "10/03/2026"},
			{"package_name": s.name, "district": "D1", "site_name": "S2", "discipline": "Civil", "task_name": "Slab", "progress_pct": "0"},
		},
	}, nil
}

type fixture struct {
	dir       string
	clock     *testClock
	sources   []*stubSource
	cache     *repository.CacheRepository
	snapshots *repository.SnapshotRepository
	runs      *memRuns
}

type memRuns struct {
	mu   sync.Mutex
	runs []models.RefreshRun
}

func (m *memRuns) Create(_ context.Context, run *models.RefreshRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, *run)
	return nil
}

func newFixture(t *testing.T, n int) *fixture {
	t.Helper()
	f := &fixture{
		dir:   t.TempDir(),
		clock: &testClock{now: time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)},
		runs:  &memRuns{},
	}
	for i := 0; i < n; i++ {
		f.sources = append(f.sources, &stubSource{name: fmt.Sprintf("Package-%d", i+1)})
	}
	f.cache = repository.NewCacheRepository(f.dir, zerolog.Nop())
	f.snapshots = repository.NewSnapshotRepository(f.dir, time.UTC, zerolog.Nop())
	return f
}

func (f *fixture) store() *DataStore {
	sources := make([]ingest.Source, len(f.sources))
	for i, s := range f.sources {
		sources[i] = s
	}
	return New(Options{
		Sources:       sources,
		Concurrency:   4,
		TTL:           time.Hour,
		RetentionDays: 180,
		Location:      time.UTC,
		Pipeline:      pipeline.New(time.UTC, f.clock, zerolog.Nop()),
		Cache:         f.cache,
		Snapshots:     f.snapshots,
		Runs:          f.runs,
		Clock:         f.clock,
		Logger:        zerolog.Nop(),
	})
}

func (f *fixture) fetchCalls() int {
	total := 0
	for _, s := range f.sources {
		total += int(s.calls.Load())
	}
	return total
}

func TestDataStore_StartsEmptyAndStale(t *testing.T) {
	s := newFixture(t, 1).store()

	assert.True(t, s.IsStale())
	assert.True(t, s.Current().Empty())
	assert.Empty(t, s.CacheTimestamp())
}

func TestDataStore_PartialSourceFailure(t *testing.T) {
	f := newFixture(t, 10)
	for _, i := range []int{2, 5, 8} {
		f.sources[i].down.Store(true)
	}
	s := f.store()

	res := s.Load(context.Background(), true)

	assert.Equal(t, models.OutcomeFresh, res.Outcome)
	assert.Equal(t, []string{"Package-3", "Package-6", "Package-9"}, res.FailedSources)
	require.Len(t, res.Warnings, 2)
	assert.Equal(t, "Loaded 7/10 sources successfully", res.Warnings[0])
	assert.Equal(t, "Failed to load: Package-3, Package-6, Package-9", res.Warnings[1])
	assert.Equal(t, 14, res.TaskRows)
	assert.Equal(t, 14, res.SiteRows)
	assert.NotEmpty(t, res.SnapshotName)
	assert.NotEmpty(t, res.RunID)

	gen := s.Current()
	assert.Len(t, gen.Packages, 7)
	assert.False(t, s.IsStale())
	assert.NotEmpty(t, gen.CacheTimestamp)

	_, err := os.Stat(f.cache.Path())
	assert.NoError(t, err)
	files, err := s.SnapshotFiles()
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestDataStore_TotalFailureWithoutCache(t *testing.T) {
	f := newFixture(t, 10)
	for _, src := range f.sources {
		src.down.Store(true)
	}
	s := f.store()

	res := s.Load(context.Background(), true)

	assert.Equal(t, models.OutcomeEmpty, res.Outcome)
	assert.Equal(t, []string{NoDataWarning}, res.Warnings)
	assert.Len(t, res.FailedSources, 10)
	assert.Zero(t, res.TaskRows)
	assert.True(t, s.Current().Empty())
	assert.Empty(t, s.Current().Sites)
	assert.Equal(t, []string{NoDataWarning}, s.Current().Warnings)

	require.Len(t, f.runs.runs, 1)
	assert.Equal(t, models.OutcomeEmpty, f.runs.runs[0].Outcome)
}

func TestDataStore_FallsBackToCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	s := f.store()

	first := s.Load(ctx, false)
	require.Equal(t, models.OutcomeFresh, first.Outcome)
	assert.Empty(t, first.SnapshotName, "non-forced runs never snapshot")

	for _, src := range f.sources {
		src.down.Store(true)
	}
	res := s.Load(ctx, true)

	assert.Equal(t, models.OutcomeFallback, res.Outcome)
	require.Len(t, res.Warnings, 2)
	assert.Equal(t, "Failed to load: Package-1, Package-2", res.Warnings[0])
	assert.Contains(t, res.Warnings[1], "All sources unavailable; cached data from ")
	assert.Equal(t, 4, res.TaskRows)
	assert.Len(t, s.Current().Sites, 4)
	assert.Len(t, s.Current().Packages, 2)
}

func TestDataStore_NonForcedPrefersPersistedCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)

	require.Equal(t, models.OutcomeFresh, f.store().Load(ctx, true).Outcome)
	callsAfterFirst := f.fetchCalls()

	// a new process sharing the cache directory
	s := f.store()
	res := s.Load(ctx, false)

	assert.Equal(t, models.OutcomeCache, res.Outcome)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, fmt.Sprintf("Loaded from cache (%s)", s.CacheTimestamp()), res.Warnings[0])
	assert.Equal(t, callsAfterFirst, f.fetchCalls(), "cache load must not fetch")
	assert.Len(t, s.Current().Tasks, 4)
	assert.Len(t, s.Current().Districts, 2)
}

func TestDataStore_MemoryHitUntilStale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	s := f.store()

	require.Equal(t, models.OutcomeFresh, s.Load(ctx, false).Outcome)
	before := s.Current()

	res := s.Load(ctx, false)
	assert.Equal(t, models.OutcomeMemory, res.Outcome)
	assert.Same(t, before, s.Current())
	assert.Equal(t, 1, f.fetchCalls())

	f.clock.Advance(2 * time.Hour)
	assert.True(t, s.IsStale())
	assert.Same(t, before, s.Current(), "staleness never discards data")

	res = s.Load(ctx, false)
	assert.Equal(t, models.OutcomeCache, res.Outcome)
	assert.False(t, s.IsStale())
}

func TestDataStore_ForcedAlwaysFetches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	s := f.store()

	s.Load(ctx, true)
	s.Load(ctx, true)
	assert.Equal(t, 2, f.fetchCalls())
	assert.Len(t, f.runs.runs, 2)
}

func TestDataStore_ConcurrentRefreshesCoalesce(t *testing.T) {
	f := newFixture(t, 1)
	src := f.sources[0]
	src.gate = make(chan struct{})
	src.inFlight, src.maxInFlight = &atomic.Int32{}, &atomic.Int32{}
	s := f.store()

	const callers = 8
	results := make([]LoadResult, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.Load(context.Background(), true)
		}()
	}

	require.Eventually(t, func() bool { return src.calls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	runIDs := make(map[string]bool)
	for _, r := range results {
		assert.Equal(t, models.OutcomeFresh, r.Outcome)
		runIDs[r.RunID] = true
	}
	assert.Equal(t, int(src.calls.Load()), len(runIDs), "one fetch per shared execution")
	assert.Less(t, len(runIDs), callers)
	assert.EqualValues(t, 1, src.maxInFlight.Load(), "never two pipeline runs at once")
}

func TestDataStore_ReadersSeeWholeGenerations(t *testing.T) {
	f := newFixture(t, 3)
	s := f.store()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			gen := s.Current()
			total := 0
			for _, p := range gen.Packages {
				total += p.TotalSites
			}
			if total != len(gen.Sites) {
				t.Errorf("mixed generation: packages count %d sites, table has %d", total, len(gen.Sites))
				return
			}
		}
	}()

	for i := 0; i < 5; i++ {
		f.sources[i%3].down.Store(i%2 == 0)
		s.Load(context.Background(), true)
	}
	cancel()
	wg.Wait()
}

func TestDataStore_SnapshotRetention(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)

	old := filepath.Join(f.dir, "snapshots", "2025-01-01T00-00-00.000.db")
	require.NoError(t, os.MkdirAll(filepath.Dir(old), 0o755))
	require.NoError(t, os.WriteFile(old, []byte("stale"), 0o644))

	f.store().Load(ctx, true)

	_, err := os.Stat(old)
	assert.True(t, os.IsNotExist(err), "snapshot older than retention is removed")

	rows, err := f.store().Snapshots(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestDataStore_Watch(t *testing.T) {
	f := newFixture(t, 1)
	s := f.store()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.Watch(ctx, 5*time.Millisecond)

	require.Eventually(t, func() bool { return !s.Current().Empty() }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, models.OutcomeFresh, s.Current().Outcome)

	files, err := s.SnapshotFiles()
	require.NoError(t, err)
	assert.Empty(t, files, "background reloads take no snapshot")
}

func TestDataStore_ReloadSkipsSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	s := f.store()

	s.Load(ctx, false)
	f.clock.Advance(2 * time.Hour)

	res := s.Reload(ctx)
	assert.Equal(t, models.OutcomeFresh, res.Outcome)
	assert.Empty(t, res.SnapshotName)
	assert.Equal(t, 2, f.fetchCalls(), "reload bypasses the persisted cache")

	files, err := s.SnapshotFiles()
	require.NoError(t, err)
	assert.Empty(t, files)

	res = s.Load(ctx, true)
	assert.NotEmpty(t, res.SnapshotName)
	files, err = s.SnapshotFiles()
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
