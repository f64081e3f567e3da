package pipeline

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/jengzang/hcip-dashboard-go/internal/clock"
	"github.com/jengzang/hcip-dashboard-go/internal/ingest"
	"github.com/jengzang/hcip-dashboard-go/internal/models"
)

// Result is one generation of derived tables
type Result struct {
	Tasks     []models.TaskRecord
	Sites     []models.SiteSummary
	Packages  []models.PackageSummary
	Districts []models.DistrictSummary
	Metadata  []models.PackageMetadata
}

// Empty reports whether the result carries no task data
func (r *Result) Empty() bool {
	return len(r.Tasks) == 0
}

// Pipeline runs the batch transform. It holds no state between runs.
type Pipeline struct {
	loc    *time.Location
	clock  clock.Clock
	logger zerolog.Logger
}

// New creates a pipeline evaluating "today" in loc.
func New(loc *time.Location, clk clock.Clock, logger zerolog.Logger) *Pipeline {
	if loc == nil {
		loc = time.UTC
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Pipeline{
		loc:    loc,
		clock:  clk,
		logger: logger.With().Str("component", "pipeline").Logger(),
	}
}

// Today returns the current calendar date in the reference timezone
func (p *Pipeline) Today() time.Time {
	return Today(p.clock.Now(), p.loc)
}

// CleanTasks normalizes raw rows and derives per-task metrics
func (p *Pipeline) CleanTasks(rows []ingest.Row) []models.TaskRecord {
	tasks := Normalize(rows, p.logger)
	ComputeTaskMetrics(tasks, p.Today())
	return tasks
}

// Run executes the full transform over concatenated source rows
func (p *Pipeline) Run(rows []ingest.Row) Result {
	tasks := p.CleanTasks(rows)
	sites := BuildSiteSummaries(tasks)
	result := Derive(tasks, sites)

	p.logger.Info().
		Int("tasks", len(result.Tasks)).
		Int("sites", len(result.Sites)).
		Int("packages", len(result.Packages)).
		Int("districts", len(result.Districts)).
		Msg("pipeline run complete")

	return result
}

// Derive completes a generation from task and site tables, for both fresh
// runs and tables reloaded from the persisted cache.
func Derive(tasks []models.TaskRecord, sites []models.SiteSummary) Result {
	result := Result{Tasks: tasks, Sites: sites}
	if len(tasks) > 0 {
		result.Metadata = ExtractPackageMetadata(tasks)
	}
	if len(sites) > 0 {
		result.Packages = BuildPackageSummaries(sites, result.Metadata)
		result.Districts = BuildDistrictSummaries(sites)
	}
	return result
}
