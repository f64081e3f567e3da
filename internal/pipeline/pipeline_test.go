package pipeline

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/hcip-dashboard-go/internal/clock"
	"github.com/jengzang/hcip-dashboard-go/internal/ingest"
	"github.com/jengzang/hcip-dashboard-go/internal/models"
)

func sampleRows() []ingest.Row {
	return []ingest.Row{
		{
			"package_name":       "Package-1",
			"district":           "Swat",
			"site_name":          "GPS Mingora",
			"discipline":         "Civil",
			"task_name":          "Foundation",
			"planned_start":      "01/01/2026",
			"planned_finish":     "10/03/2026",
			"progress_pct":       "50",
			"mobilization_taken": "Yes",
			"ipc_1":              "submitted",
			"ipc_2":              "released",
		},
		{
			"package_name":   "Package-1",
			"district":       "Swat",
			"site_name":      "GPS Kalam",
			"discipline":     "Civil",
			"task_name":      "Foundation",
			"planned_finish": "30/04/2026",
			"progress_pct":   "0",
		},
		{
			"package_name":   "Package-2",
			"district":       "Dir",
			"site_name":      "GGPS Timergara",
			"discipline":     "Electrical",
			"task_name":      "Wiring",
			"planned_finish": "01/02/2026",
			"actual_finish":  "15/02/2026",
			"progress_pct":   "100",
		},
	}
}

func newTestPipeline() *Pipeline {
	return New(karachi(), clock.Fixed(refNow), zerolog.Nop())
}

func TestPipeline_Run(t *testing.T) {
	result := newTestPipeline().Run(sampleRows())

	require.Len(t, result.Tasks, 3)
	require.Len(t, result.Sites, 3)
	require.Len(t, result.Packages, 2)
	require.Len(t, result.Districts, 2)
	require.Len(t, result.Metadata, 2)

	byName := make(map[string]models.SiteSummary)
	for _, s := range result.Sites {
		byName[s.SiteName] = s
	}

	mingora := byName["GPS Mingora"]
	assert.Equal(t, models.SiteActive, mingora.SiteStatus)
	assert.Equal(t, 65, mingora.RiskScore)

	kalam := byName["GPS Kalam"]
	assert.Equal(t, models.SiteInactive, kalam.SiteStatus)
	assert.Equal(t, models.BucketOnTrack, kalam.DelayBucket)

	timergara := byName["GGPS Timergara"]
	assert.Equal(t, models.SiteCompleted, timergara.SiteStatus)
	assert.InDelta(t, 14, timergara.SiteDelayDays, 1e-9)

	p1 := result.Packages[0]
	assert.Equal(t, "Package-1", p1.PackageName)
	require.NotNil(t, p1.IPCBestStage)
	assert.Equal(t, IPCReleased, *p1.IPCBestStage)
	require.NotNil(t, p1.MobilizationTaken)
	assert.Equal(t, Yes, *p1.MobilizationTaken)
}

func TestPipeline_RunIsIdempotent(t *testing.T) {
	p := newTestPipeline()
	first := p.Run(sampleRows())
	second := p.Run(sampleRows())

	assert.Equal(t, first.Sites, second.Sites)
	assert.Equal(t, first.Packages, second.Packages)
	assert.Equal(t, first.Districts, second.Districts)
}

func TestPipeline_RunEmpty(t *testing.T) {
	result := newTestPipeline().Run(nil)
	assert.True(t, result.Empty())
	assert.Empty(t, result.Sites)
	assert.Empty(t, result.Packages)
}

func TestDerive_MatchesRun(t *testing.T) {
	result := newTestPipeline().Run(sampleRows())
	rebuilt := Derive(result.Tasks, result.Sites)

	assert.Equal(t, result.Packages, rebuilt.Packages)
	assert.Equal(t, result.Districts, rebuilt.Districts)
}
