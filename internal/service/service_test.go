package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jengzang/hcip-dashboard-go/internal/clock"
	"github.com/jengzang/hcip-dashboard-go/internal/ingest"
	"github.com/jengzang/hcip-dashboard-go/internal/models"
	"github.com/jengzang/hcip-dashboard-go/internal/pipeline"
	"github.com/jengzang/hcip-dashboard-go/internal/store"
)

var refNow = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

// fakeSource serves a fixed generation
type fakeSource struct {
	gen       *store.Generation
	snapshots []models.SnapshotRow
	files     []models.SnapshotFile
	result    store.LoadResult
	loads     []bool
}

func (f *fakeSource) Current() *store.Generation { return f.gen }

func (f *fakeSource) CacheTimestamp() string { return f.gen.CacheTimestamp }

func (f *fakeSource) Snapshots(context.Context) ([]models.SnapshotRow, error) {
	return f.snapshots, nil
}

func (f *fakeSource) SnapshotFiles() ([]models.SnapshotFile, error) { return f.files, nil }

func (f *fakeSource) Load(_ context.Context, force bool) store.LoadResult {
	f.loads = append(f.loads, force)
	return f.result
}

func testPipeline() *pipeline.Pipeline {
	return pipeline.New(time.UTC, clock.Fixed(refNow), zerolog.Nop())
}

// fixtureRows builds three sites as of 2026-03-20:
//   - Package-1/Swat/GPS Mingora: Active, 10 days late, risk 65
//   - Package-1/Swat/GPS Kalam: Inactive, planned start passed, risk 80
//   - Package-2/Dir/GGPS Timergara: Completed 14 days late, risk 25
func fixtureRows() []ingest.Row {
	return []ingest.Row{
		{
			"package_name":           "Package-1",
			"district":               "Swat",
			"site_name":              "GPS Mingora",
			"discipline":             "Civil",
			"task_name":              "Foundation",
			"planned_start":          "01/01/2026",
			"planned_finish":         "10/03/2026",
			"progress_pct":           "50",
			"mobilization_taken":     "Yes",
			"cesmps":                 "yes",
			"ohs":                    "March - Yes",
			"ipc_1":                  "submitted",
			"ipc_2":                  "released",
			"before_photo_share_url": "https://photos.example/mingora-before",
		},
		{
			"package_name":   "Package-1",
			"district":       "Swat",
			"site_name":      "GPS Kalam",
			"discipline":     "Civil",
			"task_name":      "Foundation",
			"planned_start":  "01/03/2026",
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
			"cesmps":         "No",
		},
	}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		gen: &store.Generation{
			Result:         testPipeline().Run(fixtureRows()),
			Warnings:       []string{"Loaded 2/2 sources successfully"},
			Outcome:        models.OutcomeFresh,
			LoadedAt:       refNow,
			CacheTimestamp: "2026-03-20 17:00:00",
		},
	}
}

func emptySource() *fakeSource {
	return &fakeSource{gen: &store.Generation{}}
}

var (
	mingora   = models.SiteKey{PackageName: "Package-1", District: "Swat", SiteName: "GPS Mingora"}
	kalam     = models.SiteKey{PackageName: "Package-1", District: "Swat", SiteName: "GPS Kalam"}
	timergara = models.SiteKey{PackageName: "Package-2", District: "Dir", SiteName: "GGPS Timergara"}
)

func siteNames(sites []models.SiteSummary) []string {
	names := make([]string, len(sites))
	for i, s := range sites {
		names[i] = s.SiteName
	}
	return names
}
