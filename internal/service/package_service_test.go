package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/hcip-dashboard-go/internal/errors"
	"github.com/jengzang/hcip-dashboard-go/internal/ingest"
	"github.com/jengzang/hcip-dashboard-go/internal/models"
	"github.com/jengzang/hcip-dashboard-go/internal/pipeline"
	"github.com/jengzang/hcip-dashboard-go/internal/store"
)

func TestPackageService_Detail(t *testing.T) {
	svc := NewPackageService(newFakeSource(), testPipeline())

	detail := svc.Detail("Package-1")
	require.NotNil(t, detail.Package)
	assert.Equal(t, 2, detail.Package.TotalSites)
	require.Len(t, detail.Districts, 1)
	assert.Equal(t, "Swat", detail.Districts[0].District)
	assert.Equal(t, []string{"GPS Kalam", "GPS Mingora"}, siteNames(detail.Sites))

	missing := svc.Detail("Package-9")
	assert.Nil(t, missing.Package)
	assert.Empty(t, missing.Districts)
	assert.Empty(t, missing.Sites)
}

func TestPackageService_DelayChart(t *testing.T) {
	svc := NewPackageService(newFakeSource(), testPipeline())

	chart := svc.DelayChart("Package-1")
	assert.Equal(t, []models.BucketCount{
		{Bucket: models.BucketOnTrack, Count: 1},
		{Bucket: models.Bucket1To30, Count: 1},
		{Bucket: models.Bucket31To60, Count: 0},
		{Bucket: models.BucketOver60, Count: 0},
	}, chart)

	assert.Empty(t, svc.DelayChart("Package-9"))
}

func TestPackageService_PlannedVsActual(t *testing.T) {
	rows := NewPackageService(newFakeSource(), testPipeline()).PlannedVsActual()
	require.Len(t, rows, 2)

	// Mingora's window has passed (100); Kalam is 19 of 60 days in
	p1 := rows[0]
	assert.Equal(t, "Package-1", p1.PackageName)
	require.NotNil(t, p1.PlannedProgress)
	assert.InDelta(t, 65.8, *p1.PlannedProgress, 1e-9)
	assert.InDelta(t, 25.0, p1.ActualProgress, 1e-9)
	require.NotNil(t, p1.Gap)
	assert.InDelta(t, -40.8, *p1.Gap, 1e-9)

	p2 := rows[1]
	assert.Nil(t, p2.PlannedProgress)
	assert.Nil(t, p2.Gap)
}

func TestSiteService_Detail(t *testing.T) {
	svc := NewSiteService(newFakeSource())

	site, err := svc.Detail(mingora)
	require.NoError(t, err)
	assert.Equal(t, 65, site.RiskScore)

	_, err = svc.Detail(models.SiteKey{PackageName: "Package-1", District: "Swat", SiteName: "Nope"})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestSiteService_IPC(t *testing.T) {
	svc := NewSiteService(newFakeSource())

	ipc, err := svc.IPC(mingora)
	require.NoError(t, err)
	assert.Equal(t, pipeline.IPCSubmitted, ipc.IPC1)
	assert.Equal(t, pipeline.IPCReleased, ipc.IPC2)
	assert.Equal(t, pipeline.IPCNotSubmitted, ipc.IPC6)
	assert.Equal(t, pipeline.IPCReleased, ipc.IPCBestStage)

	// Kalam shares Package-1's stages
	shared, err := svc.IPC(kalam)
	require.NoError(t, err)
	assert.Equal(t, ipc.IPCBestStage, shared.IPCBestStage)

	bare, err := svc.IPC(timergara)
	require.NoError(t, err)
	assert.Equal(t, pipeline.IPCNotSubmitted, bare.IPC1)
	assert.Equal(t, pipeline.IPCNotSubmitted, bare.IPCBestStage)

	_, err = NewSiteService(emptySource()).IPC(mingora)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestSiteService_TasksAndPhotos(t *testing.T) {
	svc := NewSiteService(newFakeSource())

	assert.Len(t, svc.Tasks(mingora), 1)
	assert.Empty(t, svc.Tasks(models.SiteKey{}))

	photos := svc.Photos(mingora)
	require.Len(t, photos, 1)
	assert.Equal(t, "Foundation", photos[0].TaskName)
	require.NotNil(t, photos[0].BeforePhotoShareURL)
	assert.Equal(t, "https://photos.example/mingora-before", *photos[0].BeforePhotoShareURL)
	assert.Nil(t, photos[0].AfterPhotoDirectURL)

	assert.Empty(t, svc.Photos(kalam))
	assert.NotNil(t, svc.Photos(kalam))
}

func TestSiteService_BlankDistrictIsItsOwnSite(t *testing.T) {
	row := func(district, progress string) ingest.Row {
		return ingest.Row{
			"package_name":           "Package-3",
			"district":               district,
			"site_name":              "GPS Chakdara",
			"discipline":             "Civil",
			"task_name":              "Foundation " + progress,
			"planned_start":          "01/01/2026",
			"planned_finish":         "30/04/2026",
			"progress_pct":           progress,
			"before_photo_share_url": "https://photos.example/chakdara-" + progress,
		}
	}
	src := &fakeSource{gen: &store.Generation{
		Result: testPipeline().Run([]ingest.Row{row("", "10"), row("Dir", "90")}),
	}}
	svc := NewSiteService(src)
	blank := models.SiteKey{PackageName: "Package-3", SiteName: "GPS Chakdara"}

	_, err := svc.Detail(blank)
	require.NoError(t, err)

	tasks := svc.Tasks(blank)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Foundation 10", tasks[0].TaskName)

	photos := svc.Photos(blank)
	require.Len(t, photos, 1)
	require.NotNil(t, photos[0].BeforePhotoShareURL)
	assert.Equal(t, "https://photos.example/chakdara-10", *photos[0].BeforePhotoShareURL)

	disciplines := svc.Disciplines(blank)
	require.Len(t, disciplines, 1)
	assert.Equal(t, "Civil", disciplines[0].Discipline)
	assert.Equal(t, 1, disciplines[0].TaskCount)
	assert.InDelta(t, 10.0, disciplines[0].AvgProgress, 1e-9)

	dir := blank
	dir.District = "Dir"
	require.Len(t, svc.Tasks(dir), 1)
	assert.InDelta(t, 90.0, svc.Disciplines(dir)[0].AvgProgress, 1e-9)
}

func TestSiteService_Disciplines(t *testing.T) {
	src := newFakeSource()
	svc := NewSiteService(src)
	extra := svc.Tasks(mingora)[0]
	extra.Discipline = "Plumbing"
	extra.ProgressPct = 10
	src.gen.Tasks = append(src.gen.Tasks, extra)

	got := svc.Disciplines(mingora)
	require.Len(t, got, 2)
	assert.Equal(t, "Plumbing", got[0].Discipline)
	assert.Equal(t, 1, got[0].TaskCount)
	assert.Equal(t, "Civil", got[1].Discipline)
	assert.InDelta(t, 50.0, got[1].AvgProgress, 1e-9)
}
