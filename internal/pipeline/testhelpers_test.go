package pipeline

import (
	"time"

	"github.com/jengzang/hcip-dashboard-go/internal/models"
)

// refNow is 2026-03-20 17:00 in Asia/Karachi.
var refNow = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

func karachi() *time.Location {
	loc, err := time.LoadLocation("Asia/Karachi")
	if err != nil {
		return time.FixedZone("PKT", 5*60*60)
	}
	return loc
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func str(v string) *string {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func task(pkg, district, site, discipline string, progress float64) models.TaskRecord {
	return models.TaskRecord{
		PackageName: pkg,
		District:    district,
		SiteName:    site,
		Discipline:  discipline,
		TaskName:    discipline + " work",
		ProgressPct: progress,
	}
}
