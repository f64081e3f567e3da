package service

import (
	"github.com/jengzang/hcip-dashboard-go/internal/models"
	"github.com/jengzang/hcip-dashboard-go/internal/stats"
)

// PackageService handles package level queries
type PackageService struct {
	source   DataSource
	calendar Calendar
}

// NewPackageService creates a new package service
func NewPackageService(source DataSource, calendar Calendar) *PackageService {
	return &PackageService{
		source:   source,
		calendar: calendar,
	}
}

// List returns every package summary
func (s *PackageService) List() []models.PackageSummary {
	packages := s.source.Current().Packages
	if packages == nil {
		return []models.PackageSummary{}
	}
	return packages
}

// Detail returns the package row with its districts and sites. Package is
// nil when the name is unknown.
func (s *PackageService) Detail(packageName string) models.PackageDetail {
	gen := s.source.Current()
	detail := models.PackageDetail{
		Districts: s.Districts(packageName),
		Sites:     filterSites(gen.Sites, models.SiteFilter{PackageName: packageName}),
	}
	for i := range gen.Packages {
		if gen.Packages[i].PackageName == packageName {
			pkg := gen.Packages[i]
			detail.Package = &pkg
			break
		}
	}
	return detail
}

// Districts returns the district summaries of one package
func (s *PackageService) Districts(packageName string) []models.DistrictSummary {
	out := make([]models.DistrictSummary, 0)
	for _, d := range s.source.Current().Districts {
		if d.PackageName == packageName {
			out = append(out, d)
		}
	}
	return out
}

// Sites returns the sites of one package, optionally within one district
func (s *PackageService) Sites(packageName, district string) []models.SiteSummary {
	f := models.SiteFilter{PackageName: packageName, District: district}
	return filterSites(s.source.Current().Sites, f)
}

// DelayChart returns the delay distribution of one package
func (s *PackageService) DelayChart(packageName string) []models.BucketCount {
	return delayDistribution(s.Sites(packageName, ""))
}

// PlannedVsActual compares, per package, the progress implied by the task
// schedule today with the reported site progress.
func (s *PackageService) PlannedVsActual() []models.PlannedVsActual {
	gen := s.source.Current()
	today := s.calendar.Today()

	planned := make(map[string][]float64)
	for _, t := range gen.Tasks {
		if t.PlannedStart == nil || t.PlannedFinish == nil || !t.PlannedFinish.After(*t.PlannedStart) {
			continue
		}
		span := t.PlannedFinish.Sub(*t.PlannedStart).Hours()
		elapsed := today.Sub(*t.PlannedStart).Hours()
		planned[t.PackageName] = append(planned[t.PackageName], stats.Clip(elapsed/span*100, 0, 100))
	}

	out := make([]models.PlannedVsActual, 0, len(gen.Packages))
	for _, pkg := range gen.Packages {
		row := models.PlannedVsActual{
			PackageName:    pkg.PackageName,
			ActualProgress: stats.Round1(pkg.AvgProgress),
		}
		if mean, ok := stats.Mean(planned[pkg.PackageName]); ok {
			p := stats.Round1(mean)
			gap := stats.Round1(row.ActualProgress - p)
			row.PlannedProgress = &p
			row.Gap = &gap
		}
		out = append(out, row)
	}
	return out
}

// delayDistribution counts sites per bucket in display order; empty input
// yields an empty list.
func delayDistribution(sites []models.SiteSummary) []models.BucketCount {
	if len(sites) == 0 {
		return []models.BucketCount{}
	}
	counts := make(map[models.DelayBucket]int, len(models.DelayBuckets))
	for _, site := range sites {
		counts[site.DelayBucket]++
	}
	out := make([]models.BucketCount, 0, len(models.DelayBuckets))
	for _, b := range models.DelayBuckets {
		out = append(out, models.BucketCount{Bucket: b, Count: counts[b]})
	}
	return out
}
