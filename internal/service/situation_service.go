package service

import (
	"fmt"
	"sort"

	"github.com/jengzang/hcip-dashboard-go/internal/models"
	"github.com/jengzang/hcip-dashboard-go/internal/pipeline"
	"github.com/jengzang/hcip-dashboard-go/internal/stats"
	"github.com/jengzang/hcip-dashboard-go/internal/store"
)

// LowProgressThreshold is the site progress below which a mobilized
// package's site is flagged
const LowProgressThreshold = 20

var ipcStatusOrder = []string{
	pipeline.IPCNotSubmitted,
	pipeline.IPCSubmitted,
	pipeline.IPCInProcess,
	pipeline.IPCReleased,
}

// SituationService handles the executive overview
type SituationService struct {
	source DataSource
}

// NewSituationService creates a new situation room service
func NewSituationService(source DataSource) *SituationService {
	return &SituationService{source: source}
}

func (s *SituationService) sites(packageName string) (*store.Generation, []models.SiteSummary) {
	gen := s.source.Current()
	return gen, filterSites(gen.Sites, models.SiteFilter{PackageName: packageName})
}

// KPIs returns headline counts, optionally for one package
func (s *SituationService) KPIs(packageName string) models.SituationKPIs {
	gen, sites := s.sites(packageName)
	var kpis models.SituationKPIs
	if len(sites) == 0 {
		return kpis
	}

	progress := make([]float64, 0, len(sites))
	for i := range sites {
		site := &sites[i]
		progress = append(progress, site.SiteProgress)
		switch site.SiteStatus {
		case models.SiteActive:
			kpis.Active++
		case models.SiteCompleted:
			kpis.Completed++
		case models.SiteInactive:
			kpis.Inactive++
		}
		if site.SiteDelayDays > 30 {
			kpis.DelayedGT30++
		}
		if site.SiteDelayDays > 60 {
			kpis.DelayedGT60++
		}
		if mobilizedLowProgress(gen, site) {
			kpis.MobilizedLowProgress++
		}
	}
	kpis.TotalSites = len(sites)
	kpis.AvgProgress = stats.Round1(stats.MeanOrZero(progress))
	return kpis
}

// DelayDistribution counts sites per delay bucket
func (s *SituationService) DelayDistribution(packageName string) []models.BucketCount {
	_, sites := s.sites(packageName)
	return delayDistribution(sites)
}

// StatusBreakdown counts sites per status, most frequent first
func (s *SituationService) StatusBreakdown(packageName string) []models.StatusCount {
	_, sites := s.sites(packageName)
	counts := make(map[models.SiteStatus]int)
	for _, site := range sites {
		counts[site.SiteStatus]++
	}

	out := make([]models.StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, models.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// Compliance returns the share of packages answering Yes, in percent
func (s *SituationService) Compliance(packageName string) models.ComplianceRates {
	var rates models.ComplianceRates
	var packages []models.PackageSummary
	for _, pkg := range s.source.Current().Packages {
		if packageName == "" || pkg.PackageName == packageName {
			packages = append(packages, pkg)
		}
	}
	if len(packages) == 0 {
		return rates
	}

	pct := func(field func(*models.PackageSummary) *string) float64 {
		yes := 0
		for i := range packages {
			if isYes(field(&packages[i])) {
				yes++
			}
		}
		return stats.Round1(float64(yes) / float64(len(packages)) * 100)
	}
	rates.CESMPS = pct(func(p *models.PackageSummary) *string { return p.CESMPS })
	rates.OHS = pct(func(p *models.PackageSummary) *string { return p.OHSYesNo })
	rates.RFB = pct(func(p *models.PackageSummary) *string { return p.RFBStaffYesNo })
	return rates
}

// ProgressByPackage returns one bar per package
func (s *SituationService) ProgressByPackage() []models.PackageProgress {
	packages := s.source.Current().Packages
	out := make([]models.PackageProgress, 0, len(packages))
	for _, pkg := range packages {
		out = append(out, models.PackageProgress{
			PackageName:    pkg.PackageName,
			AvgProgress:    stats.Round1(pkg.AvgProgress),
			TotalSites:     pkg.TotalSites,
			ActiveSites:    pkg.ActiveSites,
			CompletedSites: pkg.CompletedSites,
			InactiveSites:  pkg.InactiveSites,
		})
	}
	return out
}

// RedList returns the highest-risk sites
func (s *SituationService) RedList(packageName string, limit int) []models.SiteSummary {
	_, sites := s.sites(packageName)
	return head(rankByRisk(sites), clampLimit(limit))
}

// IPCHealth counts sites per status for each inspection stage, using the
// stage values of each site's package
func (s *SituationService) IPCHealth(packageName string) []models.IPCStageHealth {
	gen, sites := s.sites(packageName)
	out := make([]models.IPCStageHealth, models.IPCStageCount)
	for i := range out {
		counts := make(map[string]int, len(ipcStatusOrder))
		for _, status := range ipcStatusOrder {
			counts[status] = 0
		}
		out[i] = models.IPCStageHealth{Stage: fmt.Sprintf("IPC %d", i+1), Counts: counts}
	}

	for _, site := range sites {
		var stages [models.IPCStageCount]*string
		if meta := metadataFor(gen, site.PackageName); meta != nil {
			stages = meta.IPCStages()
		}
		for i, v := range stages {
			status := pipeline.IPCNotSubmitted
			if v != nil {
				status = *v
			}
			out[i].Counts[status]++
		}
	}
	return out
}

// mobilizedLowProgress reports whether the site's package took the
// mobilization advance while the site is still below the low-progress threshold
func mobilizedLowProgress(gen *store.Generation, site *models.SiteSummary) bool {
	meta := metadataFor(gen, site.PackageName)
	return meta != nil && isYes(meta.MobilizationTaken) && site.SiteProgress < LowProgressThreshold
}
