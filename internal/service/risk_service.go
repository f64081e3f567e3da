package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jengzang/hcip-dashboard-go/internal/models"
	"github.com/jengzang/hcip-dashboard-go/internal/stats"
)

// RecoveryMinRisk is the lowest risk score of a recovery candidate
const RecoveryMinRisk = 40

// Red-flag reasons
const (
	ReasonSevereDelay          = "delay_gt60"
	ReasonMobilizedLowProgress = "mobilized_low_progress"
	ReasonNotStarted           = "not_started_past_planned_start"
)

var riskBrackets = []models.RiskBracket{
	{Bracket: "Low (0-20)", Min: 0, Max: 20},
	{Bracket: "Medium-Low (20-40)", Min: 20, Max: 40},
	{Bracket: "Medium (40-60)", Min: 40, Max: 60},
	{Bracket: "Medium-High (60-80)", Min: 60, Max: 80},
	{Bracket: "High (80+)", Min: 80, Max: 200},
}

// RiskService handles risk and recovery queries
type RiskService struct {
	source   DataSource
	calendar Calendar
}

// NewRiskService creates a new risk service
func NewRiskService(source DataSource, calendar Calendar) *RiskService {
	return &RiskService{
		source:   source,
		calendar: calendar,
	}
}

// Scores returns every matching site ranked by risk
func (s *RiskService) Scores(f models.RankingFilter) []models.SiteSummary {
	sites := filterSites(s.source.Current().Sites, models.SiteFilter{
		PackageName: f.PackageName,
		District:    f.District,
	})
	return rankByRisk(sites)
}

// Distribution counts sites per risk bracket
func (s *RiskService) Distribution(packageName string) []models.RiskBracket {
	sites := filterSites(s.source.Current().Sites, models.SiteFilter{PackageName: packageName})
	if len(sites) == 0 {
		return []models.RiskBracket{}
	}

	out := append([]models.RiskBracket(nil), riskBrackets...)
	for _, site := range sites {
		for i := range out {
			if site.RiskScore >= out[i].Min && site.RiskScore < out[i].Max {
				out[i].Count++
				break
			}
		}
	}
	return out
}

// RecoveryCandidates returns active sites at or above the recovery risk
// threshold, highest risk first
func (s *RiskService) RecoveryCandidates(f models.RankingFilter) []models.SiteSummary {
	var candidates []models.SiteSummary
	for _, site := range s.source.Current().Sites {
		if f.PackageName != "" && site.PackageName != f.PackageName {
			continue
		}
		if site.SiteStatus == models.SiteActive && site.RiskScore >= RecoveryMinRisk {
			candidates = append(candidates, site)
		}
	}
	if candidates == nil {
		return []models.SiteSummary{}
	}
	return head(rankByRisk(candidates), clampLimit(f.Limit))
}

// RedFlags returns sites tripping at least one intervention rule, highest
// risk first
func (s *RiskService) RedFlags(packageName string) []models.RedFlagSite {
	gen := s.source.Current()
	today := s.calendar.Today()

	flagged := make([]models.RedFlagSite, 0)
	for _, site := range rankByRisk(filterSites(gen.Sites, models.SiteFilter{PackageName: packageName})) {
		var reasons []string
		if site.SiteDelayDays > 60 {
			reasons = append(reasons, ReasonSevereDelay)
		}
		mobLow := mobilizedLowProgress(gen, &site)
		if mobLow {
			reasons = append(reasons, ReasonMobilizedLowProgress)
		}
		if site.SiteStatus == models.SiteInactive && site.EarliestPlannedStart != nil && site.EarliestPlannedStart.Before(today) {
			reasons = append(reasons, ReasonNotStarted)
		}
		if len(reasons) == 0 {
			continue
		}

		row := models.RedFlagSite{
			SiteSummary:          site,
			MobilizedLowProgress: mobLow,
			Reasons:              reasons,
		}
		if meta := metadataFor(gen, site.PackageName); meta != nil {
			row.MobilizationTaken = meta.MobilizationTaken
		}
		flagged = append(flagged, row)
	}
	return flagged
}

// Trends aggregates the snapshot history, one point per snapshot in time
// order
func (s *RiskService) Trends(ctx context.Context, packageName string) ([]models.TrendPoint, error) {
	rows, err := s.source.Snapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	type group struct {
		ts        time.Time
		progress  []float64
		risk      []float64
		completed int
	}
	groups := make(map[int64]*group)
	for _, row := range rows {
		if packageName != "" && row.PackageName != packageName {
			continue
		}
		key := row.SnapshotTS.UnixNano()
		g, ok := groups[key]
		if !ok {
			g = &group{ts: row.SnapshotTS}
			groups[key] = g
		}
		g.progress = append(g.progress, row.SiteProgress)
		g.risk = append(g.risk, float64(row.RiskScore))
		if row.SiteStatus == models.SiteCompleted {
			g.completed++
		}
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ts.Before(ordered[j].ts) })

	points := make([]models.TrendPoint, 0, len(ordered))
	for _, g := range ordered {
		points = append(points, models.TrendPoint{
			Timestamp:      g.ts.Format(time.RFC3339),
			AvgProgress:    stats.Round1(stats.MeanOrZero(g.progress)),
			AvgRiskScore:   stats.Round1(stats.MeanOrZero(g.risk)),
			TotalSites:     len(g.progress),
			CompletedSites: g.completed,
		})
	}
	return points, nil
}
