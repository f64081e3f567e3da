package pipeline

import (
	"sort"

	"github.com/jengzang/hcip-dashboard-go/internal/models"
	"github.com/jengzang/hcip-dashboard-go/internal/stats"
)

// CompletionThreshold is the site progress at which a started site counts as Completed
const CompletionThreshold = 95.0

// BuildSiteSummaries produces exactly one scored SiteSummary per site key,
// ordered by (package, district, site).
func BuildSiteSummaries(tasks []models.TaskRecord) []models.SiteSummary {
	groups := make(map[models.SiteKey][]*models.TaskRecord)
	var keys []models.SiteKey
	for i := range tasks {
		k := tasks[i].Key()
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], &tasks[i])
	}
	sortSiteKeys(keys)

	sites := make([]models.SiteSummary, 0, len(keys))
	for _, k := range keys {
		sites = append(sites, summarizeSite(k, groups[k]))
	}
	return sites
}

func summarizeSite(k models.SiteKey, tasks []*models.TaskRecord) models.SiteSummary {
	s := models.SiteSummary{
		PackageName: k.PackageName,
		District:    k.District,
		SiteName:    k.SiteName,
		TaskCount:   len(tasks),
	}

	s.ActiveDelayDays = weightedDelay(tasks, models.TaskInProgress)
	s.HistoricalDelayDays = weightedDelay(tasks, models.TaskCompleted)
	switch {
	case s.ActiveDelayDays != nil:
		s.SiteDelayDays = *s.ActiveDelayDays
	case s.HistoricalDelayDays != nil:
		s.SiteDelayDays = *s.HistoricalDelayDays
	}

	s.SiteProgress = disciplineBalancedProgress(tasks)
	s.SiteStatus = siteStatus(tasks, s.SiteProgress)

	for _, t := range tasks {
		if s.PackageID == "" {
			s.PackageID = t.PackageID
		}
		if s.SiteID == "" {
			s.SiteID = t.SiteID
		}
		if t.PlannedStart != nil && (s.EarliestPlannedStart == nil || t.PlannedStart.Before(*s.EarliestPlannedStart)) {
			s.EarliestPlannedStart = t.PlannedStart
		}
		if t.LastUpdated != nil && (s.LastUpdated == nil || t.LastUpdated.After(*s.LastUpdated)) {
			s.LastUpdated = t.LastUpdated
		}
	}

	ApplyRisk(&s)
	return s
}

// weightedDelay is the duration-weighted mean delay over tasks with the given
// status. Tasks without a delay are excluded; a missing duration weighs 1.
// Returns nil when no task qualifies.
func weightedDelay(tasks []*models.TaskRecord, status models.TaskStatus) *float64 {
	var values, weights []float64
	for _, t := range tasks {
		if t.TaskStatus != status || t.TaskDelayDays == nil {
			continue
		}
		w := 1.0
		if t.TaskDurationDays != nil {
			w = float64(*t.TaskDurationDays)
		}
		values = append(values, float64(*t.TaskDelayDays))
		weights = append(weights, w)
	}

	mean, ok := stats.WeightedMean(values, weights)
	if !ok {
		return nil
	}
	return &mean
}

// disciplineBalancedProgress averages progress within each discipline first,
// then across disciplines, so no trade dominates through task count.
func disciplineBalancedProgress(tasks []*models.TaskRecord) float64 {
	byDiscipline := make(map[string][]float64)
	var order []string
	for _, t := range tasks {
		if _, ok := byDiscipline[t.Discipline]; !ok {
			order = append(order, t.Discipline)
		}
		byDiscipline[t.Discipline] = append(byDiscipline[t.Discipline], t.ProgressPct)
	}

	disciplineMeans := make([]float64, 0, len(order))
	for _, d := range order {
		disciplineMeans = append(disciplineMeans, stats.MeanOrZero(byDiscipline[d]))
	}
	return stats.MeanOrZero(disciplineMeans)
}

func siteStatus(tasks []*models.TaskRecord, progress float64) models.SiteStatus {
	allNotStarted := true
	for _, t := range tasks {
		if t.TaskStatus != models.TaskNotStarted {
			allNotStarted = false
			break
		}
	}
	switch {
	case allNotStarted:
		return models.SiteInactive
	case progress >= CompletionThreshold:
		return models.SiteCompleted
	default:
		return models.SiteActive
	}
}

func sortSiteKeys(keys []models.SiteKey) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.PackageName != b.PackageName {
			return a.PackageName < b.PackageName
		}
		if a.District != b.District {
			return a.District < b.District
		}
		return a.SiteName < b.SiteName
	})
}
