package pipeline

import (
	"sort"

	"github.com/jengzang/hcip-dashboard-go/internal/models"
	"github.com/jengzang/hcip-dashboard-go/internal/stats"
)

// Delay thresholds reported in roll-ups
const (
	delayedOver30 = 30
	delayedOver60 = 60
)

// IPCPriority ranks inspection stages; higher is further along.
var IPCPriority = map[string]int{
	IPCNotSubmitted: 0,
	IPCSubmitted:    1,
	IPCInProcess:    2,
	IPCReleased:     3,
}

// BestIPCStage returns the furthest stage among values; ties keep the
// earliest field. Nil and unrecognized values are skipped.
func BestIPCStage(values [models.IPCStageCount]*string) string {
	best, bestPriority := IPCNotSubmitted, 0
	for _, v := range values {
		if v == nil {
			continue
		}
		p, ok := IPCPriority[*v]
		if !ok {
			continue
		}
		if p > bestPriority {
			best, bestPriority = *v, p
		}
	}
	return best
}

// ExtractPackageMetadata deduplicates the package-wide fields replicated on
// task rows: per package, the first non-nil value of each field wins.
// Output is ordered by package name.
func ExtractPackageMetadata(tasks []models.TaskRecord) []models.PackageMetadata {
	index := make(map[string]int)
	var metas []models.PackageMetadata

	for i := range tasks {
		t := &tasks[i]
		pos, ok := index[t.PackageName]
		if !ok {
			pos = len(metas)
			index[t.PackageName] = pos
			metas = append(metas, models.PackageMetadata{PackageName: t.PackageName})
		}
		m := &metas[pos].PackageMetaFields

		firstNonNil(&m.MobilizationTaken, t.MobilizationTaken)
		firstNonNil(&m.CESMPS, t.CESMPS)
		firstNonNil(&m.OHSYesNo, t.OHSYesNo)
		firstNonNil(&m.OHSMonth, t.OHSMonth)
		firstNonNil(&m.RFBStaffYesNo, t.RFBStaffYesNo)
		firstNonNil(&m.RFBStaffMonth, t.RFBStaffMonth)
		firstNonNil(&m.IPC1, t.IPC1)
		firstNonNil(&m.IPC2, t.IPC2)
		firstNonNil(&m.IPC3, t.IPC3)
		firstNonNil(&m.IPC4, t.IPC4)
		firstNonNil(&m.IPC5, t.IPC5)
		firstNonNil(&m.IPC6, t.IPC6)
	}

	for i := range metas {
		best := BestIPCStage(metas[i].IPCStages())
		metas[i].IPCBestStage = &best
	}

	sort.Slice(metas, func(i, j int) bool { return metas[i].PackageName < metas[j].PackageName })
	return metas
}

func firstNonNil(dst **string, v *string) {
	if *dst == nil && v != nil {
		*dst = v
	}
}

// siteCounts is the aggregate shape shared by package and district roll-ups
type siteCounts struct {
	total, active, inactive, completed, over30, over60 int
	avgProgress                                        float64
}

func countSites(sites []*models.SiteSummary) siteCounts {
	c := siteCounts{total: len(sites)}
	progress := make([]float64, 0, len(sites))
	for _, s := range sites {
		progress = append(progress, s.SiteProgress)
		switch s.SiteStatus {
		case models.SiteActive:
			c.active++
		case models.SiteInactive:
			c.inactive++
		case models.SiteCompleted:
			c.completed++
		}
		if s.SiteDelayDays > delayedOver30 {
			c.over30++
		}
		if s.SiteDelayDays > delayedOver60 {
			c.over60++
		}
	}
	c.avgProgress = stats.MeanOrZero(progress)
	return c
}

// BuildPackageSummaries rolls sites up per package and left-merges metadata;
// packages without metadata keep nil metadata fields.
func BuildPackageSummaries(sites []models.SiteSummary, metas []models.PackageMetadata) []models.PackageSummary {
	groups := make(map[string][]*models.SiteSummary)
	var names []string
	for i := range sites {
		name := sites[i].PackageName
		if _, ok := groups[name]; !ok {
			names = append(names, name)
		}
		groups[name] = append(groups[name], &sites[i])
	}
	sort.Strings(names)

	metaByName := make(map[string]models.PackageMetaFields, len(metas))
	for _, m := range metas {
		metaByName[m.PackageName] = m.PackageMetaFields
	}

	out := make([]models.PackageSummary, 0, len(names))
	for _, name := range names {
		c := countSites(groups[name])
		out = append(out, models.PackageSummary{
			PackageName:       name,
			TotalSites:        c.total,
			AvgProgress:       c.avgProgress,
			ActiveSites:       c.active,
			InactiveSites:     c.inactive,
			CompletedSites:    c.completed,
			SitesGT30Delayed:  c.over30,
			SitesGT60Delayed:  c.over60,
			PackageMetaFields: metaByName[name],
		})
	}
	return out
}

type districtKey struct {
	packageName, district string
}

// BuildDistrictSummaries rolls sites up per (package, district); average
// progress is rounded to one decimal.
func BuildDistrictSummaries(sites []models.SiteSummary) []models.DistrictSummary {
	groups := make(map[districtKey][]*models.SiteSummary)
	var keys []districtKey
	for i := range sites {
		k := districtKey{packageName: sites[i].PackageName, district: sites[i].District}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], &sites[i])
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].packageName != keys[j].packageName {
			return keys[i].packageName < keys[j].packageName
		}
		return keys[i].district < keys[j].district
	})

	out := make([]models.DistrictSummary, 0, len(keys))
	for _, k := range keys {
		c := countSites(groups[k])
		out = append(out, models.DistrictSummary{
			PackageName:      k.packageName,
			District:         k.district,
			TotalSites:       c.total,
			AvgProgress:      stats.Round1(c.avgProgress),
			ActiveSites:      c.active,
			InactiveSites:    c.inactive,
			CompletedSites:   c.completed,
			SitesGT30Delayed: c.over30,
			SitesGT60Delayed: c.over60,
		})
	}
	return out
}
