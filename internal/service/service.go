// Package service answers dashboard queries from the DataStore's current
// generation. Every method reads one generation, so a response is never
// assembled from two different loads.
package service

import (
	"context"
	"sort"
	"time"

	"github.com/jengzang/hcip-dashboard-go/internal/models"
	"github.com/jengzang/hcip-dashboard-go/internal/store"
)

// DataSource is the part of store.DataStore the services read
type DataSource interface {
	Current() *store.Generation
	CacheTimestamp() string
	Snapshots(ctx context.Context) ([]models.SnapshotRow, error)
	SnapshotFiles() ([]models.SnapshotFile, error)
	Load(ctx context.Context, force bool) store.LoadResult
}

// Calendar supplies the current date in the reference timezone
type Calendar interface {
	Today() time.Time
}

// Default and maximum list sizes for ranked responses
const (
	DefaultRankLimit = 20
	MaxRankLimit     = 1000
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultRankLimit
	}
	if limit > MaxRankLimit {
		return MaxRankLimit
	}
	return limit
}

// filterSites returns the sites matching every non-empty field of f
func filterSites(sites []models.SiteSummary, f models.SiteFilter) []models.SiteSummary {
	out := make([]models.SiteSummary, 0, len(sites))
	for _, s := range sites {
		if f.PackageName != "" && s.PackageName != f.PackageName {
			continue
		}
		if f.District != "" && s.District != f.District {
			continue
		}
		if f.SiteName != "" && s.SiteName != f.SiteName {
			continue
		}
		if f.Status != "" && string(s.SiteStatus) != f.Status {
			continue
		}
		out = append(out, s)
	}
	return out
}

// filterTasks returns the tasks matching the key fields of f
func filterTasks(tasks []models.TaskRecord, f models.SiteFilter) []models.TaskRecord {
	out := make([]models.TaskRecord, 0)
	for _, t := range tasks {
		if f.PackageName != "" && t.PackageName != f.PackageName {
			continue
		}
		if f.District != "" && t.District != f.District {
			continue
		}
		if f.SiteName != "" && t.SiteName != f.SiteName {
			continue
		}
		out = append(out, t)
	}
	return out
}

// rankByRisk sorts a copy of sites by risk score, highest first. Ties keep
// site key order.
func rankByRisk(sites []models.SiteSummary) []models.SiteSummary {
	ranked := make([]models.SiteSummary, len(sites))
	copy(ranked, sites)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RiskScore > ranked[j].RiskScore
	})
	return ranked
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func metadataFor(gen *store.Generation, packageName string) *models.PackageMetadata {
	for i := range gen.Metadata {
		if gen.Metadata[i].PackageName == packageName {
			return &gen.Metadata[i]
		}
	}
	return nil
}

func isYes(v *string) bool {
	return v != nil && *v == "Yes"
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
