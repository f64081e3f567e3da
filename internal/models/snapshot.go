package models

import "time"

// SnapshotRow is a SiteSummary tagged with the refresh that captured it
type SnapshotRow struct {
	SiteSummary
	SnapshotTS time.Time `json:"snapshot_ts" db:"snapshot_ts"`
}

// SnapshotFile describes one persisted snapshot
type SnapshotFile struct {
	Name      string    `json:"name"`
	TakenAt   time.Time `json:"taken_at"`
	SizeBytes int64     `json:"size_bytes"`
}

// TrendPoint aggregates one snapshot for trend charts
type TrendPoint struct {
	Timestamp      string  `json:"timestamp"`
	AvgProgress    float64 `json:"avg_progress"`
	AvgRiskScore   float64 `json:"avg_risk_score"`
	TotalSites     int     `json:"total_sites"`
	CompletedSites int     `json:"completed_sites"`
}
