package models

import "time"

// SiteStatus is the inferred state of a whole site
type SiteStatus string

// SiteStatus constants
const (
	SiteActive    SiteStatus = "Active"
	SiteInactive  SiteStatus = "Inactive"
	SiteCompleted SiteStatus = "Completed"
)

// DelayBucket is the coarse delay tier of a site
type DelayBucket string

// DelayBucket constants, in display order
const (
	BucketOnTrack DelayBucket = "On Track"
	Bucket1To30   DelayBucket = "1-30"
	Bucket31To60  DelayBucket = "31-60"
	BucketOver60  DelayBucket = ">60"
)

// DelayBuckets lists every bucket in display order
var DelayBuckets = []DelayBucket{BucketOnTrack, Bucket1To30, Bucket31To60, BucketOver60}

// SiteSummary represents one row per site key, recomputed on every pipeline run
type SiteSummary struct {
	PackageName string `json:"package_name" db:"package_name"`
	District    string `json:"district" db:"district"`
	SiteName    string `json:"site_name" db:"site_name"`
	PackageID   string `json:"package_id,omitempty" db:"package_id"`
	SiteID      string `json:"site_id,omitempty" db:"site_id"`

	// Delay
	SiteDelayDays       float64  `json:"site_delay_days" db:"site_delay_days"`
	ActiveDelayDays     *float64 `json:"active_delay_days" db:"active_delay_days"`
	HistoricalDelayDays *float64 `json:"historical_delay_days" db:"historical_delay_days"`

	// Progress and status
	SiteProgress float64     `json:"site_progress" db:"site_progress"`
	SiteStatus   SiteStatus  `json:"site_status" db:"site_status"`
	DelayBucket  DelayBucket `json:"delay_bucket" db:"delay_bucket"`

	// Risk
	DelayScore    int `json:"delay_score" db:"delay_score"`
	ProgressScore int `json:"progress_score" db:"progress_score"`
	RiskScore     int `json:"risk_score" db:"risk_score"`

	EarliestPlannedStart *time.Time `json:"earliest_planned_start" db:"earliest_planned_start"`
	LastUpdated          *time.Time `json:"last_updated" db:"last_updated"`
	TaskCount            int        `json:"task_count" db:"task_count"`
}

// Key returns the site key
func (s *SiteSummary) Key() SiteKey {
	return SiteKey{PackageName: s.PackageName, District: s.District, SiteName: s.SiteName}
}
