package models

// HealthStatus is the liveness payload
type HealthStatus struct {
	Status         string `json:"status"`
	RowsTasks      int    `json:"rows_tasks"`
	RowsSites      int    `json:"rows_sites"`
	CacheTimestamp string `json:"cache_timestamp"`
}

// RefreshResponse reports a forced reload
type RefreshResponse struct {
	Status         string   `json:"status"`
	RunID          string   `json:"run_id,omitempty"`
	Outcome        string   `json:"outcome"`
	Warnings       []string `json:"warnings"`
	RowsTasks      int      `json:"rows_tasks"`
	RowsSites      int      `json:"rows_sites"`
	CacheTimestamp string   `json:"cache_timestamp"`
}

// DataSummary is the global roll-up of the current generation
type DataSummary struct {
	TotalSites       int      `json:"total_sites"`
	TotalTasks       int      `json:"total_tasks"`
	ActiveSites      int      `json:"active_sites"`
	CompletedSites   int      `json:"completed_sites"`
	InactiveSites    int      `json:"inactive_sites"`
	AvgProgress      float64  `json:"avg_progress"`
	SitesGT30Delayed int      `json:"sites_gt30_delayed"`
	SitesGT60Delayed int      `json:"sites_gt60_delayed"`
	CacheTimestamp   string   `json:"cache_timestamp"`
	Warnings         []string `json:"warnings"`
}

// SituationKPIs are the headline numbers of the situation room
type SituationKPIs struct {
	TotalSites           int     `json:"total_sites"`
	AvgProgress          float64 `json:"avg_progress"`
	Active               int     `json:"active"`
	Completed            int     `json:"completed"`
	Inactive             int     `json:"inactive"`
	DelayedGT30          int     `json:"delayed_gt30"`
	DelayedGT60          int     `json:"delayed_gt60"`
	MobilizedLowProgress int     `json:"mobilized_low_progress"`
}

// BucketCount is one bar of a delay distribution
type BucketCount struct {
	Bucket DelayBucket `json:"bucket"`
	Count  int         `json:"count"`
}

// StatusCount is one slice of a status breakdown
type StatusCount struct {
	Status SiteStatus `json:"status"`
	Count  int        `json:"count"`
}

// ComplianceRates are the percentages of packages answering Yes
type ComplianceRates struct {
	CESMPS float64 `json:"cesmps"`
	OHS    float64 `json:"ohs"`
	RFB    float64 `json:"rfb"`
}

// PackageProgress is one bar of the progress-by-package chart
type PackageProgress struct {
	PackageName    string  `json:"package_name"`
	AvgProgress    float64 `json:"avg_progress"`
	TotalSites     int     `json:"total_sites"`
	ActiveSites    int     `json:"active_sites"`
	CompletedSites int     `json:"completed_sites"`
	InactiveSites  int     `json:"inactive_sites"`
}

// IPCStageHealth counts sites per status for one inspection stage
type IPCStageHealth struct {
	Stage  string         `json:"stage"`
	Counts map[string]int `json:"counts"`
}

// RiskBracket is one band of the risk distribution; Min inclusive, Max exclusive
type RiskBracket struct {
	Bracket string `json:"bracket"`
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Count   int    `json:"count"`
}

// RedFlagSite is a site needing intervention and the rules it tripped
type RedFlagSite struct {
	SiteSummary
	MobilizationTaken    *string  `json:"mobilization_taken"`
	MobilizedLowProgress bool     `json:"mobilized_low_progress"`
	Reasons              []string `json:"reasons"`
}

// PlannedVsActual compares schedule-implied and reported progress of a package
type PlannedVsActual struct {
	PackageName     string   `json:"package_name"`
	PlannedProgress *float64 `json:"planned_progress"` // nil when no task has a usable schedule
	ActualProgress  float64  `json:"actual_progress"`
	Gap             *float64 `json:"gap"`
}

// PackageDetail is a package row with its districts and sites
type PackageDetail struct {
	Package   *PackageSummary   `json:"package"`
	Districts []DistrictSummary `json:"districts"`
	Sites     []SiteSummary     `json:"sites"`
}

// SiteIPC holds the inspection stages of the package a site belongs to;
// unrecorded stages read as Not Submitted
type SiteIPC struct {
	SiteKey
	IPC1         string `json:"ipc_1"`
	IPC2         string `json:"ipc_2"`
	IPC3         string `json:"ipc_3"`
	IPC4         string `json:"ipc_4"`
	IPC5         string `json:"ipc_5"`
	IPC6         string `json:"ipc_6"`
	IPCBestStage string `json:"ipc_best_stage"`
}

// SitePhoto lists the photo links of one task; blank links are nil
type SitePhoto struct {
	TaskName             string  `json:"task_name"`
	Discipline           string  `json:"discipline"`
	BeforePhotoShareURL  *string `json:"before_photo_share_url"`
	BeforePhotoDirectURL *string `json:"before_photo_direct_url"`
	AfterPhotoShareURL   *string `json:"after_photo_share_url"`
	AfterPhotoDirectURL  *string `json:"after_photo_direct_url"`
}

// DisciplineProgress is the mean task progress of one discipline at a site
type DisciplineProgress struct {
	Discipline  string  `json:"discipline"`
	AvgProgress float64 `json:"avg_progress"`
	TaskCount   int     `json:"task_count"`
}

// RefreshHistory is one page of recorded refresh runs
type RefreshHistory struct {
	Runs  []*RefreshRun `json:"runs"`
	Total int64         `json:"total"`
}
