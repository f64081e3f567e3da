package models

import "time"

// RefreshRun records one DataStore load for the refresh history
type RefreshRun struct {
	ID string `json:"id" db:"id"`

	Forced  bool   `json:"forced" db:"forced"`
	Outcome string `json:"outcome" db:"outcome"` // fresh, cache, fallback, empty

	SourcesSucceeded int      `json:"sources_succeeded" db:"sources_succeeded"`
	SourcesFailed    []string `json:"sources_failed" db:"sources_failed_json"`
	Warnings         []string `json:"warnings" db:"warnings_json"`

	TaskRows int `json:"task_rows" db:"task_rows"`
	SiteRows int `json:"site_rows" db:"site_rows"`

	SnapshotName string `json:"snapshot_name,omitempty" db:"snapshot_name"`

	StartedAt  time.Time `json:"started_at" db:"started_at"`
	FinishedAt time.Time `json:"finished_at" db:"finished_at"`
}

// RefreshOutcome constants
const (
	OutcomeMemory   = "memory"
	OutcomeCache    = "cache"
	OutcomeFresh    = "fresh"
	OutcomeFallback = "fallback"
	OutcomeEmpty    = "empty"
)
