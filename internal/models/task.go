package models

import "time"

// TaskStatus is the derived execution state of a single task
type TaskStatus string

// TaskStatus constants
const (
	TaskNotStarted TaskStatus = "Not Started"
	TaskInProgress TaskStatus = "In Progress"
	TaskCompleted  TaskStatus = "Completed"
)

// IPCStageCount is the number of sequential inspection (IPC) checkpoints
const IPCStageCount = 6

// SiteKey identifies one physical construction site
type SiteKey struct {
	PackageName string `json:"package_name"`
	District    string `json:"district"`
	SiteName    string `json:"site_name"`
}

// TaskRecord represents one cleaned (package, district, site, discipline, task) row
type TaskRecord struct {
	// Site key
	PackageName string `json:"package_name" db:"package_name"`
	District    string `json:"district" db:"district"`
	SiteName    string `json:"site_name" db:"site_name"`

	// Task identification
	Discipline string `json:"discipline" db:"discipline"`
	TaskName   string `json:"task_name" db:"task_name"`
	PackageID  string `json:"package_id,omitempty" db:"package_id"`
	SiteID     string `json:"site_id,omitempty" db:"site_id"`

	// Schedule (day-first source dates, nil when blank or unparseable)
	PlannedStart  *time.Time `json:"planned_start" db:"planned_start"`
	PlannedFinish *time.Time `json:"planned_finish" db:"planned_finish"`
	ActualStart   *time.Time `json:"actual_start" db:"actual_start"`
	ActualFinish  *time.Time `json:"actual_finish" db:"actual_finish"`
	LastUpdated   *time.Time `json:"last_updated" db:"last_updated"`

	ProgressPct float64 `json:"progress_pct" db:"progress_pct"` // 0-100
	Remarks     string  `json:"remarks,omitempty" db:"remarks"`
	Variance    string  `json:"variance,omitempty" db:"variance"`

	// Photos
	BeforePhotoShareURL  string `json:"before_photo_share_url,omitempty" db:"before_photo_share_url"`
	BeforePhotoDirectURL string `json:"before_photo_direct_url,omitempty" db:"before_photo_direct_url"`
	AfterPhotoShareURL   string `json:"after_photo_share_url,omitempty" db:"after_photo_share_url"`
	AfterPhotoDirectURL  string `json:"after_photo_direct_url,omitempty" db:"after_photo_direct_url"`

	// Package-wide metadata replicated on every row; nil when the source lacked the column
	MobilizationTaken *string `json:"mobilization_taken" db:"mobilization_taken"`
	CESMPS            *string `json:"cesmps" db:"cesmps"`
	OHSMonth          *string `json:"ohs_month" db:"ohs_month"`
	OHSYesNo          *string `json:"ohs_yesno" db:"ohs_yesno"`
	RFBStaffMonth     *string `json:"rfb_staff_month" db:"rfb_staff_month"`
	RFBStaffYesNo     *string `json:"rfb_staff_yesno" db:"rfb_staff_yesno"`
	IPC1              *string `json:"ipc_1" db:"ipc_1"`
	IPC2              *string `json:"ipc_2" db:"ipc_2"`
	IPC3              *string `json:"ipc_3" db:"ipc_3"`
	IPC4              *string `json:"ipc_4" db:"ipc_4"`
	IPC5              *string `json:"ipc_5" db:"ipc_5"`
	IPC6              *string `json:"ipc_6" db:"ipc_6"`

	// Columns without a canonical field
	Extra map[string]string `json:"extra,omitempty" db:"extra_json"`

	// Derived
	TaskDelayDays    *int       `json:"task_delay_days" db:"task_delay_days"`       // nil iff PlannedFinish is nil
	TaskDurationDays *int       `json:"task_duration_days" db:"task_duration_days"` // >= 1
	TaskStatus       TaskStatus `json:"task_status" db:"task_status"`
}

// Key returns the site key of the task
func (t *TaskRecord) Key() SiteKey {
	return SiteKey{PackageName: t.PackageName, District: t.District, SiteName: t.SiteName}
}

// IPCStages returns the six inspection-stage values in order
func (t *TaskRecord) IPCStages() [IPCStageCount]*string {
	return [IPCStageCount]*string{t.IPC1, t.IPC2, t.IPC3, t.IPC4, t.IPC5, t.IPC6}
}

// SetIPCStage sets inspection stage i (0-based)
func (t *TaskRecord) SetIPCStage(i int, v *string) {
	switch i {
	case 0:
		t.IPC1 = v
	case 1:
		t.IPC2 = v
	case 2:
		t.IPC3 = v
	case 3:
		t.IPC4 = v
	case 4:
		t.IPC5 = v
	case 5:
		t.IPC6 = v
	}
}

// HasPhoto reports whether any photo URL is set
func (t *TaskRecord) HasPhoto() bool {
	return t.BeforePhotoShareURL != "" || t.BeforePhotoDirectURL != "" ||
		t.AfterPhotoShareURL != "" || t.AfterPhotoDirectURL != ""
}
