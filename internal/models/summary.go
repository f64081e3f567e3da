package models

// PackageMetaFields holds package-wide constants; nil means not recorded
type PackageMetaFields struct {
	MobilizationTaken *string `json:"mobilization_taken"`
	CESMPS            *string `json:"cesmps"`
	OHSYesNo          *string `json:"ohs_yesno"`
	OHSMonth          *string `json:"ohs_month"`
	RFBStaffYesNo     *string `json:"rfb_staff_yesno"`
	RFBStaffMonth     *string `json:"rfb_staff_month"`
	IPC1              *string `json:"ipc_1"`
	IPC2              *string `json:"ipc_2"`
	IPC3              *string `json:"ipc_3"`
	IPC4              *string `json:"ipc_4"`
	IPC5              *string `json:"ipc_5"`
	IPC6              *string `json:"ipc_6"`
	IPCBestStage      *string `json:"ipc_best_stage"`
}

// IPCStages returns the six inspection-stage values in order
func (m *PackageMetaFields) IPCStages() [IPCStageCount]*string {
	return [IPCStageCount]*string{m.IPC1, m.IPC2, m.IPC3, m.IPC4, m.IPC5, m.IPC6}
}

// PackageMetadata is the deduplicated metadata of one package
type PackageMetadata struct {
	PackageName string `json:"package_name"`
	PackageMetaFields
}

// PackageSummary aggregates SiteSummary rows of one package
type PackageSummary struct {
	PackageName      string  `json:"package_name"`
	TotalSites       int     `json:"total_sites"`
	AvgProgress      float64 `json:"avg_progress"`
	ActiveSites      int     `json:"active_sites"`
	InactiveSites    int     `json:"inactive_sites"`
	CompletedSites   int     `json:"completed_sites"`
	SitesGT30Delayed int     `json:"sites_gt30_delayed"`
	SitesGT60Delayed int     `json:"sites_gt60_delayed"`
	PackageMetaFields
}

// DistrictSummary aggregates SiteSummary rows of one (package, district)
type DistrictSummary struct {
	PackageName      string  `json:"package_name"`
	District         string  `json:"district"`
	TotalSites       int     `json:"total_sites"`
	AvgProgress      float64 `json:"avg_progress"` // one decimal
	ActiveSites      int     `json:"active_sites"`
	InactiveSites    int     `json:"inactive_sites"`
	CompletedSites   int     `json:"completed_sites"`
	SitesGT30Delayed int     `json:"sites_gt30_delayed"`
	SitesGT60Delayed int     `json:"sites_gt60_delayed"`
}
