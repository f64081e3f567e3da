// Package pipeline turns concatenated raw task rows into cleaned task
// records, site summaries with risk scores, and package/district roll-ups.
package pipeline

import (
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jengzang/hcip-dashboard-go/internal/ingest"
	"github.com/jengzang/hcip-dashboard-go/internal/models"
)

// Canonical yes/no values
const (
	Yes     = "Yes"
	No      = "No"
	Unknown = "Unknown"
)

// Canonical inspection-stage values
const (
	IPCNotSubmitted = "Not Submitted"
	IPCSubmitted    = "Submitted"
	IPCInProcess    = "In Process"
	IPCReleased     = "Released"
)

// ipcCanonical maps lower-cased stage names to their display form.
// Built once: a cases.Caser must not be shared between goroutines.
var ipcCanonical = func() map[string]string {
	title := cases.Title(language.English)
	out := make(map[string]string)
	for _, v := range []string{"not submitted", "submitted", "in process", "released"} {
		out[v] = title.String(v)
	}
	return out
}()

// knownColumns are consumed into typed TaskRecord fields; anything else goes to Extra.
var knownColumns = map[string]bool{
	"package_name": true, "district": true, "site_name": true,
	"discipline": true, "task_name": true, "package_id": true, "site_id": true,
	"planned_start": true, "planned_finish": true, "actual_start": true,
	"actual_finish": true, "last_updated": true, "progress_pct": true,
	"remarks": true, "variance": true,
	"before_photo_share_url": true, "before_photo_direct_url": true,
	"after_photo_share_url": true, "after_photo_direct_url": true,
	"mobilization_taken": true, "cesmps": true, "ohs": true, "rfb_staff": true,
	"ipc_1": true, "ipc_2": true, "ipc_3": true, "ipc_4": true, "ipc_5": true, "ipc_6": true,
}

// NormalizeYesNo maps trimmed, case-insensitive "yes"/"no" to Yes/No and
// everything else to Unknown.
func NormalizeYesNo(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes":
		return Yes
	case "no":
		return No
	default:
		return Unknown
	}
}

// SplitMonthly splits "<month> - <yesno>" into month and a canonical yes/no.
// Without the separator the month is empty and the flag Unknown.
func SplitMonthly(raw string) (month, yesno string) {
	v := strings.TrimSpace(raw)
	before, after, found := strings.Cut(v, " - ")
	if !found {
		return "", Unknown
	}
	return strings.TrimSpace(before), NormalizeYesNo(after)
}

// NormalizeIPC canonicalizes an inspection-stage value; unrecognized or
// blank input becomes Not Submitted.
func NormalizeIPC(raw string) string {
	if v, ok := ipcCanonical[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return v
	}
	return IPCNotSubmitted
}

// ParseProgress strips a percent sign and parses a number. Unparseable
// input becomes 0. The result is clamped to [0, 100]; outOfRange reports
// whether clamping changed the value.
func ParseProgress(raw string) (pct float64, outOfRange bool) {
	v := strings.TrimSpace(strings.ReplaceAll(raw, "%", ""))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	switch {
	case f < 0:
		return 0, true
	case f > 100:
		return 100, true
	}
	return f, false
}

// qualityCounts tallies data-quality anomalies for one normalization pass.
type qualityCounts struct {
	invertedActual  int
	invertedPlanned int
	progressClamped int
}

// Normalize converts raw rows into cleaned task records, one per row.
// Anomalies are logged as warnings; rows are never dropped.
func Normalize(rows []ingest.Row, logger zerolog.Logger) []models.TaskRecord {
	tasks := make([]models.TaskRecord, len(rows))
	var q qualityCounts

	for i, row := range rows {
		tasks[i] = normalizeRow(row, &q)
	}

	if q.invertedActual > 0 {
		logger.Warn().Int("count", q.invertedActual).Msg("rows have actual_start > actual_finish")
	}
	if q.invertedPlanned > 0 {
		logger.Warn().Int("count", q.invertedPlanned).Msg("rows have planned_start > planned_finish")
	}
	if q.progressClamped > 0 {
		logger.Warn().Int("count", q.progressClamped).Msg("rows have progress_pct outside [0, 100]")
	}

	return tasks
}

func normalizeRow(row ingest.Row, q *qualityCounts) models.TaskRecord {
	str := func(col string) string {
		v, _ := row.Get(col)
		return v
	}

	t := models.TaskRecord{
		PackageName:          str("package_name"),
		District:             str("district"),
		SiteName:             str("site_name"),
		Discipline:           str("discipline"),
		TaskName:             str("task_name"),
		PackageID:            str("package_id"),
		SiteID:               str("site_id"),
		PlannedStart:         ParseDate(str("planned_start")),
		PlannedFinish:        ParseDate(str("planned_finish")),
		ActualStart:          ParseDate(str("actual_start")),
		ActualFinish:         ParseDate(str("actual_finish")),
		LastUpdated:          ParseDate(str("last_updated")),
		Remarks:              str("remarks"),
		Variance:             str("variance"),
		BeforePhotoShareURL:  cleanURL(str("before_photo_share_url")),
		BeforePhotoDirectURL: cleanURL(str("before_photo_direct_url")),
		AfterPhotoShareURL:   cleanURL(str("after_photo_share_url")),
		AfterPhotoDirectURL:  cleanURL(str("after_photo_direct_url")),
	}

	if t.ActualStart != nil && t.ActualFinish != nil && t.ActualStart.After(*t.ActualFinish) {
		q.invertedActual++
	}
	if t.PlannedStart != nil && t.PlannedFinish != nil && t.PlannedStart.After(*t.PlannedFinish) {
		q.invertedPlanned++
	}

	pct, clamped := ParseProgress(str("progress_pct"))
	t.ProgressPct = pct
	if clamped {
		q.progressClamped++
	}

	if v, ok := row.Get("mobilization_taken"); ok {
		t.MobilizationTaken = ptr(NormalizeYesNo(v))
	}
	if v, ok := row.Get("cesmps"); ok {
		t.CESMPS = ptr(NormalizeYesNo(v))
	}
	if v, ok := row.Get("ohs"); ok {
		month, yesno := SplitMonthly(v)
		t.OHSMonth, t.OHSYesNo = ptr(month), ptr(yesno)
	}
	if v, ok := row.Get("rfb_staff"); ok {
		month, yesno := SplitMonthly(v)
		t.RFBStaffMonth, t.RFBStaffYesNo = ptr(month), ptr(yesno)
	}
	for i := 0; i < models.IPCStageCount; i++ {
		if v, ok := row.Get("ipc_" + strconv.Itoa(i+1)); ok {
			t.SetIPCStage(i, ptr(NormalizeIPC(v)))
		}
	}

	for col, v := range row {
		if knownColumns[col] {
			continue
		}
		if t.Extra == nil {
			t.Extra = make(map[string]string)
		}
		t.Extra[col] = strings.TrimSpace(v)
	}

	return t
}

// cleanURL drops blank and spreadsheet "nan" placeholders.
func cleanURL(v string) string {
	if strings.EqualFold(v, "nan") {
		return ""
	}
	return v
}

func ptr[T any](v T) *T {
	return &v
}
