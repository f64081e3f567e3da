package repository

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/jengzang/hcip-dashboard-go/internal/models"
)

// Times are stored as fixed-width RFC 3339 text, so lexical order is time order.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(storedTimeLayout), Valid: true}
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(storedTimeLayout, ns.String)
	if err != nil {
		return nil
	}
	return &t
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func ptrString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func ptrInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func ptrFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

func encodeExtra(extra map[string]string) (sql.NullString, error) {
	if len(extra) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(extra)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeExtra(ns sql.NullString) (map[string]string, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var extra map[string]string
	if err := json.Unmarshal([]byte(ns.String), &extra); err != nil {
		return nil, err
	}
	return extra, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

var taskColumns = []string{
	"package_name", "district", "site_name", "discipline", "task_name",
	"package_id", "site_id",
	"planned_start", "planned_finish", "actual_start", "actual_finish", "last_updated",
	"progress_pct", "remarks", "variance",
	"before_photo_share_url", "before_photo_direct_url", "after_photo_share_url", "after_photo_direct_url",
	"mobilization_taken", "cesmps", "ohs_month", "ohs_yesno", "rfb_staff_month", "rfb_staff_yesno",
	"ipc_1", "ipc_2", "ipc_3", "ipc_4", "ipc_5", "ipc_6",
	"extra_json", "task_delay_days", "task_duration_days", "task_status",
}

func taskArgs(t *models.TaskRecord) ([]any, error) {
	extra, err := encodeExtra(t.Extra)
	if err != nil {
		return nil, err
	}
	return []any{
		t.PackageName, t.District, t.SiteName, t.Discipline, t.TaskName,
		t.PackageID, t.SiteID,
		nullTime(t.PlannedStart), nullTime(t.PlannedFinish), nullTime(t.ActualStart), nullTime(t.ActualFinish), nullTime(t.LastUpdated),
		t.ProgressPct, t.Remarks, t.Variance,
		t.BeforePhotoShareURL, t.BeforePhotoDirectURL, t.AfterPhotoShareURL, t.AfterPhotoDirectURL,
		nullString(t.MobilizationTaken), nullString(t.CESMPS), nullString(t.OHSMonth), nullString(t.OHSYesNo),
		nullString(t.RFBStaffMonth), nullString(t.RFBStaffYesNo),
		nullString(t.IPC1), nullString(t.IPC2), nullString(t.IPC3), nullString(t.IPC4), nullString(t.IPC5), nullString(t.IPC6),
		extra, nullInt(t.TaskDelayDays), nullInt(t.TaskDurationDays), string(t.TaskStatus),
	}, nil
}

func scanTask(row scanner) (models.TaskRecord, error) {
	var (
		t                               models.TaskRecord
		ps, pf, as, af, lu              sql.NullString
		mob, cesmps, ohsMonth, ohsYesNo sql.NullString
		rfbMonth, rfbYesNo              sql.NullString
		ipc                             [models.IPCStageCount]sql.NullString
		extra                           sql.NullString
		delay, duration                 sql.NullInt64
		status                          string
	)
	err := row.Scan(
		&t.PackageName, &t.District, &t.SiteName, &t.Discipline, &t.TaskName,
		&t.PackageID, &t.SiteID,
		&ps, &pf, &as, &af, &lu,
		&t.ProgressPct, &t.Remarks, &t.Variance,
		&t.BeforePhotoShareURL, &t.BeforePhotoDirectURL, &t.AfterPhotoShareURL, &t.AfterPhotoDirectURL,
		&mob, &cesmps, &ohsMonth, &ohsYesNo, &rfbMonth, &rfbYesNo,
		&ipc[0], &ipc[1], &ipc[2], &ipc[3], &ipc[4], &ipc[5],
		&extra, &delay, &duration, &status,
	)
	if err != nil {
		return t, err
	}

	t.PlannedStart, t.PlannedFinish = parseNullTime(ps), parseNullTime(pf)
	t.ActualStart, t.ActualFinish = parseNullTime(as), parseNullTime(af)
	t.LastUpdated = parseNullTime(lu)
	t.MobilizationTaken, t.CESMPS = ptrString(mob), ptrString(cesmps)
	t.OHSMonth, t.OHSYesNo = ptrString(ohsMonth), ptrString(ohsYesNo)
	t.RFBStaffMonth, t.RFBStaffYesNo = ptrString(rfbMonth), ptrString(rfbYesNo)
	for i := range ipc {
		t.SetIPCStage(i, ptrString(ipc[i]))
	}
	if t.Extra, err = decodeExtra(extra); err != nil {
		return t, err
	}
	t.TaskDelayDays, t.TaskDurationDays = ptrInt(delay), ptrInt(duration)
	t.TaskStatus = models.TaskStatus(status)
	return t, nil
}

var siteColumns = []string{
	"package_name", "district", "site_name", "package_id", "site_id",
	"site_delay_days", "active_delay_days", "historical_delay_days",
	"site_progress", "site_status", "delay_bucket",
	"delay_score", "progress_score", "risk_score",
	"earliest_planned_start", "last_updated", "task_count",
}

func siteArgs(s *models.SiteSummary) []any {
	return []any{
		s.PackageName, s.District, s.SiteName, s.PackageID, s.SiteID,
		s.SiteDelayDays, nullFloat(s.ActiveDelayDays), nullFloat(s.HistoricalDelayDays),
		s.SiteProgress, string(s.SiteStatus), string(s.DelayBucket),
		s.DelayScore, s.ProgressScore, s.RiskScore,
		nullTime(s.EarliestPlannedStart), nullTime(s.LastUpdated), s.TaskCount,
	}
}

// scanSite reads the site columns followed by any extra destinations.
func scanSite(row scanner, extra ...any) (models.SiteSummary, error) {
	var (
		s                 models.SiteSummary
		active, hist      sql.NullFloat64
		status, bucket    string
		earliest, updated sql.NullString
	)
	dest := []any{
		&s.PackageName, &s.District, &s.SiteName, &s.PackageID, &s.SiteID,
		&s.SiteDelayDays, &active, &hist,
		&s.SiteProgress, &status, &bucket,
		&s.DelayScore, &s.ProgressScore, &s.RiskScore,
		&earliest, &updated, &s.TaskCount,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return s, err
	}

	s.ActiveDelayDays, s.HistoricalDelayDays = ptrFloat(active), ptrFloat(hist)
	s.SiteStatus, s.DelayBucket = models.SiteStatus(status), models.DelayBucket(bucket)
	s.EarliestPlannedStart, s.LastUpdated = parseNullTime(earliest), parseNullTime(updated)
	return s, nil
}

func insertQuery(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + placeholders + ")"
}

func selectQuery(table string, columns []string, order string) string {
	return "SELECT " + strings.Join(columns, ", ") + " FROM " + table + " ORDER BY " + order
}
