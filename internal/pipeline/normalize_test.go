package pipeline

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/hcip-dashboard-go/internal/ingest"
)

func TestNormalizeYesNo(t *testing.T) {
	assert.Equal(t, Yes, NormalizeYesNo(" YES "))
	assert.Equal(t, No, NormalizeYesNo("no"))
	assert.Equal(t, Unknown, NormalizeYesNo(""))
	assert.Equal(t, Unknown, NormalizeYesNo("maybe"))
	assert.Equal(t, Unknown, NormalizeYesNo("nan"))
}

func TestSplitMonthly(t *testing.T) {
	tests := []struct {
		raw, month, yesno string
	}{
		{raw: "January - No", month: "January", yesno: No},
		{raw: " March -  yes ", month: "March", yesno: Yes},
		{raw: "April - pending", month: "April", yesno: Unknown},
		{raw: "Yes", month: "", yesno: Unknown},
		{raw: "", month: "", yesno: Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			month, yesno := SplitMonthly(tt.raw)
			assert.Equal(t, tt.month, month)
			assert.Equal(t, tt.yesno, yesno)
		})
	}
}

func TestNormalizeIPC(t *testing.T) {
	assert.Equal(t, IPCNotSubmitted, NormalizeIPC("not submitted"))
	assert.Equal(t, IPCSubmitted, NormalizeIPC(" SUBMITTED"))
	assert.Equal(t, IPCInProcess, NormalizeIPC("in process"))
	assert.Equal(t, IPCReleased, NormalizeIPC("Released "))
	assert.Equal(t, IPCNotSubmitted, NormalizeIPC(""))
	assert.Equal(t, IPCNotSubmitted, NormalizeIPC("approved"))
}

func TestParseProgress(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		clamped bool
	}{
		{raw: "45%", want: 45},
		{raw: " 12.5 ", want: 12.5},
		{raw: "150", want: 100, clamped: true},
		{raw: "-3", want: 0, clamped: true},
		{raw: "n/a", want: 0},
		{raw: "", want: 0},
		{raw: "NaN", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, clamped := ParseProgress(tt.raw)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.clamped, clamped)
		})
	}
}

func TestParseDate_DayFirst(t *testing.T) {
	got := ParseDate("03/04/2026")
	require.NotNil(t, got)
	assert.Equal(t, time.April, got.Month(), "day-first: 03/04 is 3 April")
	assert.Equal(t, 3, got.Day())

	require.NotNil(t, ParseDate("2026-04-03"))
	require.NotNil(t, ParseDate("3/4/2026 14:05:00"))
	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("tbd"))
	assert.Nil(t, ParseDate("31/02/2026"))
}

func TestNormalize_KeepsRowCountAndCanonicalizes(t *testing.T) {
	rows := []ingest.Row{
		{
			"package_name":           "P1",
			"district":               "D1",
			"site_name":              "S1",
			"progress_pct":           "250%",
			"planned_start":          "10/03/2026",
			"planned_finish":         "01/03/2026",
			"mobilization_taken":     "yes",
			"ohs":                    "January - No",
			"ipc_1":                  "released",
			"ipc_2":                  "",
			"before_photo_share_url": "nan",
			"contractor":             " ACME ",
		},
		{
			"package_name": "P2",
			"progress_pct": "garbage",
		},
	}

	tasks := Normalize(rows, zerolog.Nop())
	require.Len(t, tasks, 2)

	first := tasks[0]
	assert.Equal(t, 100.0, first.ProgressPct)
	require.NotNil(t, first.MobilizationTaken)
	assert.Equal(t, Yes, *first.MobilizationTaken)
	require.NotNil(t, first.OHSMonth)
	assert.Equal(t, "January", *first.OHSMonth)
	assert.Equal(t, No, *first.OHSYesNo)
	assert.Equal(t, IPCReleased, *first.IPC1)
	assert.Equal(t, IPCNotSubmitted, *first.IPC2, "blank stage becomes Not Submitted")
	assert.Nil(t, first.IPC3, "absent column stays nil")
	assert.Nil(t, first.CESMPS)
	assert.Empty(t, first.BeforePhotoShareURL)
	assert.Equal(t, map[string]string{"contractor": "ACME"}, first.Extra)
	require.NotNil(t, first.PlannedStart, "inverted ranges are kept")
	require.NotNil(t, first.PlannedFinish)

	second := tasks[1]
	assert.Zero(t, second.ProgressPct)
	assert.Nil(t, second.MobilizationTaken)
}

func TestNormalize_ProgressAlwaysInRange(t *testing.T) {
	raw := []string{"-1000", "1e9", "12%", "%", "abc", "99.999", "100.0001", "Inf", "-Inf"}
	rows := make([]ingest.Row, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, ingest.Row{"progress_pct": r})
	}

	for _, tk := range Normalize(rows, zerolog.Nop()) {
		assert.GreaterOrEqual(t, tk.ProgressPct, 0.0)
		assert.LessOrEqual(t, tk.ProgressPct, 100.0)
	}
}
