package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/hcip-dashboard-go/internal/models"
)

func TestDelayBucketFor(t *testing.T) {
	tests := []struct {
		days float64
		want models.DelayBucket
	}{
		{days: 0, want: models.BucketOnTrack},
		{days: 0.5, want: models.Bucket1To30},
		{days: 30, want: models.Bucket1To30},
		{days: 30.01, want: models.Bucket31To60},
		{days: 60, want: models.Bucket31To60},
		{days: 61, want: models.BucketOver60},
		{days: 400, want: models.BucketOver60},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DelayBucketFor(tt.days), "days=%v", tt.days)
	}
}

func TestDelayScore(t *testing.T) {
	assert.Equal(t, 0, DelayScore(models.BucketOnTrack))
	assert.Equal(t, 25, DelayScore(models.Bucket1To30))
	assert.Equal(t, 50, DelayScore(models.Bucket31To60))
	assert.Equal(t, 80, DelayScore(models.BucketOver60))
}

func TestProgressScore(t *testing.T) {
	tests := []struct {
		pct  float64
		want int
	}{
		{pct: 0, want: 80},
		{pct: 19.99, want: 80},
		{pct: 20, want: 60},
		{pct: 40, want: 40},
		{pct: 50, want: 40},
		{pct: 60, want: 20},
		{pct: 80, want: 0},
		{pct: 99.9, want: 0},
		{pct: 100, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProgressScore(tt.pct), "pct=%v", tt.pct)
	}
}

func TestApplyRisk_ScoreIsSumAndBounded(t *testing.T) {
	for delay := 0.0; delay <= 120; delay += 7.5 {
		for pct := 0.0; pct <= 100; pct += 5 {
			s := models.SiteSummary{SiteDelayDays: delay, SiteProgress: pct}
			ApplyRisk(&s)

			assert.Equal(t, s.DelayScore+s.ProgressScore, s.RiskScore)
			assert.GreaterOrEqual(t, s.RiskScore, 0)
			assert.LessOrEqual(t, s.RiskScore, MaxRiskScore)
			assert.Contains(t, models.DelayBuckets, s.DelayBucket)
		}
	}
}
