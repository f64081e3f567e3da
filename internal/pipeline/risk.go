package pipeline

import "github.com/jengzang/hcip-dashboard-go/internal/models"

// Delay bucket upper bounds (inclusive)
const (
	bucket1To30Max  = 30
	bucket31To60Max = 60
)

var delayScores = map[models.DelayBucket]int{
	models.BucketOnTrack: 0,
	models.Bucket1To30:   25,
	models.Bucket31To60:  50,
	models.BucketOver60:  80,
}

// progressBracket is a half-open interval [lo, hi) with a score
type progressBracket struct {
	lo, hi float64
	score  int
}

var progressBrackets = []progressBracket{
	{lo: 80, hi: 100, score: 0},
	{lo: 60, hi: 80, score: 20},
	{lo: 40, hi: 60, score: 40},
	{lo: 20, hi: 40, score: 60},
	{lo: 0, hi: 20, score: 80},
}

// MaxRiskScore is the worst attainable risk score
const MaxRiskScore = 160

// DelayBucketFor classifies site delay days. Zero is on track; bounds are
// inclusive on the lower bucket.
func DelayBucketFor(delayDays float64) models.DelayBucket {
	switch {
	case delayDays <= 0:
		return models.BucketOnTrack
	case delayDays <= bucket1To30Max:
		return models.Bucket1To30
	case delayDays <= bucket31To60Max:
		return models.Bucket31To60
	default:
		return models.BucketOver60
	}
}

// DelayScore is the fixed delay component for a bucket
func DelayScore(b models.DelayBucket) int {
	return delayScores[b]
}

// ProgressScore is the progress component; progress >= 100 scores 0.
func ProgressScore(pct float64) int {
	for _, b := range progressBrackets {
		if pct >= b.lo && pct < b.hi {
			return b.score
		}
	}
	return 0
}

// ApplyRisk sets bucket and scores on a site whose delay and progress are final.
func ApplyRisk(s *models.SiteSummary) {
	s.DelayBucket = DelayBucketFor(s.SiteDelayDays)
	s.DelayScore = DelayScore(s.DelayBucket)
	s.ProgressScore = ProgressScore(s.SiteProgress)
	s.RiskScore = s.DelayScore + s.ProgressScore
}
