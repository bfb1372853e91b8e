package dashboard

import (
	"math"
	"math/rand"
	"time"
)

// TrendPoint is one sample in an illustrative trend series
type TrendPoint struct {
	Label     string  `json:"label"`
	HeartRate float64 `json:"heart_rate"`
	Steps     float64 `json:"steps"`
	Sleep     float64 `json:"sleep"`
	Stress    float64 `json:"stress"`
}

// IllustrativeTrends generates the series behind the historical charts.
// The backend keeps no client-readable history, so these values are
// synthetic; every page that renders them labels them as illustrative.
// The series is deterministic for a given seed so charts are stable
// across refreshes within a day.
func IllustrativeTrends(seed int64, days int, until time.Time) []TrendPoint {
	if days <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	points := make([]TrendPoint, 0, days)

	// Random walks anchored to plausible baselines and clamped to
	// physiological ranges.
	heartRate := 72.0
	steps := 6500.0
	sleep := 7.2
	stress := 35.0

	for i := days - 1; i >= 0; i-- {
		day := until.AddDate(0, 0, -i)

		heartRate = clamp(heartRate+rng.Float64()*8-4, 55, 105)
		steps = clamp(steps+rng.Float64()*3000-1500, 500, 16000)
		sleep = clamp(sleep+rng.Float64()*1.6-0.8, 4, 10)
		stress = clamp(stress+rng.Float64()*16-8, 5, 90)

		points = append(points, TrendPoint{
			Label:     day.Format("Jan 2"),
			HeartRate: math.Round(heartRate),
			Steps:     math.Round(steps),
			Sleep:     math.Round(sleep*10) / 10,
			Stress:    math.Round(stress),
		})
	}

	return points
}

// DailySeed derives a stable seed from a date so a user's charts do not
// reshuffle on every request within the same day.
func DailySeed(t time.Time) int64 {
	year, month, day := t.Date()
	return int64(year)*10000 + int64(month)*100 + int64(day)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
