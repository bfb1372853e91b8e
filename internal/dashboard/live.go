package dashboard

import (
	"math"
	"math/rand"
	"time"

	"github.com/twinhealth/healthdash/pkg/model"
)

// VitalsFrame is one tick of the twin page's live vitals feed
type VitalsFrame struct {
	HeartRate   float64 `json:"heart_rate"`
	OxygenLevel float64 `json:"oxygen_level"`
	Stress      float64 `json:"stress"`
	Temperature float64 `json:"temperature"`
	Illustrate  bool    `json:"illustrative"`
	At          string  `json:"at"`
}

// VitalsFeed produces a stream of synthetic vitals frames, anchored to
// the latest real snapshot when one exists. Frames are illustrative, not
// measurements; the flag travels with every frame so the page can say so.
type VitalsFeed struct {
	rng         *rand.Rand
	heartRate   float64
	oxygenLevel float64
	stress      float64
	temperature float64
}

// NewVitalsFeed seeds a feed from the latest snapshot; nil fields fall
// back to resting baselines.
func NewVitalsFeed(snapshot *model.HealthSnapshot, seed int64) *VitalsFeed {
	feed := &VitalsFeed{
		rng:         rand.New(rand.NewSource(seed)),
		heartRate:   72,
		oxygenLevel: 98,
		stress:      30,
		temperature: 36.6,
	}
	if snapshot != nil {
		if snapshot.HeartRate != nil {
			feed.heartRate = *snapshot.HeartRate
		}
		if snapshot.OxygenLevel != nil {
			feed.oxygenLevel = *snapshot.OxygenLevel
		}
		if snapshot.Stress != nil {
			feed.stress = *snapshot.Stress
		}
		if snapshot.Temperature != nil {
			feed.temperature = *snapshot.Temperature
		}
	}
	return feed
}

// Next advances the walk one tick and returns the frame
func (f *VitalsFeed) Next(now time.Time) VitalsFrame {
	f.heartRate = clamp(f.heartRate+f.rng.Float64()*4-2, 50, 120)
	f.oxygenLevel = clamp(f.oxygenLevel+f.rng.Float64()*1-0.5, 90, 100)
	f.stress = clamp(f.stress+f.rng.Float64()*6-3, 0, 100)
	f.temperature = clamp(f.temperature+f.rng.Float64()*0.2-0.1, 35.5, 38.0)

	return VitalsFrame{
		HeartRate:   math.Round(f.heartRate),
		OxygenLevel: math.Round(f.oxygenLevel*10) / 10,
		Stress:      math.Round(f.stress),
		Temperature: math.Round(f.temperature*10) / 10,
		Illustrate:  true,
		At:          now.UTC().Format(time.RFC3339),
	}
}
