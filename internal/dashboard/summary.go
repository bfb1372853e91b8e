// Package dashboard aggregates the backend probes behind the dashboard
// and twin pages and derives display metrics from the latest snapshot.
package dashboard

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/pkg/model"
)

// Backend is the slice of the API client the dashboard needs
type Backend interface {
	SyncLatestHealthData(ctx context.Context) (*model.HealthSnapshot, error)
	GoogleFitStatus(ctx context.Context) (*model.GoogleFitStatus, error)
	MedicalScans(ctx context.Context) ([]model.MedicalScan, error)
}

// Service computes dashboard summaries
type Service struct {
	backend Backend
	logger  *zap.Logger
}

// NewService creates a dashboard service
func NewService(backend Backend, logger *zap.Logger) *Service {
	return &Service{
		backend: backend,
		logger:  logger,
	}
}

// Summary is the merged result of the three dashboard probes plus the
// metrics derived from them. Probes that failed are represented by their
// neutral defaults: nil snapshot, disconnected status, empty scan list.
type Summary struct {
	Health      *model.HealthSnapshot
	GoogleFit   model.GoogleFitStatus
	Scans       []model.MedicalScan
	ActiveDays  int
	Analyzed    int
	Pending     int
	HealthScore int
	Metrics     []Metric
}

// Summary issues the three probes concurrently and merges whatever
// settled. Each failure is caught individually and substituted with its
// neutral default; the merged summary always resolves, regardless of
// individual outcomes. A Google Fit status failure in particular is not
// an error state: it reads as "not connected".
func (s *Service) Summary(ctx context.Context) *Summary {
	var (
		wg       sync.WaitGroup
		snapshot *model.HealthSnapshot
		status   *model.GoogleFitStatus
		scans    []model.MedicalScan
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		if snapshot, err = s.backend.SyncLatestHealthData(ctx); err != nil {
			s.logger.Warn("health sync probe failed", zap.Error(err))
			snapshot = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if status, err = s.backend.GoogleFitStatus(ctx); err != nil {
			s.logger.Debug("google fit status probe failed, treating as not connected", zap.Error(err))
			status = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if scans, err = s.backend.MedicalScans(ctx); err != nil {
			s.logger.Warn("scan list probe failed", zap.Error(err))
			scans = nil
		}
	}()
	wg.Wait()

	summary := &Summary{
		Health: snapshot,
		Scans:  scans,
	}
	if summary.Scans == nil {
		summary.Scans = []model.MedicalScan{}
	}
	if status != nil {
		summary.GoogleFit = *status
	}
	for _, scan := range summary.Scans {
		if scan.IsAnalyzed {
			summary.Analyzed++
		} else {
			summary.Pending++
		}
	}
	summary.ActiveDays = activeDays(snapshot)
	summary.Metrics = deriveMetrics(snapshot)
	summary.HealthScore = healthScore(summary.Metrics)

	return summary
}

// activeDays estimates recent activity from the step count: one day per
// thousand steps, capped at 30.
func activeDays(snapshot *model.HealthSnapshot) int {
	if snapshot == nil || snapshot.Steps == nil {
		return 0
	}
	days := int(*snapshot.Steps) / 1000
	if days > 30 {
		days = 30
	}
	if days < 0 {
		days = 0
	}
	return days
}

// Metric is one derived vital for display
type Metric struct {
	Name    string
	Value   string
	Unit    string
	Status  string
	Percent int
}

// Status labels for derived metrics
const (
	StatusNormal    = "Normal"
	StatusAttention = "Attention"
	StatusExcellent = "Excellent"
	StatusGood      = "Good"
	StatusFair      = "Fair"
	StatusLow       = "Low"
)

// deriveMetrics turns the nullable snapshot fields into display metrics.
// Thresholds: resting heart rate is normal in 60-100 bpm, systolic
// pressure in 90-140 mmHg; step counts tier at 8000/5000/2000.
func deriveMetrics(snapshot *model.HealthSnapshot) []Metric {
	if snapshot == nil {
		return nil
	}

	var metrics []Metric

	if hr := snapshot.HeartRate; hr != nil {
		status := StatusAttention
		if *hr >= 60 && *hr <= 100 {
			status = StatusNormal
		}
		metrics = append(metrics, Metric{
			Name:    "Heart Rate",
			Value:   formatVital(*hr),
			Unit:    "bpm",
			Status:  status,
			Percent: percentOf(*hr, 120),
		})
	}

	if sys, dia := snapshot.BloodPressureSys, snapshot.BloodPressureDia; sys != nil && dia != nil {
		status := StatusAttention
		if *sys >= 90 && *sys <= 140 {
			status = StatusNormal
		}
		metrics = append(metrics, Metric{
			Name:    "Blood Pressure",
			Value:   fmt.Sprintf("%s/%s", formatVital(*sys), formatVital(*dia)),
			Unit:    "mmHg",
			Status:  status,
			Percent: percentOf(*sys, 180),
		})
	}

	if steps := snapshot.Steps; steps != nil {
		status := StatusLow
		switch {
		case *steps >= 8000:
			status = StatusExcellent
		case *steps >= 5000:
			status = StatusGood
		case *steps >= 2000:
			status = StatusFair
		}
		metrics = append(metrics, Metric{
			Name:    "Steps",
			Value:   formatVital(*steps),
			Status:  status,
			Percent: percentOf(*steps, 10000),
		})
	}

	if sleep := snapshot.SleepHours; sleep != nil {
		status := StatusAttention
		if *sleep >= 7 && *sleep <= 9 {
			status = StatusNormal
		}
		metrics = append(metrics, Metric{
			Name:    "Sleep",
			Value:   fmt.Sprintf("%.1f", *sleep),
			Unit:    "h",
			Status:  status,
			Percent: percentOf(*sleep, 9),
		})
	}

	if oxygen := snapshot.OxygenLevel; oxygen != nil {
		status := StatusAttention
		if *oxygen >= 95 {
			status = StatusNormal
		}
		metrics = append(metrics, Metric{
			Name:    "Oxygen",
			Value:   formatVital(*oxygen),
			Unit:    "%",
			Status:  status,
			Percent: percentOf(*oxygen, 100),
		})
	}

	if temp := snapshot.Temperature; temp != nil {
		status := StatusAttention
		if *temp >= 36.1 && *temp <= 37.2 {
			status = StatusNormal
		}
		metrics = append(metrics, Metric{
			Name:    "Temperature",
			Value:   fmt.Sprintf("%.1f", *temp),
			Unit:    "°C",
			Status:  status,
			Percent: percentOf(*temp, 40),
		})
	}

	return metrics
}

// healthScore condenses the derived metrics into one 0-100 figure.
// Zero means no data, not poor health.
func healthScore(metrics []Metric) int {
	if len(metrics) == 0 {
		return 0
	}
	total := 0
	for _, m := range metrics {
		switch m.Status {
		case StatusNormal, StatusExcellent:
			total += 100
		case StatusGood:
			total += 80
		case StatusFair:
			total += 60
		default:
			total += 40
		}
	}
	return total / len(metrics)
}

func formatVital(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func percentOf(value, max float64) int {
	if max <= 0 {
		return 0
	}
	pct := int(math.Round(value / max * 100))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}
