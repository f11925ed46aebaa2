// ABOUTME: BodyMetric model and canonical metric names.
// ABOUTME: Scalar daily measurements keyed by date, metric name, and source.
package models

import "time"

// Canonical metric names. Providers report under their own names; the
// ingest layer maps known provider names onto these and passes unknown
// names through untouched.
const (
	MetricSteps          = "steps"
	MetricWeightLbs      = "weight_lbs"
	MetricRestingHR      = "resting_hr"
	MetricHRV            = "hrv"
	MetricActiveCalories = "active_calories"
	MetricBasalCalories  = "basal_calories"
	MetricWaistIn        = "waist_in"
)

// KnownMetrics returns the canonical metric names accepted on the manual
// logging path. Ingested provider metrics may carry other names.
var KnownMetrics = []string{
	MetricSteps, MetricWeightLbs, MetricRestingHR, MetricHRV,
	MetricActiveCalories, MetricBasalCalories, MetricWaistIn,
}

// IsKnownMetric checks whether a name is one of the canonical metrics.
func IsKnownMetric(name string) bool {
	for _, m := range KnownMetrics {
		if m == name {
			return true
		}
	}
	return false
}

// BodyMetric is a single scalar measurement for a calendar date.
// Multiple rows may exist per (date, metric) from different sources;
// within a source the latest insertion wins when reading.
type BodyMetric struct {
	ID           int64
	RecordedDate time.Time
	Metric       string
	Value        float64
	Source       Source
	Notes        *string
	CreatedAt    time.Time
}

// NewBodyMetric creates a manual metric for the given date.
func NewBodyMetric(recordedDate time.Time, metric string, value float64) *BodyMetric {
	return &BodyMetric{
		RecordedDate: recordedDate,
		Metric:       metric,
		Value:        value,
		Source:       SourceManual,
		CreatedAt:    time.Now(),
	}
}

// WithSource sets the source.
func (m *BodyMetric) WithSource(s Source) *BodyMetric {
	m.Source = s
	return m
}

// WithNotes sets notes on the metric.
func (m *BodyMetric) WithNotes(notes string) *BodyMetric {
	m.Notes = &notes
	return m
}
