// ABOUTME: SleepRecord model covering duration, stages, HRV, and CPAP data.
// ABOUTME: One logical record per date; readers prefer Oura rows, then newest.
package models

import "time"

// SleepRecord is one night of sleep for a calendar date. The store keeps
// history rows, so readers pick the most recently created record for a
// date, preferring Oura-sourced rows over everything else.
type SleepRecord struct {
	ID             int64
	RecordedDate   time.Time
	Bedtime        *string
	WakeTime       *string
	DurationMin    *int
	DeepMin        *int
	RemMin         *int
	CoreMin        *int
	AwakeMin       *int
	HRV            *float64
	RestingHR      *int
	ReadinessScore *int
	SleepScore     *int
	CPAPUsed       *int
	CPAPAHI        *float64
	CPAPHours      *float64
	CPAPLeak95     *float64
	CPAPPressure   *float64
	Source         Source
	CreatedAt      time.Time
}

// NewSleepRecord creates a manual sleep record for the given date.
func NewSleepRecord(recordedDate time.Time) *SleepRecord {
	return &SleepRecord{
		RecordedDate: recordedDate,
		Source:       SourceManual,
		CreatedAt:    time.Now(),
	}
}

// WithDuration sets the total duration in minutes.
func (r *SleepRecord) WithDuration(minutes int) *SleepRecord {
	r.DurationMin = &minutes
	return r
}

// WithSource sets the source.
func (r *SleepRecord) WithSource(s Source) *SleepRecord {
	r.Source = s
	return r
}
