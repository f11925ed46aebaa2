// ABOUTME: ExerciseSession and HeartRateZone models for workout tracking.
// ABOUTME: Sessions own zone rows; provider imports dedup via external IDs.
package models

import "time"

// ExerciseSession is a single workout. Provider-imported sessions carry a
// provider-scoped ExternalID used for idempotent re-ingestion; manual
// sessions leave it nil. Sessions are soft-deleted via DeletedAt.
type ExerciseSession struct {
	ID             int64
	RecordedDate   time.Time
	SessionType    SessionType
	Name           *string
	ExternalID     *string
	DurationMin    *int
	CaloriesBurned *float64
	AvgHeartRate   *int
	MaxHeartRate   *int
	Source         Source
	Notes          *string
	CreatedAt      time.Time
	DeletedAt      *time.Time
	Zones          []HeartRateZone // Populated when fetching a full session
}

// NewExerciseSession creates a manual session for the given date and type.
func NewExerciseSession(recordedDate time.Time, sessionType SessionType) *ExerciseSession {
	return &ExerciseSession{
		RecordedDate: recordedDate,
		SessionType:  sessionType,
		Source:       SourceManual,
		CreatedAt:    time.Now(),
	}
}

// WithName sets the session name.
func (s *ExerciseSession) WithName(name string) *ExerciseSession {
	s.Name = &name
	return s
}

// WithDuration sets the duration in minutes.
func (s *ExerciseSession) WithDuration(minutes int) *ExerciseSession {
	s.DurationMin = &minutes
	return s
}

// HeartRateZone is the time a session spent inside one effort band.
// Zone rows are wholly owned by their session: re-ingesting a workout
// deletes and recomputes them.
type HeartRateZone struct {
	ID           int64
	SessionID    int64
	Zone         int
	Minutes      float64
	PctOfSession float64
}
