// ABOUTME: Derived-row models: targets, daily suggestions, coaching digests.
// ABOUTME: All are regenerable and upserted on their natural date keys.
package models

import "time"

// Target is a configured goal value for a metric. Targets are a
// slowly-changing dimension: the row with the greatest effective_date not
// after the query date is the one in force.
type Target struct {
	ID            int64
	Metric        string
	Value         float64
	EffectiveDate time.Time
	Notes         *string
	CreatedAt     time.Time
}

// DailySuggestion is the persisted training recommendation for one date.
// Regenerating for the same date overwrites deterministically.
type DailySuggestion struct {
	ID             int64
	SuggestionDate time.Time
	ReadinessScore *int
	HRV            *float64
	HRV7DayAvg     *float64
	ScheduledType  string
	Suggestion     string
	Intensity      Intensity
	CreatedAt      time.Time
}

// CoachingDigest is a persisted natural-language summary of a day or a
// trailing week, upserted on (digest_date, digest_type).
type CoachingDigest struct {
	ID         int64
	DigestDate time.Time
	DigestType DigestType
	Summary    string
	Highlights []string
	CreatedAt  time.Time
}
