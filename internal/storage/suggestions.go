// ABOUTME: DailySuggestion storage operations.
// ABOUTME: One row per date; regeneration upserts deterministically.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/driver/internal/models"
)

// UpsertSuggestion writes a suggestion, replacing any existing row for
// its date.
func (d *DB) UpsertSuggestion(s *models.DailySuggestion) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	res, err := d.db.Exec(
		`INSERT INTO daily_suggestions (
			suggestion_date, readiness_score, hrv, hrv_7day_avg,
			scheduled_type, suggestion, intensity, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(suggestion_date) DO UPDATE SET
			readiness_score = excluded.readiness_score,
			hrv = excluded.hrv,
			hrv_7day_avg = excluded.hrv_7day_avg,
			scheduled_type = excluded.scheduled_type,
			suggestion = excluded.suggestion,
			intensity = excluded.intensity,
			created_at = excluded.created_at`,
		formatDate(s.SuggestionDate), s.ReadinessScore, s.HRV, s.HRV7DayAvg,
		s.ScheduledType, s.Suggestion, string(s.Intensity), formatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert suggestion: %w", err)
	}
	if s.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("upsert suggestion: %w", err)
	}
	return nil
}

// SuggestionForDate returns the suggestion stored for a date, or ErrNotFound.
func (d *DB) SuggestionForDate(date time.Time) (*models.DailySuggestion, error) {
	row := d.db.QueryRow(
		`SELECT id, suggestion_date, readiness_score, hrv, hrv_7day_avg,
			scheduled_type, suggestion, intensity, created_at
		 FROM daily_suggestions
		 WHERE suggestion_date = ?`,
		formatDate(date),
	)

	var s models.DailySuggestion
	var suggestionDate, intensity, createdAt string
	err := row.Scan(
		&s.ID, &suggestionDate, &s.ReadinessScore, &s.HRV, &s.HRV7DayAvg,
		&s.ScheduledType, &s.Suggestion, &intensity, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan suggestion: %w", err)
	}
	s.SuggestionDate = parseDate(suggestionDate)
	s.Intensity = models.Intensity(intensity)
	s.CreatedAt = parseTime(createdAt)
	return &s, nil
}
