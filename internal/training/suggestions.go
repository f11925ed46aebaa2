// ABOUTME: Rule-based daily training suggestions from a fixed weekly schedule.
// ABOUTME: Readiness and HRV-vs-baseline adjust intensity; missed sessions nudge.
package training

import (
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/driver/internal/models"
	"github.com/harperreed/driver/internal/storage"
)

// ScheduleFor returns the planned session type for a weekday: strength
// Monday/Wednesday/Friday, cardio Tuesday/Thursday, rest on the weekend.
func ScheduleFor(day time.Weekday) string {
	switch day {
	case time.Monday, time.Wednesday, time.Friday:
		return "strength"
	case time.Tuesday, time.Thursday:
		return "cardio"
	default:
		return "rest"
	}
}

// WeekStart returns the Monday on or before the given date.
func WeekStart(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

// Engine generates and persists daily training suggestions.
type Engine struct {
	db *storage.DB
}

// NewEngine creates a suggestion engine over the given store.
func NewEngine(db *storage.DB) *Engine {
	return &Engine{db: db}
}

// Generate builds the suggestion for a date from that day's recovery
// signals and the week's schedule adherence, then upserts it. Running
// twice for the same date is deterministic.
func (e *Engine) Generate(target time.Time) (*models.DailySuggestion, error) {
	scheduledType := ScheduleFor(target.Weekday())

	var readiness *int
	var hrv *float64
	sleep, err := e.db.SleepRecordForDate(target)
	if err == nil {
		readiness = sleep.ReadinessScore
		hrv = sleep.HRV
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("generate suggestion: %w", err)
	}

	var hrvAvg *float64
	avg, err := e.db.HRVAverage(target, 7)
	if err == nil {
		hrvAvg = &avg
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("generate suggestion: %w", err)
	}

	missed := 0
	if scheduledType != "rest" {
		weekStart := WeekStart(target)
		counts, err := e.db.SessionCountsByType(weekStart, target)
		if err != nil {
			return nil, fmt.Errorf("generate suggestion: %w", err)
		}
		expected := 0
		for cursor := weekStart; !cursor.After(target); cursor = cursor.AddDate(0, 0, 1) {
			if ScheduleFor(cursor.Weekday()) == scheduledType {
				expected++
			}
		}
		completed := counts[models.SessionType(scheduledType)]
		if missed = expected - completed; missed < 0 {
			missed = 0
		}
	}

	text, intensity := buildSuggestion(scheduledType, readiness, hrv, hrvAvg, missed)

	suggestion := &models.DailySuggestion{
		SuggestionDate: target,
		ReadinessScore: readiness,
		HRV:            hrv,
		HRV7DayAvg:     hrvAvg,
		ScheduledType:  scheduledType,
		Suggestion:     text,
		Intensity:      intensity,
	}
	if err := e.db.UpsertSuggestion(suggestion); err != nil {
		return nil, fmt.Errorf("generate suggestion: %w", err)
	}
	return suggestion, nil
}

// buildSuggestion applies the recovery decision tree. Low readiness is a
// score under 60, low HRV falls 15% under the 7-day baseline; strong
// recovery needs readiness at 75 plus HRV within 5% of baseline.
func buildSuggestion(scheduledType string, readiness *int, hrv, hrvAvg *float64, missed int) (string, models.Intensity) {
	lowReadiness := readiness != nil && *readiness < 60
	lowHRV := hrv != nil && hrvAvg != nil && *hrv < *hrvAvg*0.85
	highReadiness := readiness != nil && *readiness >= 75
	normalHRV := hrv != nil && hrvAvg != nil && *hrv >= *hrvAvg*0.95

	if scheduledType == "rest" {
		if highReadiness && normalHRV {
			return "Rest day. Readiness is high, so add an optional 20-30 min Zone 1 walk and mobility.", models.IntensityEasy
		}
		return "Rest day. Focus on recovery, light mobility, and hydration.", models.IntensityRest
	}

	if lowReadiness || lowHRV {
		if scheduledType == "cardio" {
			return "Cardio day. Keep it easy: 20-30 min in Zone 1-2.", models.IntensityEasy
		}
		return "Strength day. Reduce volume and keep effort moderate.", models.IntensityEasy
	}

	if highReadiness && normalHRV {
		base := "Strength day. Readiness is strong: run your full planned session."
		if scheduledType == "cardio" {
			base = "Cardio day. Readiness is strong: target 30-45 min in Zone 2."
		}
		if missed > 0 {
			base += fmt.Sprintf(" You missed %d scheduled session(s) this week; consider making one up.", missed)
		}
		return base, models.IntensityFull
	}

	base := "Strength day. Run your planned session at moderate effort."
	if scheduledType == "cardio" {
		base = "Cardio day. Keep a steady 25-40 min Zone 2 effort."
	}
	if missed > 0 {
		base += fmt.Sprintf(" You missed %d scheduled session(s) this week; consider a short make-up block.", missed)
	}
	return base, models.IntensityModerate
}
