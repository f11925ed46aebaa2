// ABOUTME: Daily and weekly coaching digests: templated summaries over stored data.
// ABOUTME: Deltas compare against effective-dated targets; at most six highlights.
package coaching

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/driver/internal/models"
	"github.com/harperreed/driver/internal/storage"
)

// Generator builds and persists coaching digests.
type Generator struct {
	db *storage.DB
}

// NewGenerator creates a digest generator over the given store.
func NewGenerator(db *storage.DB) *Generator {
	return &Generator{db: db}
}

// Latest holds the newest digest of each type; either may be nil.
type Latest struct {
	Daily  *models.CoachingDigest
	Weekly *models.CoachingDigest
}

// GenerateDaily builds the digest for one date: nutrition intake against
// targets, the day's sleep, and training volume. Upserts on (date, daily).
func (g *Generator) GenerateDaily(target time.Time) (*models.CoachingDigest, error) {
	day := target.Format("2006-01-02")

	targets, err := g.db.EffectiveTargets(target)
	if err != nil {
		return nil, fmt.Errorf("daily digest: %w", err)
	}
	food, err := g.db.NutritionTotalsForDate(target)
	if err != nil {
		return nil, fmt.Errorf("daily digest: %w", err)
	}
	sleep, err := g.db.SleepRecordForDate(target)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("daily digest: %w", err)
	}
	exercise, err := g.db.SessionStatsInRange(target, target)
	if err != nil {
		return nil, fmt.Errorf("daily digest: %w", err)
	}

	var highlights []string

	if food.Entries > 0 {
		calories := 0.0
		if food.Calories != nil {
			calories = sqlRound(*food.Calories, 0)
		}
		calorieLine := fmt.Sprintf("%d kcal", int(calories))
		if t := targets["calories"]; t != 0 {
			calorieLine += fmt.Sprintf(" (%+d vs target)", int(calories-t))
		}
		highlights = append(highlights, fmt.Sprintf("Intake: %d entries, %s.", food.Entries, calorieLine))

		if food.ProteinG != nil {
			if t := targets["protein_g"]; t != 0 {
				protein := sqlRound(*food.ProteinG, 1)
				gap := pyRound(protein-t, 1)
				highlights = append(highlights, fmt.Sprintf(
					"Protein: %s g (%s vs %s g target).",
					formatFloat(protein), signedFloat(gap), compactFloat(t),
				))
			}
		}
		if food.SodiumMg != nil {
			if t := targets["sodium_mg"]; t != 0 {
				sodium := sqlRound(*food.SodiumMg, 0)
				highlights = append(highlights, fmt.Sprintf(
					"Sodium: %d mg (%+d vs %d mg target).",
					int(sodium), int(sodium-t), int(t),
				))
			}
		}
		if food.AlcoholCalories != nil && *food.AlcoholCalories > 0 {
			highlights = append(highlights, fmt.Sprintf(
				"Alcohol intake logged: %d kcal.", int(sqlRound(*food.AlcoholCalories, 0)),
			))
		}
	} else {
		highlights = append(highlights, "No nutrition entries logged today.")
	}

	if sleep != nil {
		if sleep.DurationMin != nil {
			line := "Sleep: " + formatFloat(pyRound(float64(*sleep.DurationMin)/60, 1)) + " h"
			if sleep.SleepScore != nil {
				line += fmt.Sprintf(", score %d", *sleep.SleepScore)
			}
			if sleep.ReadinessScore != nil {
				line += fmt.Sprintf(", readiness %d", *sleep.ReadinessScore)
			}
			highlights = append(highlights, line+".")
		}
	} else {
		highlights = append(highlights, "No sleep record for this date.")
	}

	if exercise.Count > 0 {
		duration := 0
		if exercise.TotalDurationMin != nil {
			duration = int(sqlRound(*exercise.TotalDurationMin, 0))
		}
		highlights = append(highlights, fmt.Sprintf(
			"Training: %d session(s), %d total minutes.", exercise.Count, duration,
		))
	} else {
		highlights = append(highlights, "No workouts logged today.")
	}

	sleepClause := "sleep score unavailable."
	if sleep != nil && sleep.SleepScore != nil {
		sleepClause = fmt.Sprintf("sleep score %d.", *sleep.SleepScore)
	}
	summary := fmt.Sprintf(
		"Daily digest for %s: %d food entries, %d workouts, %s",
		day, food.Entries, exercise.Count, sleepClause,
	)

	return g.persist(target, models.DigestDaily, summary, highlights)
}

// GenerateWeekly builds the digest for the trailing seven days ending at
// the given date. Nutrition averages divide by days with entries, not
// seven. Upserts on (ending, weekly).
func (g *Generator) GenerateWeekly(ending time.Time) (*models.CoachingDigest, error) {
	start := ending.AddDate(0, 0, -6)
	startS := start.Format("2006-01-02")
	endS := ending.Format("2006-01-02")

	targets, err := g.db.EffectiveTargets(ending)
	if err != nil {
		return nil, fmt.Errorf("weekly digest: %w", err)
	}
	food, err := g.db.NutritionAveragesInWindow(ending, 7)
	if err != nil {
		return nil, fmt.Errorf("weekly digest: %w", err)
	}
	exercise, err := g.db.SessionStatsInRange(start, ending)
	if err != nil {
		return nil, fmt.Errorf("weekly digest: %w", err)
	}
	sleep, err := g.db.SleepAveragesInWindow(ending, 7)
	if err != nil {
		return nil, fmt.Errorf("weekly digest: %w", err)
	}

	var highlights []string

	var avgCalories *float64
	if food.AvgCalories != nil {
		v := sqlRound(*food.AvgCalories, 0)
		avgCalories = &v
	}
	if avgCalories != nil {
		line := fmt.Sprintf("Average calories/day: %d", int(*avgCalories))
		if t := targets["calories"]; t != 0 {
			line += fmt.Sprintf(" (%+d vs target)", int(*avgCalories-t))
		}
		highlights = append(highlights, line+".")
	} else {
		highlights = append(highlights, "No food intake logged in this 7-day window.")
	}

	if food.AvgProteinG != nil {
		if t, ok := targets["protein_g"]; ok {
			protein := sqlRound(*food.AvgProteinG, 1)
			gap := pyRound(protein-t, 1)
			highlights = append(highlights, fmt.Sprintf(
				"Average protein/day: %s g (%s vs %s g target).",
				formatFloat(protein), signedFloat(gap), compactFloat(t),
			))
		}
	}
	if food.AvgSodiumMg != nil {
		if t, ok := targets["sodium_mg"]; ok {
			sodium := sqlRound(*food.AvgSodiumMg, 0)
			highlights = append(highlights, fmt.Sprintf(
				"Average sodium/day: %d mg (%+d vs %d mg target).",
				int(sodium), int(sodium-t), int(t),
			))
		}
	}

	if exercise.Count > 0 {
		duration := 0
		if exercise.TotalDurationMin != nil {
			duration = int(sqlRound(*exercise.TotalDurationMin, 0))
		}
		highlights = append(highlights, fmt.Sprintf(
			"Training volume: %d sessions and %d minutes.", exercise.Count, duration,
		))
	} else {
		highlights = append(highlights, "No training sessions logged this week.")
	}

	if sleep.AvgDurationMin != nil {
		line := "Average sleep: " + formatFloat(pyRound(sqlRound(*sleep.AvgDurationMin, 1)/60, 1)) + " h/night"
		if sleep.AvgSleepScore != nil {
			line += ", score " + formatFloat(sqlRound(*sleep.AvgSleepScore, 1))
		}
		highlights = append(highlights, line+".")
	} else {
		highlights = append(highlights, "No sleep records logged this week.")
	}

	nutritionClause := "no nutrition averages yet."
	if avgCalories != nil {
		nutritionClause = fmt.Sprintf("%d avg kcal/day.", int(*avgCalories))
	}
	summary := fmt.Sprintf(
		"Weekly digest for %s to %s: %d workouts and %s",
		startS, endS, exercise.Count, nutritionClause,
	)

	return g.persist(ending, models.DigestWeekly, summary, highlights)
}

// LatestDigests returns the newest stored digest of each type.
func (g *Generator) LatestDigests() (*Latest, error) {
	latest := &Latest{}
	daily, err := g.db.LatestDigestOfType(models.DigestDaily)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("latest digests: %w", err)
	}
	latest.Daily = daily
	weekly, err := g.db.LatestDigestOfType(models.DigestWeekly)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("latest digests: %w", err)
	}
	latest.Weekly = weekly
	return latest, nil
}

func (g *Generator) persist(date time.Time, digestType models.DigestType, summary string, highlights []string) (*models.CoachingDigest, error) {
	if len(highlights) > 6 {
		highlights = highlights[:6]
	}
	digest := &models.CoachingDigest{
		DigestDate: date,
		DigestType: digestType,
		Summary:    summary,
		Highlights: highlights,
	}
	if err := g.db.UpsertDigest(digest); err != nil {
		return nil, fmt.Errorf("persist digest: %w", err)
	}
	return digest, nil
}

// sqlRound rounds half away from zero, matching SQLite's ROUND.
func sqlRound(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

// pyRound rounds half to even to a fixed number of digits.
func pyRound(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.RoundToEven(v*p) / p
}

// formatFloat renders a float with its decimal point kept, so whole
// values read "60.0" rather than "60".
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// signedFloat is formatFloat with an explicit leading sign.
func signedFloat(v float64) string {
	if v >= 0 {
		return "+" + formatFloat(v)
	}
	return formatFloat(v)
}

// compactFloat drops a trailing zero fraction, so targets read "180"
// rather than "180.0".
func compactFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
