// ABOUTME: Tests for daily and weekly coaching digests and float formatting.
// ABOUTME: Verifies highlight wording, target deltas, and upsert behavior.
package coaching

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/driver/internal/models"
	"github.com/harperreed/driver/internal/storage"
)

func testDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var digestDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func seedTarget(t *testing.T, db *storage.DB, metric string, value float64) {
	t.Helper()
	target := &models.Target{Metric: metric, Value: value, EffectiveDate: digestDay.AddDate(0, 0, -30)}
	if err := db.SetTarget(target); err != nil {
		t.Fatalf("failed to seed target: %v", err)
	}
}

func seedFood(t *testing.T, db *storage.DB, date time.Time, calories, protein, sodium float64) {
	t.Helper()
	entry := models.NewFoodEntry(date, models.MealLunch, "test meal").
		WithCalories(calories).WithProtein(protein).WithSodium(sodium)
	if err := db.CreateFoodEntry(entry); err != nil {
		t.Fatalf("failed to seed food: %v", err)
	}
}

func containsHighlight(digest *models.CoachingDigest, want string) bool {
	for _, h := range digest.Highlights {
		if h == want {
			return true
		}
	}
	return false
}

func TestGenerateDailyEmptyDay(t *testing.T) {
	db := testDB(t)

	digest, err := NewGenerator(db).GenerateDaily(digestDay)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	want := "Daily digest for 2026-03-10: 0 food entries, 0 workouts, sleep score unavailable."
	if digest.Summary != want {
		t.Errorf("summary = %q, want %q", digest.Summary, want)
	}
	for _, h := range []string{
		"No nutrition entries logged today.",
		"No sleep record for this date.",
		"No workouts logged today.",
	} {
		if !containsHighlight(digest, h) {
			t.Errorf("missing highlight %q in %v", h, digest.Highlights)
		}
	}
}

func TestGenerateDailyWithTargets(t *testing.T) {
	db := testDB(t)
	seedTarget(t, db, "calories", 2200)
	seedTarget(t, db, "protein_g", 180)
	seedTarget(t, db, "sodium_mg", 2300)
	seedFood(t, db, digestDay, 1500, 100.4, 1800)
	seedFood(t, db, digestDay, 600, 42.1, 700)

	digest, err := NewGenerator(db).GenerateDaily(digestDay)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !containsHighlight(digest, "Intake: 2 entries, 2100 kcal (-100 vs target).") {
		t.Errorf("calorie highlight wrong: %v", digest.Highlights)
	}
	if !containsHighlight(digest, "Protein: 142.5 g (-37.5 vs 180 g target).") {
		t.Errorf("protein highlight wrong: %v", digest.Highlights)
	}
	if !containsHighlight(digest, "Sodium: 2500 mg (+200 vs 2300 mg target).") {
		t.Errorf("sodium highlight wrong: %v", digest.Highlights)
	}
}

func TestGenerateDailySleepAndTraining(t *testing.T) {
	db := testDB(t)
	seedFood(t, db, digestDay, 1800, 120, 2000)

	sleep := models.NewSleepRecord(digestDay).WithDuration(465).WithSource(models.SourceOura)
	score, readiness := 81, 77
	sleep.SleepScore = &score
	sleep.ReadinessScore = &readiness
	if err := db.InsertSleepRecord(sleep); err != nil {
		t.Fatalf("failed to seed sleep: %v", err)
	}

	session := models.NewExerciseSession(digestDay, models.SessionStrength).WithDuration(45)
	if err := db.CreateSession(session); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	digest, err := NewGenerator(db).GenerateDaily(digestDay)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !containsHighlight(digest, "Sleep: 7.8 h, score 81, readiness 77.") {
		t.Errorf("sleep highlight wrong: %v", digest.Highlights)
	}
	if !containsHighlight(digest, "Training: 1 session(s), 45 total minutes.") {
		t.Errorf("training highlight wrong: %v", digest.Highlights)
	}
	want := "Daily digest for 2026-03-10: 1 food entries, 1 workouts, sleep score 81."
	if digest.Summary != want {
		t.Errorf("summary = %q, want %q", digest.Summary, want)
	}
}

func TestGenerateDailyCapsHighlights(t *testing.T) {
	db := testDB(t)
	seedTarget(t, db, "calories", 2200)
	seedTarget(t, db, "protein_g", 180)
	seedTarget(t, db, "sodium_mg", 2300)
	entry := models.NewFoodEntry(digestDay, models.MealDrink, "wine").
		WithCalories(150).WithProtein(0.1).WithSodium(10)
	alcoholCal := 125.0
	entry.AlcoholCalories = &alcoholCal
	if err := db.CreateFoodEntry(entry); err != nil {
		t.Fatalf("failed to seed food: %v", err)
	}

	sleep := models.NewSleepRecord(digestDay).WithDuration(420)
	if err := db.InsertSleepRecord(sleep); err != nil {
		t.Fatalf("failed to seed sleep: %v", err)
	}
	if err := db.CreateSession(models.NewExerciseSession(digestDay, models.SessionCardio)); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	digest, err := NewGenerator(db).GenerateDaily(digestDay)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(digest.Highlights) > 6 {
		t.Errorf("highlights = %d, want at most 6", len(digest.Highlights))
	}
	if !containsHighlight(digest, "Alcohol intake logged: 125 kcal.") {
		t.Errorf("alcohol highlight wrong: %v", digest.Highlights)
	}
}

func TestGenerateWeekly(t *testing.T) {
	db := testDB(t)
	seedTarget(t, db, "calories", 2200)
	seedTarget(t, db, "protein_g", 180)
	// Two logged days in the window: averages divide by 2, not 7.
	seedFood(t, db, digestDay.AddDate(0, 0, -1), 2000, 150, 2100)
	seedFood(t, db, digestDay, 2400, 170, 2500)

	for i := 0; i < 3; i++ {
		session := models.NewExerciseSession(digestDay.AddDate(0, 0, -i), models.SessionStrength).WithDuration(40)
		if err := db.CreateSession(session); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}
	}

	digest, err := NewGenerator(db).GenerateWeekly(digestDay)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	want := "Weekly digest for 2026-03-04 to 2026-03-10: 3 workouts and 2200 avg kcal/day."
	if digest.Summary != want {
		t.Errorf("summary = %q, want %q", digest.Summary, want)
	}
	if !containsHighlight(digest, "Average calories/day: 2200 (+0 vs target).") {
		t.Errorf("calorie highlight wrong: %v", digest.Highlights)
	}
	if !containsHighlight(digest, "Average protein/day: 160.0 g (-20.0 vs 180 g target).") {
		t.Errorf("protein highlight wrong: %v", digest.Highlights)
	}
	if !containsHighlight(digest, "Training volume: 3 sessions and 120 minutes.") {
		t.Errorf("training highlight wrong: %v", digest.Highlights)
	}
	if !containsHighlight(digest, "No sleep records logged this week.") {
		t.Errorf("sleep highlight wrong: %v", digest.Highlights)
	}
}

func TestGenerateWeeklyEmptyWindow(t *testing.T) {
	db := testDB(t)

	digest, err := NewGenerator(db).GenerateWeekly(digestDay)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	want := "Weekly digest for 2026-03-04 to 2026-03-10: 0 workouts and no nutrition averages yet."
	if digest.Summary != want {
		t.Errorf("summary = %q, want %q", digest.Summary, want)
	}
	for _, h := range []string{
		"No food intake logged in this 7-day window.",
		"No training sessions logged this week.",
		"No sleep records logged this week.",
	} {
		if !containsHighlight(digest, h) {
			t.Errorf("missing highlight %q in %v", h, digest.Highlights)
		}
	}
}

func TestGenerateUpsertsOnDateAndType(t *testing.T) {
	db := testDB(t)
	gen := NewGenerator(db)

	if _, err := gen.GenerateDaily(digestDay); err != nil {
		t.Fatalf("first generate failed: %v", err)
	}
	seedFood(t, db, digestDay, 900, 60, 800)
	if _, err := gen.GenerateDaily(digestDay); err != nil {
		t.Fatalf("second generate failed: %v", err)
	}

	latest, err := gen.LatestDigests()
	if err != nil {
		t.Fatalf("latest digests failed: %v", err)
	}
	if latest.Daily == nil {
		t.Fatal("expected a daily digest")
	}
	if latest.Weekly != nil {
		t.Error("expected no weekly digest yet")
	}
	want := "Daily digest for 2026-03-10: 1 food entries, 0 workouts, sleep score unavailable."
	if latest.Daily.Summary != want {
		t.Errorf("summary = %q, want regenerated %q", latest.Daily.Summary, want)
	}
}

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{60, "60.0"},
		{7.75, "7.75"},
		{0, "0.0"},
		{-12.5, "-12.5"},
		{142.5, "142.5"},
	}
	for _, tc := range cases {
		if got := formatFloat(tc.in); got != tc.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSignedFloat(t *testing.T) {
	if got := signedFloat(2.5); got != "+2.5" {
		t.Errorf("signedFloat(2.5) = %q", got)
	}
	if got := signedFloat(-37.5); got != "-37.5" {
		t.Errorf("signedFloat(-37.5) = %q", got)
	}
	if got := signedFloat(0); got != "+0.0" {
		t.Errorf("signedFloat(0) = %q", got)
	}
}

func TestCompactFloat(t *testing.T) {
	if got := compactFloat(180); got != "180" {
		t.Errorf("compactFloat(180) = %q", got)
	}
	if got := compactFloat(2.5); got != "2.5" {
		t.Errorf("compactFloat(2.5) = %q", got)
	}
}
