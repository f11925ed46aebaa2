// ABOUTME: Tests for the suggestion engine: schedule, recovery rules, upsert.
// ABOUTME: Each scenario seeds sleep and session rows into a temp store.
package training

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

func seedSleep(t *testing.T, db *storage.DB, date time.Time, readiness *int, hrv *float64) {
	t.Helper()
	record := models.NewSleepRecord(date).WithSource(models.SourceOura)
	record.ReadinessScore = readiness
	record.HRV = hrv
	if err := db.InsertSleepRecord(record); err != nil {
		t.Fatalf("failed to seed sleep: %v", err)
	}
}

func seedSession(t *testing.T, db *storage.DB, date time.Time, sessionType models.SessionType) {
	t.Helper()
	if err := db.CreateSession(models.NewExerciseSession(date, sessionType)); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
}

func intRef(v int) *int {
	return &v
}

func floatRef(v float64) *float64 {
	return &v
}

// Fixed anchor dates: 2026-02-16 is a Monday.
var (
	monday    = time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC)
	tuesday   = monday.AddDate(0, 0, 1)
	wednesday = monday.AddDate(0, 0, 2)
	saturday  = monday.AddDate(0, 0, 5)
)

func TestScheduleFor(t *testing.T) {
	cases := []struct {
		day  time.Weekday
		want string
	}{
		{time.Monday, "strength"},
		{time.Tuesday, "cardio"},
		{time.Wednesday, "strength"},
		{time.Thursday, "cardio"},
		{time.Friday, "strength"},
		{time.Saturday, "rest"},
		{time.Sunday, "rest"},
	}
	for _, tc := range cases {
		if got := ScheduleFor(tc.day); got != tc.want {
			t.Errorf("ScheduleFor(%v) = %q, want %q", tc.day, got, tc.want)
		}
	}
}

func TestWeekStart(t *testing.T) {
	for offset := 0; offset < 7; offset++ {
		date := monday.AddDate(0, 0, offset)
		if got := WeekStart(date); !got.Equal(monday) {
			t.Errorf("WeekStart(%s) = %s, want %s",
				date.Format("2006-01-02"), got.Format("2006-01-02"), monday.Format("2006-01-02"))
		}
	}
	sunday := monday.AddDate(0, 0, -1)
	prevMonday := monday.AddDate(0, 0, -7)
	if got := WeekStart(sunday); !got.Equal(prevMonday) {
		t.Errorf("WeekStart(sunday) = %s, want previous Monday", got.Format("2006-01-02"))
	}
}

func TestGenerateNoRecoveryData(t *testing.T) {
	db := testDB(t)
	seedSession(t, db, monday, models.SessionStrength)

	got, err := NewEngine(db).Generate(monday)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if got.ScheduledType != "strength" {
		t.Errorf("scheduled type = %q, want strength", got.ScheduledType)
	}
	if got.Intensity != models.IntensityModerate {
		t.Errorf("intensity = %q, want moderate", got.Intensity)
	}
	if got.Suggestion != "Strength day. Run your planned session at moderate effort." {
		t.Errorf("suggestion = %q", got.Suggestion)
	}
}

func TestGenerateLowReadiness(t *testing.T) {
	db := testDB(t)
	seedSleep(t, db, tuesday, intRef(52), nil)
	seedSession(t, db, tuesday, models.SessionCardio)

	got, err := NewEngine(db).Generate(tuesday)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if got.Intensity != models.IntensityEasy {
		t.Errorf("intensity = %q, want easy", got.Intensity)
	}
	if got.Suggestion != "Cardio day. Keep it easy: 20-30 min in Zone 1-2." {
		t.Errorf("suggestion = %q", got.Suggestion)
	}
}

func TestGenerateLowHRV(t *testing.T) {
	db := testDB(t)
	// Baseline 40 over prior days, today 30: well under the 85% floor.
	for i := 1; i <= 6; i++ {
		seedSleep(t, db, monday.AddDate(0, 0, -i), intRef(70), floatRef(40))
	}
	seedSleep(t, db, monday, intRef(70), floatRef(30))
	seedSession(t, db, monday, models.SessionStrength)

	got, err := NewEngine(db).Generate(monday)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if got.Intensity != models.IntensityEasy {
		t.Errorf("intensity = %q, want easy", got.Intensity)
	}
	if got.Suggestion != "Strength day. Reduce volume and keep effort moderate." {
		t.Errorf("suggestion = %q", got.Suggestion)
	}
	if got.HRV7DayAvg == nil {
		t.Error("expected a 7-day HRV average on the suggestion")
	}
}

func TestGenerateStrongRecovery(t *testing.T) {
	db := testDB(t)
	seedSleep(t, db, monday, intRef(82), floatRef(40))
	seedSession(t, db, monday, models.SessionStrength)

	got, err := NewEngine(db).Generate(monday)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if got.Intensity != models.IntensityFull {
		t.Errorf("intensity = %q, want full", got.Intensity)
	}
	if got.Suggestion != "Strength day. Readiness is strong: run your full planned session." {
		t.Errorf("suggestion = %q", got.Suggestion)
	}
}

func TestGenerateMissedSessionNudge(t *testing.T) {
	db := testDB(t)
	seedSleep(t, db, wednesday, intRef(82), floatRef(40))
	// Monday's strength session never happened; Wednesday's is the second
	// expected one, so missed stays at 1 once today's is logged.
	seedSession(t, db, wednesday, models.SessionStrength)

	got, err := NewEngine(db).Generate(wednesday)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	want := "Strength day. Readiness is strong: run your full planned session." +
		" You missed 1 scheduled session(s) this week; consider making one up."
	if got.Suggestion != want {
		t.Errorf("suggestion = %q, want %q", got.Suggestion, want)
	}
}

func TestGenerateRestDay(t *testing.T) {
	db := testDB(t)

	got, err := NewEngine(db).Generate(saturday)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if got.ScheduledType != "rest" {
		t.Errorf("scheduled type = %q, want rest", got.ScheduledType)
	}
	if got.Intensity != models.IntensityRest {
		t.Errorf("intensity = %q, want rest", got.Intensity)
	}
	if got.Suggestion != "Rest day. Focus on recovery, light mobility, and hydration." {
		t.Errorf("suggestion = %q", got.Suggestion)
	}
}

func TestGenerateRestDayStrongRecovery(t *testing.T) {
	db := testDB(t)
	seedSleep(t, db, saturday, intRef(80), floatRef(40))

	got, err := NewEngine(db).Generate(saturday)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if got.Intensity != models.IntensityEasy {
		t.Errorf("intensity = %q, want easy", got.Intensity)
	}
	if got.Suggestion != "Rest day. Readiness is high, so add an optional 20-30 min Zone 1 walk and mobility." {
		t.Errorf("suggestion = %q", got.Suggestion)
	}
}

func TestGenerateUpsertsOnDate(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db)

	if _, err := engine.Generate(monday); err != nil {
		t.Fatalf("first generate failed: %v", err)
	}
	seedSleep(t, db, monday, intRef(55), nil)
	if _, err := engine.Generate(monday); err != nil {
		t.Fatalf("second generate failed: %v", err)
	}

	stored, err := db.SuggestionForDate(monday)
	if err != nil {
		t.Fatalf("suggestion not stored: %v", err)
	}
	if stored.Intensity != models.IntensityEasy {
		t.Errorf("intensity = %q, want easy after regeneration", stored.Intensity)
	}
	if stored.ReadinessScore == nil || *stored.ReadinessScore != 55 {
		t.Errorf("readiness = %v, want 55", stored.ReadinessScore)
	}
}
