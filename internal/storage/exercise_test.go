// ABOUTME: Tests for exercise session storage.
// ABOUTME: External-id upserts, soft-delete revival, zones, range stats.
package storage

import (
	"errors"
	"testing"

	"github.com/harperreed/driver/internal/models"
)

func TestSessionByExternalID(t *testing.T) {
	db := testDB(t)
	date := testDate("2026-03-10")

	session := models.NewExerciseSession(date, models.SessionStrength).WithDuration(60)
	session.Source = models.SourceAppleHealth
	externalID := "apple_health:2026-03-10T07:00:00"
	session.ExternalID = &externalID
	if err := db.CreateSession(session); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := db.SessionByExternalID(models.SourceAppleHealth, externalID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got.ID != session.ID {
		t.Errorf("id = %d, want %d", got.ID, session.ID)
	}

	if _, err := db.SessionByExternalID(models.SourceOura, externalID); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong source lookup = %v, want ErrNotFound", err)
	}
}

func TestUpdateProviderSessionRevivesDeleted(t *testing.T) {
	db := testDB(t)
	date := testDate("2026-03-10")

	session := models.NewExerciseSession(date, models.SessionCardio).WithDuration(30)
	session.Source = models.SourceAppleHealth
	externalID := "apple_health:2026-03-10T18:00:00"
	session.ExternalID = &externalID
	if err := db.CreateSession(session); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := db.SoftDeleteSession(session.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := db.GetSession(session.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete = %v, want ErrNotFound", err)
	}

	// External-id lookup still sees the deleted row, so a re-import
	// updates it in place instead of inserting a duplicate.
	found, err := db.SessionByExternalID(models.SourceAppleHealth, externalID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	found.DurationMin = intPtr(45)
	if err := db.UpdateProviderSession(found); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := db.GetSession(session.ID)
	if err != nil {
		t.Fatalf("get after revive failed: %v", err)
	}
	if got.DurationMin == nil || *got.DurationMin != 45 {
		t.Errorf("duration = %v, want 45", got.DurationMin)
	}
	if got.DeletedAt != nil {
		t.Error("deleted_at should be cleared by a provider update")
	}
}

func TestReplaceZones(t *testing.T) {
	db := testDB(t)
	session := models.NewExerciseSession(testDate("2026-03-10"), models.SessionCardio)
	if err := db.CreateSession(session); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	zones := []models.HeartRateZone{
		{Zone: 2, Minutes: 20, PctOfSession: 50},
		{Zone: 3, Minutes: 20, PctOfSession: 50},
	}
	if err := db.ReplaceZones(session.ID, zones); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if err := db.ReplaceZones(session.ID, zones[:1]); err != nil {
		t.Fatalf("second replace failed: %v", err)
	}

	got, err := db.GetSession(session.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(got.Zones) != 1 {
		t.Fatalf("zones = %d, want 1 after replace", len(got.Zones))
	}
	if got.Zones[0].Zone != 2 || got.Zones[0].Minutes != 20 {
		t.Errorf("zone row = %+v", got.Zones[0])
	}
}

func TestSessionsInWindowNewestFirst(t *testing.T) {
	db := testDB(t)
	ending := testDate("2026-03-10")
	for i := 0; i < 3; i++ {
		s := models.NewExerciseSession(ending.AddDate(0, 0, -i), models.SessionStrength)
		if err := db.CreateSession(s); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	outside := models.NewExerciseSession(ending.AddDate(0, 0, -10), models.SessionStrength)
	if err := db.CreateSession(outside); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	sessions, err := db.SessionsInWindow(ending, 7)
	if err != nil {
		t.Fatalf("window failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("sessions = %d, want 3", len(sessions))
	}
	if !sessions[0].RecordedDate.Equal(ending) {
		t.Errorf("first session date = %v, want newest first", sessions[0].RecordedDate)
	}
}

func TestSessionStatsInRange(t *testing.T) {
	db := testDB(t)
	date := testDate("2026-03-10")

	a := models.NewExerciseSession(date, models.SessionStrength).WithDuration(45)
	calories := 320.0
	a.CaloriesBurned = &calories
	b := models.NewExerciseSession(date, models.SessionCardio).WithDuration(30)
	for _, s := range []*models.ExerciseSession{a, b} {
		if err := db.CreateSession(s); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	stats, err := db.SessionStatsInRange(date, date)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Count != 2 {
		t.Errorf("count = %d, want 2", stats.Count)
	}
	if stats.TotalDurationMin == nil || *stats.TotalDurationMin != 75 {
		t.Errorf("duration = %v, want 75", stats.TotalDurationMin)
	}
	if stats.TotalCalories == nil || *stats.TotalCalories != 320 {
		t.Errorf("calories = %v, want 320", stats.TotalCalories)
	}
}

func TestSessionCountsByType(t *testing.T) {
	db := testDB(t)
	date := testDate("2026-03-09")
	for _, st := range []models.SessionType{models.SessionStrength, models.SessionStrength, models.SessionCardio} {
		if err := db.CreateSession(models.NewExerciseSession(date, st)); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	counts, err := db.SessionCountsByType(date, date.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("counts failed: %v", err)
	}
	if counts[models.SessionStrength] != 2 {
		t.Errorf("strength = %d, want 2", counts[models.SessionStrength])
	}
	if counts[models.SessionCardio] != 1 {
		t.Errorf("cardio = %d, want 1", counts[models.SessionCardio])
	}
}
