// ABOUTME: Tests for Oura payload ingestion against a temp store.
// ABOUTME: Covers day merging, precedence rules, and activity metrics.
package ingest

import (
	"testing"

	"github.com/harperreed/driver/internal/models"
)

func intp(v int) *int {
	return &v
}

func strp(s string) *string {
	return &s
}

func ouraPayload() *OuraPayload {
	return &OuraPayload{
		Sleep: []OuraSleep{{
			Day:                "2026-02-14",
			BedtimeStart:       strp("2026-02-13T23:10:00"),
			BedtimeEnd:         strp("2026-02-14T07:20:00"),
			TotalSleepDuration: qty(28800),
			DeepSleepDuration:  qty(5400),
			RemSleepDuration:   qty(6600),
			LightSleepDuration: qty(15000),
			AwakeTime:          qty(1800),
			Score:              intp(77),
		}},
		Readiness: []OuraReadiness{{
			Day:              "2026-02-14",
			Score:            intp(82),
			AverageHRV:       qty(39.2),
			RestingHeartRate: qty(52),
		}},
	}
}

func TestIngestOuraMergesSleepAndReadiness(t *testing.T) {
	db := testDB(t)
	rec := NewReconciler(db, nil)

	result, err := rec.IngestOura(ouraPayload())
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if result.Processed["sleep"] != 1 || result.Processed["readiness"] != 1 {
		t.Errorf("counts = %v, want sleep 1 readiness 1", result.Processed)
	}

	record, err := db.SleepRecordForDate(day("2026-02-14"))
	if err != nil {
		t.Fatalf("sleep record not stored: %v", err)
	}
	if record.DurationMin == nil || *record.DurationMin != 480 {
		t.Errorf("duration = %v, want 480", record.DurationMin)
	}
	if record.DeepMin == nil || *record.DeepMin != 90 {
		t.Errorf("deep = %v, want 90", record.DeepMin)
	}
	if record.RemMin == nil || *record.RemMin != 110 {
		t.Errorf("rem = %v, want 110", record.RemMin)
	}
	if record.CoreMin == nil || *record.CoreMin != 250 {
		t.Errorf("core = %v, want 250", record.CoreMin)
	}
	if record.AwakeMin == nil || *record.AwakeMin != 30 {
		t.Errorf("awake = %v, want 30", record.AwakeMin)
	}
	if record.SleepScore == nil || *record.SleepScore != 77 {
		t.Errorf("sleep score = %v, want 77", record.SleepScore)
	}
	if record.ReadinessScore == nil || *record.ReadinessScore != 82 {
		t.Errorf("readiness = %v, want 82", record.ReadinessScore)
	}
	if record.HRV == nil || *record.HRV != 39.2 {
		t.Errorf("hrv = %v, want 39.2", record.HRV)
	}
	if record.RestingHR == nil || *record.RestingHR != 52 {
		t.Errorf("resting hr = %v, want 52", record.RestingHR)
	}
	if record.Source != models.SourceOura {
		t.Errorf("source = %q, want oura", record.Source)
	}
}

func TestIngestOuraSparseSecondEntryKeepsFirst(t *testing.T) {
	db := testDB(t)
	rec := NewReconciler(db, nil)

	payload := ouraPayload()
	payload.Sleep = append(payload.Sleep, OuraSleep{
		Day:   "2026-02-14",
		Score: intp(81),
	})
	if _, err := rec.IngestOura(payload); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	record, err := db.SleepRecordForDate(day("2026-02-14"))
	if err != nil {
		t.Fatalf("sleep record missing: %v", err)
	}
	if record.Bedtime == nil || *record.Bedtime != "2026-02-13T23:10:00" {
		t.Errorf("bedtime = %v, want the first entry's value", record.Bedtime)
	}
	if record.DurationMin == nil || *record.DurationMin != 480 {
		t.Errorf("duration = %v, want 480 from the first entry", record.DurationMin)
	}
	if record.DeepMin == nil || *record.DeepMin != 90 {
		t.Errorf("deep = %v, want 90 from the first entry", record.DeepMin)
	}
	if record.SleepScore == nil || *record.SleepScore != 81 {
		t.Errorf("sleep score = %v, want the later 81", record.SleepScore)
	}
}

func TestIngestOuraResyncUpdates(t *testing.T) {
	db := testDB(t)
	rec := NewReconciler(db, nil)

	if _, err := rec.IngestOura(ouraPayload()); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}

	payload := ouraPayload()
	payload.Sleep[0].TotalSleepDuration = qty(27000)
	payload.Readiness[0].Score = intp(88)
	if _, err := rec.IngestOura(payload); err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}

	record, err := db.SleepRecordForDate(day("2026-02-14"))
	if err != nil {
		t.Fatalf("sleep record missing: %v", err)
	}
	if record.DurationMin == nil || *record.DurationMin != 450 {
		t.Errorf("duration = %v, want 450 after resync", record.DurationMin)
	}
	if record.ReadinessScore == nil || *record.ReadinessScore != 88 {
		t.Errorf("readiness = %v, want 88 after resync", record.ReadinessScore)
	}

	records, err := db.SleepInWindow(day("2026-02-14"), 1)
	if err != nil {
		t.Fatalf("failed to list sleep: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected one record after resync, got %d", len(records))
	}
}

func TestIngestOuraOverwritesAutomatedSources(t *testing.T) {
	db := testDB(t)
	rec := NewReconciler(db, nil)

	existing := models.NewSleepRecord(day("2026-02-14")).WithDuration(390).WithSource(models.SourceAppleHealth)
	if err := db.InsertSleepRecord(existing); err != nil {
		t.Fatalf("failed to seed sleep: %v", err)
	}

	if _, err := rec.IngestOura(ouraPayload()); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	record, err := db.SleepRecordForDate(day("2026-02-14"))
	if err != nil {
		t.Fatalf("sleep record missing: %v", err)
	}
	if record.DurationMin == nil || *record.DurationMin != 480 {
		t.Errorf("duration = %v, want oura's 480", record.DurationMin)
	}
	if record.Source != models.SourceOura {
		t.Errorf("source = %q, want oura", record.Source)
	}
}

func TestIngestOuraSkipsManualRecords(t *testing.T) {
	db := testDB(t)
	rec := NewReconciler(db, nil)

	existing := models.NewSleepRecord(day("2026-02-14")).WithDuration(400)
	if err := db.InsertSleepRecord(existing); err != nil {
		t.Fatalf("failed to seed sleep: %v", err)
	}

	result, err := rec.IngestOura(ouraPayload())
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if result.Processed["skipped"] != 1 {
		t.Errorf("skipped = %d, want 1", result.Processed["skipped"])
	}

	record, err := db.SleepRecordForDate(day("2026-02-14"))
	if err != nil {
		t.Fatalf("sleep record missing: %v", err)
	}
	if record.DurationMin == nil || *record.DurationMin != 400 {
		t.Errorf("duration = %v, want the manual 400", record.DurationMin)
	}
	if record.Source != models.SourceManual {
		t.Errorf("source = %q, want manual", record.Source)
	}
}

func TestIngestOuraReadinessContributorFallbacks(t *testing.T) {
	db := testDB(t)
	rec := NewReconciler(db, nil)

	payload := &OuraPayload{
		Readiness: []OuraReadiness{{
			Date:  "2026-02-14",
			Score: intp(70),
			Contributors: &OuraContributors{
				HRVBalance:       &OuraContributor{Value: qty(41)},
				RestingHeartRate: &OuraContributor{Value: qty(53.6)},
			},
		}},
	}
	if _, err := rec.IngestOura(payload); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	record, err := db.SleepRecordForDate(day("2026-02-14"))
	if err != nil {
		t.Fatalf("sleep record missing: %v", err)
	}
	if record.HRV == nil || *record.HRV != 41 {
		t.Errorf("hrv = %v, want contributor 41", record.HRV)
	}
	if record.RestingHR == nil || *record.RestingHR != 54 {
		t.Errorf("resting hr = %v, want rounded 54", record.RestingHR)
	}
}

func TestIngestOuraActivityMetrics(t *testing.T) {
	db := testDB(t)
	rec := NewReconciler(db, nil)

	payload := &OuraPayload{
		Activity: []OuraActivity{
			{Day: "2026-02-13", Steps: qty(9800), ActiveCalories: qty(540)},
			{Day: "2026-02-14", Steps: qty(11200), ActiveCalories: qty(610)},
		},
	}
	result, err := rec.IngestOura(payload)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if result.Processed["activity"] != 4 {
		t.Errorf("activity = %d, want 4", result.Processed["activity"])
	}

	activity, err := db.ActivityForDate(day("2026-02-14"))
	if err != nil {
		t.Fatalf("failed to load activity: %v", err)
	}
	if activity[models.MetricSteps] != 11200 {
		t.Errorf("steps = %v, want 11200", activity[models.MetricSteps])
	}
	if activity[models.MetricActiveCalories] != 610 {
		t.Errorf("active calories = %v, want 610", activity[models.MetricActiveCalories])
	}
}

func TestIngestOuraAcceptsDataNesting(t *testing.T) {
	db := testDB(t)
	rec := NewReconciler(db, nil)

	nested := &OuraPayload{Data: ouraPayload()}
	result, err := rec.IngestOura(nested)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if result.Processed["sleep"] != 1 {
		t.Errorf("sleep = %d, want 1 from nested payload", result.Processed["sleep"])
	}

	if _, err := db.SleepRecordForDate(day("2026-02-14")); err != nil {
		t.Errorf("sleep record not stored from nested payload: %v", err)
	}
}
