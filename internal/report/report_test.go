// ABOUTME: Tests for the doctor-visit report builder.
// ABOUTME: Window clamping, markdown section lines, and metric trends.
package report

import (
	"path/filepath"
	"strings"
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

var reportEnd = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

func hasLine(markdown, line string) bool {
	for _, l := range strings.Split(markdown, "\n") {
		if l == line {
			return true
		}
	}
	return false
}

func TestBuildClampsDays(t *testing.T) {
	db := testDB(t)
	builder := NewBuilder(db)

	short, err := builder.Build(reportEnd, 1)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if got := reportEnd.Sub(short.Start).Hours()/24 + 1; got != MinDays {
		t.Errorf("window = %v days, want clamped to %d", got, MinDays)
	}

	long, err := builder.Build(reportEnd, 10000)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if got := reportEnd.Sub(long.Start).Hours()/24 + 1; got != MaxDays {
		t.Errorf("window = %v days, want clamped to %d", got, MaxDays)
	}
}

func TestBuildEmptyStore(t *testing.T) {
	db := testDB(t)

	rep, err := NewBuilder(db).Build(reportEnd, DefaultDays)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !hasLine(rep.Markdown, "# Doctor Visit Report (2026-03-02 to 2026-03-31)") {
		t.Errorf("header wrong:\n%s", rep.Markdown)
	}
	for _, line := range []string{
		"- Avg calories/day: n/a",
		"- Avg protein/day: n/a g",
		"- Avg sodium/day: n/a mg",
		"- Alcohol calories total: 0",
		"- Sessions: 0",
		"- Total duration: 0 min",
		"- Weight: n/a",
		"- Waist: n/a",
		"- none",
		"- no labs available",
	} {
		if !hasLine(rep.Markdown, line) {
			t.Errorf("missing line %q in:\n%s", line, rep.Markdown)
		}
	}
}

func TestBuildWithData(t *testing.T) {
	db := testDB(t)
	entry := models.NewFoodEntry(reportEnd, models.MealLunch, "Bowl").WithCalories(2150).WithProtein(142.5)
	if err := db.CreateFoodEntry(entry); err != nil {
		t.Fatalf("seed food failed: %v", err)
	}
	session := models.NewExerciseSession(reportEnd, models.SessionStrength).WithDuration(45)
	if err := db.CreateSession(session); err != nil {
		t.Fatalf("seed session failed: %v", err)
	}
	sleep := models.NewSleepRecord(reportEnd).WithDuration(465).WithSource(models.SourceOura)
	if err := db.InsertSleepRecord(sleep); err != nil {
		t.Fatalf("seed sleep failed: %v", err)
	}

	rep, err := NewBuilder(db).Build(reportEnd, DefaultDays)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for _, line := range []string{
		"- Avg calories/day: 2150.0",
		"- Avg protein/day: 142.5 g",
		"- Sessions: 1",
		"- Total duration: 45.0 min",
		"- Avg sleep: 465.0 min",
	} {
		if !hasLine(rep.Markdown, line) {
			t.Errorf("missing line %q in:\n%s", line, rep.Markdown)
		}
	}
}

func TestBuildWeightTrend(t *testing.T) {
	db := testDB(t)
	first := models.NewBodyMetric(reportEnd.AddDate(0, 0, -20), models.MetricWeightLbs, 184.2)
	last := models.NewBodyMetric(reportEnd, models.MetricWeightLbs, 182.4)
	for _, m := range []*models.BodyMetric{first, last} {
		if err := db.CreateMetric(m); err != nil {
			t.Fatalf("seed metric failed: %v", err)
		}
	}

	rep, err := NewBuilder(db).Build(reportEnd, DefaultDays)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if rep.Weight.Latest == nil || *rep.Weight.Latest != 182.4 {
		t.Errorf("latest = %v, want 182.4", rep.Weight.Latest)
	}
	if rep.Weight.Delta == nil || *rep.Weight.Delta != -1.8 {
		t.Errorf("delta = %v, want -1.8", rep.Weight.Delta)
	}
	if !hasLine(rep.Markdown, "- Weight: 182.4 (-1.8 vs period start)") {
		t.Errorf("weight line wrong:\n%s", rep.Markdown)
	}
}

func TestMetricOutsideWindowIgnored(t *testing.T) {
	db := testDB(t)
	old := models.NewBodyMetric(reportEnd.AddDate(0, 0, -200), models.MetricWaistIn, 36)
	if err := db.CreateMetric(old); err != nil {
		t.Fatalf("seed metric failed: %v", err)
	}

	rep, err := NewBuilder(db).Build(reportEnd, DefaultDays)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if rep.Waist.Latest != nil {
		t.Errorf("waist = %v, want absent outside the window", rep.Waist.Latest)
	}
}
