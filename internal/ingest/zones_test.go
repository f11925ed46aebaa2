// ABOUTME: Tests for the heart-rate zone engine.
// ABOUTME: Covers bucketing, trailing shortfall, and degenerate inputs.
package ingest

import (
	"math"
	"testing"
	"time"
)

func at(minute int) time.Time {
	return time.Date(2026, 2, 14, 7, minute, 0, 0, time.UTC)
}

func TestZoneForBPM(t *testing.T) {
	cases := []struct {
		bpm  float64
		zone int
	}{
		{60, 1},
		{97.9, 1},
		{98, 2},
		{114, 2},
		{115, 3},
		{130, 3},
		{131, 4},
		{147, 4},
		{148, 5},
		{190, 5},
	}
	for _, c := range cases {
		if got := ZoneForBPM(c.bpm); got != c.zone {
			t.Errorf("ZoneForBPM(%v) = %d, want %d", c.bpm, got, c.zone)
		}
	}
}

func TestComputeZoneMinutesSingleZone(t *testing.T) {
	samples := []Sample{
		{Time: at(0), BPM: 100},
		{Time: at(10), BPM: 105},
		{Time: at(20), BPM: 102},
	}
	minutes := ComputeZoneMinutes(samples, 20)
	if len(minutes) != 1 {
		t.Fatalf("expected one zone, got %v", minutes)
	}
	if math.Abs(minutes[2]-20) > 1e-9 {
		t.Errorf("zone 2 minutes = %v, want 20", minutes[2])
	}
}

func TestComputeZoneMinutesTrailingShortfall(t *testing.T) {
	// Samples span 10 minutes but the session lasted 30; the remaining
	// 20 minutes land in the last sample's zone.
	samples := []Sample{
		{Time: at(0), BPM: 100},
		{Time: at(10), BPM: 140},
	}
	minutes := ComputeZoneMinutes(samples, 30)

	var total float64
	for _, m := range minutes {
		total += m
	}
	if math.Abs(total-30) > 1e-9 {
		t.Fatalf("total minutes = %v, want 30", total)
	}
	// Pair average 120 is zone 3; shortfall goes to 140's zone 4.
	if math.Abs(minutes[3]-10) > 1e-9 {
		t.Errorf("zone 3 minutes = %v, want 10", minutes[3])
	}
	if math.Abs(minutes[4]-20) > 1e-9 {
		t.Errorf("zone 4 minutes = %v, want 20", minutes[4])
	}
}

func TestComputeZoneMinutesSingleSampleWithDuration(t *testing.T) {
	samples := []Sample{{Time: at(0), BPM: 150}}
	minutes := ComputeZoneMinutes(samples, 45)
	if math.Abs(minutes[5]-45) > 1e-9 {
		t.Errorf("zone 5 minutes = %v, want 45", minutes[5])
	}
}

func TestComputeZoneMinutesNoSamples(t *testing.T) {
	if minutes := ComputeZoneMinutes(nil, 60); len(minutes) != 0 {
		t.Errorf("expected no zones, got %v", minutes)
	}
}

func TestComputeZoneMinutesZeroDurationUsesSpan(t *testing.T) {
	samples := []Sample{
		{Time: at(0), BPM: 100},
		{Time: at(12), BPM: 104},
	}
	minutes := ComputeZoneMinutes(samples, 0)
	if math.Abs(minutes[2]-12) > 1e-9 {
		t.Errorf("zone 2 minutes = %v, want 12", minutes[2])
	}
}

func TestComputeZoneMinutesUnorderedSamples(t *testing.T) {
	samples := []Sample{
		{Time: at(10), BPM: 105},
		{Time: at(0), BPM: 100},
	}
	minutes := ComputeZoneMinutes(samples, 10)
	if math.Abs(minutes[2]-10) > 1e-9 {
		t.Errorf("zone 2 minutes = %v, want 10", minutes[2])
	}
}

func TestBuildZoneRowsPercentages(t *testing.T) {
	samples := []Sample{
		{Time: at(0), BPM: 100},
		{Time: at(15), BPM: 102},
		{Time: at(30), BPM: 140},
	}
	rows := buildZoneRows(samples, 60)
	if len(rows) == 0 {
		t.Fatal("expected zone rows")
	}
	var pct float64
	for _, row := range rows {
		pct += row.PctOfSession
	}
	if math.Abs(pct-100) > 0.01 {
		t.Errorf("percentages sum to %v, want 100", pct)
	}
}

func TestBuildZoneRowsNoSessionLength(t *testing.T) {
	if rows := buildZoneRows(nil, 0); rows != nil {
		t.Errorf("expected nil rows, got %v", rows)
	}
}
