// ABOUTME: Heart-rate zone engine: bpm thresholds and per-zone minute attribution.
// ABOUTME: Consecutive samples are bucketed by their average bpm; gaps go to the last zone.
package ingest

import (
	"sort"
	"time"
)

// Sample is one heart-rate reading inside a workout.
type Sample struct {
	Time time.Time
	BPM  float64
}

// ZoneForBPM maps a heart rate to its effort zone, 1 through 5.
func ZoneForBPM(bpm float64) int {
	switch {
	case bpm < 98:
		return 1
	case bpm < 115:
		return 2
	case bpm < 131:
		return 3
	case bpm < 148:
		return 4
	default:
		return 5
	}
}

// ComputeZoneMinutes attributes a session's minutes across zones. Each
// consecutive sample pair contributes its wall-clock gap to the zone of
// the pair's average bpm. When the samples cover less time than the
// session, the shortfall lands in the final sample's zone, so the zone
// totals always sum to the session length.
//
// With a zero duration the span between first and last sample is used
// instead; fewer than two samples then yields nothing. A single sample
// with a known duration puts every minute in that sample's zone.
func ComputeZoneMinutes(samples []Sample, totalDurationMin float64) map[int]float64 {
	if len(samples) == 0 {
		return map[int]float64{}
	}

	points := make([]Sample, len(samples))
	copy(points, samples)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})

	sessionMinutes := totalDurationMin
	if sessionMinutes < 0 {
		sessionMinutes = 0
	}
	if sessionMinutes == 0 {
		if len(points) < 2 {
			return map[int]float64{}
		}
		sessionMinutes = points[len(points)-1].Time.Sub(points[0].Time).Minutes()
		if sessionMinutes <= 0 {
			return map[int]float64{}
		}
	}

	if len(points) == 1 {
		return map[int]float64{ZoneForBPM(points[0].BPM): sessionMinutes}
	}

	zoneMinutes := make(map[int]float64)
	assigned := 0.0
	for i := 1; i < len(points); i++ {
		delta := points[i].Time.Sub(points[i-1].Time).Minutes()
		if delta <= 0 {
			continue
		}
		zone := ZoneForBPM((points[i-1].BPM + points[i].BPM) / 2.0)
		zoneMinutes[zone] += delta
		assigned += delta
	}

	if assigned < sessionMinutes {
		trailing := ZoneForBPM(points[len(points)-1].BPM)
		zoneMinutes[trailing] += sessionMinutes - assigned
	}

	return zoneMinutes
}
