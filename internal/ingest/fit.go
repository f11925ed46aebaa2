// ABOUTME: FIT activity file import: session upsert plus record-level zone compute.
// ABOUTME: Files dedup on a fit-scoped external id built from the session start time.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/tormoder/fit"

	"github.com/harperreed/driver/internal/models"
	"github.com/harperreed/driver/internal/storage"
)

const invalidUint8 = 0xFF

// ErrNoSession is returned for FIT files without an activity session.
var ErrNoSession = errors.New("fit file contains no activity session")

// ImportFIT decodes a FIT activity and upserts it as an exercise session,
// with heart-rate zones computed from the record stream. Re-importing the
// same file updates the existing session in place.
func (r *Reconciler) ImportFIT(reader io.Reader) (*Result, error) {
	result := newResult()

	decoded, err := fit.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decode fit file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("read fit activity: %w", err)
	}
	if len(activity.Sessions) == 0 {
		return nil, ErrNoSession
	}

	session := activity.Sessions[0]
	start := session.StartTime
	if start.IsZero() {
		start = session.Timestamp
	}
	if start.IsZero() {
		return nil, ErrNoSession
	}

	startUTC := start.UTC()
	date := time.Date(startUTC.Year(), startUTC.Month(), startUTC.Day(), 0, 0, 0, 0, time.UTC)
	externalID := "fit:" + startUTC.Format("2006-01-02 15:04:05")
	sport := fmt.Sprint(session.Sport)
	name := strings.ReplaceAll(sport, "_", " ")

	var durationMin *int
	if seconds := session.GetTotalTimerTimeScaled(); seconds > 0 && !math.IsNaN(seconds) {
		m := int(math.Round(seconds / 60.0))
		durationMin = &m
	}

	var calories *float64
	if session.TotalCalories != 0xFFFF {
		c := float64(session.TotalCalories)
		calories = &c
	}

	var samples []Sample
	var skippedRecords int
	for _, rec := range activity.Records {
		if rec == nil || rec.HeartRate == invalidUint8 || rec.HeartRate == 0 || rec.Timestamp.IsZero() {
			skippedRecords++
			continue
		}
		samples = append(samples, Sample{Time: rec.Timestamp, BPM: float64(rec.HeartRate)})
	}

	avgHR, maxHR := sessionHeartRates(session, samples)

	sessionType := models.SessionType(ClassifySessionType(sport))
	workout := &models.ExerciseSession{
		RecordedDate:   date,
		SessionType:    sessionType,
		Name:           &name,
		ExternalID:     &externalID,
		DurationMin:    durationMin,
		CaloriesBurned: calories,
		AvgHeartRate:   avgHR,
		MaxHeartRate:   maxHR,
		Source:         models.SourceFit,
	}

	existing, err := r.db.SessionByExternalID(models.SourceFit, externalID)
	switch {
	case err == nil:
		workout.ID = existing.ID
		if err := r.db.UpdateProviderSession(workout); err != nil {
			return nil, fmt.Errorf("fit workout update: %w", err)
		}
	case errors.Is(err, storage.ErrNotFound):
		if err := r.db.CreateSession(workout); err != nil {
			return nil, fmt.Errorf("fit workout insert: %w", err)
		}
	default:
		return nil, fmt.Errorf("fit workout lookup: %w", err)
	}

	var duration float64
	if durationMin != nil {
		duration = float64(*durationMin)
	}
	if err := r.db.ReplaceZones(workout.ID, buildZoneRows(samples, duration)); err != nil {
		return nil, fmt.Errorf("fit workout zones: %w", err)
	}

	result.Processed["workouts"] = 1
	result.Processed["skipped"] = skippedRecords
	r.log.Info("fit import complete",
		"batch_id", result.BatchID,
		"external_id", externalID,
		"sport", sport,
		"hr_samples", len(samples),
	)
	return result, nil
}

// sessionHeartRates prefers the session summary fields and falls back to
// the record stream when the device left them unset.
func sessionHeartRates(session *fit.SessionMsg, samples []Sample) (avg, max *int) {
	if session.AvgHeartRate != invalidUint8 && session.AvgHeartRate != 0 {
		v := int(session.AvgHeartRate)
		avg = &v
	}
	if session.MaxHeartRate != invalidUint8 && session.MaxHeartRate != 0 {
		v := int(session.MaxHeartRate)
		max = &v
	}
	if (avg == nil || max == nil) && len(samples) > 0 {
		var sum, peak float64
		for _, s := range samples {
			sum += s.BPM
			if s.BPM > peak {
				peak = s.BPM
			}
		}
		if avg == nil {
			v := int(math.Round(sum / float64(len(samples))))
			avg = &v
		}
		if max == nil {
			v := int(math.Round(peak))
			max = &v
		}
	}
	return avg, max
}
