// ABOUTME: Apple Health export ingestion: scalar metrics, sleep analysis, workouts.
// ABOUTME: Idempotent upserts against canonical rows; zone rows recomputed per batch.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/harperreed/driver/internal/models"
	"github.com/harperreed/driver/internal/storage"
)

// appleMetricNames maps Apple Health metric names onto canonical ones.
// Unmapped names pass through unchanged.
var appleMetricNames = map[string]string{
	"resting_heart_rate":     models.MetricRestingHR,
	"heart_rate_variability": models.MetricHRV,
	"weight_body_mass":       models.MetricWeightLbs,
	"active_energy":          models.MetricActiveCalories,
	"step_count":             models.MetricSteps,
	"basal_energy_burned":    models.MetricBasalCalories,
}

// AppleHealthPayload is the export envelope posted by Health Auto Export.
type AppleHealthPayload struct {
	Data AppleHealthData `json:"data"`
}

// AppleHealthData carries the metric and workout arrays.
type AppleHealthData struct {
	Metrics  []AppleMetric  `json:"metrics"`
	Workouts []AppleWorkout `json:"workouts"`
}

// AppleMetric is one metric stream with its sample points.
type AppleMetric struct {
	Name  string       `json:"name"`
	Units string       `json:"units"`
	Data  []ApplePoint `json:"data"`
}

// ApplePoint is a dated quantity sample.
type ApplePoint struct {
	Date string   `json:"date"`
	Qty  *float64 `json:"qty"`
}

// AppleWorkout is one exported workout.
type AppleWorkout struct {
	Name          string       `json:"name"`
	Start         string       `json:"start"`
	End           string       `json:"end"`
	Duration      *float64     `json:"duration"`
	ActiveEnergy  *FlexQty     `json:"activeEnergy"`
	HeartRateData []ApplePoint `json:"heartRateData"`
}

// FlexQty tolerates the quantity shapes exporters emit: an object with a
// qty field, a bare number, or an array of dated quantities (summed).
type FlexQty struct {
	Qty *float64
}

func (q *FlexQty) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	switch trimmed[0] {
	case '{':
		var obj struct {
			Qty *float64 `json:"qty"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		q.Qty = obj.Qty
	case '[':
		var points []ApplePoint
		if err := json.Unmarshal(trimmed, &points); err != nil {
			return err
		}
		var sum float64
		var any bool
		for _, p := range points {
			if p.Qty != nil {
				sum += *p.Qty
				any = true
			}
		}
		if any {
			q.Qty = &sum
		}
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return err
		}
		q.Qty = &n
	}
	return nil
}

// Reconciler applies provider payloads to canonical storage.
type Reconciler struct {
	db  *storage.DB
	log *slog.Logger
}

// NewReconciler creates a reconciler over the given store.
func NewReconciler(db *storage.DB, log *slog.Logger) *Reconciler {
	if log == nil {
		log = slog.Default()
	}
	return &Reconciler{db: db, log: log}
}

// IngestAppleHealth applies an Apple Health export batch. Re-running the
// same payload leaves the store unchanged apart from refreshed values.
func (r *Reconciler) IngestAppleHealth(payload *AppleHealthPayload) (*Result, error) {
	result := newResult()
	var metrics, workouts, skipped int

	for _, metric := range payload.Data.Metrics {
		if metric.Name == "" {
			skipped++
			continue
		}

		// Raw heart-rate streams only feed the zone engine; they are
		// never stored as scalar metrics.
		if metric.Name == "heart_rate" {
			skipped += len(metric.Data)
			continue
		}

		if metric.Name == "sleep_analysis" {
			processed, skip, err := r.ingestAppleSleep(metric.Data)
			if err != nil {
				return nil, err
			}
			metrics += processed
			skipped += skip
			continue
		}

		target := metric.Name
		if mapped, ok := appleMetricNames[metric.Name]; ok {
			target = mapped
		}
		for _, point := range metric.Data {
			date, ok := RecordedDate(point.Date)
			if !ok || point.Qty == nil {
				skipped++
				continue
			}
			if err := r.upsertProviderMetric(date, target, *point.Qty, models.SourceAppleHealth); err != nil {
				return nil, err
			}
			metrics++
		}
	}

	for _, workout := range payload.Data.Workouts {
		ok, err := r.ingestAppleWorkout(&workout)
		if err != nil {
			return nil, err
		}
		if !ok {
			skipped++
			continue
		}
		workouts++
	}

	result.Processed["metrics"] = metrics
	result.Processed["workouts"] = workouts
	result.Processed["skipped"] = skipped
	r.log.Info("apple health ingest complete",
		"batch_id", result.BatchID,
		"metrics", metrics,
		"workouts", workouts,
		"skipped", skipped,
	)
	return result, nil
}

// ingestAppleSleep inserts low-fidelity "hours asleep" records. A date
// that already has any sleep record is left alone; Apple Health sleep
// never clobbers richer data.
func (r *Reconciler) ingestAppleSleep(points []ApplePoint) (processed, skipped int, err error) {
	for _, point := range points {
		date, ok := RecordedDate(point.Date)
		if !ok || point.Qty == nil {
			skipped++
			continue
		}
		_, err := r.db.AnySleepRecordForDate(date)
		if err == nil {
			processed++
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return 0, 0, fmt.Errorf("apple sleep lookup: %w", err)
		}
		duration := int(math.Round(*point.Qty * 60))
		record := models.NewSleepRecord(date).WithDuration(duration).WithSource(models.SourceAppleHealth)
		if err := r.db.InsertSleepRecord(record); err != nil {
			return 0, 0, fmt.Errorf("apple sleep insert: %w", err)
		}
		processed++
	}
	return processed, skipped, nil
}

// upsertProviderMetric finds the newest (date, metric) row for the
// source and overwrites it, or inserts when absent.
func (r *Reconciler) upsertProviderMetric(date time.Time, metric string, value float64, source models.Source) error {
	existing, err := r.db.LatestMetricFor(date, metric, source)
	if err == nil {
		return r.db.UpdateMetricValue(existing.ID, value)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("metric lookup: %w", err)
	}
	return r.db.CreateMetric(models.NewBodyMetric(date, metric, value).WithSource(source))
}

// ingestAppleWorkout upserts one workout by external id and recomputes
// its zone rows. Returns false when the workout has no usable start date.
func (r *Reconciler) ingestAppleWorkout(w *AppleWorkout) (bool, error) {
	date, ok := RecordedDate(w.Start)
	if !ok {
		return false, nil
	}

	externalID := "apple_health:" + w.Start
	if w.Start == "" {
		name := w.Name
		if name == "" {
			name = "workout"
		}
		externalID = fmt.Sprintf("apple_health:%s:%s", date.Format("2006-01-02"), name)
	}

	var durationMin *int
	if w.Duration != nil {
		m := int(math.Round(*w.Duration / 60.0))
		durationMin = &m
	} else {
		start, okStart := ParseTimestamp(w.Start)
		end, okEnd := ParseTimestamp(w.End)
		if okStart && okEnd {
			minutes := end.Sub(start).Minutes()
			if minutes < 0 {
				minutes = 0
			}
			m := int(math.Round(minutes))
			durationMin = &m
		}
	}

	var calories *float64
	if w.ActiveEnergy != nil {
		calories = w.ActiveEnergy.Qty
	}

	var heartValues []float64
	var samples []Sample
	for _, p := range w.HeartRateData {
		if p.Qty == nil {
			continue
		}
		heartValues = append(heartValues, *p.Qty)
		if t, ok := ParseTimestamp(p.Date); ok {
			samples = append(samples, Sample{Time: t, BPM: *p.Qty})
		}
	}
	var avgHR, maxHR *int
	if len(heartValues) > 0 {
		var sum, max float64
		for _, v := range heartValues {
			sum += v
			if v > max {
				max = v
			}
		}
		a := int(math.Round(sum / float64(len(heartValues))))
		m := int(math.Round(max))
		avgHR, maxHR = &a, &m
	}

	sessionType := models.SessionType(ClassifySessionType(w.Name))
	session := &models.ExerciseSession{
		RecordedDate:   date,
		SessionType:    sessionType,
		ExternalID:     &externalID,
		DurationMin:    durationMin,
		CaloriesBurned: calories,
		AvgHeartRate:   avgHR,
		MaxHeartRate:   maxHR,
		Source:         models.SourceAppleHealth,
	}
	if w.Name != "" {
		session.Name = &w.Name
	}

	existing, err := r.db.SessionByExternalID(models.SourceAppleHealth, externalID)
	switch {
	case err == nil:
		session.ID = existing.ID
		if err := r.db.UpdateProviderSession(session); err != nil {
			return false, fmt.Errorf("apple workout update: %w", err)
		}
	case errors.Is(err, storage.ErrNotFound):
		if err := r.db.CreateSession(session); err != nil {
			return false, fmt.Errorf("apple workout insert: %w", err)
		}
	default:
		return false, fmt.Errorf("apple workout lookup: %w", err)
	}

	var duration float64
	if durationMin != nil {
		duration = float64(*durationMin)
	}
	zones := buildZoneRows(samples, duration)
	if err := r.db.ReplaceZones(session.ID, zones); err != nil {
		return false, fmt.Errorf("apple workout zones: %w", err)
	}
	return true, nil
}

// buildZoneRows runs the zone engine and shapes rows for storage. Rows
// are only produced when a positive session length exists to divide by.
func buildZoneRows(samples []Sample, durationMin float64) []models.HeartRateZone {
	zoneMinutes := ComputeZoneMinutes(samples, durationMin)
	total := durationMin
	if total <= 0 {
		for _, m := range zoneMinutes {
			total += m
		}
	}
	if total <= 0 {
		return nil
	}

	zones := make([]int, 0, len(zoneMinutes))
	for zone := range zoneMinutes {
		zones = append(zones, zone)
	}
	sort.Ints(zones)

	rows := make([]models.HeartRateZone, 0, len(zones))
	for _, zone := range zones {
		minutes := zoneMinutes[zone]
		rows = append(rows, models.HeartRateZone{
			Zone:         zone,
			Minutes:      round3(minutes),
			PctOfSession: round3(minutes / total * 100.0),
		})
	}
	return rows
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
