// ABOUTME: Oura payload ingestion: sleep and readiness merged per day, activity metrics.
// ABOUTME: Precedence is strict: manual rows survive, automated rows yield to oura.
package ingest

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/harperreed/driver/internal/models"
	"github.com/harperreed/driver/internal/storage"
)

// OuraPayload carries the sleep, readiness, and activity arrays from the
// Oura v2 API. The same arrays are also accepted nested under "data".
type OuraPayload struct {
	Sleep     []OuraSleep     `json:"sleep"`
	Readiness []OuraReadiness `json:"readiness"`
	Activity  []OuraActivity  `json:"activity"`
	Data      *OuraPayload    `json:"data"`
}

// OuraSleep is one night from the sleep collection. Durations arrive in
// seconds; NormalizeDurationMin tolerates pre-converted minutes too.
type OuraSleep struct {
	Day                string   `json:"day"`
	BedtimeStart       *string  `json:"bedtime_start"`
	BedtimeEnd         *string  `json:"bedtime_end"`
	TotalSleepDuration *float64 `json:"total_sleep_duration"`
	DeepSleepDuration  *float64 `json:"deep_sleep_duration"`
	RemSleepDuration   *float64 `json:"rem_sleep_duration"`
	LightSleepDuration *float64 `json:"light_sleep_duration"`
	AwakeTime          *float64 `json:"awake_time"`
	Score              *int     `json:"score"`
}

// OuraReadiness is one day from the readiness collection. Older exports
// bury HRV and resting HR under contributors.
type OuraReadiness struct {
	Day              string            `json:"day"`
	Date             string            `json:"date"`
	Score            *int              `json:"score"`
	AverageHRV       *float64          `json:"average_hrv"`
	RestingHeartRate *float64          `json:"resting_heart_rate"`
	Contributors     *OuraContributors `json:"contributors"`
}

// OuraContributors holds the nested readiness contributor values.
type OuraContributors struct {
	HRVBalance       *OuraContributor `json:"hrv_balance"`
	HRV              *OuraContributor `json:"hrv"`
	RestingHeartRate *OuraContributor `json:"resting_heart_rate"`
}

// OuraContributor is a single contributor score.
type OuraContributor struct {
	Value *float64 `json:"value"`
}

// OuraActivity is one day from the daily activity collection.
type OuraActivity struct {
	Day            string   `json:"day"`
	ActiveCalories *float64 `json:"active_calories"`
	Steps          *float64 `json:"steps"`
}

// hrv resolves average HRV with contributor fallbacks.
func (r *OuraReadiness) hrv() *float64 {
	if r.AverageHRV != nil {
		return r.AverageHRV
	}
	if r.Contributors != nil {
		if r.Contributors.HRVBalance != nil && r.Contributors.HRVBalance.Value != nil {
			return r.Contributors.HRVBalance.Value
		}
		if r.Contributors.HRV != nil && r.Contributors.HRV.Value != nil {
			return r.Contributors.HRV.Value
		}
	}
	return nil
}

// restingHR resolves resting heart rate with the contributor fallback.
func (r *OuraReadiness) restingHR() *float64 {
	if r.RestingHeartRate != nil {
		return r.RestingHeartRate
	}
	if r.Contributors != nil && r.Contributors.RestingHeartRate != nil {
		return r.Contributors.RestingHeartRate.Value
	}
	return nil
}

// day resolves the readiness date, accepting either field name.
func (r *OuraReadiness) day() string {
	if r.Day != "" {
		return r.Day
	}
	return r.Date
}

// mergedDay accumulates sleep and readiness fields for one date before
// reconciling against the store. Fields overlay, never conflict, within
// a single payload.
type mergedDay struct {
	bedtime     *string
	wakeTime    *string
	durationMin *int
	deepMin     *int
	remMin      *int
	coreMin     *int
	awakeMin    *int
	sleepScore  *int
	readiness   *int
	hrv         *float64
	restingHR   *int
}

// IngestOura applies an Oura batch: sleep and readiness entries for the
// same day merge in memory first, then reconcile against existing
// records. Activity entries upsert scalar metrics.
func (r *Reconciler) IngestOura(payload *OuraPayload) (*Result, error) {
	if len(payload.Sleep) == 0 && len(payload.Readiness) == 0 && len(payload.Activity) == 0 && payload.Data != nil {
		payload = payload.Data
	}

	result := newResult()
	var sleepCount, readinessCount, activityCount, skipped int

	merged := make(map[string]*mergedDay)
	day := func(key string) *mergedDay {
		if m, ok := merged[key]; ok {
			return m
		}
		m := &mergedDay{}
		merged[key] = m
		return m
	}

	for _, entry := range payload.Sleep {
		if _, ok := ParseTimestamp(entry.Day); !ok {
			skipped++
			continue
		}
		m := day(entry.Day)
		if entry.BedtimeStart != nil {
			m.bedtime = entry.BedtimeStart
		}
		if entry.BedtimeEnd != nil {
			m.wakeTime = entry.BedtimeEnd
		}
		if v := minutesPtr(entry.TotalSleepDuration); v != nil {
			m.durationMin = v
		}
		if v := minutesPtr(entry.DeepSleepDuration); v != nil {
			m.deepMin = v
		}
		if v := minutesPtr(entry.RemSleepDuration); v != nil {
			m.remMin = v
		}
		if v := minutesPtr(entry.LightSleepDuration); v != nil {
			m.coreMin = v
		}
		if v := minutesPtr(entry.AwakeTime); v != nil {
			m.awakeMin = v
		}
		if entry.Score != nil {
			m.sleepScore = entry.Score
		}
		sleepCount++
	}

	for _, entry := range payload.Readiness {
		key := entry.day()
		if _, ok := ParseTimestamp(key); !ok {
			skipped++
			continue
		}
		m := day(key)
		if entry.Score != nil {
			m.readiness = entry.Score
		}
		if hrv := entry.hrv(); hrv != nil {
			m.hrv = hrv
		}
		if rhr := entry.restingHR(); rhr != nil {
			v := int(math.Round(*rhr))
			m.restingHR = &v
		}
		readinessCount++
	}

	days := make([]string, 0, len(merged))
	for key := range merged {
		days = append(days, key)
	}
	sort.Strings(days)

	for _, key := range days {
		t, _ := ParseTimestamp(key)
		date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		skip, err := r.reconcileOuraDay(date, merged[key])
		if err != nil {
			return nil, err
		}
		if skip {
			skipped++
		}
	}

	for _, entry := range payload.Activity {
		date, ok := RecordedDate(entry.Day)
		if !ok {
			skipped++
			continue
		}
		for _, metric := range []struct {
			name  string
			value *float64
		}{
			{models.MetricSteps, entry.Steps},
			{models.MetricActiveCalories, entry.ActiveCalories},
		} {
			if metric.value == nil {
				continue
			}
			if err := r.upsertProviderMetric(date, metric.name, *metric.value, models.SourceOura); err != nil {
				return nil, err
			}
			activityCount++
		}
	}

	result.Processed["sleep"] = sleepCount
	result.Processed["readiness"] = readinessCount
	result.Processed["activity"] = activityCount
	result.Processed["skipped"] = skipped
	r.log.Info("oura ingest complete",
		"batch_id", result.BatchID,
		"sleep", sleepCount,
		"readiness", readinessCount,
		"activity", activityCount,
		"skipped", skipped,
	)
	return result, nil
}

// reconcileOuraDay writes one merged day. Manual records are never
// overwritten; automated records yield to oura; absent days insert.
func (r *Reconciler) reconcileOuraDay(date time.Time, m *mergedDay) (skipped bool, err error) {
	record := &models.SleepRecord{
		RecordedDate:   date,
		Bedtime:        m.bedtime,
		WakeTime:       m.wakeTime,
		DurationMin:    m.durationMin,
		DeepMin:        m.deepMin,
		RemMin:         m.remMin,
		CoreMin:        m.coreMin,
		AwakeMin:       m.awakeMin,
		HRV:            m.hrv,
		RestingHR:      m.restingHR,
		SleepScore:     m.sleepScore,
		ReadinessScore: m.readiness,
		Source:         models.SourceOura,
	}

	existing, err := r.db.AnySleepRecordForDate(date)
	if errors.Is(err, storage.ErrNotFound) {
		if err := r.db.InsertSleepRecord(record); err != nil {
			return false, fmt.Errorf("oura sleep insert: %w", err)
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("oura sleep lookup: %w", err)
	}

	if !existing.Source.Automated() {
		return true, nil
	}

	record.ID = existing.ID
	if err := r.db.UpdateSleepRecord(record); err != nil {
		return false, fmt.Errorf("oura sleep update: %w", err)
	}
	return false, nil
}

// minutesPtr normalizes an optional provider duration to whole minutes.
func minutesPtr(v *float64) *int {
	if v == nil {
		return nil
	}
	m := NormalizeDurationMin(*v)
	return &m
}
