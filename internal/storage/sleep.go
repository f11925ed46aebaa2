// ABOUTME: SleepRecord storage operations.
// ABOUTME: Replace-by-date writes, provider-preferred reads, and windows.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/driver/internal/models"
)

const sleepColumns = `id, recorded_date, bedtime, wake_time, duration_min, deep_min,
	rem_min, core_min, awake_min, hrv, resting_hr, readiness_score, sleep_score,
	cpap_used, cpap_ahi, cpap_hours, cpap_leak_95, cpap_pressure_avg, source, created_at`

// CreateSleepRecord replaces any existing rows for the date and inserts
// the new record. Manual logs overwrite whatever a provider synced.
func (d *DB) CreateSleepRecord(r *models.SleepRecord) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("create sleep record: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sleep_records WHERE recorded_date = ?`, formatDate(r.RecordedDate)); err != nil {
		return fmt.Errorf("create sleep record: %w", err)
	}
	res, err := tx.Exec(
		`INSERT INTO sleep_records (
			recorded_date, bedtime, wake_time, duration_min, deep_min, rem_min,
			core_min, awake_min, hrv, resting_hr, readiness_score, sleep_score,
			cpap_used, cpap_ahi, cpap_hours, cpap_leak_95, cpap_pressure_avg,
			source, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		formatDate(r.RecordedDate), r.Bedtime, r.WakeTime, r.DurationMin, r.DeepMin, r.RemMin,
		r.CoreMin, r.AwakeMin, r.HRV, r.RestingHR, r.ReadinessScore, r.SleepScore,
		r.CPAPUsed, r.CPAPAHI, r.CPAPHours, r.CPAPLeak95, r.CPAPPressure,
		string(r.Source), formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create sleep record: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("create sleep record: %w", err)
	}
	return tx.Commit()
}

// InsertSleepRecord inserts without disturbing existing rows for the date.
// Provider paths decide for themselves whether a day is already covered.
func (d *DB) InsertSleepRecord(r *models.SleepRecord) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	res, err := d.db.Exec(
		`INSERT INTO sleep_records (
			recorded_date, bedtime, wake_time, duration_min, deep_min, rem_min,
			core_min, awake_min, hrv, resting_hr, readiness_score, sleep_score,
			cpap_used, cpap_ahi, cpap_hours, cpap_leak_95, cpap_pressure_avg,
			source, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		formatDate(r.RecordedDate), r.Bedtime, r.WakeTime, r.DurationMin, r.DeepMin, r.RemMin,
		r.CoreMin, r.AwakeMin, r.HRV, r.RestingHR, r.ReadinessScore, r.SleepScore,
		r.CPAPUsed, r.CPAPAHI, r.CPAPHours, r.CPAPLeak95, r.CPAPPressure,
		string(r.Source), formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert sleep record: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert sleep record: %w", err)
	}
	return nil
}

// UpdateSleepRecord overwrites every mutable field of an existing row.
// Used when a provider resync supersedes an earlier import for a date.
func (d *DB) UpdateSleepRecord(r *models.SleepRecord) error {
	res, err := d.db.Exec(
		`UPDATE sleep_records SET
			bedtime = ?, wake_time = ?, duration_min = ?, deep_min = ?, rem_min = ?,
			core_min = ?, awake_min = ?, hrv = ?, resting_hr = ?, readiness_score = ?,
			sleep_score = ?, cpap_used = ?, cpap_ahi = ?, cpap_hours = ?,
			cpap_leak_95 = ?, cpap_pressure_avg = ?, source = ?
		 WHERE id = ?`,
		r.Bedtime, r.WakeTime, r.DurationMin, r.DeepMin, r.RemMin,
		r.CoreMin, r.AwakeMin, r.HRV, r.RestingHR, r.ReadinessScore,
		r.SleepScore, r.CPAPUsed, r.CPAPAHI, r.CPAPHours,
		r.CPAPLeak95, r.CPAPPressure, string(r.Source), r.ID,
	)
	if err != nil {
		return fmt.Errorf("update sleep record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update sleep record: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SleepRecordForDate returns one record for a date, preferring Oura rows
// over other sources and newer rows over older, or ErrNotFound.
func (d *DB) SleepRecordForDate(date time.Time) (*models.SleepRecord, error) {
	row := d.db.QueryRow(
		`SELECT `+sleepColumns+` FROM sleep_records
		 WHERE recorded_date = ?
		 ORDER BY CASE source WHEN 'oura' THEN 0 ELSE 1 END, created_at DESC, id DESC
		 LIMIT 1`,
		formatDate(date),
	)
	return scanSleepRow(row)
}

// AnySleepRecordForDate returns the newest record for a date regardless
// of source, or ErrNotFound. The reconcilers use it to decide between
// insert, overwrite, and skip.
func (d *DB) AnySleepRecordForDate(date time.Time) (*models.SleepRecord, error) {
	row := d.db.QueryRow(
		`SELECT `+sleepColumns+` FROM sleep_records
		 WHERE recorded_date = ?
		 ORDER BY id DESC
		 LIMIT 1`,
		formatDate(date),
	)
	return scanSleepRow(row)
}

// SleepInWindow returns source-preferred records over a trailing window
// ending at the given date, one per day, ordered by date ascending.
func (d *DB) SleepInWindow(ending time.Time, days int) ([]*models.SleepRecord, error) {
	rows, err := d.db.Query(
		`SELECT `+sleepColumns+` FROM sleep_records
		 WHERE recorded_date BETWEEN ? AND ?
		 ORDER BY recorded_date, CASE source WHEN 'oura' THEN 0 ELSE 1 END, created_at DESC, id DESC`,
		formatDate(windowStart(ending, days)), formatDate(ending),
	)
	if err != nil {
		return nil, fmt.Errorf("sleep in window: %w", err)
	}
	defer rows.Close()

	var records []*models.SleepRecord
	seen := make(map[string]bool)
	for rows.Next() {
		r, err := scanSleep(rows)
		if err != nil {
			return nil, err
		}
		day := formatDate(r.RecordedDate)
		if seen[day] {
			continue
		}
		seen[day] = true
		records = append(records, r)
	}
	return records, rows.Err()
}

// SleepAverages aggregates every stored row in a window, with no source
// preference or per-day dedup. Weekly reporting wants the raw average.
type SleepAverages struct {
	AvgDurationMin *float64
	AvgSleepScore  *float64
	AvgReadiness   *float64
}

// SleepAveragesInWindow computes SleepAverages for a trailing window
// ending at the given date.
func (d *DB) SleepAveragesInWindow(ending time.Time, days int) (*SleepAverages, error) {
	var a SleepAverages
	err := d.db.QueryRow(
		`SELECT AVG(duration_min), AVG(sleep_score), AVG(readiness_score)
		 FROM sleep_records
		 WHERE recorded_date BETWEEN ? AND ?`,
		formatDate(windowStart(ending, days)), formatDate(ending),
	).Scan(&a.AvgDurationMin, &a.AvgSleepScore, &a.AvgReadiness)
	if err != nil {
		return nil, fmt.Errorf("sleep averages: %w", err)
	}
	return &a, nil
}

// HRVAverage returns the average sleep HRV over a trailing window ending
// at the given date, or ErrNotFound when no HRV rows exist in the window.
func (d *DB) HRVAverage(ending time.Time, days int) (float64, error) {
	var avg sql.NullFloat64
	err := d.db.QueryRow(
		`SELECT AVG(hrv) FROM sleep_records
		 WHERE recorded_date BETWEEN ? AND ? AND hrv IS NOT NULL`,
		formatDate(windowStart(ending, days)), formatDate(ending),
	).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("hrv average: %w", err)
	}
	if !avg.Valid {
		return 0, ErrNotFound
	}
	return avg.Float64, nil
}

func scanSleepFields(s rowScanner) (*models.SleepRecord, error) {
	var r models.SleepRecord
	var recordedDate, source, createdAt string

	err := s.Scan(
		&r.ID, &recordedDate, &r.Bedtime, &r.WakeTime, &r.DurationMin, &r.DeepMin,
		&r.RemMin, &r.CoreMin, &r.AwakeMin, &r.HRV, &r.RestingHR, &r.ReadinessScore,
		&r.SleepScore, &r.CPAPUsed, &r.CPAPAHI, &r.CPAPHours, &r.CPAPLeak95,
		&r.CPAPPressure, &source, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	r.RecordedDate = parseDate(recordedDate)
	r.Source = models.Source(source)
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

func scanSleepRow(row *sql.Row) (*models.SleepRecord, error) {
	r, err := scanSleepFields(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan sleep record: %w", err)
	}
	return r, nil
}

func scanSleep(rows *sql.Rows) (*models.SleepRecord, error) {
	r, err := scanSleepFields(rows)
	if err != nil {
		return nil, fmt.Errorf("scan sleep record: %w", err)
	}
	return r, nil
}
