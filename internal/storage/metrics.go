// ABOUTME: BodyMetric storage operations.
// ABOUTME: Inserts, per-source upsert lookups, and windowed series reads.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/driver/internal/models"
)

// CreateMetric stores a new body metric.
func (d *DB) CreateMetric(m *models.BodyMetric) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	res, err := d.db.Exec(
		`INSERT INTO body_metrics (recorded_date, metric, value, source, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		formatDate(m.RecordedDate), m.Metric, m.Value, string(m.Source), m.Notes,
		formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create metric: %w", err)
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create metric: %w", err)
	}
	return nil
}

// LatestMetricFor returns the most recently inserted row for a
// (date, metric, source) triple, or ErrNotFound.
func (d *DB) LatestMetricFor(date time.Time, metric string, source models.Source) (*models.BodyMetric, error) {
	row := d.db.QueryRow(
		`SELECT id, recorded_date, metric, value, source, notes, created_at
		 FROM body_metrics
		 WHERE recorded_date = ? AND metric = ? AND source = ?
		 ORDER BY id DESC
		 LIMIT 1`,
		formatDate(date), metric, string(source),
	)
	return scanMetric(row)
}

// UpdateMetricValue overwrites a metric's value and clears its notes.
// Used by the reconcilers when a provider re-reports a day.
func (d *DB) UpdateMetricValue(id int64, value float64) error {
	res, err := d.db.Exec(
		`UPDATE body_metrics SET value = ?, notes = NULL WHERE id = ?`,
		value, id,
	)
	if err != nil {
		return fmt.Errorf("update metric value: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update metric value: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// MetricsInWindow returns rows for a metric over a trailing window ending
// at (and including) the given date, ordered by recorded date ascending.
func (d *DB) MetricsInWindow(metric string, ending time.Time, days int) ([]*models.BodyMetric, error) {
	rows, err := d.db.Query(
		`SELECT id, recorded_date, metric, value, source, notes, created_at
		 FROM body_metrics
		 WHERE metric = ? AND recorded_date BETWEEN ? AND ?
		 ORDER BY recorded_date, id`,
		metric, formatDate(windowStart(ending, days)), formatDate(ending),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics in window: %w", err)
	}
	defer rows.Close()
	return scanMetrics(rows)
}

// LatestMetricValue returns the newest value recorded for a metric across
// all sources, or ErrNotFound. Used as the goal-plan baseline.
func (d *DB) LatestMetricValue(metric string) (float64, error) {
	var value float64
	err := d.db.QueryRow(
		`SELECT value FROM body_metrics
		 WHERE metric = ?
		 ORDER BY recorded_date DESC, id DESC
		 LIMIT 1`,
		metric,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("latest metric value: %w", err)
	}
	return value, nil
}

// ActivityForDate returns the latest steps and active_calories values for
// a date, newest row per metric winning across sources.
func (d *DB) ActivityForDate(date time.Time) (map[string]float64, error) {
	rows, err := d.db.Query(
		`SELECT metric, value
		 FROM body_metrics
		 WHERE recorded_date = ? AND metric IN ('steps', 'active_calories')
		 ORDER BY id DESC`,
		formatDate(date),
	)
	if err != nil {
		return nil, fmt.Errorf("activity for date: %w", err)
	}
	defer rows.Close()

	activity := make(map[string]float64)
	for rows.Next() {
		var metric string
		var value float64
		if err := rows.Scan(&metric, &value); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if _, seen := activity[metric]; !seen {
			activity[metric] = value
		}
	}
	return activity, rows.Err()
}

func scanMetric(row *sql.Row) (*models.BodyMetric, error) {
	var m models.BodyMetric
	var recordedDate, source, createdAt string
	var notes sql.NullString

	err := row.Scan(&m.ID, &recordedDate, &m.Metric, &m.Value, &source, &notes, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan metric: %w", err)
	}

	m.RecordedDate = parseDate(recordedDate)
	m.Source = models.Source(source)
	m.CreatedAt = parseTime(createdAt)
	if notes.Valid {
		m.Notes = &notes.String
	}
	return &m, nil
}

func scanMetrics(rows *sql.Rows) ([]*models.BodyMetric, error) {
	var metrics []*models.BodyMetric
	for rows.Next() {
		var m models.BodyMetric
		var recordedDate, source, createdAt string
		var notes sql.NullString

		if err := rows.Scan(&m.ID, &recordedDate, &m.Metric, &m.Value, &source, &notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		m.RecordedDate = parseDate(recordedDate)
		m.Source = models.Source(source)
		m.CreatedAt = parseTime(createdAt)
		if notes.Valid {
			m.Notes = &notes.String
		}
		metrics = append(metrics, &m)
	}
	return metrics, rows.Err()
}
