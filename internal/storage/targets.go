// ABOUTME: Target storage with effective-dated lookups.
// ABOUTME: Per metric, the row with the greatest effective_date not after the query date wins.
package storage

import (
	"fmt"
	"time"

	"github.com/harperreed/driver/internal/models"
)

// SetTarget upserts a target on its (metric, effective_date) key.
func (d *DB) SetTarget(t *models.Target) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	res, err := d.db.Exec(
		`INSERT INTO targets (metric, value, effective_date, notes, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(metric, effective_date) DO UPDATE SET
			value = excluded.value,
			notes = excluded.notes`,
		t.Metric, t.Value, formatDate(t.EffectiveDate), t.Notes, formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("set target: %w", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("set target: %w", err)
	}
	return nil
}

// EffectiveTargets returns, per metric, the target in force on the given
// date. Metrics whose earliest effective_date is after the date are absent.
func (d *DB) EffectiveTargets(date time.Time) (map[string]float64, error) {
	rows, err := d.db.Query(
		`SELECT t.metric, t.value
		 FROM targets t
		 JOIN (
			SELECT metric, MAX(effective_date) AS effective_date
			FROM targets
			WHERE effective_date <= ?
			GROUP BY metric
		 ) latest ON latest.metric = t.metric AND latest.effective_date = t.effective_date`,
		formatDate(date),
	)
	if err != nil {
		return nil, fmt.Errorf("effective targets: %w", err)
	}
	defer rows.Close()

	targets := make(map[string]float64)
	for rows.Next() {
		var metric string
		var value float64
		if err := rows.Scan(&metric, &value); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		targets[metric] = value
	}
	return targets, rows.Err()
}

// ListTargets returns every target row, newest effective date first.
func (d *DB) ListTargets() ([]*models.Target, error) {
	rows, err := d.db.Query(
		`SELECT id, metric, value, effective_date, notes, created_at
		 FROM targets
		 ORDER BY effective_date DESC, metric`,
	)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var targets []*models.Target
	for rows.Next() {
		var t models.Target
		var effectiveDate, createdAt string
		if err := rows.Scan(&t.ID, &t.Metric, &t.Value, &effectiveDate, &t.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		t.EffectiveDate = parseDate(effectiveDate)
		t.CreatedAt = parseTime(createdAt)
		targets = append(targets, &t)
	}
	return targets, rows.Err()
}
