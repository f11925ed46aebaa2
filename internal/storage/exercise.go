// ABOUTME: ExerciseSession and heart-rate zone storage operations.
// ABOUTME: Provider upserts key on (source, external_id); zones are replaced whole.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/driver/internal/models"
)

const sessionColumns = `id, recorded_date, session_type, name, external_id, duration_min,
	calories_burned, avg_heart_rate, max_heart_rate, source, notes, created_at, deleted_at`

// CreateSession stores a new exercise session.
func (d *DB) CreateSession(s *models.ExerciseSession) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	res, err := d.db.Exec(
		`INSERT INTO exercise_sessions (
			recorded_date, session_type, name, external_id, duration_min,
			calories_burned, avg_heart_rate, max_heart_rate, source, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		formatDate(s.RecordedDate), string(s.SessionType), s.Name, s.ExternalID, s.DurationMin,
		s.CaloriesBurned, s.AvgHeartRate, s.MaxHeartRate, string(s.Source), s.Notes,
		formatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if s.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SessionByExternalID returns the most recently inserted session for a
// (source, external_id) pair, including soft-deleted rows, or ErrNotFound.
func (d *DB) SessionByExternalID(source models.Source, externalID string) (*models.ExerciseSession, error) {
	row := d.db.QueryRow(
		`SELECT `+sessionColumns+` FROM exercise_sessions
		 WHERE source = ? AND external_id = ?
		 ORDER BY id DESC
		 LIMIT 1`,
		string(source), externalID,
	)
	return scanSessionRow(row)
}

// UpdateProviderSession overwrites an existing session's fields from a
// provider re-import and revives it if it was soft-deleted.
func (d *DB) UpdateProviderSession(s *models.ExerciseSession) error {
	res, err := d.db.Exec(
		`UPDATE exercise_sessions SET
			recorded_date = ?, session_type = ?, name = ?, duration_min = ?,
			calories_burned = ?, avg_heart_rate = ?, max_heart_rate = ?,
			notes = ?, deleted_at = NULL
		 WHERE id = ?`,
		formatDate(s.RecordedDate), string(s.SessionType), s.Name, s.DurationMin,
		s.CaloriesBurned, s.AvgHeartRate, s.MaxHeartRate, s.Notes, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update provider session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update provider session: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSession returns a live session with its zone rows, or ErrNotFound.
func (d *DB) GetSession(id int64) (*models.ExerciseSession, error) {
	row := d.db.QueryRow(
		`SELECT `+sessionColumns+` FROM exercise_sessions
		 WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	s, err := scanSessionRow(row)
	if err != nil {
		return nil, err
	}
	if s.Zones, err = d.zonesForSession(s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

// SessionsInWindow returns live sessions over a trailing window ending at
// the given date, newest first, each with its zone rows.
func (d *DB) SessionsInWindow(ending time.Time, days int) ([]*models.ExerciseSession, error) {
	rows, err := d.db.Query(
		`SELECT `+sessionColumns+` FROM exercise_sessions
		 WHERE recorded_date BETWEEN ? AND ? AND deleted_at IS NULL
		 ORDER BY recorded_date DESC, id DESC`,
		formatDate(windowStart(ending, days)), formatDate(ending),
	)
	if err != nil {
		return nil, fmt.Errorf("sessions in window: %w", err)
	}
	defer rows.Close()

	var sessions []*models.ExerciseSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range sessions {
		if s.Zones, err = d.zonesForSession(s.ID); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

// SessionsForDate returns live sessions for one date, newest first.
func (d *DB) SessionsForDate(date time.Time) ([]*models.ExerciseSession, error) {
	return d.SessionsInWindow(date, 1)
}

// SoftDeleteSession marks a session deleted without removing its row, so
// a later provider re-import can revive it.
func (d *DB) SoftDeleteSession(id int64) error {
	res, err := d.db.Exec(
		`UPDATE exercise_sessions SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceZones deletes a session's zone rows and writes the new set.
// Zone rows are derived data, so a recompute always starts clean.
func (d *DB) ReplaceZones(sessionID int64, zones []models.HeartRateZone) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("replace zones: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM exercise_hr_zones WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("replace zones: %w", err)
	}
	for _, z := range zones {
		_, err := tx.Exec(
			`INSERT INTO exercise_hr_zones (session_id, zone, minutes, pct_of_session)
			 VALUES (?, ?, ?, ?)`,
			sessionID, z.Zone, z.Minutes, z.PctOfSession,
		)
		if err != nil {
			return fmt.Errorf("replace zones: %w", err)
		}
	}
	return tx.Commit()
}

// SessionStats aggregates live sessions over a date range. Nil totals
// mean no session carried that value.
type SessionStats struct {
	Count            int
	TotalDurationMin *float64
	TotalCalories    *float64
}

// SessionStatsInRange aggregates live sessions between two dates inclusive.
func (d *DB) SessionStatsInRange(from, to time.Time) (*SessionStats, error) {
	var s SessionStats
	err := d.db.QueryRow(
		`SELECT COUNT(*), SUM(duration_min), SUM(calories_burned)
		 FROM exercise_sessions
		 WHERE recorded_date BETWEEN ? AND ? AND deleted_at IS NULL`,
		formatDate(from), formatDate(to),
	).Scan(&s.Count, &s.TotalDurationMin, &s.TotalCalories)
	if err != nil {
		return nil, fmt.Errorf("session stats: %w", err)
	}
	return &s, nil
}

// SessionCountsByType counts live sessions per type between two dates
// inclusive. Used to measure schedule adherence within a week.
func (d *DB) SessionCountsByType(from, to time.Time) (map[models.SessionType]int, error) {
	rows, err := d.db.Query(
		`SELECT session_type, COUNT(*)
		 FROM exercise_sessions
		 WHERE recorded_date BETWEEN ? AND ? AND deleted_at IS NULL
		 GROUP BY session_type`,
		formatDate(from), formatDate(to),
	)
	if err != nil {
		return nil, fmt.Errorf("session counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.SessionType]int)
	for rows.Next() {
		var sessionType string
		var count int
		if err := rows.Scan(&sessionType, &count); err != nil {
			return nil, fmt.Errorf("scan session count: %w", err)
		}
		counts[models.SessionType(sessionType)] = count
	}
	return counts, rows.Err()
}

func (d *DB) zonesForSession(sessionID int64) ([]models.HeartRateZone, error) {
	rows, err := d.db.Query(
		`SELECT id, session_id, zone, minutes, pct_of_session
		 FROM exercise_hr_zones
		 WHERE session_id = ?
		 ORDER BY zone`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("zones for session: %w", err)
	}
	defer rows.Close()

	var zones []models.HeartRateZone
	for rows.Next() {
		var z models.HeartRateZone
		if err := rows.Scan(&z.ID, &z.SessionID, &z.Zone, &z.Minutes, &z.PctOfSession); err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func scanSessionFields(sc rowScanner) (*models.ExerciseSession, error) {
	var s models.ExerciseSession
	var recordedDate, sessionType, source, createdAt string
	var deletedAt sql.NullString

	err := sc.Scan(
		&s.ID, &recordedDate, &sessionType, &s.Name, &s.ExternalID, &s.DurationMin,
		&s.CaloriesBurned, &s.AvgHeartRate, &s.MaxHeartRate, &source, &s.Notes,
		&createdAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	s.RecordedDate = parseDate(recordedDate)
	s.SessionType = models.SessionType(sessionType)
	s.Source = models.Source(source)
	s.CreatedAt = parseTime(createdAt)
	if deletedAt.Valid {
		t := parseTime(deletedAt.String)
		s.DeletedAt = &t
	}
	return &s, nil
}

func scanSessionRow(row *sql.Row) (*models.ExerciseSession, error) {
	s, err := scanSessionFields(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return s, nil
}

func scanSession(rows *sql.Rows) (*models.ExerciseSession, error) {
	s, err := scanSessionFields(rows)
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return s, nil
}
