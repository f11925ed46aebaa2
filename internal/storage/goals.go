// ABOUTME: Goal and GoalPlan storage operations.
// ABOUTME: Whitelisted partial updates; plans append-only with rising versions.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/driver/internal/models"
)

const goalColumns = `id, name, metric, goal_type, target_value, direction,
	start_date, target_date, active, notes, created_at`

// goalUpdatable whitelists the columns a partial update may touch.
var goalUpdatable = map[string]bool{
	"name":         true,
	"target_value": true,
	"direction":    true,
	"target_date":  true,
	"active":       true,
	"notes":        true,
}

// CreateGoal validates and stores a new goal.
func (d *DB) CreateGoal(g *models.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	var direction *string
	if g.Direction != nil {
		s := string(*g.Direction)
		direction = &s
	}
	var targetDate *string
	if g.TargetDate != nil {
		s := formatDate(*g.TargetDate)
		targetDate = &s
	}
	res, err := d.db.Exec(
		`INSERT INTO goals (
			name, metric, goal_type, target_value, direction,
			start_date, target_date, active, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Name, g.Metric, string(g.GoalType), g.TargetValue, direction,
		formatDate(g.StartDate), targetDate, g.Active, g.Notes, formatTime(g.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	if g.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

// GetGoal returns a goal by id, or ErrNotFound.
func (d *DB) GetGoal(id int64) (*models.Goal, error) {
	row := d.db.QueryRow(`SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan goal: %w", err)
	}
	return g, nil
}

// ListGoals returns goals newest first, optionally only active ones.
func (d *DB) ListGoals(activeOnly bool) ([]*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpdateGoal applies a partial update through the column whitelist.
func (d *DB) UpdateGoal(id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for col, val := range fields {
		if !goalUpdatable[col] {
			return fmt.Errorf("update goal: column %q not updatable", col)
		}
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	args = append(args, id)

	res, err := d.db.Exec(`UPDATE goals SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddGoalPlan appends a new plan version for a goal. Versions start at 1
// and rise monotonically; existing plans are never modified.
func (d *DB) AddGoalPlan(goalID int64, plan string) (*models.GoalPlan, error) {
	if _, err := d.GetGoal(goalID); err != nil {
		return nil, err
	}
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("add goal plan: %w", err)
	}
	defer tx.Rollback()

	var version int
	err = tx.QueryRow(
		`SELECT COALESCE(MAX(version), 0) + 1 FROM goal_plans WHERE goal_id = ?`,
		goalID,
	).Scan(&version)
	if err != nil {
		return nil, fmt.Errorf("add goal plan: %w", err)
	}

	p := &models.GoalPlan{GoalID: goalID, Plan: plan, Version: version, CreatedAt: time.Now()}
	res, err := tx.Exec(
		`INSERT INTO goal_plans (goal_id, plan, version, created_at) VALUES (?, ?, ?, ?)`,
		goalID, plan, version, formatTime(p.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("add goal plan: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("add goal plan: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("add goal plan: %w", err)
	}
	return p, nil
}

// LatestGoalPlan returns the highest-version plan for a goal, or ErrNotFound.
func (d *DB) LatestGoalPlan(goalID int64) (*models.GoalPlan, error) {
	row := d.db.QueryRow(
		`SELECT id, goal_id, plan, version, created_at
		 FROM goal_plans
		 WHERE goal_id = ?
		 ORDER BY version DESC
		 LIMIT 1`,
		goalID,
	)
	p, err := scanGoalPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan goal plan: %w", err)
	}
	return p, nil
}

// GoalPlanHistory returns every plan version for a goal, oldest first.
func (d *DB) GoalPlanHistory(goalID int64) ([]*models.GoalPlan, error) {
	rows, err := d.db.Query(
		`SELECT id, goal_id, plan, version, created_at
		 FROM goal_plans
		 WHERE goal_id = ?
		 ORDER BY version`,
		goalID,
	)
	if err != nil {
		return nil, fmt.Errorf("goal plan history: %w", err)
	}
	defer rows.Close()

	var plans []*models.GoalPlan
	for rows.Next() {
		p, err := scanGoalPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func scanGoal(sc rowScanner) (*models.Goal, error) {
	var g models.Goal
	var goalType, startDate, createdAt string
	var direction, targetDate sql.NullString

	err := sc.Scan(
		&g.ID, &g.Name, &g.Metric, &goalType, &g.TargetValue, &direction,
		&startDate, &targetDate, &g.Active, &g.Notes, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	g.GoalType = models.GoalType(goalType)
	g.StartDate = parseDate(startDate)
	g.CreatedAt = parseTime(createdAt)
	if direction.Valid {
		dir := models.Direction(direction.String)
		g.Direction = &dir
	}
	if targetDate.Valid {
		t := parseDate(targetDate.String)
		g.TargetDate = &t
	}
	return &g, nil
}

func scanGoalPlan(sc rowScanner) (*models.GoalPlan, error) {
	var p models.GoalPlan
	var createdAt string
	if err := sc.Scan(&p.ID, &p.GoalID, &p.Plan, &p.Version, &createdAt); err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}
