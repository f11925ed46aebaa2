// ABOUTME: FoodEntry storage operations and nutrition aggregates.
// ABOUTME: Soft deletes, whitelisted partial updates, daily and windowed totals.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/driver/internal/models"
)

const foodColumns = `id, recorded_date, meal_type, name, calories, protein_g, carbs_g,
	fat_g, fiber_g, sodium_mg, alcohol_g, alcohol_calories, alcohol_type, photo_url,
	servings, is_estimated, source, notes, created_at, deleted_at`

// foodUpdatable whitelists the columns a partial update may touch.
var foodUpdatable = map[string]bool{
	"meal_type":        true,
	"name":             true,
	"calories":         true,
	"protein_g":        true,
	"carbs_g":          true,
	"fat_g":            true,
	"fiber_g":          true,
	"sodium_mg":        true,
	"alcohol_g":        true,
	"alcohol_calories": true,
	"alcohol_type":     true,
	"photo_url":        true,
	"servings":         true,
	"is_estimated":     true,
	"notes":            true,
}

// NutritionTotals are summed macros for a date or window. A nil field
// means no entry carried that value, which readers treat differently
// from an explicit zero.
type NutritionTotals struct {
	Calories        *float64
	ProteinG        *float64
	CarbsG          *float64
	FatG            *float64
	FiberG          *float64
	SodiumMg        *float64
	AlcoholG        *float64
	AlcoholCalories *float64
	Entries         int
}

// CreateFoodEntry stores a new food entry.
func (d *DB) CreateFoodEntry(e *models.FoodEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	var alcoholType *string
	if e.AlcoholType != nil {
		s := string(*e.AlcoholType)
		alcoholType = &s
	}
	res, err := d.db.Exec(
		`INSERT INTO food_entries (
			recorded_date, meal_type, name, calories, protein_g, carbs_g, fat_g,
			fiber_g, sodium_mg, alcohol_g, alcohol_calories, alcohol_type,
			photo_url, servings, is_estimated, source, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		formatDate(e.RecordedDate), string(e.MealType), e.Name, e.Calories, e.ProteinG,
		e.CarbsG, e.FatG, e.FiberG, e.SodiumMg, e.AlcoholG, e.AlcoholCalories,
		alcoholType, e.PhotoURL, e.Servings, e.IsEstimated, string(e.Source),
		e.Notes, formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create food entry: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("create food entry: %w", err)
	}
	return nil
}

// GetFoodEntry returns a live entry by id, or ErrNotFound.
func (d *DB) GetFoodEntry(id int64) (*models.FoodEntry, error) {
	row := d.db.QueryRow(
		`SELECT `+foodColumns+` FROM food_entries WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	e, err := scanFoodFields(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan food entry: %w", err)
	}
	return e, nil
}

// UpdateFoodEntry applies a partial update. Keys outside the updatable
// column set are rejected; a nil value clears the column. Explicit-null
// and absent are therefore distinct, which the PATCH surface needs.
func (d *DB) UpdateFoodEntry(id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for col, val := range fields {
		if !foodUpdatable[col] {
			return fmt.Errorf("update food entry: column %q not updatable", col)
		}
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	args = append(args, id)

	res, err := d.db.Exec(
		`UPDATE food_entries SET `+strings.Join(sets, ", ")+` WHERE id = ? AND deleted_at IS NULL`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("update food entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update food entry: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDeleteFoodEntry marks an entry deleted without removing its row.
func (d *DB) SoftDeleteFoodEntry(id int64) error {
	res, err := d.db.Exec(
		`UPDATE food_entries SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("delete food entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete food entry: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// FoodEntriesForDate returns live entries for a date in insertion order.
func (d *DB) FoodEntriesForDate(date time.Time) ([]*models.FoodEntry, error) {
	rows, err := d.db.Query(
		`SELECT `+foodColumns+` FROM food_entries
		 WHERE recorded_date = ? AND deleted_at IS NULL
		 ORDER BY id`,
		formatDate(date),
	)
	if err != nil {
		return nil, fmt.Errorf("food entries for date: %w", err)
	}
	defer rows.Close()

	var entries []*models.FoodEntry
	for rows.Next() {
		e, err := scanFoodFields(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FoodEntriesInWindow returns live entries over a trailing window ending
// at the given date, ordered by date then insertion. Callers group the
// rows per day.
func (d *DB) FoodEntriesInWindow(ending time.Time, days int) ([]*models.FoodEntry, error) {
	rows, err := d.db.Query(
		`SELECT `+foodColumns+` FROM food_entries
		 WHERE recorded_date BETWEEN ? AND ? AND deleted_at IS NULL
		 ORDER BY recorded_date, id`,
		formatDate(windowStart(ending, days)), formatDate(ending),
	)
	if err != nil {
		return nil, fmt.Errorf("food entries in window: %w", err)
	}
	defer rows.Close()

	var entries []*models.FoodEntry
	for rows.Next() {
		e, err := scanFoodFields(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// NutritionTotalsForDate sums live entries for one date.
func (d *DB) NutritionTotalsForDate(date time.Time) (*NutritionTotals, error) {
	return d.nutritionTotals(date, date)
}

// NutritionTotalsInWindow sums live entries over a trailing window ending
// at the given date.
func (d *DB) NutritionTotalsInWindow(ending time.Time, days int) (*NutritionTotals, error) {
	return d.nutritionTotals(windowStart(ending, days), ending)
}

func (d *DB) nutritionTotals(from, to time.Time) (*NutritionTotals, error) {
	var t NutritionTotals
	err := d.db.QueryRow(
		`SELECT
			SUM(calories), SUM(protein_g), SUM(carbs_g), SUM(fat_g),
			SUM(fiber_g), SUM(sodium_mg), SUM(alcohol_g), SUM(alcohol_calories),
			COUNT(*)
		 FROM food_entries
		 WHERE recorded_date BETWEEN ? AND ? AND deleted_at IS NULL`,
		formatDate(from), formatDate(to),
	).Scan(
		&t.Calories, &t.ProteinG, &t.CarbsG, &t.FatG,
		&t.FiberG, &t.SodiumMg, &t.AlcoholG, &t.AlcoholCalories,
		&t.Entries,
	)
	if err != nil {
		return nil, fmt.Errorf("nutrition totals: %w", err)
	}
	return &t, nil
}

// DailyNutritionAverages averages per-day macro sums over the days that
// actually have entries in a trailing window. Alcohol is a window total,
// not an average.
type DailyNutritionAverages struct {
	AvgCalories          *float64
	AvgProteinG          *float64
	AvgSodiumMg          *float64
	TotalAlcoholCalories *float64
	DaysWithFood         int
}

// NutritionAveragesInWindow computes DailyNutritionAverages for a
// trailing window ending at the given date.
func (d *DB) NutritionAveragesInWindow(ending time.Time, days int) (*DailyNutritionAverages, error) {
	var a DailyNutritionAverages
	err := d.db.QueryRow(
		`SELECT
			AVG(day_calories), AVG(day_protein), AVG(day_sodium),
			SUM(day_alcohol), COUNT(*)
		 FROM (
			SELECT
				recorded_date,
				SUM(calories) AS day_calories,
				SUM(protein_g) AS day_protein,
				SUM(sodium_mg) AS day_sodium,
				SUM(alcohol_calories) AS day_alcohol
			FROM food_entries
			WHERE recorded_date BETWEEN ? AND ? AND deleted_at IS NULL
			GROUP BY recorded_date
		 )`,
		formatDate(windowStart(ending, days)), formatDate(ending),
	).Scan(&a.AvgCalories, &a.AvgProteinG, &a.AvgSodiumMg, &a.TotalAlcoholCalories, &a.DaysWithFood)
	if err != nil {
		return nil, fmt.Errorf("nutrition averages: %w", err)
	}
	return &a, nil
}

// DaysWithFoodEntries counts distinct dates with live entries in a
// trailing window. Weekly averages divide by logged days, not seven.
func (d *DB) DaysWithFoodEntries(ending time.Time, days int) (int, error) {
	var n int
	err := d.db.QueryRow(
		`SELECT COUNT(DISTINCT recorded_date) FROM food_entries
		 WHERE recorded_date BETWEEN ? AND ? AND deleted_at IS NULL`,
		formatDate(windowStart(ending, days)), formatDate(ending),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("days with food entries: %w", err)
	}
	return n, nil
}

func scanFoodFields(sc rowScanner) (*models.FoodEntry, error) {
	var e models.FoodEntry
	var recordedDate, mealType, source, createdAt string
	var alcoholType, deletedAt sql.NullString

	err := sc.Scan(
		&e.ID, &recordedDate, &mealType, &e.Name, &e.Calories, &e.ProteinG, &e.CarbsG,
		&e.FatG, &e.FiberG, &e.SodiumMg, &e.AlcoholG, &e.AlcoholCalories, &alcoholType,
		&e.PhotoURL, &e.Servings, &e.IsEstimated, &source, &e.Notes, &createdAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	e.RecordedDate = parseDate(recordedDate)
	e.MealType = models.MealType(mealType)
	e.Source = models.Source(source)
	e.CreatedAt = parseTime(createdAt)
	if alcoholType.Valid {
		at := models.AlcoholType(alcoholType.String)
		e.AlcoholType = &at
	}
	if deletedAt.Valid {
		t := parseTime(deletedAt.String)
		e.DeletedAt = &t
	}
	return &e, nil
}
