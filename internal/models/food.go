// ABOUTME: FoodEntry model for nutrition logging.
// ABOUTME: Tracks macros, sodium, alcohol, estimation state, soft deletes.
package models

import "time"

// FoodEntry is a logged meal, snack, or drink for a calendar date.
type FoodEntry struct {
	ID              int64
	RecordedDate    time.Time
	MealType        MealType
	Name            string
	Calories        *float64
	ProteinG        *float64
	CarbsG          *float64
	FatG            *float64
	FiberG          *float64
	SodiumMg        *float64
	AlcoholG        *float64
	AlcoholCalories *float64
	AlcoholType     *AlcoholType
	PhotoURL        *string
	Servings        float64
	IsEstimated     bool
	Source          Source
	Notes           *string
	CreatedAt       time.Time
	DeletedAt       *time.Time
}

// NewFoodEntry creates a manual food entry with a single serving.
func NewFoodEntry(recordedDate time.Time, mealType MealType, name string) *FoodEntry {
	return &FoodEntry{
		RecordedDate: recordedDate,
		MealType:     mealType,
		Name:         name,
		Servings:     1.0,
		Source:       SourceManual,
		CreatedAt:    time.Now(),
	}
}

// WithCalories sets the calorie count.
func (e *FoodEntry) WithCalories(calories float64) *FoodEntry {
	e.Calories = &calories
	return e
}

// WithProtein sets grams of protein.
func (e *FoodEntry) WithProtein(grams float64) *FoodEntry {
	e.ProteinG = &grams
	return e
}

// WithSodium sets milligrams of sodium.
func (e *FoodEntry) WithSodium(mg float64) *FoodEntry {
	e.SodiumMg = &mg
	return e
}

// WithNotes sets notes on the entry.
func (e *FoodEntry) WithNotes(notes string) *FoodEntry {
	e.Notes = &notes
	return e
}
