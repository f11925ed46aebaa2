// ABOUTME: MCP tool implementations for the driver health store.
// ABOUTME: Covers food, sleep, workout, metric, goal, and summary operations.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/driver/internal/models"
	"github.com/harperreed/driver/internal/vision"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// log_food
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_food",
		Description: "Log a food entry with calories and macros",
	}, s.handleLogFood)

	// log_food_from_photo
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_food_from_photo",
		Description: "Estimate nutrition from a food description/photo and log it",
	}, s.handleLogFoodFromPhoto)

	// estimate_food
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "estimate_food",
		Description: "Estimate nutrition for a food description without logging it",
	}, s.handleEstimateFood)

	// list_food
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_food",
		Description: "List food entries for a date with daily totals and targets",
	}, s.handleListFood)

	// list_food_week
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_food_week",
		Description: "List food entries for the trailing week, grouped per day",
	}, s.handleListFoodWeek)

	// update_food
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_food",
		Description: "Partially update a food entry by ID",
	}, s.handleUpdateFood)

	// delete_food
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_food",
		Description: "Delete a food entry by ID",
	}, s.handleDeleteFood)

	// log_sleep
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_sleep",
		Description: "Record sleep for a date, replacing any existing record",
	}, s.handleLogSleep)

	// get_sleep
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_sleep",
		Description: "Get the sleep record for a date",
	}, s.handleGetSleep)

	// log_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_workout",
		Description: "Log a workout session",
	}, s.handleLogWorkout)

	// list_workouts
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List workouts over a trailing window of days",
	}, s.handleListWorkouts)

	// log_metric
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_metric",
		Description: "Record a body metric (weight_lbs, hrv, resting_hr, etc.)",
	}, s.handleLogMetric)

	// list_metrics
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_metrics",
		Description: "List values for a body metric over a trailing window",
	}, s.handleListMetrics)

	// set_target
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_target",
		Description: "Set a nutrition or metric target from an effective date",
	}, s.handleSetTarget)

	// get_suggestion
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_suggestion",
		Description: "Get (or generate) the training suggestion for a date",
	}, s.handleGetSuggestion)

	// generate_digest
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_digest",
		Description: "Generate the daily or weekly coaching digest for a date",
	}, s.handleGenerateDigest)

	// doctor_report
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "doctor_report",
		Description: "Build a doctor-visit report over a trailing window of days",
	}, s.handleDoctorReport)

	// add_goal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_goal",
		Description: "Create a target or directional goal over a metric",
	}, s.handleAddGoal)

	// generate_goal_plan
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_goal_plan",
		Description: "Generate the next versioned plan for a goal",
	}, s.handleGenerateGoalPlan)
}

// toolDate parses a YYYY-MM-DD input, defaulting to today when empty.
func toolDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// Tool input/output types

type logFoodInput struct {
	Date     string   `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD), defaults to today"`
	MealType string   `json:"meal_type" jsonschema:"Meal type (breakfast, lunch, dinner, snack, drink, meal)"`
	Name     string   `json:"name" jsonschema:"What was eaten"`
	Calories *float64 `json:"calories,omitempty" jsonschema:"Calories"`
	ProteinG *float64 `json:"protein_g,omitempty" jsonschema:"Protein in grams"`
	SodiumMg *float64 `json:"sodium_mg,omitempty" jsonschema:"Sodium in milligrams"`
	Servings float64  `json:"servings,omitempty" jsonschema:"Servings (default 1.0)"`
	Notes    string   `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type foodOutput struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type logFoodFromPhotoInput struct {
	Date        string  `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD), defaults to today"`
	MealType    string  `json:"meal_type" jsonschema:"Meal type (breakfast, lunch, dinner, snack, drink, meal)"`
	Description string  `json:"description" jsonschema:"Description of the food"`
	PhotoURL    string  `json:"photo_url,omitempty" jsonschema:"URL of the food photo"`
	Servings    float64 `json:"servings,omitempty" jsonschema:"Servings (default 1.0)"`
}

type estimateFoodInput struct {
	Description string  `json:"description" jsonschema:"Description of the food"`
	PhotoURL    string  `json:"photo_url,omitempty" jsonschema:"URL of the food photo"`
	Servings    float64 `json:"servings,omitempty" jsonschema:"Servings (default 1.0)"`
}

type dateInput struct {
	Date string `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD), defaults to today"`
}

type updateFoodInput struct {
	ID       int64    `json:"id" jsonschema:"Food entry ID"`
	MealType *string  `json:"meal_type,omitempty" jsonschema:"New meal type"`
	Name     *string  `json:"name,omitempty" jsonschema:"New name"`
	Calories *float64 `json:"calories,omitempty" jsonschema:"New calories"`
	ProteinG *float64 `json:"protein_g,omitempty" jsonschema:"New protein in grams"`
	SodiumMg *float64 `json:"sodium_mg,omitempty" jsonschema:"New sodium in milligrams"`
	Servings *float64 `json:"servings,omitempty" jsonschema:"New servings"`
	Notes    *string  `json:"notes,omitempty" jsonschema:"New notes"`
}

type idInput struct {
	ID int64 `json:"id" jsonschema:"Row ID"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type logSleepInput struct {
	Date           string   `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD), defaults to today"`
	DurationMin    int      `json:"duration_min" jsonschema:"Total sleep in minutes"`
	SleepScore     *int     `json:"sleep_score,omitempty" jsonschema:"Sleep score 0-100"`
	ReadinessScore *int     `json:"readiness_score,omitempty" jsonschema:"Readiness score 0-100"`
	HRV            *float64 `json:"hrv,omitempty" jsonschema:"Overnight HRV in ms"`
	RestingHR      *int     `json:"resting_hr,omitempty" jsonschema:"Resting heart rate in bpm"`
	Bedtime        string   `json:"bedtime,omitempty" jsonschema:"Bedtime timestamp"`
	WakeTime       string   `json:"wake_time,omitempty" jsonschema:"Wake timestamp"`
}

type logWorkoutInput struct {
	Date           string   `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD), defaults to today"`
	SessionType    string   `json:"session_type" jsonschema:"Session type (strength, cardio, flexibility)"`
	Name           string   `json:"name,omitempty" jsonschema:"Workout name"`
	DurationMin    *int     `json:"duration_min,omitempty" jsonschema:"Duration in minutes"`
	CaloriesBurned *float64 `json:"calories_burned,omitempty" jsonschema:"Calories burned"`
	AvgHeartRate   *int     `json:"avg_heart_rate,omitempty" jsonschema:"Average heart rate in bpm"`
	MaxHeartRate   *int     `json:"max_heart_rate,omitempty" jsonschema:"Max heart rate in bpm"`
	Notes          string   `json:"notes,omitempty" jsonschema:"Workout notes"`
}

type windowInput struct {
	Days int `json:"days,omitempty" jsonschema:"Trailing window in days (default 7)"`
}

type logMetricInput struct {
	Date   string  `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD), defaults to today"`
	Metric string  `json:"metric" jsonschema:"Metric name (weight_lbs, waist_in, hrv, resting_hr, steps, ...)"`
	Value  float64 `json:"value" jsonschema:"The metric value"`
	Notes  string  `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type listMetricsInput struct {
	Metric string `json:"metric" jsonschema:"Metric name"`
	Days   int    `json:"days,omitempty" jsonschema:"Trailing window in days (default 30)"`
}

type setTargetInput struct {
	Metric        string  `json:"metric" jsonschema:"Target metric (calories, protein_g, sodium_mg, ...)"`
	Value         float64 `json:"value" jsonschema:"Target value"`
	EffectiveDate string  `json:"effective_date,omitempty" jsonschema:"Date the target takes effect (YYYY-MM-DD), defaults to today"`
	Notes         string  `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type generateDigestInput struct {
	DigestType string `json:"digest_type" jsonschema:"Digest type (daily or weekly)"`
	Date       string `json:"date,omitempty" jsonschema:"Target date (YYYY-MM-DD), defaults to today"`
}

type doctorReportInput struct {
	Days int `json:"days,omitempty" jsonschema:"Window in days, clamped to 7-365 (default 30)"`
}

type addGoalInput struct {
	Name        string   `json:"name" jsonschema:"Goal name"`
	Metric      string   `json:"metric" jsonschema:"Metric the goal tracks"`
	GoalType    string   `json:"goal_type" jsonschema:"Goal type (target or directional)"`
	TargetValue *float64 `json:"target_value,omitempty" jsonschema:"Required for target goals"`
	Direction   string   `json:"direction,omitempty" jsonschema:"Required for directional goals (up or down)"`
	StartDate   string   `json:"start_date,omitempty" jsonschema:"Start date (YYYY-MM-DD), defaults to today"`
	TargetDate  string   `json:"target_date,omitempty" jsonschema:"Target date (YYYY-MM-DD)"`
	Notes       string   `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type goalOutput struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleLogFood(ctx context.Context, req *mcp.CallToolRequest, input logFoodInput) (*mcp.CallToolResult, foodOutput, error) {
	if !models.IsValidMealType(input.MealType) {
		return nil, foodOutput{}, fmt.Errorf("unknown meal type: %s", input.MealType)
	}
	date, err := toolDate(input.Date)
	if err != nil {
		return nil, foodOutput{}, err
	}

	entry := models.NewFoodEntry(date, models.MealType(input.MealType), input.Name)
	entry.Calories = input.Calories
	entry.ProteinG = input.ProteinG
	entry.SodiumMg = input.SodiumMg
	if input.Servings > 0 {
		entry.Servings = input.Servings
	}
	if input.Notes != "" {
		entry.WithNotes(input.Notes)
	}

	if err := s.db.CreateFoodEntry(entry); err != nil {
		return nil, foodOutput{}, fmt.Errorf("failed to create food entry: %w", err)
	}

	return nil, foodOutput{
		ID:      entry.ID,
		Message: fmt.Sprintf("Logged %s: %s (ID: %d)", input.MealType, input.Name, entry.ID),
	}, nil
}

func (s *Server) handleLogFoodFromPhoto(ctx context.Context, req *mcp.CallToolRequest, input logFoodFromPhotoInput) (*mcp.CallToolResult, any, error) {
	if !models.IsValidMealType(input.MealType) {
		return nil, nil, fmt.Errorf("unknown meal type: %s", input.MealType)
	}
	date, err := toolDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	est, err := vision.EstimateWithFallback(ctx, nil, vision.Request{
		Description: input.Description,
		PhotoURL:    input.PhotoURL,
		Servings:    input.Servings,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to estimate nutrition: %w", err)
	}

	entry := models.NewFoodEntry(date, models.MealType(input.MealType), input.Description)
	entry.WithCalories(est.Calories).WithProtein(est.ProteinG).WithSodium(est.SodiumMg)
	entry.CarbsG = &est.CarbsG
	entry.FatG = &est.FatG
	entry.FiberG = &est.FiberG
	if input.PhotoURL != "" {
		entry.PhotoURL = &input.PhotoURL
	}
	if input.Servings > 0 {
		entry.Servings = input.Servings
	}
	entry.IsEstimated = true
	entry.Source = models.SourceAgent
	entry.WithNotes(fmt.Sprintf("Estimated from photo input (%s, confidence %.2f)", est.Method, est.Confidence))

	if err := s.db.CreateFoodEntry(entry); err != nil {
		return nil, nil, fmt.Errorf("failed to create food entry: %w", err)
	}

	return nil, map[string]any{
		"id":                  entry.ID,
		"estimate":            est,
		"analysis_method":     est.Method,
		"analysis_confidence": est.Confidence,
		"message":             fmt.Sprintf("Logged estimated %s: %s (ID: %d)", input.MealType, input.Description, entry.ID),
	}, nil
}

func (s *Server) handleEstimateFood(ctx context.Context, req *mcp.CallToolRequest, input estimateFoodInput) (*mcp.CallToolResult, any, error) {
	est, err := vision.EstimateWithFallback(ctx, nil, vision.Request{
		Description: input.Description,
		PhotoURL:    input.PhotoURL,
		Servings:    input.Servings,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to estimate nutrition: %w", err)
	}

	return nil, map[string]any{
		"estimate":            est,
		"analysis_method":     est.Method,
		"analysis_confidence": est.Confidence,
	}, nil
}

func (s *Server) handleListFood(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	date, err := toolDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	entries, err := s.db.FoodEntriesForDate(date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list food entries: %w", err)
	}
	totals, err := s.db.NutritionTotalsForDate(date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to total nutrition: %w", err)
	}
	targets, err := s.db.EffectiveTargets(date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load targets: %w", err)
	}

	if len(entries) == 0 {
		return nil, map[string]any{"message": "No food entries for this date."}, nil
	}

	return nil, map[string]any{
		"date":    date.Format("2006-01-02"),
		"entries": entries,
		"totals":  totals,
		"targets": targets,
	}, nil
}

func (s *Server) handleListFoodWeek(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	ending, err := toolDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	entries, err := s.db.FoodEntriesInWindow(ending, 7)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list food entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, map[string]any{"message": "No food entries in this window."}, nil
	}

	days := make(map[string][]*models.FoodEntry)
	for _, e := range entries {
		key := e.RecordedDate.Format("2006-01-02")
		days[key] = append(days[key], e)
	}

	totals, err := s.db.NutritionTotalsInWindow(ending, 7)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to total nutrition: %w", err)
	}
	logged, err := s.db.DaysWithFoodEntries(ending, 7)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count logged days: %w", err)
	}

	return nil, map[string]any{
		"start":          ending.AddDate(0, 0, -6).Format("2006-01-02"),
		"end":            ending.Format("2006-01-02"),
		"days":           days,
		"totals":         totals,
		"days_with_food": logged,
	}, nil
}

func (s *Server) handleUpdateFood(ctx context.Context, req *mcp.CallToolRequest, input updateFoodInput) (*mcp.CallToolResult, simpleOutput, error) {
	fields := map[string]any{}
	if input.MealType != nil {
		if !models.IsValidMealType(*input.MealType) {
			return nil, simpleOutput{}, fmt.Errorf("unknown meal type: %s", *input.MealType)
		}
		fields["meal_type"] = *input.MealType
	}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Calories != nil {
		fields["calories"] = *input.Calories
	}
	if input.ProteinG != nil {
		fields["protein_g"] = *input.ProteinG
	}
	if input.SodiumMg != nil {
		fields["sodium_mg"] = *input.SodiumMg
	}
	if input.Servings != nil {
		fields["servings"] = *input.Servings
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}
	if len(fields) == 0 {
		return nil, simpleOutput{}, fmt.Errorf("no fields to update")
	}

	if err := s.db.UpdateFoodEntry(input.ID, fields); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to update food entry: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Updated food entry: %d", input.ID),
	}, nil
}

func (s *Server) handleDeleteFood(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.db.SoftDeleteFoodEntry(input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete food entry: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted food entry: %d", input.ID),
	}, nil
}

func (s *Server) handleLogSleep(ctx context.Context, req *mcp.CallToolRequest, input logSleepInput) (*mcp.CallToolResult, simpleOutput, error) {
	date, err := toolDate(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	record := models.NewSleepRecord(date).WithDuration(input.DurationMin)
	record.SleepScore = input.SleepScore
	record.ReadinessScore = input.ReadinessScore
	record.HRV = input.HRV
	record.RestingHR = input.RestingHR
	if input.Bedtime != "" {
		record.Bedtime = &input.Bedtime
	}
	if input.WakeTime != "" {
		record.WakeTime = &input.WakeTime
	}

	if err := s.db.CreateSleepRecord(record); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to record sleep: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Recorded %d min of sleep for %s", input.DurationMin, date.Format("2006-01-02")),
	}, nil
}

func (s *Server) handleGetSleep(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	date, err := toolDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.db.SleepRecordForDate(date)
	if err != nil {
		return nil, nil, fmt.Errorf("no sleep record for %s", date.Format("2006-01-02"))
	}
	return nil, record, nil
}

func (s *Server) handleLogWorkout(ctx context.Context, req *mcp.CallToolRequest, input logWorkoutInput) (*mcp.CallToolResult, any, error) {
	if !models.IsValidSessionType(input.SessionType) {
		return nil, nil, fmt.Errorf("unknown session type: %s", input.SessionType)
	}
	date, err := toolDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	session := models.NewExerciseSession(date, models.SessionType(input.SessionType))
	if input.Name != "" {
		session.WithName(input.Name)
	}
	session.DurationMin = input.DurationMin
	session.CaloriesBurned = input.CaloriesBurned
	session.AvgHeartRate = input.AvgHeartRate
	session.MaxHeartRate = input.MaxHeartRate
	if input.Notes != "" {
		session.Notes = &input.Notes
	}

	if err := s.db.CreateSession(session); err != nil {
		return nil, nil, fmt.Errorf("failed to create workout: %w", err)
	}

	return nil, map[string]any{
		"id":      session.ID,
		"message": fmt.Sprintf("Logged %s workout for %s (ID: %d)", input.SessionType, date.Format("2006-01-02"), session.ID),
	}, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input windowInput) (*mcp.CallToolResult, any, error) {
	days := input.Days
	if days <= 0 {
		days = 7
	}

	sessions, err := s.db.SessionsInWindow(time.Now(), days)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	if len(sessions) == 0 {
		return nil, map[string]any{"message": "No workouts found."}, nil
	}
	return nil, sessions, nil
}

func (s *Server) handleLogMetric(ctx context.Context, req *mcp.CallToolRequest, input logMetricInput) (*mcp.CallToolResult, simpleOutput, error) {
	date, err := toolDate(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	m := models.NewBodyMetric(date, input.Metric, input.Value)
	if input.Notes != "" {
		m.WithNotes(input.Notes)
	}

	if err := s.db.CreateMetric(m); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to record metric: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Recorded %s = %.2f for %s", input.Metric, input.Value, date.Format("2006-01-02")),
	}, nil
}

func (s *Server) handleListMetrics(ctx context.Context, req *mcp.CallToolRequest, input listMetricsInput) (*mcp.CallToolResult, any, error) {
	days := input.Days
	if days <= 0 {
		days = 30
	}

	metrics, err := s.db.MetricsInWindow(input.Metric, time.Now(), days)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	if len(metrics) == 0 {
		return nil, map[string]any{"message": "No metrics found."}, nil
	}
	return nil, metrics, nil
}

func (s *Server) handleSetTarget(ctx context.Context, req *mcp.CallToolRequest, input setTargetInput) (*mcp.CallToolResult, simpleOutput, error) {
	effective, err := toolDate(input.EffectiveDate)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	target := &models.Target{
		Metric:        input.Metric,
		Value:         input.Value,
		EffectiveDate: effective,
	}
	if input.Notes != "" {
		target.Notes = &input.Notes
	}

	if err := s.db.SetTarget(target); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to set target: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Set %s target to %.0f effective %s", input.Metric, input.Value, effective.Format("2006-01-02")),
	}, nil
}

func (s *Server) handleGetSuggestion(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	date, err := toolDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	suggestion, err := s.db.SuggestionForDate(date)
	if err != nil {
		suggestion, err = s.suggestions.Generate(date)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate suggestion: %w", err)
		}
	}
	return nil, suggestion, nil
}

func (s *Server) handleGenerateDigest(ctx context.Context, req *mcp.CallToolRequest, input generateDigestInput) (*mcp.CallToolResult, any, error) {
	if !models.IsValidDigestType(input.DigestType) {
		return nil, nil, fmt.Errorf("unknown digest type: %s", input.DigestType)
	}
	date, err := toolDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	var digest *models.CoachingDigest
	if models.DigestType(input.DigestType) == models.DigestDaily {
		digest, err = s.digests.GenerateDaily(date)
	} else {
		digest, err = s.digests.GenerateWeekly(date)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate digest: %w", err)
	}
	return nil, digest, nil
}

func (s *Server) handleDoctorReport(ctx context.Context, req *mcp.CallToolRequest, input doctorReportInput) (*mcp.CallToolResult, any, error) {
	days := input.Days
	if days <= 0 {
		days = 30
	}

	rep, err := s.reports.Build(time.Now(), days)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build report: %w", err)
	}

	return nil, map[string]any{
		"start":    rep.Start.Format("2006-01-02"),
		"end":      rep.End.Format("2006-01-02"),
		"markdown": rep.Markdown,
	}, nil
}

func (s *Server) handleAddGoal(ctx context.Context, req *mcp.CallToolRequest, input addGoalInput) (*mcp.CallToolResult, goalOutput, error) {
	if !models.IsValidGoalType(input.GoalType) {
		return nil, goalOutput{}, fmt.Errorf("unknown goal type: %s", input.GoalType)
	}
	startDate, err := toolDate(input.StartDate)
	if err != nil {
		return nil, goalOutput{}, err
	}

	goal := &models.Goal{
		Name:        input.Name,
		Metric:      input.Metric,
		GoalType:    models.GoalType(input.GoalType),
		TargetValue: input.TargetValue,
		StartDate:   startDate,
		Active:      true,
	}
	if input.Direction != "" {
		if !models.IsValidDirection(input.Direction) {
			return nil, goalOutput{}, fmt.Errorf("unknown direction: %s", input.Direction)
		}
		d := models.Direction(input.Direction)
		goal.Direction = &d
	}
	if input.TargetDate != "" {
		td, err := time.Parse("2006-01-02", input.TargetDate)
		if err != nil {
			return nil, goalOutput{}, fmt.Errorf("invalid target_date %q (want YYYY-MM-DD)", input.TargetDate)
		}
		goal.TargetDate = &td
	}
	if input.Notes != "" {
		goal.Notes = &input.Notes
	}

	if err := s.db.CreateGoal(goal); err != nil {
		return nil, goalOutput{}, fmt.Errorf("failed to create goal: %w", err)
	}

	return nil, goalOutput{
		ID:      goal.ID,
		Message: fmt.Sprintf("Created %s goal %q (ID: %d)", input.GoalType, input.Name, goal.ID),
	}, nil
}

func (s *Server) handleGenerateGoalPlan(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, any, error) {
	goal, err := s.db.GetGoal(input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("goal not found: %d", input.ID)
	}

	var baseline *float64
	if value, err := s.db.LatestMetricValue(goal.Metric); err == nil {
		baseline = &value
	}

	plan, err := s.db.AddGoalPlan(goal.ID, goal.BuildPlan(baseline))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to add goal plan: %w", err)
	}
	return nil, plan, nil
}
