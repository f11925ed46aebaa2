// ABOUTME: CLI commands for workout sessions.
// ABOUTME: Manual logging plus a windowed list with zone summaries.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/driver/internal/models"
	"github.com/spf13/cobra"
)

var (
	workoutDate     string
	workoutName     string
	workoutDuration int
	workoutCalories float64
	workoutAvgHR    int
	workoutMaxHR    int
	workoutNotes    string
	workoutDays     int
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Log and review workouts",
}

var workoutAddCmd = &cobra.Command{
	Use:   "add <session_type>",
	Short: "Log a workout session",
	Long: `Log a workout session for a date (default today).

Session types: strength, cardio, flexibility.

Examples:
  driver workout add strength --duration 60 --name "Upper body"
  driver workout add cardio --duration 45 --calories 520 --avg-hr 138`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionType := args[0]
		if !models.IsValidSessionType(sessionType) {
			return fmt.Errorf("unknown session type: %s\nValid types: strength, cardio, flexibility", sessionType)
		}
		date, err := parseDate(workoutDate)
		if err != nil {
			return err
		}

		session := models.NewExerciseSession(date, models.SessionType(sessionType))
		if workoutName != "" {
			session.WithName(workoutName)
		}
		if workoutDuration > 0 {
			session.WithDuration(workoutDuration)
		}
		if cmd.Flags().Changed("calories") {
			session.CaloriesBurned = &workoutCalories
		}
		if cmd.Flags().Changed("avg-hr") {
			session.AvgHeartRate = &workoutAvgHR
		}
		if cmd.Flags().Changed("max-hr") {
			session.MaxHeartRate = &workoutMaxHR
		}
		if workoutNotes != "" {
			session.Notes = &workoutNotes
		}

		if err := store.CreateSession(session); err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}

		color.Green("✓ Logged %s workout", sessionType)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprintf("%d", session.ID),
			date.Format("2006-01-02"))
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workouts over a trailing window",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(workoutDate)
		if err != nil {
			return err
		}

		sessions, err := store.SessionsInWindow(date, workoutDays)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, s := range sessions {
			name := string(s.SessionType)
			if s.Name != nil && *s.Name != "" {
				name = *s.Name
			}
			duration := "-"
			if s.DurationMin != nil {
				duration = fmt.Sprintf("%d min", *s.DurationMin)
			}
			hr := ""
			if s.AvgHeartRate != nil {
				hr = fmt.Sprintf("  avg %d bpm", *s.AvgHeartRate)
			}
			fmt.Printf("%s %s %-12s %-24s %-8s%s%s\n",
				faint.Sprintf("%4d", s.ID),
				s.RecordedDate.Format("2006-01-02"),
				s.SessionType,
				truncate(name, 24),
				duration,
				hr,
				zoneSummary(s.Zones, faint))
		}
		return nil
	},
}

// zoneSummary renders " z3 22m z4 8m" for a session's dominant zones.
func zoneSummary(zones []models.HeartRateZone, faint *color.Color) string {
	if len(zones) == 0 {
		return ""
	}
	var parts []string
	for _, z := range zones {
		if z.Minutes < 1 {
			continue
		}
		parts = append(parts, fmt.Sprintf("z%d %.0fm", z.Zone, z.Minutes))
	}
	if len(parts) == 0 {
		return ""
	}
	return faint.Sprintf("  %s", strings.Join(parts, " "))
}

func init() {
	workoutAddCmd.Flags().StringVar(&workoutDate, "date", "", "date (YYYY-MM-DD, default today)")
	workoutAddCmd.Flags().StringVar(&workoutName, "name", "", "workout name")
	workoutAddCmd.Flags().IntVar(&workoutDuration, "duration", 0, "duration in minutes")
	workoutAddCmd.Flags().Float64Var(&workoutCalories, "calories", 0, "calories burned")
	workoutAddCmd.Flags().IntVar(&workoutAvgHR, "avg-hr", 0, "average heart rate in bpm")
	workoutAddCmd.Flags().IntVar(&workoutMaxHR, "max-hr", 0, "max heart rate in bpm")
	workoutAddCmd.Flags().StringVar(&workoutNotes, "notes", "", "workout notes")
	workoutListCmd.Flags().StringVar(&workoutDate, "date", "", "window end (YYYY-MM-DD, default today)")
	workoutListCmd.Flags().IntVar(&workoutDays, "days", 7, "window size in days")
	workoutCmd.AddCommand(workoutAddCmd)
	workoutCmd.AddCommand(workoutListCmd)
	rootCmd.AddCommand(workoutCmd)
}
