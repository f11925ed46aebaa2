// ABOUTME: CLI command for the daily training suggestion.
// ABOUTME: Reads the persisted row or generates and persists a fresh one.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/driver/internal/training"
	"github.com/spf13/cobra"
)

var (
	suggestDate    string
	suggestRefresh bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show the training suggestion for a date",
	Long: `Show the training suggestion for a date (default today).

The suggestion weighs the weekly schedule against overnight readiness
and HRV. Generated suggestions are persisted per date; --refresh forces
regeneration from current data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(suggestDate)
		if err != nil {
			return err
		}

		suggestion, err := store.SuggestionForDate(date)
		if err != nil || suggestRefresh {
			suggestion, err = training.NewEngine(store).Generate(date)
			if err != nil {
				return fmt.Errorf("failed to generate suggestion: %w", err)
			}
		}

		faint := color.New(color.Faint)
		color.New(color.Bold).Printf("%s  %s (%s)\n",
			suggestion.SuggestionDate.Format("2006-01-02"),
			suggestion.ScheduledType,
			suggestion.Intensity)
		fmt.Println(suggestion.Suggestion)
		if suggestion.ReadinessScore != nil {
			fmt.Println(faint.Sprintf("readiness %d", *suggestion.ReadinessScore))
		}
		if suggestion.HRV != nil && suggestion.HRV7DayAvg != nil {
			fmt.Println(faint.Sprintf("hrv %.1f (7d avg %.1f)", *suggestion.HRV, *suggestion.HRV7DayAvg))
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().StringVar(&suggestDate, "date", "", "date (YYYY-MM-DD, default today)")
	suggestCmd.Flags().BoolVar(&suggestRefresh, "refresh", false, "regenerate even if a suggestion exists")
	rootCmd.AddCommand(suggestCmd)
}
