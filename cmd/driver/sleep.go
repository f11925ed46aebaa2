// ABOUTME: CLI commands for sleep records.
// ABOUTME: Manual add replaces the date; list shows a trailing window.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/driver/internal/models"
	"github.com/spf13/cobra"
)

var (
	sleepDate      string
	sleepDuration  int
	sleepScore     int
	sleepReadiness int
	sleepHRV       float64
	sleepRestingHR int
	sleepDays      int
)

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Record and review sleep",
}

var sleepAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record sleep for a date",
	Long: `Record sleep for a date (default today), replacing any existing record.

Examples:
  driver sleep add --duration 451 --score 84
  driver sleep add --date 2026-02-14 --duration 420 --readiness 72 --hrv 44.5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sleepDuration <= 0 {
			return fmt.Errorf("--duration is required (minutes asleep)")
		}
		date, err := parseDate(sleepDate)
		if err != nil {
			return err
		}

		record := models.NewSleepRecord(date).WithDuration(sleepDuration)
		if cmd.Flags().Changed("score") {
			record.SleepScore = &sleepScore
		}
		if cmd.Flags().Changed("readiness") {
			record.ReadinessScore = &sleepReadiness
		}
		if cmd.Flags().Changed("hrv") {
			record.HRV = &sleepHRV
		}
		if cmd.Flags().Changed("resting-hr") {
			record.RestingHR = &sleepRestingHR
		}

		if err := store.CreateSleepRecord(record); err != nil {
			return fmt.Errorf("failed to record sleep: %w", err)
		}

		color.Green("✓ Recorded sleep for %s", date.Format("2006-01-02"))
		fmt.Printf("  %dh %02dm\n", sleepDuration/60, sleepDuration%60)
		return nil
	},
}

var sleepListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sleep records over a trailing window",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(sleepDate)
		if err != nil {
			return err
		}

		records, err := store.SleepInWindow(date, sleepDays)
		if err != nil {
			return fmt.Errorf("failed to list sleep: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No sleep records found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, r := range records {
			duration := "-"
			if r.DurationMin != nil {
				duration = fmt.Sprintf("%dh %02dm", *r.DurationMin/60, *r.DurationMin%60)
			}
			score := "-"
			if r.SleepScore != nil {
				score = strconv.Itoa(*r.SleepScore)
			}
			readiness := "-"
			if r.ReadinessScore != nil {
				readiness = strconv.Itoa(*r.ReadinessScore)
			}
			fmt.Printf("%s  %-8s score %-4s readiness %-4s %s\n",
				r.RecordedDate.Format("2006-01-02"),
				duration,
				score,
				readiness,
				faint.Sprint(r.Source))
		}
		return nil
	},
}

func init() {
	sleepAddCmd.Flags().StringVar(&sleepDate, "date", "", "date (YYYY-MM-DD, default today)")
	sleepAddCmd.Flags().IntVar(&sleepDuration, "duration", 0, "minutes asleep")
	sleepAddCmd.Flags().IntVar(&sleepScore, "score", 0, "sleep score 0-100")
	sleepAddCmd.Flags().IntVar(&sleepReadiness, "readiness", 0, "readiness score 0-100")
	sleepAddCmd.Flags().Float64Var(&sleepHRV, "hrv", 0, "overnight HRV in ms")
	sleepAddCmd.Flags().IntVar(&sleepRestingHR, "resting-hr", 0, "resting heart rate in bpm")
	sleepListCmd.Flags().StringVar(&sleepDate, "date", "", "window end (YYYY-MM-DD, default today)")
	sleepListCmd.Flags().IntVar(&sleepDays, "days", 7, "window size in days")
	sleepCmd.AddCommand(sleepAddCmd)
	sleepCmd.AddCommand(sleepListCmd)
	rootCmd.AddCommand(sleepCmd)
}
