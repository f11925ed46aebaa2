// ABOUTME: CLI commands for body metrics and targets.
// ABOUTME: Metrics append per day; targets are slowly-changing per metric.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/driver/internal/models"
	"github.com/spf13/cobra"
)

var (
	metricDate  string
	metricNotes string
	metricDays  int
)

var metricCmd = &cobra.Command{
	Use:   "metric",
	Short: "Record and review body metrics",
}

var metricAddCmd = &cobra.Command{
	Use:   "add <metric> <value>",
	Short: "Record a body metric",
	Long: `Record a body metric for a date (default today).

Common metrics: weight_lbs, waist_in, body_fat_pct, resting_hr, hrv,
steps, active_calories, basal_calories.

Examples:
  driver metric add weight_lbs 182.4
  driver metric add waist_in 34.5 --date 2026-02-14`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		metric := args[0]
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[1])
		}
		date, err := parseDate(metricDate)
		if err != nil {
			return err
		}

		m := models.NewBodyMetric(date, metric, value)
		if metricNotes != "" {
			m.WithNotes(metricNotes)
		}

		if err := store.CreateMetric(m); err != nil {
			return fmt.Errorf("failed to record metric: %w", err)
		}

		color.Green("✓ Recorded %s", metric)
		fmt.Printf("  %s %.2f\n",
			color.New(color.Faint).Sprint(date.Format("2006-01-02")),
			value)
		return nil
	},
}

var metricListCmd = &cobra.Command{
	Use:   "list <metric>",
	Short: "List a metric over a trailing window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(metricDate)
		if err != nil {
			return err
		}

		metrics, err := store.MetricsInWindow(args[0], date, metricDays)
		if err != nil {
			return fmt.Errorf("failed to list metrics: %w", err)
		}
		if len(metrics) == 0 {
			fmt.Println("No metrics found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, m := range metrics {
			notes := ""
			if m.Notes != nil && *m.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*m.Notes, 30))
			}
			fmt.Printf("%s  %10.2f  %s%s\n",
				m.RecordedDate.Format("2006-01-02"),
				m.Value,
				faint.Sprint(m.Source),
				notes)
		}
		return nil
	},
}

func init() {
	metricAddCmd.Flags().StringVar(&metricDate, "date", "", "date (YYYY-MM-DD, default today)")
	metricAddCmd.Flags().StringVar(&metricNotes, "notes", "", "notes for the metric")
	metricListCmd.Flags().StringVar(&metricDate, "date", "", "window end (YYYY-MM-DD, default today)")
	metricListCmd.Flags().IntVar(&metricDays, "days", 30, "window size in days")
	metricCmd.AddCommand(metricAddCmd)
	metricCmd.AddCommand(metricListCmd)
	rootCmd.AddCommand(metricCmd)
}
