// ABOUTME: CLI command for the doctor-visit report.
// ABOUTME: Prints the rendered markdown for a trailing window.
package main

import (
	"fmt"

	"github.com/harperreed/driver/internal/report"
	"github.com/spf13/cobra"
)

var reportDays int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build a doctor-visit report",
	Long: `Build a doctor-visit report over a trailing window of days.

The window is clamped to 7-365 days. The report covers intake and
recovery averages, training volume, and body-metric trends, rendered as
markdown suitable for printing or pasting.

Examples:
  driver report
  driver report --days 90`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate("")
		if err != nil {
			return err
		}

		rep, err := report.NewBuilder(store).Build(date, reportDays)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}

		fmt.Println(rep.Markdown)
		return nil
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportDays, "days", report.DefaultDays, "window in days (clamped to 7-365)")
	rootCmd.AddCommand(reportCmd)
}
