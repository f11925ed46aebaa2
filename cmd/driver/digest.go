// ABOUTME: CLI commands for coaching digests.
// ABOUTME: Generates daily/weekly digests and shows the latest of each.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/driver/internal/coaching"
	"github.com/harperreed/driver/internal/models"
	"github.com/spf13/cobra"
)

var digestDate string

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Generate and review coaching digests",
}

var digestDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Generate the daily digest for a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(digestDate)
		if err != nil {
			return err
		}

		digest, err := coaching.NewGenerator(store).GenerateDaily(date)
		if err != nil {
			return fmt.Errorf("failed to generate digest: %w", err)
		}
		printDigest(digest)
		return nil
	},
}

var digestWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Generate the weekly digest ending at a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(digestDate)
		if err != nil {
			return err
		}

		digest, err := coaching.NewGenerator(store).GenerateWeekly(date)
		if err != nil {
			return fmt.Errorf("failed to generate digest: %w", err)
		}
		printDigest(digest)
		return nil
	},
}

var digestLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the most recent daily and weekly digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		latest, err := coaching.NewGenerator(store).LatestDigests()
		if err != nil {
			return fmt.Errorf("failed to load digests: %w", err)
		}
		if latest.Daily == nil && latest.Weekly == nil {
			fmt.Println("No digests found.")
			return nil
		}
		if latest.Daily != nil {
			printDigest(latest.Daily)
		}
		if latest.Weekly != nil {
			if latest.Daily != nil {
				fmt.Println()
			}
			printDigest(latest.Weekly)
		}
		return nil
	},
}

func printDigest(d *models.CoachingDigest) {
	color.New(color.Bold).Printf("%s %s\n", d.DigestType, d.DigestDate.Format("2006-01-02"))
	fmt.Println(d.Summary)
	for _, h := range d.Highlights {
		fmt.Printf("  - %s\n", h)
	}
}

func init() {
	digestDailyCmd.Flags().StringVar(&digestDate, "date", "", "date (YYYY-MM-DD, default today)")
	digestWeeklyCmd.Flags().StringVar(&digestDate, "date", "", "window end (YYYY-MM-DD, default today)")
	digestCmd.AddCommand(digestDailyCmd)
	digestCmd.AddCommand(digestWeeklyCmd)
	digestCmd.AddCommand(digestLatestCmd)
	rootCmd.AddCommand(digestCmd)
}
