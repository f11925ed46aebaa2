// ABOUTME: CLI command for syncing from the Oura API.
// ABOUTME: Fetches a date window and applies it through the reconciler.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/driver/internal/ingest"
	"github.com/harperreed/driver/internal/oura"
	"github.com/spf13/cobra"
)

var (
	syncStart  string
	syncEnd    string
	syncDays   int
	syncDryRun bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync data from a provider API",
}

var syncOuraCmd = &cobra.Command{
	Use:   "oura",
	Short: "Pull sleep, readiness, and activity from the Oura API",
	Long: `Pull recent data from the Oura v2 API and reconcile it locally.

Requires DRIVER_OURA_API_TOKEN (or oura.api_token in the config file).
Without --start/--end the window is the last days ending yesterday;
today's data is still incomplete on Oura's side.

Examples:
  driver sync oura
  driver sync oura --days 7
  driver sync oura --start 2026-02-01 --end 2026-02-14
  driver sync oura --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (syncStart == "") != (syncEnd == "") {
			return fmt.Errorf("provide both --start and --end, or neither")
		}

		var start, end time.Time
		var err error
		if syncStart != "" {
			start, err = time.Parse("2006-01-02", syncStart)
			if err != nil {
				return fmt.Errorf("invalid --start %q (want YYYY-MM-DD)", syncStart)
			}
			end, err = time.Parse("2006-01-02", syncEnd)
			if err != nil {
				return fmt.Errorf("invalid --end %q (want YYYY-MM-DD)", syncEnd)
			}
			if end.Before(start) {
				return fmt.Errorf("--end is before --start")
			}
		} else {
			daysBack := cfg.Oura.DaysBack
			if syncDays > 0 {
				daysBack = syncDays
			}
			start, end = oura.DefaultWindow(daysBack)
		}

		client, err := oura.NewClient(cfg.Oura, logger)
		if err != nil {
			return err
		}

		result, err := client.Sync(context.Background(), ingest.NewReconciler(store, logger), start, end, syncDryRun)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		printResult("Oura sync", result)
		return nil
	},
}

func init() {
	syncOuraCmd.Flags().StringVar(&syncStart, "start", "", "window start (YYYY-MM-DD)")
	syncOuraCmd.Flags().StringVar(&syncEnd, "end", "", "window end (YYYY-MM-DD)")
	syncOuraCmd.Flags().IntVar(&syncDays, "days", 0, "days back from yesterday (default from config)")
	syncOuraCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "fetch and count without writing")
	syncCmd.AddCommand(syncOuraCmd)
	rootCmd.AddCommand(syncCmd)
}
