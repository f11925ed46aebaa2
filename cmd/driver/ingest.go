// ABOUTME: CLI commands for ingesting device-export payloads.
// ABOUTME: Handles Apple Health JSON, raw Oura payloads, and FIT files.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/harperreed/driver/internal/ingest"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a device-export payload",
	Long: `Ingest a wearable or export payload into the store.

Re-ingesting the same payload is safe: workouts dedup on their
provider-scoped external ID, scalar metrics upsert per day, and sleep
respects the provider precedence rules.

Examples:
  driver ingest apple-health export.json
  driver ingest oura oura_payload.json
  driver ingest fit morning_ride.fit`,
}

var ingestAppleCmd = &cobra.Command{
	Use:   "apple-health <file>",
	Short: "Ingest a Health Auto Export JSON payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}

		var payload ingest.AppleHealthPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("failed to parse payload: %w", err)
		}

		result, err := ingest.NewReconciler(store, logger).IngestAppleHealth(&payload)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}

		printResult("Apple Health", result)
		return nil
	},
}

var ingestOuraCmd = &cobra.Command{
	Use:   "oura <file>",
	Short: "Ingest a raw Oura API payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}

		var payload ingest.OuraPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("failed to parse payload: %w", err)
		}

		result, err := ingest.NewReconciler(store, logger).IngestOura(&payload)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}

		printResult("Oura", result)
		return nil
	},
}

var ingestFITCmd = &cobra.Command{
	Use:   "fit <file>",
	Short: "Ingest a Garmin FIT activity file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()

		result, err := ingest.NewReconciler(store, logger).ImportFIT(f)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		printResult("FIT", result)
		return nil
	},
}

func printResult(label string, result *ingest.Result) {
	color.Green("✓ %s ingest %s", label, result.Status)

	faint := color.New(color.Faint)
	keys := make([]string, 0, len(result.Processed))
	for k := range result.Processed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s %d\n", faint.Sprintf("%-10s", k), result.Processed[k])
	}
	if result.BatchID != "" {
		fmt.Printf("  %s %s\n", faint.Sprint("batch"), faint.Sprint(result.BatchID))
	}
}

func init() {
	ingestCmd.AddCommand(ingestAppleCmd)
	ingestCmd.AddCommand(ingestOuraCmd)
	ingestCmd.AddCommand(ingestFITCmd)
	rootCmd.AddCommand(ingestCmd)
}
