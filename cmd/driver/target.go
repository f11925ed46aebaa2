// ABOUTME: CLI commands for nutrition and metric targets.
// ABOUTME: Targets take effect from a date; the newest effective row wins.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/driver/internal/models"
	"github.com/spf13/cobra"
)

var (
	targetEffective string
	targetNotes     string
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Set and review targets",
}

var targetSetCmd = &cobra.Command{
	Use:   "set <metric> <value>",
	Short: "Set a target from an effective date",
	Long: `Set a target for a metric, effective from a date (default today).

The digests compare daily intake against whichever target row has the
newest effective date not after the day in question.

Examples:
  driver target set calories 2200
  driver target set protein_g 160 --effective 2026-03-01`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[1])
		}
		effective, err := parseDate(targetEffective)
		if err != nil {
			return err
		}

		target := &models.Target{
			Metric:        args[0],
			Value:         value,
			EffectiveDate: effective,
		}
		if targetNotes != "" {
			target.Notes = &targetNotes
		}

		if err := store.SetTarget(target); err != nil {
			return fmt.Errorf("failed to set target: %w", err)
		}

		color.Green("✓ Set %s target", args[0])
		fmt.Printf("  %.0f effective %s\n", value, effective.Format("2006-01-02"))
		return nil
	},
}

var targetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all target rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, err := store.ListTargets()
		if err != nil {
			return fmt.Errorf("failed to list targets: %w", err)
		}
		if len(targets) == 0 {
			fmt.Println("No targets found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, t := range targets {
			notes := ""
			if t.Notes != nil && *t.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*t.Notes, 30))
			}
			fmt.Printf("%-12s %8.0f  %s%s\n",
				t.Metric,
				t.Value,
				faint.Sprintf("from %s", t.EffectiveDate.Format("2006-01-02")),
				notes)
		}
		return nil
	},
}

func init() {
	targetSetCmd.Flags().StringVar(&targetEffective, "effective", "", "effective date (YYYY-MM-DD, default today)")
	targetSetCmd.Flags().StringVar(&targetNotes, "notes", "", "notes for the target")
	targetCmd.AddCommand(targetSetCmd)
	targetCmd.AddCommand(targetListCmd)
	rootCmd.AddCommand(targetCmd)
}
