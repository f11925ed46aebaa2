// ABOUTME: CLI commands for goals and versioned goal plans.
// ABOUTME: Target goals need a value; directional goals need a direction.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/driver/internal/models"
	"github.com/spf13/cobra"
)

var (
	goalMetric     string
	goalType       string
	goalTarget     float64
	goalDirection  string
	goalStartDate  string
	goalTargetDate string
	goalNotes      string
	goalAll        bool
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Track goals and generate plans",
}

var goalAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a goal over a metric",
	Long: `Create a goal over a metric.

Target goals aim at a value; directional goals drive a trend up or down.

Examples:
  driver goal add "Cut to 175" --metric weight_lbs --type target --target 175
  driver goal add "Raise HRV" --metric hrv --type directional --direction up`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if goalMetric == "" {
			return fmt.Errorf("--metric is required")
		}
		if !models.IsValidGoalType(goalType) {
			return fmt.Errorf("unknown goal type: %s (want target or directional)", goalType)
		}
		startDate, err := parseDate(goalStartDate)
		if err != nil {
			return err
		}

		goal := &models.Goal{
			Name:      args[0],
			Metric:    goalMetric,
			GoalType:  models.GoalType(goalType),
			StartDate: startDate,
			Active:    true,
		}
		if cmd.Flags().Changed("target") {
			goal.TargetValue = &goalTarget
		}
		if goalDirection != "" {
			if !models.IsValidDirection(goalDirection) {
				return fmt.Errorf("unknown direction: %s (want up or down)", goalDirection)
			}
			d := models.Direction(goalDirection)
			goal.Direction = &d
		}
		if goalTargetDate != "" {
			td, err := time.Parse("2006-01-02", goalTargetDate)
			if err != nil {
				return fmt.Errorf("invalid --target-date %q (want YYYY-MM-DD)", goalTargetDate)
			}
			goal.TargetDate = &td
		}
		if goalNotes != "" {
			goal.Notes = &goalNotes
		}

		if err := store.CreateGoal(goal); err != nil {
			return fmt.Errorf("failed to create goal: %w", err)
		}

		color.Green("✓ Created %s goal", goalType)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprintf("%d", goal.ID),
			goal.Name)
		return nil
	},
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		goals, err := store.ListGoals(!goalAll)
		if err != nil {
			return fmt.Errorf("failed to list goals: %w", err)
		}
		if len(goals) == 0 {
			fmt.Println("No goals found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, g := range goals {
			detail := ""
			if g.GoalType == models.GoalTarget && g.TargetValue != nil {
				detail = fmt.Sprintf("→ %.1f", *g.TargetValue)
			} else if g.Direction != nil {
				detail = fmt.Sprintf("trend %s", *g.Direction)
			}
			state := ""
			if !g.Active {
				state = faint.Sprint(" [inactive]")
			}
			fmt.Printf("%s %-28s %-12s %s%s\n",
				faint.Sprintf("%4d", g.ID),
				truncate(g.Name, 28),
				g.Metric,
				detail,
				state)
		}
		return nil
	},
}

var goalPlanCmd = &cobra.Command{
	Use:   "plan <goal_id>",
	Short: "Generate the next versioned plan for a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid goal id: %s", args[0])
		}

		goal, err := store.GetGoal(id)
		if err != nil {
			return fmt.Errorf("goal not found: %d", id)
		}

		var baseline *float64
		if value, err := store.LatestMetricValue(goal.Metric); err == nil {
			baseline = &value
		}

		plan, err := store.AddGoalPlan(goal.ID, goal.BuildPlan(baseline))
		if err != nil {
			return fmt.Errorf("failed to add goal plan: %w", err)
		}

		color.Green("✓ Generated plan v%d", plan.Version)
		fmt.Println()
		fmt.Println(plan.Plan)
		return nil
	},
}

func init() {
	goalAddCmd.Flags().StringVar(&goalMetric, "metric", "", "metric the goal tracks")
	goalAddCmd.Flags().StringVar(&goalType, "type", "target", "goal type (target or directional)")
	goalAddCmd.Flags().Float64Var(&goalTarget, "target", 0, "target value (target goals)")
	goalAddCmd.Flags().StringVar(&goalDirection, "direction", "", "trend direction (directional goals: up or down)")
	goalAddCmd.Flags().StringVar(&goalStartDate, "start", "", "start date (YYYY-MM-DD, default today)")
	goalAddCmd.Flags().StringVar(&goalTargetDate, "target-date", "", "target date (YYYY-MM-DD)")
	goalAddCmd.Flags().StringVar(&goalNotes, "notes", "", "notes for the goal")
	goalListCmd.Flags().BoolVar(&goalAll, "all", false, "include inactive goals")
	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalListCmd)
	goalCmd.AddCommand(goalPlanCmd)
	rootCmd.AddCommand(goalCmd)
}
