// ABOUTME: CLI commands for food logging and daily nutrition summaries.
// ABOUTME: Supports manual macros or heuristic estimation from the name.
package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/driver/internal/models"
	"github.com/harperreed/driver/internal/vision"
	"github.com/spf13/cobra"
)

var (
	foodDate     string
	foodCalories float64
	foodProtein  float64
	foodCarbs    float64
	foodFat      float64
	foodSodium   float64
	foodServings float64
	foodNotes    string
	foodEstimate bool
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Log and review food entries",
}

var foodAddCmd = &cobra.Command{
	Use:   "add <meal_type> <name>",
	Short: "Log a food entry",
	Long: `Log a food entry for a date (default today).

Meal types: breakfast, lunch, dinner, snack, drink, meal.

Examples:
  driver food add lunch "Chicken salad" --calories 520 --protein 42
  driver food add snack "Protein shake" --estimate
  driver food add dinner "Ribeye and rice" --date 2026-02-14 --calories 900`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mealType := args[0]
		name := args[1]

		if !models.IsValidMealType(mealType) {
			return fmt.Errorf("unknown meal type: %s\nValid types: breakfast, lunch, dinner, snack, drink, meal", mealType)
		}
		date, err := parseDate(foodDate)
		if err != nil {
			return err
		}

		entry := models.NewFoodEntry(date, models.MealType(mealType), name)
		if foodServings > 0 {
			entry.Servings = foodServings
		}
		if foodNotes != "" {
			entry.WithNotes(foodNotes)
		}

		if foodEstimate {
			est, err := vision.EstimateWithFallback(context.Background(), nil, vision.Request{
				Description: name,
				Servings:    entry.Servings,
			})
			if err != nil {
				return fmt.Errorf("failed to estimate nutrition: %w", err)
			}
			entry.WithCalories(est.Calories).WithProtein(est.ProteinG).WithSodium(est.SodiumMg)
			entry.CarbsG = &est.CarbsG
			entry.FatG = &est.FatG
			entry.FiberG = &est.FiberG
			entry.IsEstimated = true
		}

		// Explicit flags override any estimate
		if cmd.Flags().Changed("calories") {
			entry.WithCalories(foodCalories)
		}
		if cmd.Flags().Changed("protein") {
			entry.WithProtein(foodProtein)
		}
		if cmd.Flags().Changed("carbs") {
			entry.CarbsG = &foodCarbs
		}
		if cmd.Flags().Changed("fat") {
			entry.FatG = &foodFat
		}
		if cmd.Flags().Changed("sodium") {
			entry.WithSodium(foodSodium)
		}

		if err := store.CreateFoodEntry(entry); err != nil {
			return fmt.Errorf("failed to create food entry: %w", err)
		}

		color.Green("✓ Logged %s", mealType)
		line := fmt.Sprintf("  %s %s", color.New(color.Faint).Sprintf("%d", entry.ID), name)
		if entry.Calories != nil {
			line += fmt.Sprintf("  %.0f kcal", *entry.Calories)
		}
		if entry.IsEstimated {
			line += color.New(color.Faint).Sprint(" (estimated)")
		}
		fmt.Println(line)

		return nil
	},
}

var foodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List food entries for a date with totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(foodDate)
		if err != nil {
			return err
		}

		entries, err := store.FoodEntriesForDate(date)
		if err != nil {
			return fmt.Errorf("failed to list food entries: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No food entries found.")
			return nil
		}

		faint := color.New(color.Faint)
		color.New(color.Bold).Printf("%s\n", date.Format("2006-01-02"))
		for _, e := range entries {
			calories := "-"
			if e.Calories != nil {
				calories = strconv.FormatFloat(*e.Calories, 'f', 0, 64) + " kcal"
			}
			protein := ""
			if e.ProteinG != nil {
				protein = fmt.Sprintf("  %.0fg protein", *e.ProteinG)
			}
			fmt.Printf("%s %-10s %-30s %s%s\n",
				faint.Sprintf("%4d", e.ID),
				e.MealType,
				truncate(e.Name, 30),
				calories,
				protein)
		}

		totals, err := store.NutritionTotalsForDate(date)
		if err != nil {
			return fmt.Errorf("failed to total nutrition: %w", err)
		}
		targets, err := store.EffectiveTargets(date)
		if err != nil {
			return fmt.Errorf("failed to load targets: %w", err)
		}

		fmt.Println()
		printTotal("calories", totals.Calories, targets["calories"], "kcal")
		printTotal("protein", totals.ProteinG, targets["protein_g"], "g")
		printTotal("sodium", totals.SodiumMg, targets["sodium_mg"], "mg")

		return nil
	},
}

var foodWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "List the trailing week of food entries grouped per day",
	RunE: func(cmd *cobra.Command, args []string) error {
		ending, err := parseDate(foodDate)
		if err != nil {
			return err
		}

		entries, err := store.FoodEntriesInWindow(ending, 7)
		if err != nil {
			return fmt.Errorf("failed to list food entries: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No food entries found.")
			return nil
		}

		faint := color.New(color.Faint)
		bold := color.New(color.Bold)
		var day string
		var dayCalories float64
		flush := func() {
			if day != "" && dayCalories > 0 {
				fmt.Printf("  %s\n", faint.Sprintf("%.0f kcal", dayCalories))
			}
		}
		for _, e := range entries {
			date := e.RecordedDate.Format("2006-01-02")
			if date != day {
				flush()
				day = date
				dayCalories = 0
				bold.Printf("%s\n", day)
			}
			calories := "-"
			if e.Calories != nil {
				calories = strconv.FormatFloat(*e.Calories, 'f', 0, 64) + " kcal"
				dayCalories += *e.Calories
			}
			fmt.Printf("%s %-10s %-30s %s\n",
				faint.Sprintf("%4d", e.ID),
				e.MealType,
				truncate(e.Name, 30),
				calories)
		}
		flush()

		totals, err := store.NutritionTotalsInWindow(ending, 7)
		if err != nil {
			return fmt.Errorf("failed to total nutrition: %w", err)
		}
		logged, err := store.DaysWithFoodEntries(ending, 7)
		if err != nil {
			return fmt.Errorf("failed to count logged days: %w", err)
		}
		if totals.Calories != nil && logged > 0 {
			fmt.Println()
			fmt.Printf("week: %.0f kcal over %d logged days (%.0f kcal/day)\n",
				*totals.Calories, logged, *totals.Calories/float64(logged))
		}
		return nil
	},
}

var foodDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a food entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id: %s", args[0])
		}
		if err := store.SoftDeleteFoodEntry(id); err != nil {
			return fmt.Errorf("failed to delete food entry: %w", err)
		}
		color.Green("✓ Deleted food entry %d", id)
		return nil
	},
}

func printTotal(label string, total *float64, target float64, unit string) {
	value := "-"
	if total != nil {
		value = strconv.FormatFloat(*total, 'f', 0, 64)
	}
	if target != 0 {
		fmt.Printf("  %-10s %s / %.0f %s\n", label, value, target, unit)
	} else {
		fmt.Printf("  %-10s %s %s\n", label, value, unit)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func init() {
	foodAddCmd.Flags().StringVar(&foodDate, "date", "", "date (YYYY-MM-DD, default today)")
	foodAddCmd.Flags().Float64Var(&foodCalories, "calories", 0, "calories")
	foodAddCmd.Flags().Float64Var(&foodProtein, "protein", 0, "protein in grams")
	foodAddCmd.Flags().Float64Var(&foodCarbs, "carbs", 0, "carbs in grams")
	foodAddCmd.Flags().Float64Var(&foodFat, "fat", 0, "fat in grams")
	foodAddCmd.Flags().Float64Var(&foodSodium, "sodium", 0, "sodium in milligrams")
	foodAddCmd.Flags().Float64Var(&foodServings, "servings", 0, "servings (default 1.0)")
	foodAddCmd.Flags().StringVar(&foodNotes, "notes", "", "notes for the entry")
	foodAddCmd.Flags().BoolVar(&foodEstimate, "estimate", false, "estimate missing macros from the name")
	foodListCmd.Flags().StringVar(&foodDate, "date", "", "date (YYYY-MM-DD, default today)")
	foodWeekCmd.Flags().StringVar(&foodDate, "date", "", "window end (YYYY-MM-DD, default today)")
	foodCmd.AddCommand(foodAddCmd)
	foodCmd.AddCommand(foodListCmd)
	foodCmd.AddCommand(foodWeekCmd)
	foodCmd.AddCommand(foodDeleteCmd)
	rootCmd.AddCommand(foodCmd)
}
