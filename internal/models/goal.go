// ABOUTME: Goal and GoalPlan models with append-only plan versioning.
// ABOUTME: Target goals need a value; directional goals need a direction.
package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrTargetValueRequired rejects target goals without a value.
	ErrTargetValueRequired = errors.New("target_value is required for target goals")
	// ErrDirectionRequired rejects directional goals without a direction.
	ErrDirectionRequired = errors.New("direction is required for directional goals")
)

// Goal is a tracked objective over one metric.
type Goal struct {
	ID          int64
	Name        string
	Metric      string
	GoalType    GoalType
	TargetValue *float64
	Direction   *Direction
	StartDate   time.Time
	TargetDate  *time.Time
	Active      bool
	Notes       *string
	CreatedAt   time.Time
}

// Validate enforces the goal-type field pairing before any write.
func (g *Goal) Validate() error {
	if g.GoalType == GoalTarget && g.TargetValue == nil {
		return ErrTargetValueRequired
	}
	if g.GoalType == GoalDirectional && g.Direction == nil {
		return ErrDirectionRequired
	}
	return nil
}

// BuildPlan renders the goal's plan markdown. baseline is the latest
// recorded value for the goal's metric, nil when nothing is logged yet.
func (g *Goal) BuildPlan(baseline *float64) string {
	horizon := "open-ended"
	if g.TargetDate != nil {
		horizon = g.TargetDate.Format("2006-01-02")
	}

	var targetLine string
	if g.GoalType == GoalTarget {
		targetLine = fmt.Sprintf("Target `%s` to `%s` by `%s`.", g.Metric, planFloat(*g.TargetValue), horizon)
	} else {
		targetLine = fmt.Sprintf("Drive `%s` trend `%s` with weekly check-ins.", g.Metric, *g.Direction)
	}

	var baselineText string
	if baseline != nil {
		baselineText = fmt.Sprintf("Current baseline for `%s` is `%s`.", g.Metric, planFloat(*baseline))
	} else {
		baselineText = fmt.Sprintf("Baseline for `%s` not available yet; log data for 7 days first.", g.Metric)
	}

	return strings.Join([]string{
		fmt.Sprintf("### Goal plan: %s", g.Name),
		"",
		targetLine,
		baselineText,
		"1. Define weekly action targets and track adherence daily.",
		"2. Review trend weekly; adjust calories, training, or recovery load if off track.",
		"3. Keep one measurable behavior metric in the dashboard and agent summary.",
	}, "\n")
}

// planFloat renders 182.0 as "182.0" and 182.4 as "182.4".
func planFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// GoalPlan is one versioned plan text for a goal. Plans are append-only;
// each new plan takes version max(existing)+1.
type GoalPlan struct {
	ID        int64
	GoalID    int64
	Plan      string
	Version   int
	CreatedAt time.Time
}
