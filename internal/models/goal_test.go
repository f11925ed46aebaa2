// ABOUTME: Tests for goal validation and plan rendering.
// ABOUTME: Covers target and directional goals, horizons, and baselines.
package models

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	value := 175.0
	direction := DirectionDown

	target := &Goal{Name: "Cut", Metric: MetricWeightLbs, GoalType: GoalTarget, TargetValue: &value}
	if err := target.Validate(); err != nil {
		t.Errorf("valid target goal rejected: %v", err)
	}
	target.TargetValue = nil
	if err := target.Validate(); err != ErrTargetValueRequired {
		t.Errorf("err = %v, want ErrTargetValueRequired", err)
	}

	directional := &Goal{Name: "Trend down", Metric: MetricWeightLbs, GoalType: GoalDirectional, Direction: &direction}
	if err := directional.Validate(); err != nil {
		t.Errorf("valid directional goal rejected: %v", err)
	}
	directional.Direction = nil
	if err := directional.Validate(); err != ErrDirectionRequired {
		t.Errorf("err = %v, want ErrDirectionRequired", err)
	}
}

func TestBuildPlanTargetGoal(t *testing.T) {
	value := 175.0
	baseline := 182.0
	targetDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	goal := &Goal{
		Name:        "Cut to race weight",
		Metric:      MetricWeightLbs,
		GoalType:    GoalTarget,
		TargetValue: &value,
		TargetDate:  &targetDate,
	}

	plan := goal.BuildPlan(&baseline)
	lines := strings.Split(plan, "\n")
	want := []string{
		"### Goal plan: Cut to race weight",
		"",
		"Target `weight_lbs` to `175.0` by `2026-09-01`.",
		"Current baseline for `weight_lbs` is `182.0`.",
		"1. Define weekly action targets and track adherence daily.",
		"2. Review trend weekly; adjust calories, training, or recovery load if off track.",
		"3. Keep one measurable behavior metric in the dashboard and agent summary.",
	}
	if len(lines) != len(want) {
		t.Fatalf("plan has %d lines, want %d:\n%s", len(lines), len(want), plan)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestBuildPlanDirectionalOpenEnded(t *testing.T) {
	direction := DirectionUp
	goal := &Goal{
		Name:      "Raise HRV",
		Metric:    MetricHRV,
		GoalType:  GoalDirectional,
		Direction: &direction,
	}

	plan := goal.BuildPlan(nil)
	if !strings.Contains(plan, "Drive `hrv` trend `up` with weekly check-ins.") {
		t.Errorf("missing directional line:\n%s", plan)
	}
	if !strings.Contains(plan, "Baseline for `hrv` not available yet; log data for 7 days first.") {
		t.Errorf("missing no-baseline line:\n%s", plan)
	}
}

func TestBuildPlanFractionalValues(t *testing.T) {
	value := 34.5
	baseline := 36.25
	goal := &Goal{Name: "Waist", Metric: MetricWaistIn, GoalType: GoalTarget, TargetValue: &value}

	plan := goal.BuildPlan(&baseline)
	if !strings.Contains(plan, "Target `waist_in` to `34.5` by `open-ended`.") {
		t.Errorf("target line wrong:\n%s", plan)
	}
	if !strings.Contains(plan, "Current baseline for `waist_in` is `36.25`.") {
		t.Errorf("baseline line wrong:\n%s", plan)
	}
}
