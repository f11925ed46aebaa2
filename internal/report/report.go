// ABOUTME: Doctor-visit report: windowed intake, training, sleep, and body trends.
// ABOUTME: Renders a markdown summary alongside the raw aggregates.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/driver/internal/models"
	"github.com/harperreed/driver/internal/storage"
)

// Window bounds for the report period in days.
const (
	MinDays     = 7
	MaxDays     = 365
	DefaultDays = 30
)

// BodyTrend is a metric's latest value and its change over the period.
type BodyTrend struct {
	Latest *float64
	Delta  *float64
}

// Report is the assembled doctor-visit summary for one period.
type Report struct {
	Start    time.Time
	End      time.Time
	Food     *storage.DailyNutritionAverages
	Exercise *storage.SessionStats
	Sleep    *storage.SleepAverages
	Weight   BodyTrend
	Waist    BodyTrend
	Markdown string
}

// Builder assembles doctor-visit reports.
type Builder struct {
	db *storage.DB
}

// NewBuilder creates a report builder over the given store.
func NewBuilder(db *storage.DB) *Builder {
	return &Builder{db: db}
}

// Build assembles the report for a trailing window ending at the given
// date. Days is clamped to the allowed range.
func (b *Builder) Build(ending time.Time, days int) (*Report, error) {
	if days < MinDays {
		days = MinDays
	}
	if days > MaxDays {
		days = MaxDays
	}
	start := ending.AddDate(0, 0, -(days - 1))

	food, err := b.db.NutritionAveragesInWindow(ending, days)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	exercise, err := b.db.SessionStatsInRange(start, ending)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	sleep, err := b.db.SleepAveragesInWindow(ending, days)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	weight, err := b.metricTrend(models.MetricWeightLbs, ending, days)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	waist, err := b.metricTrend(models.MetricWaistIn, ending, days)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	r := &Report{
		Start:    start,
		End:      ending,
		Food:     food,
		Exercise: exercise,
		Sleep:    sleep,
		Weight:   weight,
		Waist:    waist,
	}
	r.Markdown = render(r)
	return r, nil
}

// metricTrend reads a metric series over the window and computes the
// latest value plus the change from the period's first reading.
func (b *Builder) metricTrend(metric string, ending time.Time, days int) (BodyTrend, error) {
	rows, err := b.db.MetricsInWindow(metric, ending, days)
	if err != nil {
		return BodyTrend{}, err
	}
	if len(rows) == 0 {
		return BodyTrend{}, nil
	}
	latest := rows[len(rows)-1].Value
	delta := round2(latest - rows[0].Value)
	return BodyTrend{Latest: &latest, Delta: &delta}, nil
}

func render(r *Report) string {
	lines := []string{
		fmt.Sprintf("# Doctor Visit Report (%s to %s)",
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02")),
		"",
		"## Intake and Recovery",
		"- Avg calories/day: " + orNA(roundPtr(r.Food.AvgCalories, 1)),
		"- Avg protein/day: " + orNA(roundPtr(r.Food.AvgProteinG, 1)) + " g",
		"- Avg sodium/day: " + orNA(roundPtr(r.Food.AvgSodiumMg, 0)) + " mg",
		"- Alcohol calories total: " + orZero(roundPtr(r.Food.TotalAlcoholCalories, 0)),
		"- Avg sleep: " + orNA(roundPtr(r.Sleep.AvgDurationMin, 1)) + " min",
		"- Avg sleep score: " + orNA(roundPtr(r.Sleep.AvgSleepScore, 1)),
		"- Avg readiness: " + orNA(roundPtr(r.Sleep.AvgReadiness, 1)),
		"",
		"## Training",
		fmt.Sprintf("- Sessions: %d", r.Exercise.Count),
		"- Total duration: " + orZero(roundPtr(r.Exercise.TotalDurationMin, 1)) + " min",
		"- Total calories burned: " + orZero(roundPtr(r.Exercise.TotalCalories, 1)),
		"",
		"## Body Metrics",
		trendLine("Weight", r.Weight),
		trendLine("Waist", r.Waist),
		"",
		"## Active Medications",
		"- none",
		"",
		"## Active Supplements",
		"- none",
		"",
		"## Latest Labs",
		"- no labs available",
		"",
		"## Active Medical History Notes",
		"- none",
	}
	return strings.Join(lines, "\n")
}

func trendLine(label string, trend BodyTrend) string {
	line := "- " + label + ": "
	if trend.Latest == nil {
		return line + "n/a"
	}
	line += formatFloat(*trend.Latest)
	if trend.Delta != nil {
		line += fmt.Sprintf(" (%s vs period start)", signedFloat(*trend.Delta))
	}
	return line
}

func roundPtr(v *float64, digits int) *float64 {
	if v == nil {
		return nil
	}
	p := math.Pow(10, float64(digits))
	r := math.Round(*v*p) / p
	return &r
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// orNA renders a value, treating absent and zero alike as unavailable.
func orNA(v *float64) string {
	if v == nil || *v == 0 {
		return "n/a"
	}
	return formatFloat(*v)
}

func orZero(v *float64) string {
	if v == nil || *v == 0 {
		return "0"
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func signedFloat(v float64) string {
	if v >= 0 {
		return "+" + formatFloat(v)
	}
	return formatFloat(v)
}
