// ABOUTME: Provider timestamp parsing, workout classification, duration units.
// ABOUTME: Malformed values are reported, never fatal; callers count them as skips.
package ingest

import (
	"math"
	"strings"
	"time"
)

// timestampLayouts are the provider timestamp shapes accepted, most
// specific first. A trailing " ±HHMM" offset is stripped before these
// are tried; the local wall-clock reading is what gets stored.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// stripZoneSuffix removes a trailing " +HHMM"/" -HHMM" offset. Health
// Auto Export stamps one on every sample.
func stripZoneSuffix(value string) string {
	if len(value) < 7 {
		return value
	}
	tail := value[len(value)-6:]
	if tail[0] != ' ' || (tail[1] != '+' && tail[1] != '-') {
		return value
	}
	for i := 2; i < 6; i++ {
		if tail[i] < '0' || tail[i] > '9' {
			return value
		}
	}
	return value[:len(value)-6]
}

// ParseTimestamp parses a provider timestamp string. The second return
// is false when the value is empty or matches no accepted layout.
func ParseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	value = stripZoneSuffix(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RecordedDate extracts the calendar date from a provider timestamp.
func RecordedDate(value string) (time.Time, bool) {
	t, ok := ParseTimestamp(value)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// classifyRules map name substrings onto session types, checked in order.
var classifyRules = []struct {
	tokens      []string
	sessionType string
}{
	{[]string{"strength", "weight"}, "strength"},
	{[]string{"running", "walk", "hike"}, "cardio"},
	{[]string{"cycling", "bike"}, "cardio"},
	{[]string{"stair", "elliptical", "rowing", "hiit", "cardio"}, "cardio"},
	{[]string{"yoga", "stretch", "pilates"}, "flexibility"},
}

// ClassifySessionType buckets a workout name into a session type.
// Unrecognized names default to strength.
func ClassifySessionType(name string) string {
	label := strings.ToLower(name)
	for _, rule := range classifyRules {
		for _, token := range rule.tokens {
			if strings.Contains(label, token) {
				return rule.sessionType
			}
		}
	}
	return "strength"
}

// NormalizeDurationMin converts a provider duration to whole minutes.
// Values of 1000 or more are taken as seconds; smaller values are
// already minutes.
func NormalizeDurationMin(value float64) int {
	if value >= 1000 {
		return int(math.Round(value / 60.0))
	}
	return int(math.Round(value))
}
