// ABOUTME: MCP resource implementations for the driver health store.
// ABOUTME: Provides driver://today, driver://digests, and driver://targets.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// driver://today - Today's intake, sleep, training, and activity
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "driver://today",
		Name:        "Today's Health Data",
		Description: "Food totals, sleep, workouts, and activity for today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// driver://digests - Latest daily and weekly coaching digests
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "driver://digests",
		Name:        "Latest Coaching Digests",
		Description: "Most recent daily and weekly digest",
		MIMEType:    "application/json",
	}, s.handleDigestsResource)

	// driver://targets - Targets in force today
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "driver://targets",
		Name:        "Effective Targets",
		Description: "Nutrition and metric targets in force today",
		MIMEType:    "application/json",
	}, s.handleTargetsResource)
}

// Resource handlers

func resourceResult(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	entries, err := s.db.FoodEntriesForDate(today)
	if err != nil {
		return nil, fmt.Errorf("failed to list food entries: %w", err)
	}
	totals, err := s.db.NutritionTotalsForDate(today)
	if err != nil {
		return nil, fmt.Errorf("failed to total nutrition: %w", err)
	}
	workouts, err := s.db.SessionsForDate(today)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	activity, err := s.db.ActivityForDate(today)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}

	result := map[string]any{
		"date":     today.Format("2006-01-02"),
		"food":     entries,
		"totals":   totals,
		"workouts": workouts,
		"activity": activity,
		"counts": map[string]int{
			"food":     len(entries),
			"workouts": len(workouts),
		},
	}

	// Sleep may be absent for today; omit rather than fail.
	if record, err := s.db.SleepRecordForDate(today); err == nil {
		result["sleep"] = record
	}

	return resourceResult("driver://today", result)
}

func (s *Server) handleDigestsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	latest, err := s.digests.LatestDigests()
	if err != nil {
		return nil, fmt.Errorf("failed to load digests: %w", err)
	}

	return resourceResult("driver://digests", map[string]any{
		"daily":  latest.Daily,
		"weekly": latest.Weekly,
	})
}

func (s *Server) handleTargetsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	effective, err := s.db.EffectiveTargets(today)
	if err != nil {
		return nil, fmt.Errorf("failed to load targets: %w", err)
	}
	all, err := s.db.ListTargets()
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}

	return resourceResult("driver://targets", map[string]any{
		"date":      today.Format("2006-01-02"),
		"effective": effective,
		"history":   all,
	})
}
