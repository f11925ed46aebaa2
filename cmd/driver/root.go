// ABOUTME: Root Cobra command for driver CLI.
// ABOUTME: Handles config load, logging, and store lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/harperreed/driver/internal/config"
	"github.com/harperreed/driver/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	store  *storage.DB
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "driver",
	Short: "Personal health-data aggregator",
	Long: `Driver aggregates nutrition, sleep, exercise, and wearable data into a
local SQLite store and derives daily coaching from it.

WHAT IT TRACKS:

  Nutrition   food entries with macros, sodium, and alcohol against targets
  Sleep       duration, stages, HRV, readiness, and sleep scores
  Training    workout sessions with heart-rate zone breakdowns
  Body        weight, waist, resting HR, and other recurring metrics

QUICK START:

  $ driver food add lunch "Chicken salad" --calories 520 --protein 42
  $ driver sleep add --duration 451 --score 84
  $ driver workout add strength --duration 60
  $ driver metric add weight_lbs 182.4
  $ driver suggest                      # Today's training suggestion
  $ driver digest daily                 # Today's coaching digest

DEVICE DATA:

  $ driver ingest apple-health export.json   # Health Auto Export payload
  $ driver ingest oura payload.json          # Raw Oura API payload
  $ driver ingest fit workout.fit            # Garmin FIT activity file
  $ driver sync oura                         # Pull recent days from the Oura API

MCP INTEGRATION:

  Run 'driver mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants. Add to your Claude
  config:

  {
    "mcpServers": {
      "driver": { "command": "driver", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data lives in a local SQLite database (default: XDG data dir). Override
  with DRIVER_DB_PATH or a YAML config pointed at by DRIVER_CONFIG.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for commands that don't touch the store
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel(cfg.LogLevel),
		}))
		slog.SetDefault(logger)

		store, err = storage.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// parseDate parses a --date flag value, defaulting to today when empty.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
