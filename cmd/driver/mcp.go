// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/driver/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to interact with your health data through
a standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "driver": {
        "command": "driver",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  log_food             Log a food entry
  log_food_from_photo  Estimate nutrition and log it
  estimate_food        Estimate nutrition without logging
  list_food            List a date's entries with totals and targets
  delete_food          Delete a food entry
  log_sleep            Record sleep for a date
  get_sleep            Get the sleep record for a date
  log_workout          Log a workout session
  list_workouts        List recent workouts
  log_metric           Record a body metric
  list_metrics         List a metric over a window
  set_target           Set a nutrition or metric target
  get_suggestion       Get or generate a training suggestion
  generate_digest      Generate a daily or weekly digest
  doctor_report        Build a doctor-visit report
  add_goal             Create a goal
  generate_goal_plan   Generate the next plan for a goal

AVAILABLE RESOURCES:

  driver://today      Today's intake, sleep, training, and activity
  driver://digests    Latest daily and weekly digests
  driver://targets    Targets in force today`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(store)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
