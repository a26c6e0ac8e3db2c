package main

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/claude/fittrack/internal/mcp"
	"github.com/claude/fittrack/internal/workout"
)

func (a *app) mcpCmd() *cobra.Command {
	var serverURL, apiKey string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tools over stdio",
		Long: `Serve the FitTrack MCP tools over stdin/stdout.

Without --server the catalog is loaded from the configured store and saved
back when the client disconnects. With --server every tool call goes to a
running FitTrack server over its REST API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL != "" {
				if apiKey == "" {
					apiKey = a.cfg.Auth.APIKey
				}
				client := mcp.NewHTTPClient(serverURL, apiKey)
				if err := client.Ping(cmd.Context()); err != nil {
					return fmt.Errorf("reaching %s: %w", serverURL, err)
				}
				a.log.Info("mcp stdio server starting", "backend", serverURL)
				return mcpserver.ServeStdio(mcp.New(client, Version, a.log))
			}

			return a.withTracker(cmd.Context(), true, func(t *workout.Tracker) error {
				a.log.Info("mcp stdio server starting", "backend", "local", "exercises", t.Stats().Exercises)
				return mcpserver.ServeStdio(mcp.New(mcp.Local{Tracker: t}, Version, a.log))
			})
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "", "base URL of a FitTrack server (e.g. http://fittrack)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for write calls (defaults to auth.api_key)")
	return cmd
}
