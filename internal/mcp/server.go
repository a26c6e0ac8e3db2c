// Package mcp exposes the tracker as Model Context Protocol tools and resources.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(b Backend, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitTrack", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FitTrack exercise catalog and daily routine. Exercise names are unique regardless of case. Use list_exercises to browse, add_to_routine to queue exercises by name and complete_next_exercise to work through the routine in order."),
	)

	h := &handlers{b: b, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetExercise, Handler: h.getExercise},
		server.ServerTool{Tool: toolAddExercise, Handler: h.addExercise},
		server.ServerTool{Tool: toolEditExercise, Handler: h.editExercise},
		server.ServerTool{Tool: toolDeleteExercise, Handler: h.deleteExercise},
		server.ServerTool{Tool: toolAddToRoutine, Handler: h.addToRoutine},
		server.ServerTool{Tool: toolGetRoutine, Handler: h.getRoutine},
		server.ServerTool{Tool: toolCompleteNext, Handler: h.completeNext},
		server.ServerTool{Tool: toolClearRoutine, Handler: h.clearRoutine},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCatalog, Handler: h.catalog},
		server.ServerResource{Resource: resRoutine, Handler: h.routine},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	b   Backend
	log *slog.Logger
}

// --- Resource definitions ---

var resCatalog = mcp.NewResource(
	"fittrack://catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Every exercise in the catalog, ordered by name"),
	mcp.WithMIMEType("application/json"),
)

var resRoutine = mcp.NewResource(
	"fittrack://routine",
	"Daily Routine",
	mcp.WithResourceDescription("Exercises queued for today, next one first"),
	mcp.WithMIMEType("application/json"),
)
