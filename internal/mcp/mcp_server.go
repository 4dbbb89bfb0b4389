// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/gcopen/cheetah/core"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Cheetah MCP server without starting it.
// The dataset may be nil, in which case the bulk export tools report an error.
// This is exposed for unit testing.
func NewMCPServer(client *core.Client, dataset *core.Dataset, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Cheetah Fitness Data Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		client:  client,
		dataset: dataset,
	}

	// --- Remote service tools ---
	s.AddTool(mcp.NewTool("list_athletes",
		mcp.WithDescription("List the athletes known to the local fitness-data service."),
	), h.handleListAthletes)

	s.AddTool(mcp.NewTool("get_athlete_summary",
		mcp.WithDescription("Get the per-activity metric summary of an athlete."),
		mcp.WithString("athlete", mcp.Description("Athlete name as listed by list_athletes."), mcp.Required()),
	), h.handleGetAthleteSummary)

	s.AddTool(mcp.NewTool("get_activities",
		mcp.WithDescription("List the activities of an athlete with optional metrics and metadata."),
		mcp.WithString("athlete", mcp.Description("Athlete name."), mcp.Required()),
		mcp.WithString("since", mcp.Description("Earliest date (yyyy/mm/dd).")),
		mcp.WithString("before", mcp.Description("Latest date (yyyy/mm/dd).")),
		mcp.WithString("metrics", mcp.Description("Comma-separated metric names.")),
		mcp.WithString("metadata", mcp.Description("Comma-separated metadata fields.")),
		mcp.WithString("columns", mcp.Description("Comma-separated columns to keep.")),
		mcp.WithBoolean("filenames_only", mcp.Description("Return only the activity file names.")),
	), h.handleGetActivities)

	s.AddTool(mcp.NewTool("get_zones",
		mcp.WithDescription("Get the training zones of an athlete."),
		mcp.WithString("athlete", mcp.Description("Athlete name."), mcp.Required()),
		mcp.WithString("for", mcp.Description("Zone type. Defaults to 'power'."), mcp.Enum("power", "hr", "pace")),
		mcp.WithString("sport", mcp.Description("Sport. Defaults to 'Bike'.")),
	), h.handleGetZones)

	s.AddTool(mcp.NewTool("get_meanmax",
		mcp.WithDescription("Get a mean-max curve for one activity or for a date range."),
		mcp.WithString("athlete", mcp.Description("Athlete name."), mcp.Required()),
		mcp.WithString("series", mcp.Description("Data series. Defaults to 'watts'.")),
		mcp.WithString("activity", mcp.Description("Activity file name. Do not combine with since/before.")),
		mcp.WithString("since", mcp.Description("Range start (yyyy/mm/dd). Requires before.")),
		mcp.WithString("before", mcp.Description("Range end (yyyy/mm/dd). Requires since.")),
	), h.handleGetMeanMax)

	s.AddTool(mcp.NewTool("get_measures",
		mcp.WithDescription("Get the measures of one group, or list the groups when none is given."),
		mcp.WithString("athlete", mcp.Description("Athlete name."), mcp.Required()),
		mcp.WithString("group", mcp.Description("Measure group, e.g. 'Body' or 'Hrv'.")),
		mcp.WithString("since", mcp.Description("Earliest date (yyyy/mm/dd).")),
		mcp.WithString("before", mcp.Description("Latest date (yyyy/mm/dd).")),
	), h.handleGetMeasures)

	// --- Bulk export tools ---
	s.AddTool(mcp.NewTool("list_local_athletes",
		mcp.WithDescription("List the athlete ids of the configured OpenData bulk export."),
	), h.handleListLocalAthletes)

	s.AddTool(mcp.NewTool("get_local_summary",
		mcp.WithDescription("Get the activity summary of one athlete in the bulk export. Columns left unnormalized are listed in a second warnings content."),
		mcp.WithString("athlete_id", mcp.Description("Athlete id as listed by list_local_athletes."), mcp.Required()),
		mcp.WithBoolean("no_float", mcp.Description("Skip numeric coercion of metric columns.")),
		mcp.WithBoolean("unpack_lists", mcp.Description("Expand every list-valued column into separate columns.")),
	), h.handleGetLocalSummary)

	return s
}

// StartMCPServer starts the Cheetah MCP server on stdio.
func StartMCPServer(_ context.Context, client *core.Client, dataset *core.Dataset, version string) error {
	s := NewMCPServer(client, dataset, version)
	return server.ServeStdio(s)
}
