package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gcopen/cheetah/core"
	"github.com/gcopen/cheetah/core/tabular"
	"github.com/gcopen/cheetah/internal/contract"
	"github.com/gcopen/cheetah/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	client  *core.Client
	dataset *core.Dataset
}

func (h *toolHandler) handleListAthletes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := h.client.Athletes(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing athletes failed: %v", err)), nil
	}
	return tableResult(core.ListTable("athlete", ids)), nil
}

func (h *toolHandler) handleGetAthleteSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	athlete, err := request.RequireString("athlete")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	table, err := h.client.AthleteSummary(ctx, athlete)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return tableResult(table), nil
}

func (h *toolHandler) handleGetActivities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	athlete, err := request.RequireString("athlete")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	q := core.ActivityQuery{
		Since:         request.GetString("since", ""),
		Before:        request.GetString("before", ""),
		Metrics:       contract.SplitList(request.GetString("metrics", "")),
		Metadata:      contract.SplitList(request.GetString("metadata", "")),
		Columns:       contract.SplitList(request.GetString("columns", "")),
		FilenamesOnly: request.GetBool("filenames_only", false),
	}
	table, err := h.client.Activities(ctx, athlete, q)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("activities failed: %v", err)), nil
	}
	return tableResult(table), nil
}

func (h *toolHandler) handleGetZones(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	athlete, err := request.RequireString("athlete")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	q := core.ZoneQuery{
		For:   request.GetString("for", contract.DefaultZonesFor),
		Sport: request.GetString("sport", contract.DefaultSport),
	}
	table, err := h.client.Zones(ctx, athlete, q)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("zones failed: %v", err)), nil
	}
	return tableResult(table), nil
}

func (h *toolHandler) handleGetMeanMax(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	athlete, err := request.RequireString("athlete")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	q := core.MeanMaxQuery{
		Series:           request.GetString("series", contract.DefaultSeries),
		ActivityFilename: request.GetString("activity", ""),
		Since:            request.GetString("since", ""),
		Before:           request.GetString("before", ""),
	}
	// Reject the request shape before touching the service
	if err := q.Validate(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid meanmax parameters: %v", err)), nil
	}
	table, err := h.client.MeanMax(ctx, athlete, q)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("meanmax failed: %v", err)), nil
	}
	return tableResult(table), nil
}

func (h *toolHandler) handleGetMeasures(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	athlete, err := request.RequireString("athlete")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	group := request.GetString("group", "")
	if group == "" {
		groups, err := h.client.MeasureGroups(ctx, athlete)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("measure groups failed: %v", err)), nil
		}
		return tableResult(core.ListTable("group", groups)), nil
	}
	table, err := h.client.Measures(ctx, athlete, group, request.GetString("since", ""), request.GetString("before", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("measures failed: %v", err)), nil
	}
	return tableResult(table), nil
}

func (h *toolHandler) handleListLocalAthletes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.dataset == nil {
		return mcp.NewToolResultError(core.ErrNoOpenDataRoot.Error()), nil
	}
	ids, err := h.dataset.AthleteIDs(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing export athletes failed: %v", err)), nil
	}
	return tableResult(core.ListTable("athlete", ids)), nil
}

func (h *toolHandler) handleGetLocalSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.dataset == nil {
		return mcp.NewToolResultError(core.ErrNoOpenDataRoot.Error()), nil
	}
	id, err := request.RequireString("athlete_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	table, diags, err := h.dataset.AthleteSummary(ctx, id, !request.GetBool("no_float", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export summary failed: %v", err)), nil
	}
	if request.GetBool("unpack_lists", false) {
		if lists := h.dataset.DetectListColumns(table); len(lists) > 0 {
			var unpackDiags tabular.Diagnostics
			if table, unpackDiags, err = h.dataset.UnpackListColumns(table, lists); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("unpacking lists failed: %v", err)), nil
			}
			diags = append(diags, unpackDiags...)
		}
	}
	return withWarnings(tableResult(table), diags), nil
}

// warningsPayload lists the columns left unchanged by normalization.
type warningsPayload struct {
	Warnings []warning `json:"warnings"`
}

type warning struct {
	Column string `json:"column"`
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

// withWarnings appends the diagnostics as a second JSON text content.
func withWarnings(res *mcp.CallToolResult, diags tabular.Diagnostics) *mcp.CallToolResult {
	if res.IsError || len(diags) == 0 {
		return res
	}
	payload := warningsPayload{Warnings: make([]warning, len(diags))}
	for i, d := range diags {
		payload.Warnings[i] = warning{Column: d.Column, Stage: string(d.Stage), Reason: d.Err.Error()}
	}
	jsonData, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding warnings failed: %v", err))
	}
	res.Content = append(res.Content, mcp.NewTextContent(string(jsonData)))
	return res
}

// tableResult renders a table in its JSON form.
func tableResult(t *schema.Table) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding table failed: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}
