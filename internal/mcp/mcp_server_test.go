package mcp_test

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/gcopen/cheetah/core"
	"github.com/gcopen/cheetah/core/address"
	"github.com/gcopen/cheetah/internal/contract"
	mcp_internal "github.com/gcopen/cheetah/internal/mcp"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const base = "http://localhost:12021"

func newServer(t *testing.T, dataset *core.Dataset) (*server.MCPServer, *contract.MockTransport) {
	t.Helper()
	transport := &contract.MockTransport{}
	resolver, err := address.NewResolver("")
	require.NoError(t, err)
	client, err := core.NewClient(context.Background(), transport, resolver)
	require.NoError(t, err)
	return mcp_internal.NewMCPServer(client, dataset, "test"), transport
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServer_ToolsRegistered(t *testing.T) {
	s, _ := newServer(t, nil)
	for _, name := range []string{
		"list_athletes", "get_athlete_summary", "get_activities", "get_zones",
		"get_meanmax", "get_measures", "list_local_athletes", "get_local_summary",
	} {
		assert.NotNil(t, s.GetTool(name), name)
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	t.Run("get_meanmax both modes", func(t *testing.T) {
		s, transport := newServer(t, nil)
		res := callTool(t, s, "get_meanmax", map[string]any{
			"athlete":  "Alice",
			"activity": "a.json",
			"since":    "2024/01/01",
			"before":   "2024/02/01",
		})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(res), "invalid meanmax parameters")
		transport.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("get_zones missing athlete", func(t *testing.T) {
		s, _ := newServer(t, nil)
		res := callTool(t, s, "get_zones", map[string]any{})
		assert.True(t, res.IsError)
	})

	t.Run("local tools without root", func(t *testing.T) {
		s, _ := newServer(t, nil)
		res := callTool(t, s, "list_local_athletes", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "opendata-root")
	})

	t.Run("unknown athlete", func(t *testing.T) {
		s, transport := newServer(t, nil)
		transport.On("Get", mock.Anything, base+"/", url.Values{}).
			Return(contract.Response{StatusCode: 200, Text: "Name\nAlice,1\n"}, nil)

		res := callTool(t, s, "get_athlete_summary", map[string]any{"athlete": "Nobody"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "Alice")
	})
}

func TestMCPServerHandlers_Tables(t *testing.T) {
	s, transport := newServer(t, nil)
	transport.On("Get", mock.Anything, base+"/", url.Values{}).
		Return(contract.Response{StatusCode: 200, Text: "Name\nAlice,1\n"}, nil)
	transport.On("Get", mock.Anything, base+"/Alice/measures", url.Values{}).
		Return(contract.Response{StatusCode: 200, Text: "Body\n"}, nil)

	res := callTool(t, s, "list_athletes", nil)
	require.False(t, res.IsError)
	var athletes struct {
		Columns []string `json:"columns"`
		Rows    [][]any  `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &athletes))
	assert.Equal(t, []string{"athlete"}, athletes.Columns)
	assert.Equal(t, [][]any{{"Alice"}}, athletes.Rows)

	res = callTool(t, s, "get_measures", map[string]any{"athlete": "Alice"})
	require.False(t, res.IsError)
	assert.Contains(t, resultText(res), `"Body"`)
}

func TestMCPServerHandlers_LocalSummary(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "abc")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	summary := `{"RIDES":[{"date":"2018/01/02","METRICS":{"hr":["150","60"]}}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "{abc}.json"), []byte(summary), 0o644))

	s, _ := newServer(t, core.NewDataset(root, contract.NewLocalDiscovery()))

	res := callTool(t, s, "get_local_summary", map[string]any{"athlete_id": "abc", "no_float": true, "unpack_lists": true})
	require.False(t, res.IsError, resultText(res))
	assert.Contains(t, resultText(res), "METRICS.hr_value")
	assert.Len(t, res.Content, 1)

	res = callTool(t, s, "list_local_athletes", nil)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(res), `"abc"`)
}

func TestMCPServerHandlers_LocalSummaryWarnings(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "abc")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	summary := `{"RIDES":[{"METRICS":{"label":"abc"}},{"METRICS":{"label":"2.0"}}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "{abc}.json"), []byte(summary), 0o644))

	s, _ := newServer(t, core.NewDataset(root, contract.NewLocalDiscovery()))

	res := callTool(t, s, "get_local_summary", map[string]any{"athlete_id": "abc"})
	require.False(t, res.IsError, resultText(res))
	require.Len(t, res.Content, 2)
	assert.Contains(t, resultText(res), `"abc"`)

	var payload struct {
		Warnings []struct {
			Column string `json:"column"`
			Stage  string `json:"stage"`
		} `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content[1].(mcp.TextContent).Text), &payload))
	require.Len(t, payload.Warnings, 1)
	assert.Equal(t, "METRICS.label", payload.Warnings[0].Column)
	assert.Equal(t, "coerce", payload.Warnings[0].Stage)
}
