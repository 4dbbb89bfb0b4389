package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/gcopen/cheetah/internal/contract"
	"github.com/gcopen/cheetah/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type jsonTable struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// newTestRuntime writes JSON output to a temp file so results can be read back.
func newTestRuntime(t *testing.T) (*Runtime, string) {
	t.Helper()
	outputFile := filepath.Join(t.TempDir(), "out.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: outputFile, Precision: contract.DefaultPrecision}
	return &Runtime{Config: cfg}, outputFile
}

func readOutput(t *testing.T, path string) jsonTable {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out jsonTable
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestExecuteAthletes(t *testing.T) {
	rt, outputFile := newTestRuntime(t)
	client, transport := newTestClient(t)
	expectRoster(transport)
	rt.Client = client

	store := &contract.MockTableStore{}
	store.On("SaveTable", mock.MatchedBy(func(req contract.SaveRequest) bool {
		return req.Resource == ResourceAthletes && req.Table.Len() == 2
	})).Return(int64(1), nil).Once()
	rt.Store = store

	require.NoError(t, ExecuteAthletes(context.Background(), rt))

	out := readOutput(t, outputFile)
	assert.Equal(t, []string{"athlete"}, out.Columns)
	assert.Equal(t, [][]any{{"Alice"}, {"Bob Ray"}}, out.Rows)
	store.AssertExpectations(t)
}

func TestExecuteStoreFailureIsWarning(t *testing.T) {
	rt, outputFile := newTestRuntime(t)
	client, transport := newTestClient(t)
	expectRoster(transport)
	rt.Client = client

	store := &contract.MockTableStore{}
	store.On("SaveTable", mock.Anything).Return(int64(0), errors.New("disk full"))
	rt.Store = store

	require.NoError(t, ExecuteRoster(context.Background(), rt))
	assert.Len(t, readOutput(t, outputFile).Rows, 2)
}

func TestExecuteMeasures(t *testing.T) {
	t.Run("groups when no group given", func(t *testing.T) {
		rt, outputFile := newTestRuntime(t)
		client, transport := newTestClient(t)
		expectRoster(transport)
		transport.On("Get", mock.Anything, testBase+"/Alice/measures", url.Values{}).
			Return(contract.Response{StatusCode: 200, Text: "Body\nHrv\n"}, nil)
		rt.Client = client

		require.NoError(t, ExecuteMeasures(context.Background(), rt, "Alice", "", "", ""))
		out := readOutput(t, outputFile)
		assert.Equal(t, []string{"group"}, out.Columns)
		assert.Equal(t, [][]any{{"Body"}, {"Hrv"}}, out.Rows)
	})

	t.Run("one group", func(t *testing.T) {
		rt, outputFile := newTestRuntime(t)
		client, transport := newTestClient(t)
		expectRoster(transport)
		transport.On("Get", mock.Anything, testBase+"/Alice/measures/Body", url.Values{"since": {"2024/01/01"}}).
			Return(contract.Response{StatusCode: 200, Text: "date,WEIGHTKG\n2024/01/02,70.5\n"}, nil)
		rt.Client = client

		require.NoError(t, ExecuteMeasures(context.Background(), rt, "Alice", "Body", "2024/01/01", ""))
		out := readOutput(t, outputFile)
		assert.Equal(t, [][]any{{"2024/01/02", 70.5}}, out.Rows)
	})
}

func TestExecuteMeanMaxInvalidShape(t *testing.T) {
	rt, _ := newTestRuntime(t)
	client, transport := newTestClient(t)
	rt.Client = client

	err := ExecuteMeanMax(context.Background(), rt, "Alice", MeanMaxQuery{Series: "watts"})
	assert.ErrorIs(t, err, ErrInvalidRequestShape)
	transport.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteActivityRaw(t *testing.T) {
	rt, outputFile := newTestRuntime(t)
	client, transport := newTestClient(t)
	expectRoster(transport)
	transport.On("Get", mock.Anything, testBase+"/Alice/activity/a.json", url.Values{"format": {"json"}}).
		Return(contract.Response{StatusCode: 200, Text: `{"RIDE":{}}`}, nil)
	rt.Client = client
	store := &contract.MockTableStore{}
	rt.Store = store

	require.NoError(t, ExecuteActivity(context.Background(), rt, "Alice", "a.json", schema.JSONFormat))

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Equal(t, `{"RIDE":{}}`, string(data))
	store.AssertNotCalled(t, "SaveTable", mock.Anything)
}

func TestExecuteHealth(t *testing.T) {
	rt, _ := newTestRuntime(t)
	client, transport := newTestClient(t)
	transport.On("Get", mock.Anything, testBase, url.Values(nil)).Return(contract.Response{}, errors.New("connection refused"))
	rt.Client = client

	var buf bytes.Buffer
	err := ExecuteHealth(context.Background(), rt, &buf)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Contains(t, buf.String(), "API Status: "+contract.UnavailableValue)
	assert.Contains(t, buf.String(), "Base URL: "+testBase)
	assert.Contains(t, buf.String(), "connection refused")
}

func TestExecuteLocal(t *testing.T) {
	root := writeExport(t)

	t.Run("no root", func(t *testing.T) {
		rt, _ := newTestRuntime(t)
		assert.ErrorIs(t, ExecuteLocalAthletes(context.Background(), rt), ErrNoOpenDataRoot)
		assert.ErrorIs(t, ExecuteLocalFiles(context.Background(), rt, "abc-123"), ErrNoOpenDataRoot)
		assert.ErrorIs(t, ExecuteLocalSummary(context.Background(), rt, "abc-123", LocalSummaryOptions{}), ErrNoOpenDataRoot)
		assert.ErrorIs(t, ExecuteLocalActivity(context.Background(), rt, "abc-123", "x.csv"), ErrNoOpenDataRoot)
	})

	t.Run("athletes", func(t *testing.T) {
		rt, outputFile := newTestRuntime(t)
		rt.Dataset = NewDataset(root, contract.NewLocalDiscovery())

		require.NoError(t, ExecuteLocalAthletes(context.Background(), rt))
		assert.Equal(t, [][]any{{"abc-123"}, {"def-456"}}, readOutput(t, outputFile).Rows)
	})

	t.Run("files", func(t *testing.T) {
		rt, outputFile := newTestRuntime(t)
		rt.Dataset = NewDataset(root, contract.NewLocalDiscovery())

		require.NoError(t, ExecuteLocalFiles(context.Background(), rt, "abc-123"))
		out := readOutput(t, outputFile)
		assert.Equal(t, []string{FilenameColumn}, out.Columns)
		assert.Len(t, out.Rows, 2)
	})

	t.Run("summary unpack lists", func(t *testing.T) {
		rt, outputFile := newTestRuntime(t)
		rt.Dataset = NewDataset(root, contract.NewLocalDiscovery())

		opts := LocalSummaryOptions{NoFloat: true, UnpackLists: true}
		require.NoError(t, ExecuteLocalSummary(context.Background(), rt, "abc-123", opts))
		out := readOutput(t, outputFile)
		assert.Contains(t, out.Columns, "METRICS.max_heartrate_value")
		assert.NotContains(t, out.Columns, "METRICS.max_heartrate")
	})

	t.Run("summary unknown unpack column", func(t *testing.T) {
		rt, _ := newTestRuntime(t)
		rt.Dataset = NewDataset(root, contract.NewLocalDiscovery())

		err := ExecuteLocalSummary(context.Background(), rt, "abc-123", LocalSummaryOptions{Unpack: []string{"nope"}})
		assert.ErrorIs(t, err, schema.ErrUnknownColumn)
	})

	t.Run("activity", func(t *testing.T) {
		rt, outputFile := newTestRuntime(t)
		rt.Dataset = NewDataset(root, contract.NewLocalDiscovery())

		require.NoError(t, ExecuteLocalActivity(context.Background(), rt, "abc-123", "2018_01_02_07_00_00.csv"))
		out := readOutput(t, outputFile)
		assert.Equal(t, []string{"secs", "power", "hr"}, out.Columns)
		assert.Equal(t, []any{float64(0), float64(200), float64(120)}, out.Rows[0])
	})
}

func TestListTable(t *testing.T) {
	table := ListTable("athlete", nil)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, []string{"athlete"}, table.Columns())
}
