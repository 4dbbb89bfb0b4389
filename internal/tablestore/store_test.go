package tablestore

import (
	"path/filepath"
	"testing"

	"github.com/gcopen/cheetah/internal/contract"
	"github.com/gcopen/cheetah/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *schema.Table {
	t.Helper()
	table := schema.NewTable(2)
	require.NoError(t, table.AddColumn("date", []schema.Value{schema.Text("2024/01/02"), schema.Text("2024/01/03")}))
	require.NoError(t, table.AddColumn("TSS", []schema.Value{schema.Number(55.5), schema.Missing()}))
	require.NoError(t, table.AddColumn("power", []schema.Value{
		schema.Sequence(schema.Number(250), schema.Number(60)),
		schema.Missing(),
	}))
	return table
}

func TestTableStore_NoneBackend(t *testing.T) {
	store, err := NewTableStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	runID, err := store.SaveTable(contract.SaveRequest{Resource: "activities", Table: sampleTable(t)})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)

	cells, err := store.GetAllCells()
	assert.NoError(t, err)
	assert.Nil(t, cells)

	assert.NoError(t, store.Close())
}

func TestTableStore_UnsupportedBackend(t *testing.T) {
	_, err := NewTableStore(schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestTableStore_InvalidMySQLConnection(t *testing.T) {
	_, err := NewTableStore(schema.MySQLBackend, "not a dsn")
	assert.Error(t, err)
}

func TestTableStore_SQLiteSaveAndRead(t *testing.T) {
	store, err := NewTableStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.SaveTable(contract.SaveRequest{Resource: "activities", Athlete: "Alice", Table: sampleTable(t)})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.Equal(t, "activities", runs[0].Resource)
	assert.Equal(t, "Alice", runs[0].Athlete)
	assert.Equal(t, 2, runs[0].RowCount)
	assert.Equal(t, 3, runs[0].ColumnCount)
	assert.False(t, runs[0].CreatedAt.IsZero())

	cells, err := store.GetAllCells()
	require.NoError(t, err)
	require.Len(t, cells, 6)

	first := cells[0]
	assert.Equal(t, 0, first.Row)
	assert.Equal(t, 0, first.ColumnIndex)
	assert.Equal(t, "date", first.Column)
	assert.Equal(t, schema.KindText, first.Kind)
	require.NotNil(t, first.Text)
	assert.Equal(t, "2024/01/02", *first.Text)
	assert.Nil(t, first.Number)

	tss := cells[1]
	assert.Equal(t, "TSS", tss.Column)
	require.NotNil(t, tss.Number)
	assert.InDelta(t, 55.5, *tss.Number, 1e-9)

	power := cells[2]
	assert.Equal(t, schema.KindSequence, power.Kind)
	require.NotNil(t, power.Text)
	assert.Equal(t, "[250,60]", *power.Text)

	missing := cells[4]
	assert.Equal(t, 1, missing.Row)
	assert.Equal(t, "TSS", missing.Column)
	assert.Equal(t, schema.KindMissing, missing.Kind)
	assert.Nil(t, missing.Number)
	assert.Nil(t, missing.Text)
}

func TestTableStore_SQLiteNoAthlete(t *testing.T) {
	store, err := NewTableStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.SaveTable(contract.SaveRequest{Resource: "athletes", Table: schema.NewTable(0)})
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Empty(t, runs[0].Athlete)
	assert.Equal(t, 0, runs[0].RowCount)
}

func TestTableStore_NilTable(t *testing.T) {
	store, err := NewTableStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.SaveTable(contract.SaveRequest{Resource: "zones"})
	assert.Error(t, err)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRuns)
}

func TestTableStore_GetStatus(t *testing.T) {
	store, err := NewTableStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[exportRunsTable])

	var lastID int64
	for range 3 {
		lastID, err = store.SaveTable(contract.SaveRequest{Resource: "activities", Table: sampleTable(t)})
		require.NoError(t, err)
	}

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, 3, status.TotalRuns)
	assert.Equal(t, lastID, status.LastRunID)
	assert.Equal(t, int64(6), status.TotalRows)
	assert.False(t, status.OldestRunTime.After(status.LastRunTime))
	assert.Equal(t, int64(3), status.TableSizes[exportRunsTable])
	assert.Equal(t, int64(18), status.TableSizes[exportCellsTable])
}

func TestTableStore_SQLiteFilePersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "store.db")

	store, err := NewTableStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_, err = store.SaveTable(contract.SaveRequest{Resource: "zones", Athlete: "Bob", Table: sampleTable(t)})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewTableStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	runs, err := reopened.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "zones", runs[0].Resource)
}

func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		name     string
		backend  schema.DatabaseBackend
		expected string
	}{
		{"SQLite", schema.SQLiteBackend, `"cheetah_export_runs"`},
		{"MySQL", schema.MySQLBackend, "`cheetah_export_runs`"},
		{"PostgreSQL", schema.PostgreSQLBackend, `"cheetah_export_runs"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, quoteTableName(exportRunsTable, tt.backend))
		})
	}
}

func TestGetCreateQueries(t *testing.T) {
	tests := []struct {
		name     string
		backend  schema.DatabaseBackend
		contains []string
	}{
		{"SQLite", schema.SQLiteBackend, []string{"AUTOINCREMENT", "REAL", "created_at TEXT"}},
		{"MySQL", schema.MySQLBackend, []string{"AUTO_INCREMENT", "DOUBLE", "DATETIME(6)"}},
		{"PostgreSQL", schema.PostgreSQLBackend, []string{"BIGSERIAL", "DOUBLE PRECISION", "TIMESTAMPTZ"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := getCreateExportRunsQuery(tt.backend) + getCreateExportCellsQuery(tt.backend)
			for _, fragment := range tt.contains {
				assert.Contains(t, query, fragment)
			}
			assert.Contains(t, query, "PRIMARY KEY (run_id, row_index, column_index)")
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := mysqlDSN("user:pass@tcp(localhost:3306)/cheetah", true)
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "multiStatements=true")

	_, err = mysqlDSN("not a dsn", false)
	assert.Error(t, err)
}
