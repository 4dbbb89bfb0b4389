package tablestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gcopen/cheetah/internal/contract"
	"github.com/gcopen/cheetah/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearStore(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "clear.db")
		store, err := NewTableStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		_, err = store.SaveTable(contract.SaveRequest{Resource: "athletes", Table: sampleTable(t)})
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearStore(schema.SQLiteBackend, dbPath))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file", func(t *testing.T) {
		assert.NoError(t, ClearStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "absent.db")))
	})

	t.Run("sqlite in memory", func(t *testing.T) {
		assert.NoError(t, ClearStore(schema.SQLiteBackend, ":memory:"))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, ClearStore(schema.NoneBackend, ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		err := ClearStore(schema.DatabaseBackend("oracle"), "")
		assert.Error(t, err)
	})
}
