package gdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWorkspace_ReadTable(t *testing.T) {
	ws := NewMemoryWorkspace().
		AddFeatureClass("V1", []string{"OBJECTID", "NAME"}, [][]string{
			{"1", "named"},
			{"2", ""},
		})

	t.Run("NullPlaceholder", func(t *testing.T) {
		table, err := ws.ReadTable(context.Background(), "V1", []string{"OBJECTID", "NAME"}, TableOptions{
			NullPlaceholder: "-",
		})
		require.NoError(t, err)
		require.Len(t, table.Records, 2)
		assert.Equal(t, "-", table.Records[1][1])
	})

	t.Run("SkipNulls", func(t *testing.T) {
		table, err := ws.ReadTable(context.Background(), "V1", []string{"OBJECTID", "NAME"}, TableOptions{
			SkipNulls: true,
		})
		require.NoError(t, err)
		require.Len(t, table.Records, 1)
		assert.Equal(t, "named", table.Records[0][1])
	})
}

func TestMemoryReader_OpenWorkspace(t *testing.T) {
	reader := NewMemoryReader()
	reader.Register("dem.gdb", NewMemoryWorkspace())

	// Lookup is by the path's base name; the scratch prefix is
	// irrelevant.
	ws, err := reader.OpenWorkspace(context.Background(), "/scratch/55e4/dem.gdb")
	require.NoError(t, err)
	assert.NotNil(t, ws)

	_, err = reader.OpenWorkspace(context.Background(), "/scratch/55e4/other.gdb")
	assert.Error(t, err)
}
