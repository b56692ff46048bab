package compile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geocatalog/gdb"
	"github.com/hupe1980/geocatalog/model"
)

func grid(rows, cols int) *model.RasterGrid {
	return &model.RasterGrid{
		Rows:   rows,
		Cols:   cols,
		Values: make([]float64, rows*cols),
	}
}

func TestCompile_RoundTrip(t *testing.T) {
	ws := gdb.NewMemoryWorkspace().
		AddRaster("R1", grid(10, 10)).
		AddFeatureClass("V1", []string{"OBJECTID", "NAME", "CLASS"}, [][]string{
			{"1", "main st", "road"},
			{"2", "oak ave", "road"},
			{"3", "elm dr", "road"},
			{"4", "pine ct", "road"},
			{"5", "birch ln", "road"},
		})

	reader := gdb.NewMemoryReader()
	reader.Register("dem.gdb", ws)

	compiler := New(reader)
	dataset, err := compiler.Compile(context.Background(), "/scratch/abc/dem.gdb", "v1")
	require.NoError(t, err)

	assert.Len(t, dataset, 2)

	r1 := dataset["R1"]
	require.NotNil(t, r1)
	assert.Equal(t, "v1", r1.VersionID)
	assert.Equal(t, model.FeatureTypeRaster, r1.Kind)
	assert.Equal(t, model.Shape{Rows: 10, Cols: 10}, r1.Shape)
	assert.Empty(t, r1.Columns)
	assert.NotNil(t, r1.Raster)

	v1 := dataset["V1"]
	require.NotNil(t, v1)
	assert.Equal(t, model.FeatureTypeVector, v1.Kind)
	assert.Len(t, v1.Columns, 3)
	assert.Equal(t, 5, v1.Shape.Rows)
	assert.NotNil(t, v1.Table)

	// Workspace handle never leaks past compilation.
	assert.True(t, ws.Closed())
}

func TestCompile_SkipsUnreadableObjects(t *testing.T) {
	ws := gdb.NewMemoryWorkspace().
		FailRaster("corrupt", errors.New("read failed")).
		AddFeatureClass("V1", []string{"OBJECTID"}, [][]string{{"1"}})

	reader := gdb.NewMemoryReader()
	reader.Register("dem.gdb", ws)

	dataset, err := New(reader).Compile(context.Background(), "dem.gdb", "v1")
	require.NoError(t, err)

	assert.Len(t, dataset, 1)
	assert.Contains(t, dataset, "V1")
	assert.NotContains(t, dataset, "corrupt")
}

func TestCompile_SkipsUnreadableSchema(t *testing.T) {
	ws := gdb.NewMemoryWorkspace().
		FailFeatureClass("broken", errors.New("describe failed")).
		AddRaster("R1", grid(2, 2))

	reader := gdb.NewMemoryReader()
	reader.Register("dem.gdb", ws)

	dataset, err := New(reader).Compile(context.Background(), "dem.gdb", "v1")
	require.NoError(t, err)

	assert.Len(t, dataset, 1)
	assert.Contains(t, dataset, "R1")
}

func TestCompile_NullHandling(t *testing.T) {
	ws := gdb.NewMemoryWorkspace().
		AddFeatureClass("V1", []string{"OBJECTID", "NAME"}, [][]string{
			{"1", "named"},
			{"2", ""},
		})

	reader := gdb.NewMemoryReader()
	reader.Register("dem.gdb", ws)

	// Default options drop records with nulls.
	dataset, err := New(reader).Compile(context.Background(), "dem.gdb", "v1")
	require.NoError(t, err)
	assert.Equal(t, 1, dataset["V1"].Shape.Rows)
}

func TestCompile_OpenWorkspaceError(t *testing.T) {
	reader := gdb.NewMemoryReader() // nothing registered

	_, err := New(reader).Compile(context.Background(), "missing.gdb", "v1")
	assert.Error(t, err)
}

// dupWorkspace lists the same raster name twice to exercise the
// first-occurrence-wins rule.
type dupWorkspace struct {
	*gdb.MemoryWorkspace
	reads int
}

func (w *dupWorkspace) ListRasters(ctx context.Context) ([]string, error) {
	return []string{"R1", "R1"}, nil
}

func (w *dupWorkspace) ReadRaster(ctx context.Context, name string) (*model.RasterGrid, error) {
	w.reads++
	if w.reads > 1 {
		return grid(9, 9), nil
	}
	return grid(3, 3), nil
}

type dupReader struct {
	ws *dupWorkspace
}

func (r *dupReader) OpenWorkspace(ctx context.Context, path string) (gdb.Workspace, error) {
	return r.ws, nil
}

func TestCompile_FirstOccurrenceWins(t *testing.T) {
	reader := &dupReader{ws: &dupWorkspace{MemoryWorkspace: gdb.NewMemoryWorkspace()}}

	dataset, err := New(reader).Compile(context.Background(), "dup.gdb", "v1")
	require.NoError(t, err)

	require.Contains(t, dataset, "R1")
	assert.Equal(t, model.Shape{Rows: 3, Cols: 3}, dataset["R1"].Shape)
}
