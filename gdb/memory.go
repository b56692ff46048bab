package gdb

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/hupe1980/geocatalog/model"
)

// MemoryReader is an in-memory Reader implementation for testing and
// local wiring. Workspaces are registered by geodatabase name (the base
// name of the path they will be opened under), since the scratch
// directory an archive is unpacked into is not known in advance.
// Thread-safe for concurrent use.
type MemoryReader struct {
	mu         sync.RWMutex
	workspaces map[string]*MemoryWorkspace
}

// NewMemoryReader creates an empty in-memory reader.
func NewMemoryReader() *MemoryReader {
	return &MemoryReader{
		workspaces: make(map[string]*MemoryWorkspace),
	}
}

// Register adds a workspace under the given geodatabase name,
// e.g. "dem.gdb".
func (r *MemoryReader) Register(name string, ws *MemoryWorkspace) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workspaces[name] = ws
}

// OpenWorkspace opens the workspace registered under the path's base
// name.
func (r *MemoryReader) OpenWorkspace(_ context.Context, path string) (Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ws, ok := r.workspaces[filepath.Base(path)]
	if !ok {
		return nil, fmt.Errorf("no workspace registered for %s", filepath.Base(path))
	}
	return ws, nil
}

type memoryRaster struct {
	grid *model.RasterGrid
	err  error
}

type memoryFeatureClass struct {
	fields []string
	rows   [][]string
	err    error
}

// MemoryWorkspace is the in-memory Workspace served by MemoryReader.
// Objects are listed in registration order. Failures can be injected
// per object to exercise skip-on-error paths.
type MemoryWorkspace struct {
	mu           sync.RWMutex
	rasterOrder  []string
	rasters      map[string]memoryRaster
	featureOrder []string
	features     map[string]memoryFeatureClass
	closed       bool
}

// NewMemoryWorkspace creates an empty workspace.
func NewMemoryWorkspace() *MemoryWorkspace {
	return &MemoryWorkspace{
		rasters:  make(map[string]memoryRaster),
		features: make(map[string]memoryFeatureClass),
	}
}

// AddRaster registers a readable raster object.
func (w *MemoryWorkspace) AddRaster(name string, grid *model.RasterGrid) *MemoryWorkspace {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rasterOrder = append(w.rasterOrder, name)
	w.rasters[name] = memoryRaster{grid: grid}
	return w
}

// FailRaster registers a raster object whose read fails with err.
func (w *MemoryWorkspace) FailRaster(name string, err error) *MemoryWorkspace {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rasterOrder = append(w.rasterOrder, name)
	w.rasters[name] = memoryRaster{err: err}
	return w
}

// AddFeatureClass registers a readable vector object.
func (w *MemoryWorkspace) AddFeatureClass(name string, fields []string, rows [][]string) *MemoryWorkspace {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.featureOrder = append(w.featureOrder, name)
	w.features[name] = memoryFeatureClass{fields: fields, rows: rows}
	return w
}

// FailFeatureClass registers a vector object whose read fails with err.
func (w *MemoryWorkspace) FailFeatureClass(name string, err error) *MemoryWorkspace {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.featureOrder = append(w.featureOrder, name)
	w.features[name] = memoryFeatureClass{err: err}
	return w
}

// ListRasters returns the names of all raster objects.
func (w *MemoryWorkspace) ListRasters(_ context.Context) ([]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, len(w.rasterOrder))
	copy(out, w.rasterOrder)
	return out, nil
}

// ListFeatureClasses returns the names of all vector objects.
func (w *MemoryWorkspace) ListFeatureClasses(_ context.Context) ([]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, len(w.featureOrder))
	copy(out, w.featureOrder)
	return out, nil
}

// ReadRaster materializes a named raster.
func (w *MemoryWorkspace) ReadRaster(_ context.Context, name string) (*model.RasterGrid, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	r, ok := w.rasters[name]
	if !ok {
		return nil, fmt.Errorf("raster %s not found", name)
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.grid, nil
}

// FieldNames returns the ordered field schema of a named vector object.
func (w *MemoryWorkspace) FieldNames(_ context.Context, name string) ([]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	fc, ok := w.features[name]
	if !ok {
		return nil, fmt.Errorf("feature class %s not found", name)
	}
	if fc.err != nil {
		return nil, fc.err
	}
	out := make([]string, len(fc.fields))
	copy(out, fc.fields)
	return out, nil
}

// ReadTable materializes a named vector object as a table. Null values
// (empty strings) are replaced with the configured placeholder, or the
// whole record is dropped when SkipNulls is set.
func (w *MemoryWorkspace) ReadTable(_ context.Context, name string, fields []string, opts TableOptions) (*model.FeatureTable, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	fc, ok := w.features[name]
	if !ok {
		return nil, fmt.Errorf("feature class %s not found", name)
	}
	if fc.err != nil {
		return nil, fc.err
	}

	table := &model.FeatureTable{Columns: fields}
	for _, row := range fc.rows {
		out := make([]string, len(row))
		skip := false
		for i, v := range row {
			if v == "" {
				if opts.SkipNulls {
					skip = true
					break
				}
				v = opts.NullPlaceholder
			}
			out[i] = v
		}
		if skip {
			continue
		}
		table.Records = append(table.Records, out)
	}

	return table, nil
}

// Close releases the workspace handle.
func (w *MemoryWorkspace) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (w *MemoryWorkspace) Closed() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.closed
}
