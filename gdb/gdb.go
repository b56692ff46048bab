// Package gdb defines the contract for the external geodatabase reader.
//
// The reader is an opaque collaborator: it parses the unpacked
// geodatabase container and hands back layers. All operations are
// scoped to an explicit Workspace handle instead of ambient global
// state, so compilation stays reentrant; callers must Close the handle
// on every exit path.
package gdb

import (
	"context"

	"github.com/hupe1980/geocatalog/model"
)

// TableOptions controls how a vector layer is materialized.
type TableOptions struct {
	// NullPlaceholder substitutes null attribute values.
	NullPlaceholder string
	// SkipNulls drops records that cannot be read completely instead
	// of failing the whole table.
	SkipNulls bool
}

// Reader opens geodatabase workspaces.
type Reader interface {
	// OpenWorkspace opens the geodatabase at the given path.
	OpenWorkspace(ctx context.Context, path string) (Workspace, error)
}

// WorkspaceDeleter is an optional interface for readers that hold
// state on a workspace path and must release it before the path is
// removed from disk.
type WorkspaceDeleter interface {
	DeleteWorkspace(ctx context.Context, path string) error
}

// Workspace is a handle to one opened geodatabase. All operations are
// fallible; a failure reading one object says nothing about the
// others.
type Workspace interface {
	// ListRasters returns the names of all raster objects.
	ListRasters(ctx context.Context) ([]string, error)

	// ListFeatureClasses returns the names of all vector objects.
	ListFeatureClasses(ctx context.Context) ([]string, error)

	// ReadRaster materializes a named raster as an in-memory grid.
	ReadRaster(ctx context.Context, name string) (*model.RasterGrid, error)

	// FieldNames returns the ordered field schema of a named vector
	// object.
	FieldNames(ctx context.Context, name string) ([]string, error)

	// ReadTable materializes a named vector object as a structured
	// table using the given field list.
	ReadTable(ctx context.Context, name string, fields []string, opts TableOptions) (*model.FeatureTable, error)

	// Close releases the workspace handle.
	Close() error
}
