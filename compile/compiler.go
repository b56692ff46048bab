// Package compile walks an unpacked geodatabase and produces the
// normalized, layer-keyed representation of every raster and vector
// object it contains.
//
// The two source kinds are reconciled into one output shape: a raster
// becomes a grid with its dimensions and no columns, a feature class
// becomes a table with its field schema. A single unreadable object is
// skipped with a diagnostic and never aborts compilation of the rest.
package compile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hupe1980/geocatalog/gdb"
	"github.com/hupe1980/geocatalog/model"
)

// DefaultNullPlaceholder substitutes null attribute values in
// materialized tables.
const DefaultNullPlaceholder = "-"

// Compiler materializes geodatabase workspaces into datasets.
type Compiler struct {
	reader    gdb.Reader
	tableOpts gdb.TableOptions
	logger    *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithNullPlaceholder sets the placeholder written for null attribute
// values.
func WithNullPlaceholder(placeholder string) Option {
	return func(c *Compiler) {
		c.tableOpts.NullPlaceholder = placeholder
	}
}

// WithLogger sets the logger for per-object diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Compiler on top of the given geodatabase reader.
func New(reader gdb.Reader, optFns ...Option) *Compiler {
	c := &Compiler{
		reader: reader,
		tableOpts: gdb.TableOptions{
			NullPlaceholder: DefaultNullPlaceholder,
			SkipNulls:       true,
		},
		logger: slog.New(slog.DiscardHandler),
	}

	for _, fn := range optFns {
		fn(c)
	}

	return c
}

// Compile opens the geodatabase at gdbPath and materializes every
// readable layer, tagging each with versionID. The workspace handle is
// closed on all exit paths. Listing failures and the workspace-open
// failure are fatal; per-object read failures are logged and skipped.
// The first occurrence wins when two objects share a name.
func (c *Compiler) Compile(ctx context.Context, gdbPath, versionID string) (model.Dataset, error) {
	ws, err := c.reader.OpenWorkspace(ctx, gdbPath)
	if err != nil {
		return nil, fmt.Errorf("open workspace %s: %w", gdbPath, err)
	}
	defer func() { _ = ws.Close() }()

	dataset := make(model.Dataset)

	rasters, err := ws.ListRasters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rasters: %w", err)
	}

	for _, name := range rasters {
		grid, err := ws.ReadRaster(ctx, name)
		if err != nil {
			c.logger.Warn("raster could not be read",
				"layer", name,
				"version_id", versionID,
				"error", err,
			)
			continue
		}

		if _, ok := dataset[name]; ok {
			continue
		}
		dataset[name] = &model.CompiledLayer{
			VersionID: versionID,
			Kind:      model.FeatureTypeRaster,
			Shape:     grid.Shape(),
			Raster:    grid,
		}
	}

	vectors, err := ws.ListFeatureClasses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feature classes: %w", err)
	}

	for _, name := range vectors {
		fields, err := ws.FieldNames(ctx, name)
		if err != nil {
			c.logger.Warn("feature class schema could not be read",
				"layer", name,
				"version_id", versionID,
				"error", err,
			)
			continue
		}

		table, err := ws.ReadTable(ctx, name, fields, c.tableOpts)
		if err != nil {
			c.logger.Warn("feature class could not be read",
				"layer", name,
				"version_id", versionID,
				"error", err,
			)
			continue
		}

		if _, ok := dataset[name]; ok {
			continue
		}
		dataset[name] = &model.CompiledLayer{
			VersionID: versionID,
			Kind:      model.FeatureTypeVector,
			Shape:     table.Shape(),
			Columns:   fields,
			Table:     table,
		}
	}

	return dataset, nil
}
