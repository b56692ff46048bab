package geocatalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/geocatalog/catalogstore"
	"github.com/hupe1980/geocatalog/compile"
	"github.com/hupe1980/geocatalog/fetch"
	"github.com/hupe1980/geocatalog/gdb"
	"github.com/hupe1980/geocatalog/index"
	"github.com/hupe1980/geocatalog/model"
	"github.com/hupe1980/geocatalog/objectstore"
)

// Catalog is the query facade over one catalog snapshot.
//
// Construction performs a single full scan of the catalog table and
// builds the index; all query methods are cheap in-memory operations
// over that snapshot and never re-scan. The index is read-only after
// construction, so a Catalog is safe for concurrent use.
type Catalog struct {
	store    catalogstore.Store
	index    *index.Index
	fetcher  *fetch.Fetcher
	compiler *compile.Compiler
	reader   gdb.Reader
	logger   *Logger

	group singleflight.Group
	sem   *semaphore.Weighted
}

// New scans the catalog table and builds a Catalog over the result.
func New(ctx context.Context, store catalogstore.Store, objects objectstore.Store, reader gdb.Reader, optFns ...Option) (*Catalog, error) {
	o := applyOptions(optFns)
	logger := o.logger.WithTable(store.TableName())

	records, err := store.ScanAll(ctx)
	logger.LogScan(ctx, store.TableName(), len(records), err)
	if err != nil {
		return nil, fmt.Errorf("scan catalog table %s: %w", store.TableName(), err)
	}

	ix := index.New(records)

	c := &Catalog{
		store: store,
		index: ix,
		fetcher: fetch.New(objects, ix,
			fetch.WithScratchDir(o.scratchDir),
			fetch.WithLogger(logger.Logger),
		),
		compiler: compile.New(reader,
			compile.WithNullPlaceholder(o.nullPlaceholder),
			compile.WithLogger(logger.Logger),
		),
		reader: reader,
		logger: logger,
	}

	if o.maxConcurrentRetrievals > 0 {
		c.sem = semaphore.NewWeighted(o.maxConcurrentRetrievals)
	}

	return c, nil
}

// TableName returns the name of the catalog table this Catalog was
// built from.
func (c *Catalog) TableName() string {
	return c.store.TableName()
}

// FeatureCount returns the number of features in the snapshot.
func (c *Catalog) FeatureCount() int {
	return c.index.Len()
}

// Features returns all feature rows of the snapshot.
func (c *Catalog) Features() []model.FeatureRow {
	return c.index.Features()
}

// Metadata returns the field descriptors recorded for the given
// feature and version. A pair absent from the catalog yields an empty
// result, never an error.
func (c *Catalog) Metadata(featureName, versionID string) []model.FieldDescriptor {
	return c.index.Metadata(featureName, versionID)
}

// ObjectsByVersionID returns the feature rows stored under the given
// version, keyed by that version. The mapping is empty when no row
// matches; otherwise the queried version is its only key.
func (c *Catalog) ObjectsByVersionID(versionID string) map[string][]model.FeatureRow {
	return c.index.ObjectsByVersionID(versionID)
}

// ObjectsByFeatureType returns the feature rows of the given type,
// keyed by that type, with the same single-key contract as
// ObjectsByVersionID.
func (c *Catalog) ObjectsByFeatureType(featureType model.FeatureType) map[model.FeatureType][]model.FeatureRow {
	return c.index.ObjectsByFeatureType(featureType)
}

// RetrieveDataset materializes every raster and vector layer archived
// under versionID: it downloads and unpacks the version's archive into
// a per-call scratch directory, compiles all readable layers, and
// removes the scratch directory again on every exit path.
//
// Concurrent calls for the same version are collapsed into one fetch;
// the first caller's context governs the shared work. Calls for
// unknown versions fail fast with ErrVersionNotFound.
func (c *Catalog) RetrieveDataset(ctx context.Context, versionID string) (model.Dataset, error) {
	v, err, shared := c.group.Do(versionID, func() (interface{}, error) {
		return c.retrieveDataset(ctx, versionID)
	})
	if err != nil {
		return nil, err
	}

	dataset := v.(model.Dataset)
	if shared {
		// Every caller owns its Dataset map; callers that joined an
		// in-flight retrieval get their own copy so mutations cannot
		// leak between them. The layers themselves are shared.
		out := make(model.Dataset, len(dataset))
		for name, layer := range dataset {
			out[name] = layer
		}
		return out, nil
	}
	return dataset, nil
}

func (c *Catalog) retrieveDataset(ctx context.Context, versionID string) (dataset model.Dataset, err error) {
	logger := c.logger.WithVersionID(versionID)

	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer c.sem.Release(1)
	}

	res, err := c.fetcher.Fetch(ctx, versionID)
	if err != nil {
		c.logger.LogRetrieve(ctx, versionID, 0, err)
		return nil, err
	}

	defer func() {
		// Readers that hold state on the workspace path release it
		// before the scratch directory goes away.
		if d, ok := c.reader.(gdb.WorkspaceDeleter); ok {
			if derr := d.DeleteWorkspace(ctx, res.GDBPath); derr != nil {
				logger.Warn("workspace delete failed",
					"gdb_path", res.GDBPath,
					"error", derr,
				)
			}
		}
		if cerr := res.Cleanup(); cerr != nil {
			logger.Warn("scratch cleanup failed",
				"scratch_dir", res.ScratchDir,
				"error", cerr,
			)
		}
	}()

	dataset, err = c.compiler.Compile(ctx, res.GDBPath, versionID)
	c.logger.LogRetrieve(ctx, versionID, len(dataset), err)
	if err != nil {
		return nil, err
	}

	return dataset, nil
}

// Dump performs a fresh full scan of the catalog table and returns the
// raw records, bypassing the snapshot built at construction.
func (c *Catalog) Dump(ctx context.Context) ([]model.CatalogRecord, error) {
	records, err := c.store.ScanAll(ctx)
	c.logger.LogScan(ctx, c.store.TableName(), len(records), err)
	if err != nil {
		return nil, err
	}
	return records, nil
}
