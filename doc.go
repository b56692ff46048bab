// Package geocatalog maintains an index of geospatial datasets stored
// as zipped geodatabase archives in an object store, with their
// metadata recorded in a key-value catalog table.
//
// A Catalog is built from one full scan of the catalog table and
// answers feature, metadata, version and type queries from that
// snapshot without touching the backend again. Datasets are
// materialized on demand: the archive for a version is downloaded into
// a per-invocation scratch directory, unpacked, and every raster and
// vector layer it contains is compiled into a normalized in-memory
// representation tagged with its catalog version.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := ddbstore.New(dynamodb.NewFromConfig(cfg), "geo-catalog")
//	objects := s3store.NewStore(s3.NewFromConfig(cfg))
//
//	catalog, err := geocatalog.New(ctx, store, objects, reader)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	features := catalog.Features()
//	dataset, err := catalog.RetrieveDataset(ctx, "v42")
//
// The geodatabase reader is an external collaborator implementing
// gdb.Reader; gdb.MemoryReader ships for tests and local wiring.
//
// The catalog does not transform, reproject or analyze the data it
// extracts. It only retrieves, indexes and normalizes it.
package geocatalog
