// Package catalogstore defines the contract for the external key-value
// table holding the catalog.
//
// The catalog table is keyed by (feature-name, s3-versionID) and is
// consumed read-only through a full scan. Backend implementations live
// in sub-packages named after the backend.
package catalogstore

import (
	"context"

	"github.com/hupe1980/geocatalog/model"
)

// Store is a read-only client for the catalog table.
type Store interface {
	// TableName returns the name of the backing table.
	TableName() string

	// ScanAll performs a full table scan, following backend pagination
	// until exhausted, and returns every record exactly once in page
	// order. Backend errors are propagated unmodified; there is no
	// retry layer here.
	ScanAll(ctx context.Context) ([]model.CatalogRecord, error)
}
