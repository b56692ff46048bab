// Package index builds queryable projections over a catalog scan.
//
// The index is constructed once from a full scan result and is
// read-only afterwards, so it may be shared freely between concurrent
// queries. Version and feature-type lookups are answered from Roaring
// Bitmap posting lists over row positions.
package index

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/geocatalog/model"
)

type metaKey struct {
	featureName string
	versionID   string
}

// Index holds the feature and metadata projections of one catalog scan.
type Index struct {
	features []model.FeatureRow
	metadata []model.MetadataRow

	byVersion map[string]*roaring.Bitmap
	byType    map[model.FeatureType]*roaring.Bitmap
	metaByKey map[metaKey]int
}

// New builds an Index from raw catalog records. Row order follows the
// scan order.
func New(records []model.CatalogRecord) *Index {
	ix := &Index{
		features:  make([]model.FeatureRow, 0, len(records)),
		metadata:  make([]model.MetadataRow, 0, len(records)),
		byVersion: make(map[string]*roaring.Bitmap),
		byType:    make(map[model.FeatureType]*roaring.Bitmap),
		metaByKey: make(map[metaKey]int, len(records)),
	}

	for i, rec := range records {
		ix.features = append(ix.features, model.FeatureRow{
			FeatureName: rec.FeatureName,
			VersionID:   rec.VersionID,
			FeatureType: rec.FeatureType,
			Location:    rec.Location,
		})

		// Only the first metadata block is retained; records in the
		// wild carry a single block and the catalog contract has
		// always exposed just that one.
		var fields []model.FieldDescriptor
		if len(rec.Fields) > 0 {
			fields = rec.Fields[0]
		}
		ix.metadata = append(ix.metadata, model.MetadataRow{
			FeatureName: rec.FeatureName,
			VersionID:   rec.VersionID,
			Fields:      fields,
		})

		key := metaKey{featureName: rec.FeatureName, versionID: rec.VersionID}
		if _, ok := ix.metaByKey[key]; !ok {
			ix.metaByKey[key] = i
		}

		ix.postings(ix.byVersion, rec.VersionID).Add(uint32(i))
		ix.postingsByType(rec.FeatureType).Add(uint32(i))
	}

	return ix
}

func (ix *Index) postings(m map[string]*roaring.Bitmap, key string) *roaring.Bitmap {
	rb, ok := m[key]
	if !ok {
		rb = roaring.New()
		m[key] = rb
	}
	return rb
}

func (ix *Index) postingsByType(ft model.FeatureType) *roaring.Bitmap {
	rb, ok := ix.byType[ft]
	if !ok {
		rb = roaring.New()
		ix.byType[ft] = rb
	}
	return rb
}

// Len returns the number of indexed features.
func (ix *Index) Len() int {
	return len(ix.features)
}

// Features returns all feature rows in scan order. The returned slice
// is a copy and may be mutated by the caller.
func (ix *Index) Features() []model.FeatureRow {
	out := make([]model.FeatureRow, len(ix.features))
	copy(out, ix.features)
	return out
}

// Metadata returns the field descriptors recorded for the given
// feature and version, or nil when the pair is absent. Absence is an
// ordinary outcome, never an error.
func (ix *Index) Metadata(featureName, versionID string) []model.FieldDescriptor {
	i, ok := ix.metaByKey[metaKey{featureName: featureName, versionID: versionID}]
	if !ok {
		return nil
	}
	return ix.metadata[i].Fields
}

// ObjectsByVersionID returns the feature rows stored under the given
// version, keyed by that version. The mapping is empty when no row
// matches; when rows match, the queried version is its only key.
func (ix *Index) ObjectsByVersionID(versionID string) map[string][]model.FeatureRow {
	out := make(map[string][]model.FeatureRow)

	rb, ok := ix.byVersion[versionID]
	if !ok || rb.IsEmpty() {
		return out
	}

	rows := make([]model.FeatureRow, 0, rb.GetCardinality())
	it := rb.Iterator()
	for it.HasNext() {
		rows = append(rows, ix.features[it.Next()])
	}
	out[versionID] = rows

	return out
}

// ObjectsByFeatureType returns the feature rows of the given type,
// keyed by that type, with the same single-key contract as
// ObjectsByVersionID.
func (ix *Index) ObjectsByFeatureType(featureType model.FeatureType) map[model.FeatureType][]model.FeatureRow {
	out := make(map[model.FeatureType][]model.FeatureRow)

	rb, ok := ix.byType[featureType]
	if !ok || rb.IsEmpty() {
		return out
	}

	rows := make([]model.FeatureRow, 0, rb.GetCardinality())
	it := rb.Iterator()
	for it.HasNext() {
		rows = append(rows, ix.features[it.Next()])
	}
	out[featureType] = rows

	return out
}

// LocationForVersion returns the storage location of the first feature
// row recorded under the given version. ok is false when the version
// is unknown to the catalog.
func (ix *Index) LocationForVersion(versionID string) (location string, ok bool) {
	rb, found := ix.byVersion[versionID]
	if !found || rb.IsEmpty() {
		return "", false
	}
	return ix.features[rb.Minimum()].Location, true
}
