package model

// FeatureType classifies a catalog object by the kind of layer it stores.
type FeatureType string

const (
	// FeatureTypeRaster marks a gridded numeric layer.
	FeatureTypeRaster FeatureType = "Raster Dataset"
	// FeatureTypeVector marks a vector layer with a field schema.
	FeatureTypeVector FeatureType = "Feature Class"
)

// FieldDescriptor describes a single field of a vector layer's schema.
type FieldDescriptor struct {
	Name  string `dynamodbav:"name" json:"name"`
	Type  string `dynamodbav:"type" json:"type"`
	Alias string `dynamodbav:"alias,omitempty" json:"alias,omitempty"`
}

// CatalogRecord is one raw row of the catalog table.
//
// (FeatureName, VersionID) uniquely identifies a record within a scan
// snapshot. Fields holds the metadata schema blocks recorded for the
// feature; most records carry exactly one block.
type CatalogRecord struct {
	FeatureName string              `dynamodbav:"feature-name" json:"feature-name"`
	VersionID   string              `dynamodbav:"s3-versionID" json:"s3-versionID"`
	FeatureType FeatureType         `dynamodbav:"feature-type" json:"feature-type"`
	Location    string              `dynamodbav:"s3-file-gdb-zip-location" json:"s3-file-gdb-zip-location"`
	Fields      [][]FieldDescriptor `dynamodbav:"fields" json:"fields"`
}

// FeatureRow is the feature projection of a CatalogRecord: everything
// needed to locate and classify one archived object.
type FeatureRow struct {
	FeatureName string
	VersionID   string
	FeatureType FeatureType
	Location    string
}

// MetadataRow is the metadata projection of a CatalogRecord.
// Fields is the record's first metadata block only.
type MetadataRow struct {
	FeatureName string
	VersionID   string
	Fields      []FieldDescriptor
}

// Shape is the dimensionality of a compiled layer: rows×cols for a
// raster grid, record-count×field-count for a feature table.
type Shape struct {
	Rows int
	Cols int
}

// RasterGrid is a raster layer materialized as an in-memory array.
// Values is row-major with Rows*Cols entries.
type RasterGrid struct {
	Rows   int
	Cols   int
	Values []float64
}

// Shape returns the grid dimensions.
func (g *RasterGrid) Shape() Shape {
	return Shape{Rows: g.Rows, Cols: g.Cols}
}

// At returns the cell value at (row, col).
func (g *RasterGrid) At(row, col int) float64 {
	return g.Values[row*g.Cols+col]
}

// FeatureTable is a vector layer materialized as a structured table.
// Every record has len(Columns) values, aligned positionally.
type FeatureTable struct {
	Columns []string
	Records [][]string
}

// Shape returns the table dimensions.
func (t *FeatureTable) Shape() Shape {
	return Shape{Rows: len(t.Records), Cols: len(t.Columns)}
}

// CompiledLayer is one materialized layer of a retrieved dataset,
// tagged with the catalog version it was extracted from. Exactly one of
// Raster and Table is set, according to Kind. Columns is empty for
// rasters.
type CompiledLayer struct {
	VersionID string
	Kind      FeatureType
	Shape     Shape
	Columns   []string
	Raster    *RasterGrid
	Table     *FeatureTable
}

// Dataset maps layer names to their compiled representation. It is
// created per retrieval and owned by the caller.
type Dataset map[string]*CompiledLayer
