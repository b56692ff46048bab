// Package model defines the shared value types of the catalog:
// raw catalog records as stored in the metadata table, the feature and
// metadata projections served by the index, and the compiled dataset
// shapes produced by dataset materialization.
package model
