package geocatalog

import (
	"github.com/hupe1980/geocatalog/fetch"
)

var (
	// ErrVersionNotFound is returned by RetrieveDataset when no
	// catalog row exists for the requested version.
	ErrVersionNotFound = fetch.ErrVersionNotFound

	// ErrMalformedLocation is returned when a catalog row carries a
	// storage location that does not match scheme://bucket/key.
	ErrMalformedLocation = fetch.ErrMalformedLocation

	// ErrWorkspace is returned when the scratch workspace cannot be
	// prepared.
	ErrWorkspace = fetch.ErrWorkspace
)
