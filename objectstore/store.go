// Package objectstore provides the download abstraction for the object
// store hosting the zipped geodatabase archives.
//
// Archives are addressed by (bucket, key) pairs parsed out of the
// catalog's scheme://bucket/key locations. Backend implementations live
// in sub-packages named after the backend.
package objectstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when an object does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store downloads single objects to the local filesystem.
type Store interface {
	// Download fetches the object at bucket/key and writes it to the
	// local file path, creating or truncating the file.
	Download(ctx context.Context, bucket, key, path string) error
}
