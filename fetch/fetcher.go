// Package fetch materializes archived geodatabases onto the local
// filesystem: it resolves a version identifier to its object-store
// location, downloads the archive into a per-invocation scratch
// directory and unpacks it there.
//
// Every fetch works in its own uniquely named directory under the
// scratch root, so concurrent fetches never collide even when their
// archives share a basename, and no process-wide state (such as the
// working directory) is touched.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"

	"github.com/hupe1980/geocatalog/archive"
	"github.com/hupe1980/geocatalog/objectstore"
)

// DefaultScratchDir is the scratch root used when none is configured.
const DefaultScratchDir = "temp"

var (
	// ErrVersionNotFound is returned when no catalog row exists for
	// the requested version.
	ErrVersionNotFound = errors.New("version not found in catalog")

	// ErrMalformedLocation is returned when a storage location does
	// not match the scheme://bucket/key pattern.
	ErrMalformedLocation = errors.New("malformed storage location")

	// ErrWorkspace is returned when the scratch workspace cannot be
	// prepared.
	ErrWorkspace = errors.New("scratch workspace error")
)

// locationPattern matches scheme://bucket/key with a non-empty key.
var locationPattern = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://([^/]+)/(.+)$`)

// ParseLocation splits a scheme://bucket/key location into bucket and
// key. Anything that does not match the pattern strictly fails with
// ErrMalformedLocation.
func ParseLocation(location string) (bucket, key string, err error) {
	m := locationPattern.FindStringSubmatch(location)
	if m == nil {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedLocation, location)
	}
	return m[1], m[2], nil
}

// Resolver maps a version identifier to its storage location. The
// catalog index satisfies this.
type Resolver interface {
	LocationForVersion(versionID string) (location string, ok bool)
}

// Result is one fetched geodatabase. GDBPath is the absolute path of
// the unpacked geodatabase; Cleanup removes the invocation's scratch
// directory and everything in it.
type Result struct {
	GDBPath    string
	ScratchDir string
}

// Cleanup removes the scratch directory of this fetch.
func (r *Result) Cleanup() error {
	return os.RemoveAll(r.ScratchDir)
}

// Fetcher downloads and unpacks archived geodatabases.
type Fetcher struct {
	store       objectstore.Store
	resolver    Resolver
	scratchRoot string
	logger      *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithScratchDir sets the scratch root under which per-invocation
// directories are created.
func WithScratchDir(dir string) Option {
	return func(f *Fetcher) {
		if dir != "" {
			f.scratchRoot = dir
		}
	}
}

// WithLogger sets the logger for fetch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Fetcher reading locations from the given resolver and
// bytes from the given object store.
func New(store objectstore.Store, resolver Resolver, optFns ...Option) *Fetcher {
	f := &Fetcher{
		store:       store,
		resolver:    resolver,
		scratchRoot: DefaultScratchDir,
		logger:      slog.New(slog.DiscardHandler),
	}

	for _, fn := range optFns {
		fn(f)
	}

	return f
}

// Fetch resolves versionID to its archive, downloads and unpacks it,
// and returns the local geodatabase path. The caller owns the returned
// Result and must call Cleanup when done with the geodatabase.
func (f *Fetcher) Fetch(ctx context.Context, versionID string) (*Result, error) {
	location, ok := f.resolver.LocationForVersion(versionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, versionID)
	}

	bucket, key, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(f.scratchRoot, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrWorkspace, f.scratchRoot, err)
	}

	// One directory per invocation keeps concurrent fetches apart.
	scratch := filepath.Join(f.scratchRoot, uuid.NewString())
	if err := os.Mkdir(scratch, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrWorkspace, scratch, err)
	}

	archiveName := path.Base(key)
	archivePath := filepath.Join(scratch, archiveName)

	f.logger.Debug("downloading archive",
		"version_id", versionID,
		"bucket", bucket,
		"key", key,
	)

	if err := f.store.Download(ctx, bucket, key, archivePath); err != nil {
		_ = os.RemoveAll(scratch)
		return nil, fmt.Errorf("download %s: %w", location, err)
	}

	if err := archive.Extract(archivePath, scratch); err != nil {
		_ = os.RemoveAll(scratch)
		return nil, fmt.Errorf("extract %s: %w", archiveName, err)
	}

	// The compressed file has served its purpose.
	if err := os.Remove(archivePath); err != nil {
		f.logger.Warn("could not remove archive after extraction",
			"path", archivePath,
			"error", err,
		)
	}

	gdbPath, err := filepath.Abs(filepath.Join(scratch, archive.StripExt(archiveName)))
	if err != nil {
		_ = os.RemoveAll(scratch)
		return nil, fmt.Errorf("%w: resolve %s: %w", ErrWorkspace, scratch, err)
	}

	f.logger.Debug("archive unpacked",
		"version_id", versionID,
		"gdb_path", gdbPath,
	)

	return &Result{GDBPath: gdbPath, ScratchDir: scratch}, nil
}
