package fetch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geocatalog/objectstore"
)

type staticResolver map[string]string

func (r staticResolver) LocationForVersion(versionID string) (string, bool) {
	loc, ok := r[versionID]
	return loc, ok
}

func zipArchive(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseLocation(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		bucket, key, err := ParseLocation("s3://geo-data/dem/dem.gdb.zip")
		assert.NoError(t, err)
		assert.Equal(t, "geo-data", bucket)
		assert.Equal(t, "dem/dem.gdb.zip", key)
	})

	t.Run("Malformed", func(t *testing.T) {
		for _, loc := range []string{
			"",
			"geo-data/dem.gdb.zip",
			"s3://bucket-only",
			"s3://bucket-only/",
			"://missing-scheme/key",
		} {
			_, _, err := ParseLocation(loc)
			assert.ErrorIs(t, err, ErrMalformedLocation, loc)
		}
	})
}

func TestFetch(t *testing.T) {
	store := objectstore.NewMemoryStore()
	store.Put("geo-data", "dem/dem.gdb.zip", zipArchive(t, map[string]string{
		"dem.gdb/gdb": "header",
	}))

	resolver := staticResolver{"v1": "s3://geo-data/dem/dem.gdb.zip"}
	fetcher := New(store, resolver, WithScratchDir(filepath.Join(t.TempDir(), "scratch")))

	res, err := fetcher.Fetch(context.Background(), "v1")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(res.GDBPath))
	assert.Equal(t, "dem.gdb", filepath.Base(res.GDBPath))
	assert.DirExists(t, res.GDBPath)
	assert.FileExists(t, filepath.Join(res.GDBPath, "gdb"))

	// The compressed archive is deleted after extraction.
	assert.NoFileExists(t, filepath.Join(res.ScratchDir, "dem.gdb.zip"))

	require.NoError(t, res.Cleanup())
	assert.NoDirExists(t, res.ScratchDir)
}

func TestFetch_ConcurrentInvocationsIsolated(t *testing.T) {
	store := objectstore.NewMemoryStore()
	store.Put("geo-data", "a/data.gdb.zip", zipArchive(t, map[string]string{"data.gdb/gdb": "a"}))
	store.Put("geo-data", "b/data.gdb.zip", zipArchive(t, map[string]string{"data.gdb/gdb": "b"}))

	resolver := staticResolver{
		"va": "s3://geo-data/a/data.gdb.zip",
		"vb": "s3://geo-data/b/data.gdb.zip",
	}
	fetcher := New(store, resolver, WithScratchDir(filepath.Join(t.TempDir(), "scratch")))

	// Same archive basename, distinct versions: both must survive.
	resA, err := fetcher.Fetch(context.Background(), "va")
	require.NoError(t, err)
	resB, err := fetcher.Fetch(context.Background(), "vb")
	require.NoError(t, err)

	assert.NotEqual(t, resA.ScratchDir, resB.ScratchDir)

	dataA, err := os.ReadFile(filepath.Join(resA.GDBPath, "gdb"))
	require.NoError(t, err)
	dataB, err := os.ReadFile(filepath.Join(resB.GDBPath, "gdb"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(dataA))
	assert.Equal(t, "b", string(dataB))

	require.NoError(t, resA.Cleanup())
	require.NoError(t, resB.Cleanup())
}

func TestFetch_VersionNotFound(t *testing.T) {
	fetcher := New(objectstore.NewMemoryStore(), staticResolver{}, WithScratchDir(t.TempDir()))

	_, err := fetcher.Fetch(context.Background(), "v999")
	assert.ErrorIs(t, err, ErrVersionNotFound)
	assert.ErrorContains(t, err, "v999")
}

func TestFetch_MalformedLocation(t *testing.T) {
	resolver := staticResolver{"v1": "not-a-location"}
	fetcher := New(objectstore.NewMemoryStore(), resolver, WithScratchDir(t.TempDir()))

	_, err := fetcher.Fetch(context.Background(), "v1")
	assert.ErrorIs(t, err, ErrMalformedLocation)
}

func TestFetch_DownloadErrorCleansScratch(t *testing.T) {
	resolver := staticResolver{"v1": "s3://geo-data/missing/missing.gdb.zip"}
	scratchRoot := filepath.Join(t.TempDir(), "scratch")
	fetcher := New(objectstore.NewMemoryStore(), resolver, WithScratchDir(scratchRoot))

	_, err := fetcher.Fetch(context.Background(), "v1")
	assert.ErrorIs(t, err, objectstore.ErrNotFound)

	// No half-finished invocation directories are left behind.
	entries, err := os.ReadDir(scratchRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
