// Package archive extracts the compressed containers that geodatabases
// are distributed in.
//
// Zip is the canonical container. Tar streams compressed with zstd or
// lz4 are accepted as well, so catalogs produced by other pipelines can
// be materialized without repackaging. The package only lists and
// extracts entries; it never introspects the archived format.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Kind identifies a supported container format.
type Kind int

const (
	// KindZip is a zip container.
	KindZip Kind = iota
	// KindTarZstd is a zstd-compressed tar stream.
	KindTarZstd
	// KindTarLZ4 is an lz4-compressed tar stream.
	KindTarLZ4
)

// ErrUnsupported is returned for file names without a recognized
// archive extension.
var ErrUnsupported = errors.New("unsupported archive format")

var kindsByExt = []struct {
	ext  string
	kind Kind
}{
	{".zip", KindZip},
	{".tar.zst", KindTarZstd},
	{".tar.lz4", KindTarLZ4},
}

// Detect returns the container kind for a file name.
func Detect(name string) (Kind, bool) {
	lower := strings.ToLower(name)
	for _, e := range kindsByExt {
		if strings.HasSuffix(lower, e.ext) {
			return e.kind, true
		}
	}
	return 0, false
}

// StripExt returns the file name with its archive extension removed,
// e.g. "dem.gdb.zip" -> "dem.gdb". Unrecognized names are returned
// unchanged.
func StripExt(name string) string {
	lower := strings.ToLower(name)
	for _, e := range kindsByExt {
		if strings.HasSuffix(lower, e.ext) {
			return name[:len(name)-len(e.ext)]
		}
	}
	return name
}

// Extract unpacks all entries of the archive into destDir, preserving
// the entry directory structure. Entries escaping destDir are rejected.
func Extract(archivePath, destDir string) error {
	kind, ok := Detect(archivePath)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(archivePath))
	}

	switch kind {
	case KindZip:
		return extractZip(archivePath, destDir)
	case KindTarZstd, KindTarLZ4:
		return extractTar(archivePath, destDir, kind)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(archivePath))
	}
}

// entryPath maps an archive entry name into destDir, rejecting
// absolute names and parent traversal.
func entryPath(destDir, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return filepath.Join(destDir, cleaned), nil
}

func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip %s: %w", filepath.Base(archivePath), err)
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		target, err := entryPath(destDir, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}
		if err := writeEntry(target, rc, f.Mode()); err != nil {
			_ = rc.Close()
			return err
		}
		_ = rc.Close()
	}

	return nil
}

func extractTar(archivePath, destDir string, kind Kind) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", filepath.Base(archivePath), err)
	}
	defer func() { _ = f.Close() }()

	var src io.Reader
	switch kind {
	case KindTarZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("zstd reader: %w", err)
		}
		defer zr.Close()
		src = zr
	case KindTarLZ4:
		src = lz4.NewReader(f)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(archivePath))
	}

	tr := tar.NewReader(src)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}

		target, err := entryPath(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := writeEntry(target, tr, hdr.FileInfo().Mode()); err != nil {
				return err
			}
		}
	}
}

func writeEntry(target string, src io.Reader, mode os.FileMode) error {
	perm := mode.Perm()
	if perm == 0 {
		// Some writers record no mode at all; an unreadable file
		// helps nobody.
		perm = 0o644
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return fmt.Errorf("extract %s: %w", filepath.Base(target), err)
	}
	return out.Close()
}
