package romarchive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// archiveEntry is one listable member of a container format: a name to
// match against the caller's wanted extensions, and a reader positioned at
// its start.
type archiveEntry struct {
	name string
	r    io.Reader
}

// archiveWalker iterates a container's entries in order. next returns
// io.EOF once exhausted. Every walker must be closed by the caller.
type archiveWalker interface {
	next() (archiveEntry, error)
	close() error
}

// extractFirstMatch drains w until it finds an entry whose name matches one
// of extensions, reads it (capped at maxROMSize), and returns it. Every
// archive format shares this walk instead of reimplementing its own
// scan-and-read loop.
func extractFirstMatch(w archiveWalker, extensions []string) ([]byte, string, error) {
	defer w.close()
	for {
		entry, err := w.next()
		if err == io.EOF {
			return nil, "", ErrNoROMFile
		}
		if err != nil {
			return nil, "", err
		}
		if !matchesExtension(entry.name, extensions) {
			continue
		}
		data, err := readCapped(entry.r)
		if err != nil {
			return nil, "", fmt.Errorf("romarchive: reading %s: %w", entry.name, err)
		}
		return data, filepath.Base(entry.name), nil
	}
}

// zipWalker walks a stdlib archive/zip directory in file order.
type zipWalker struct {
	rc *zip.ReadCloser
	i  int
}

func openZipWalker(path string) (archiveWalker, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("romarchive: opening zip %s: %w", path, err)
	}
	return &zipWalker{rc: rc}, nil
}

func (w *zipWalker) next() (archiveEntry, error) {
	for w.i < len(w.rc.File) {
		f := w.rc.File[w.i]
		w.i++
		if f.FileInfo().IsDir() {
			continue
		}
		r, err := f.Open()
		if err != nil {
			return archiveEntry{}, fmt.Errorf("romarchive: opening %s in zip: %w", f.Name, err)
		}
		return archiveEntry{name: f.Name, r: r}, nil
	}
	return archiveEntry{}, io.EOF
}

func (w *zipWalker) close() error { return w.rc.Close() }

// tarWalker walks a tar stream (always gzip-decompressed before reaching
// here). Unlike zipWalker it has no random-access file table: next reads
// forward through a single underlying reader, so the archiveEntry it
// returns aliases that same reader rather than opening a fresh one.
type tarWalker struct {
	f  *os.File
	gz *gzip.Reader
	tr *tar.Reader
}

func openTarGzWalker(path string) (archiveWalker, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("romarchive: opening %s: %w", path, err)
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("romarchive: gzip header of %s: %w", path, err)
	}
	return &tarWalker{f: f, gz: gz, tr: tar.NewReader(gz)}, nil
}

func (w *tarWalker) next() (archiveEntry, error) {
	for {
		header, err := w.tr.Next()
		if err != nil {
			return archiveEntry{}, err
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		return archiveEntry{name: header.Name, r: w.tr}, nil
	}
}

func (w *tarWalker) close() error {
	gzErr := w.gz.Close()
	if fErr := w.f.Close(); fErr != nil && gzErr == nil {
		return fErr
	}
	return gzErr
}

// extractPlainGzip handles a bare .gz member, which (unlike tar.gz) holds
// exactly one unnamed stream rather than a listable table of entries.
func extractPlainGzip(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("romarchive: opening %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("romarchive: gzip header of %s: %w", path, err)
	}
	defer gz.Close()

	data, err := readCapped(gz)
	if err != nil {
		return nil, "", fmt.Errorf("romarchive: decompressing %s: %w", path, err)
	}

	name := filepath.Base(path)
	if ext := filepath.Ext(name); ext == ".gz" || ext == ".tgz" {
		name = name[:len(name)-len(ext)]
	}
	return data, name, nil
}
