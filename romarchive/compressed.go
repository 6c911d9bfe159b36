package romarchive

import (
	"fmt"
	"io"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

// sevenZipWalker walks a 7z directory in file order, same shape as
// zipWalker since bodgit/sevenzip exposes a comparable file-table API.
type sevenZipWalker struct {
	rc *sevenzip.ReadCloser
	i  int
}

func openSevenZipWalker(path string) (archiveWalker, error) {
	rc, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("romarchive: opening 7z %s: %w", path, err)
	}
	return &sevenZipWalker{rc: rc}, nil
}

func (w *sevenZipWalker) next() (archiveEntry, error) {
	for w.i < len(w.rc.File) {
		f := w.rc.File[w.i]
		w.i++
		if f.FileInfo().IsDir() {
			continue
		}
		r, err := f.Open()
		if err != nil {
			return archiveEntry{}, fmt.Errorf("romarchive: opening %s in 7z: %w", f.Name, err)
		}
		return archiveEntry{name: f.Name, r: r}, nil
	}
	return archiveEntry{}, io.EOF
}

func (w *sevenZipWalker) close() error { return w.rc.Close() }

// rarWalker walks a RAR stream. Like tarWalker, rardecode exposes a single
// forward-only reader that advances with each call to Next rather than a
// table that can be opened per-entry.
type rarWalker struct {
	r *rardecode.ReadCloser
}

func openRARWalker(path string) (archiveWalker, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("romarchive: opening rar %s: %w", path, err)
	}
	return &rarWalker{r: r}, nil
}

func (w *rarWalker) next() (archiveEntry, error) {
	for {
		header, err := w.r.Next()
		if err != nil {
			return archiveEntry{}, err
		}
		if header.IsDir {
			continue
		}
		return archiveEntry{name: header.Name, r: w.r}, nil
	}
}

func (w *rarWalker) close() error { return w.r.Close() }
