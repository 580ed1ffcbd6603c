// Package fs provides file-based storage for clip results.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fwojciec/mdclip"
)

// Ensure Writer implements mdclip.ResultWriter at compile time.
var _ mdclip.ResultWriter = (*Writer)(nil)

// maxCopies bounds the search for a free "name (n).md" slot.
const maxCopies = 1000

// Writer saves results as markdown files in a single directory.
// Existing files are never overwritten: a clash gets a numbered copy.
// Content is written to a temporary file and renamed into place, so a
// reader never sees a partially written document.
type Writer struct {
	dir string

	// mu serializes name reservation across concurrent writers.
	mu sync.Mutex
}

// NewWriter creates a new Writer that writes to dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteResult writes the result to disk and returns the path written.
func (w *Writer) WriteResult(ctx context.Context, result *mdclip.Result) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, err := checkName(result.FileName)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", err
	}

	path, err := w.reserve(name)
	if err != nil {
		return "", err
	}

	if err := writeAtomic(path, []byte(result.Markdown)); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// reserve claims the first free path for name by creating an empty
// placeholder with O_EXCL.
func (w *Writer) reserve(name string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; i < maxCopies; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(w.dir, candidate)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", err
		}
		return path, nil
	}
	return "", mdclip.Errorf(mdclip.EINTERNAL, "no free file name for %q", name)
}

// writeAtomic writes data to a temp file next to path and renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".mdclip-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// checkName rejects file names that would escape the output directory.
func checkName(name string) (string, error) {
	if name == "" {
		return "", mdclip.Errorf(mdclip.EINVALID, "file name required")
	}
	if name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", mdclip.Errorf(mdclip.EINVALID, "invalid file name %q: path traversal", name)
	}
	return name, nil
}
