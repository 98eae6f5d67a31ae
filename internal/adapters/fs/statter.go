// Package fs provides file system adapters for target metadata and recipe hashing.
package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"syscall"

	"go.trai.ch/mymake/internal/core/domain"
	"go.trai.ch/mymake/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileStatter = (*Statter)(nil)

// Statter reports modification times of target paths relative to its directory.
type Statter struct {
	dir string
}

// NewStatter creates a Statter resolving relative paths against dir.
// An empty dir means the working directory.
func NewStatter(dir string) *Statter {
	if dir == "" {
		dir = "."
	}
	return &Statter{dir: dir}
}

// Stat returns the metadata for path. A missing path is not an error.
func (s *Statter) Stat(path string) (domain.FileInfo, error) {
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(s.dir, path)
	}

	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return domain.FileInfo{}, nil
		}
		return domain.FileInfo{}, zerr.With(zerr.Wrap(domain.ErrStatFailed, err.Error()), "path", path)
	}
	return domain.FileInfo{Exists: true, ModTime: info.ModTime()}, nil
}
