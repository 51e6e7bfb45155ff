// Package storage keeps uploaded resume files on an afero filesystem, so the
// OS disk in production and an in-memory tree in tests share one code path.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ErrTooLarge is returned when an upload exceeds the configured limit.
var ErrTooLarge = errors.New("file exceeds upload limit")

type Store struct {
	fs  afero.Fs
	dir string
}

// New roots the store at dir, creating it if needed.
func New(fs afero.Fs, dir string) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{fs: fs, dir: dir}, nil
}

func (s *Store) Fs() afero.Fs {
	return s.fs
}

// PathFor returns a fresh path for a user's upload named filename. Every
// call yields a distinct path, so two uploads with the same name never
// share a file. The name is reduced to its base so a crafted filename
// cannot escape the upload dir.
func (s *Store) PathFor(userID uint, filename string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d_%s_%s", userID, uuid.NewString(), SafeName(filename)))
}

// Save writes r to p, refusing to write more than maxBytes. A partially
// written file is removed on failure.
func (s *Store) Save(p string, r io.Reader, maxBytes int64) (int64, error) {
	f, err := s.fs.Create(p)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", p, err)
	}

	n, err := io.Copy(f, io.LimitReader(r, maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = s.fs.Remove(p)
		return 0, err
	}
	return n, nil
}

// Remove deletes p; a file that is already gone is not an error.
func (s *Store) Remove(p string) error {
	err := s.fs.Remove(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SafeName strips directories from an uploaded filename.
func SafeName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

// Ext is the lowercase extension without the dot.
func Ext(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
