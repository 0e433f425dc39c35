// Package storage keeps uploaded client photos as flat files in a single
// directory.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

var (
	// ErrPhotoNotFound is returned when no readable regular file exists under the name.
	ErrPhotoNotFound = errors.New("photo not found")

	// ErrInvalidName is returned for names that are not a single path element.
	ErrInvalidName = errors.New("invalid photo file name")
)

// PhotoStore reads and writes photo files by name.
type PhotoStore interface {
	Write(name string, r io.Reader) (int64, error)
	Open(name string) (*Photo, error)
	Remove(name string) error
	Path(name string) string
}

// Photo is an open photo file. Callers must Close it.
type Photo struct {
	afero.File
	Name        string
	Size        int64
	ContentType string
}

type photoStore struct {
	fs  afero.Fs
	dir string
}

// NewPhotoStore returns a PhotoStore rooted at dir on the OS filesystem,
// creating the directory when missing.
func NewPhotoStore(dir string) (PhotoStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving uploads directory %s: %w", dir, err)
	}
	return NewPhotoStoreFs(afero.NewOsFs(), abs)
}

// NewPhotoStoreFs returns a PhotoStore rooted at dir on fs.
func NewPhotoStoreFs(fs afero.Fs, dir string) (PhotoStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory %s: %w", dir, err)
	}
	return &photoStore{fs: afero.NewBasePathFs(fs, dir), dir: dir}, nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Path returns the location of name inside the uploads directory.
func (s *photoStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Write copies r into a new file. It fails if the name is already taken and
// removes partial files on copy errors.
func (s *photoStore) Write(name string, r io.Reader) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	f, err := s.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", name, err)
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(name)
		return 0, fmt.Errorf("writing %s: %w", name, err)
	}
	return n, nil
}

// Open opens name for reading and sniffs its content type.
func (s *photoStore) Open(name string) (*Photo, error) {
	if err := checkName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPhotoNotFound, err)
	}
	info, err := s.fs.Stat(name)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrPhotoNotFound, name)
	}
	f, err := s.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPhotoNotFound, name, err)
	}

	mtype, err := mimetype.DetectReader(f)
	if err == nil {
		_, err = f.Seek(0, io.SeekStart)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrPhotoNotFound, name, err)
	}

	return &Photo{File: f, Name: name, Size: info.Size(), ContentType: mtype.String()}, nil
}

// Remove deletes name if it is an existing regular file.
func (s *photoStore) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	info, err := s.fs.Stat(name)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrPhotoNotFound, name)
	}
	if err := s.fs.Remove(name); err != nil {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}
