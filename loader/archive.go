package loader

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
)

// ErrEntryNotFound is returned by an Archive or Source that does not contain
// the requested path. Resolvers treat it as "try the next location".
var ErrEntryNotFound = errors.New("entry not found")

// Archive is an opened container of class files.
type Archive interface {
	Read(name string) ([]byte, error)
	Close() error
}

type ArchiveOpener interface {
	Open(path string) (Archive, error)
}

// ZipOpener opens jar files with archive/zip.
type ZipOpener struct{}

func (ZipOpener) Open(path string) (Archive, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	return &zipArchive{path: path, r: r}, nil
}

type zipArchive struct {
	path string
	r    *zip.ReadCloser
}

func (z *zipArchive) Read(name string) ([]byte, error) {
	f, err := z.r.Open(name)
	// Names that are not valid fs paths, such as "x//Y.class", cannot be
	// stored in a jar either.
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open %s in %s: %w", name, z.path, err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.IsDir() {
		return nil, ErrEntryNotFound
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s in %s: %w", name, z.path, err)
	}
	return data, nil
}

func (z *zipArchive) String() string { return z.path }

func (z *zipArchive) Close() error {
	return z.r.Close()
}
