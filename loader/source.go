package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Source is one place a Resolver can probe for class bytes. Read returns
// ErrEntryNotFound when the location does not hold the path.
type Source interface {
	Read(internalPath string) ([]byte, error)
	String() string
}

type DirSource struct {
	Root string
}

func (d DirSource) Read(internalPath string) ([]byte, error) {
	path := filepath.Join(d.Root, filepath.FromSlash(internalPath))
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, ErrEntryNotFound
	}
	return os.ReadFile(path)
}

func (d DirSource) String() string { return d.Root }

// ArchiveSource opens the archive at Path for every probe and closes it
// afterwards.
type ArchiveSource struct {
	Path   string
	Opener ArchiveOpener
}

func (a ArchiveSource) Read(internalPath string) ([]byte, error) {
	archive, err := a.Opener.Open(a.Path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()
	return archive.Read(internalPath)
}

func (a ArchiveSource) String() string { return a.Path }

// handleSource probes an archive that is already open and owned elsewhere.
type handleSource struct {
	archive Archive
}

func (h handleSource) Read(internalPath string) ([]byte, error) {
	return h.archive.Read(internalPath)
}

func (h handleSource) String() string {
	if s, ok := h.archive.(fmt.Stringer); ok {
		return s.String()
	}
	return "archive"
}

func sourcesFor(cp ClassPath, opener ArchiveOpener) []Source {
	sources := make([]Source, 0, len(cp))
	for _, e := range cp {
		switch e.Kind {
		case EntryDirectory:
			sources = append(sources, DirSource{Root: e.Path})
		case EntryArchive:
			sources = append(sources, ArchiveSource{Path: e.Path, Opener: opener})
		}
	}
	return sources
}
