package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/javameta/classfile"
)

var ErrEmptyClassPath = errors.New("java classpath is empty")

type EntryKind int

const (
	EntryDirectory EntryKind = iota
	EntryArchive
)

func (k EntryKind) String() string {
	if k == EntryArchive {
		return "archive"
	}
	return "directory"
}

// Entry is one resolved classpath location.
type Entry struct {
	Kind EntryKind
	Path string
}

func (e Entry) String() string {
	return e.Kind.String() + ":" + e.Path
}

type ClassPath []Entry

func (cp ClassPath) String() string {
	paths := make([]string, len(cp))
	for i, e := range cp {
		paths[i] = e.Path
	}
	return strings.Join(paths, ":")
}

// ParseClassPath splits a classpath on ':' or ';', resolves every element to
// an absolute, symlink-free path and keeps archives (".jar") and existing
// directories. Empty elements are ignored and duplicates keep their first
// position.
func ParseClassPath(s string) (ClassPath, error) {
	var cp ClassPath
	seen := make(map[string]bool)

	for _, p := range strings.Split(strings.ReplaceAll(s, ";", ":"), ":") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve classpath entry %s: %w", p, err)
		}
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
		if seen[abs] {
			continue
		}

		var entry Entry
		switch {
		case strings.HasSuffix(abs, ".jar"):
			entry = Entry{Kind: EntryArchive, Path: abs}
		case isDir(abs):
			entry = Entry{Kind: EntryDirectory, Path: abs}
		default:
			log.Warningf("dropping classpath entry %s: not a directory or .jar", p)
			continue
		}
		seen[abs] = true
		cp = append(cp, entry)
	}
	return cp, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// InternalPath maps a dotted class name to its path inside a directory or
// archive, e.g. "a.b.C" to "a/b/C.class".
func InternalPath(className string) string {
	return classfile.SourceToInternalName(className) + ".class"
}
