package loader

import (
	"github.com/dhamidi/javameta/classfile"
)

// JarLoader reads classes from one already opened archive. Its cache is keyed
// by the path inside the archive and is not shared with any ClassLoader.
type JarLoader struct {
	archive  Archive
	resolver *Resolver
}

func NewJarLoader(archive Archive) *JarLoader {
	return &JarLoader{
		archive:  archive,
		resolver: NewResolver(handleSource{archive: archive}),
	}
}

func OpenJarLoader(path string) (*JarLoader, error) {
	archive, err := ZipOpener{}.Open(path)
	if err != nil {
		return nil, err
	}
	return NewJarLoader(archive), nil
}

// GetClassDef returns the decoded class, or nil, nil if the archive has no
// entry for it.
func (l *JarLoader) GetClassDef(name string) (*classfile.ClassFile, error) {
	path := InternalPath(name)
	return l.resolver.Resolve(path, path)
}

func (l *JarLoader) Close() error {
	return l.archive.Close()
}
