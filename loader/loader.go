package loader

import (
	"strings"

	"github.com/dhamidi/javameta/classfile"
	"github.com/dhamidi/javameta/constant"
	"github.com/dhamidi/javameta/java"
	"github.com/dhamidi/javameta/object"
)

type options struct {
	opener ArchiveOpener
}

type Option func(*options)

// WithArchiveOpener replaces the zip based opener used for .jar entries.
func WithArchiveOpener(opener ArchiveOpener) Option {
	return func(o *options) {
		o.opener = opener
	}
}

// ClassLoader finds classes on an ordered classpath and caches them by fully
// qualified name for its whole lifetime.
type ClassLoader struct {
	classPath ClassPath
	resolver  *Resolver
}

func NewClassLoader(classPath string, opts ...Option) (*ClassLoader, error) {
	if strings.TrimSpace(classPath) == "" {
		return nil, ErrEmptyClassPath
	}
	cp, err := ParseClassPath(classPath)
	if err != nil {
		return nil, err
	}
	return NewClassLoaderFromEntries(cp, opts...), nil
}

func NewClassLoaderFromEntries(cp ClassPath, opts ...Option) *ClassLoader {
	o := options{opener: ZipOpener{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &ClassLoader{
		classPath: cp,
		resolver:  NewResolver(sourcesFor(cp, o.opener)...),
	}
}

func (l *ClassLoader) ClassPath() ClassPath {
	return l.classPath
}

// FindClassInfo returns the decoded class, or nil, nil when no classpath
// entry defines it. The first entry that holds the class wins.
func (l *ClassLoader) FindClassInfo(name string) (*classfile.ClassFile, error) {
	return l.resolver.Resolve(name, InternalPath(name))
}

// CreateObject returns an object with every constant field of the class
// assigned nil, or nil if the class cannot be found.
func (l *ClassLoader) CreateObject(name string) (*object.Object, error) {
	cf, err := l.FindClassInfo(name)
	if cf == nil {
		return nil, err
	}
	return constant.Declared(cf), nil
}

// CreateConstantObject is like CreateObject but assigns the literal values.
func (l *ClassLoader) CreateConstantObject(name string) (*object.Object, error) {
	cf, err := l.FindClassInfo(name)
	if cf == nil {
		return nil, err
	}
	return constant.Values(cf), nil
}

// Describe returns the method and field metadata of a class, or nil if the
// class cannot be found.
func (l *ClassLoader) Describe(name string) (*java.ClassModel, error) {
	cf, err := l.FindClassInfo(name)
	if cf == nil {
		return nil, err
	}
	return java.ClassModelFromClassFile(cf)
}
