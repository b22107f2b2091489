package loader

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/singleflight"

	"github.com/dhamidi/javameta/classfile"
)

var log = commonlog.GetLogger("javameta.loader")

// Resolver probes its sources in order, decodes the first hit and caches the
// outcome per key. A nil ClassFile is cached for keys no source holds; errors
// are never cached. Concurrent misses on one key share a single decode.
type Resolver struct {
	sources []Source

	mu    sync.Mutex
	cache map[string]*classfile.ClassFile
	group singleflight.Group
}

func NewResolver(sources ...Source) *Resolver {
	return &Resolver{
		sources: sources,
		cache:   make(map[string]*classfile.ClassFile),
	}
}

func (r *Resolver) cached(key string) (*classfile.ClassFile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cf, ok := r.cache[key]
	return cf, ok
}

// Resolve returns the class cached under key, probing for internalPath on a
// miss. It returns nil, nil when no source holds the path.
func (r *Resolver) Resolve(key, internalPath string) (*classfile.ClassFile, error) {
	if cf, ok := r.cached(key); ok {
		log.Debugf("cache hit for %s", key)
		return cf, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		if cf, ok := r.cached(key); ok {
			return cf, nil
		}
		cf, err := r.probe(internalPath)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache[key] = cf
		r.mu.Unlock()
		return cf, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*classfile.ClassFile), nil
}

func (r *Resolver) probe(internalPath string) (*classfile.ClassFile, error) {
	for _, src := range r.sources {
		data, err := src.Read(internalPath)
		if errors.Is(err, ErrEntryNotFound) {
			log.Debugf("%s not in %s", internalPath, src)
			continue
		}
		if err != nil {
			return nil, err
		}

		cf, err := classfile.ParseBytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s from %s: %w", internalPath, src, err)
		}
		log.Debugf("loaded %s from %s", internalPath, src)
		return cf, nil
	}
	log.Debugf("%s not found in %d locations", internalPath, len(r.sources))
	return nil, nil
}

// Len returns the number of cached keys, including absent markers.
func (r *Resolver) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}
