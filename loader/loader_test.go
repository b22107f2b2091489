package loader

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dhamidi/javameta/classfile/classfiletest"
)

func classBytes(name, super string) []byte {
	b := classfiletest.New(name, super)
	b.Field(classfiletest.PublicStaticFinal, "ORIGIN", "Ljava/lang/String;", b.ConstantValue(b.String(super)))
	b.Method(classfiletest.AccPublic, "call", "(Ljava/lang/String;)I")
	return b.Bytes()
}

func writeClass(t *testing.T, root, name string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(InternalPath(name)))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write class: %v", err)
	}
}

func writeJar(t *testing.T, path string, classes map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create jar: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, data := range classes {
		w, err := zw.Create(InternalPath(name))
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close jar: %v", err)
	}
}

func realPath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("EvalSymlinks(%s): %v", path, err)
	}
	return resolved
}

type countingOpener struct {
	opens atomic.Int32
}

func (c *countingOpener) Open(path string) (Archive, error) {
	c.opens.Add(1)
	return ZipOpener{}.Open(path)
}

func TestParseClassPath(t *testing.T) {
	root := realPath(t, t.TempDir())
	classes := filepath.Join(root, "classes")
	other := filepath.Join(root, "other")
	for _, d := range []string{classes, other} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	jar := filepath.Join(root, "lib", "api.jar")
	notes := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(notes, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	raw := classes + ":" + jar + ";" + notes + "::" + filepath.Join(root, "missing") + ";" + other + ":" + classes
	cp, err := ParseClassPath(raw)
	if err != nil {
		t.Fatalf("ParseClassPath: %v", err)
	}

	want := ClassPath{
		{Kind: EntryDirectory, Path: classes},
		{Kind: EntryArchive, Path: jar},
		{Kind: EntryDirectory, Path: other},
	}
	if len(cp) != len(want) {
		t.Fatalf("ParseClassPath() = %v, want %v", cp, want)
	}
	for i := range want {
		if cp[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, cp[i], want[i])
		}
	}
}

func TestParseClassPathResolvesSymlinks(t *testing.T) {
	root := realPath(t, t.TempDir())
	target := filepath.Join(root, "target")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(root, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	cp, err := ParseClassPath(link + ":" + target)
	if err != nil {
		t.Fatalf("ParseClassPath: %v", err)
	}
	if len(cp) != 1 || cp[0].Path != target {
		t.Errorf("ParseClassPath() = %v, want [%s]", cp, target)
	}
}

func TestNewClassLoaderEmptyClassPath(t *testing.T) {
	for _, s := range []string{"", "   "} {
		if _, err := NewClassLoader(s); !errors.Is(err, ErrEmptyClassPath) {
			t.Errorf("NewClassLoader(%q) err = %v, want ErrEmptyClassPath", s, err)
		}
	}
}

func TestFindClassInfoFirstEntryWins(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "classes")
	writeClass(t, dir, "x.Y", classBytes("x.Y", "from.Directory"))
	jar := filepath.Join(root, "x.jar")
	writeJar(t, jar, map[string][]byte{"x.Y": classBytes("x.Y", "from.Archive")})

	t.Run("directory first", func(t *testing.T) {
		opener := &countingOpener{}
		l, err := NewClassLoader(dir+":"+jar, WithArchiveOpener(opener))
		if err != nil {
			t.Fatalf("NewClassLoader: %v", err)
		}
		cf, err := l.FindClassInfo("x.Y")
		if err != nil {
			t.Fatalf("FindClassInfo: %v", err)
		}
		if cf == nil {
			t.Fatal("FindClassInfo returned nil")
		}
		if got := cf.SuperClassName(); got != "from.Directory" {
			t.Errorf("SuperClassName() = %q, want from.Directory", got)
		}
		if n := opener.opens.Load(); n != 0 {
			t.Errorf("archive opened %d times, want 0", n)
		}
	})

	t.Run("archive first", func(t *testing.T) {
		l, err := NewClassLoader(jar + ";" + dir)
		if err != nil {
			t.Fatalf("NewClassLoader: %v", err)
		}
		cf, err := l.FindClassInfo("x.Y")
		if err != nil || cf == nil {
			t.Fatalf("FindClassInfo = %v, %v", cf, err)
		}
		if got := cf.SuperClassName(); got != "from.Archive" {
			t.Errorf("SuperClassName() = %q, want from.Archive", got)
		}
	})
}

func TestFindClassInfoSkipsArchiveWithoutEntry(t *testing.T) {
	root := t.TempDir()
	jar := filepath.Join(root, "empty.jar")
	writeJar(t, jar, map[string][]byte{"other.Z": classBytes("other.Z", "java.lang.Object")})
	dir := filepath.Join(root, "classes")
	writeClass(t, dir, "x.Y", classBytes("x.Y", "java.lang.Object"))

	l, err := NewClassLoader(jar + ":" + dir)
	if err != nil {
		t.Fatalf("NewClassLoader: %v", err)
	}
	cf, err := l.FindClassInfo("x.Y")
	if err != nil {
		t.Fatalf("FindClassInfo: %v", err)
	}
	if cf == nil || cf.ClassName() != "x.Y" {
		t.Fatalf("FindClassInfo = %v, want x.Y", cf)
	}
}

func TestFindClassInfoCachesResults(t *testing.T) {
	root := t.TempDir()
	jar := filepath.Join(root, "api.jar")
	writeJar(t, jar, map[string][]byte{"x.Y": classBytes("x.Y", "java.lang.Object")})

	opener := &countingOpener{}
	l, err := NewClassLoader(jar, WithArchiveOpener(opener))
	if err != nil {
		t.Fatalf("NewClassLoader: %v", err)
	}

	t.Run("hit", func(t *testing.T) {
		first, err := l.FindClassInfo("x.Y")
		if err != nil || first == nil {
			t.Fatalf("FindClassInfo = %v, %v", first, err)
		}
		second, _ := l.FindClassInfo("x.Y")
		if first != second {
			t.Error("second lookup returned a different ClassFile")
		}
		if n := opener.opens.Load(); n != 1 {
			t.Errorf("archive opened %d times, want 1", n)
		}
	})

	t.Run("absent", func(t *testing.T) {
		before := opener.opens.Load()
		for i := 0; i < 2; i++ {
			cf, err := l.FindClassInfo("x.Missing")
			if err != nil {
				t.Fatalf("FindClassInfo: %v", err)
			}
			if cf != nil {
				t.Fatalf("FindClassInfo(x.Missing) = %v, want nil", cf)
			}
		}
		if n := opener.opens.Load() - before; n != 1 {
			t.Errorf("classpath probed %d times for an absent class, want 1", n)
		}
	})
}

func TestFindClassInfoPropagatesIOErrors(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "missing.jar")
	l, err := NewClassLoader(missing)
	if err != nil {
		t.Fatalf("NewClassLoader: %v", err)
	}
	for i := 0; i < 2; i++ {
		cf, err := l.FindClassInfo("x.Y")
		if err == nil {
			t.Fatalf("FindClassInfo = %v, nil; want error", cf)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("err = %v, want os.ErrNotExist", err)
		}
	}
	if l.resolver.Len() != 0 {
		t.Errorf("errors were cached: Len() = %d", l.resolver.Len())
	}
}

func TestFindClassInfoPropagatesDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	writeClass(t, dir, "x.Bad", []byte{0, 0, 0, 0, 0, 0, 0, 52})
	l, err := NewClassLoader(dir)
	if err != nil {
		t.Fatalf("NewClassLoader: %v", err)
	}
	_, err = l.FindClassInfo("x.Bad")
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestCreateObjects(t *testing.T) {
	dir := t.TempDir()
	b := classfiletest.New("com.example.Status", "java.lang.Object")
	b.Field(classfiletest.PublicStaticFinal, "OK", "I", b.ConstantValue(b.Integer(200)))
	b.Field(classfiletest.PublicStaticFinal, "LABEL", "Ljava/lang/String;", b.ConstantValue(b.String("status")))
	writeClass(t, dir, "com.example.Status", b.Bytes())

	l, err := NewClassLoader(dir)
	if err != nil {
		t.Fatalf("NewClassLoader: %v", err)
	}

	t.Run("constant object", func(t *testing.T) {
		obj, err := l.CreateConstantObject("com.example.Status")
		if err != nil || obj == nil {
			t.Fatalf("CreateConstantObject = %v, %v", obj, err)
		}
		if v, _ := obj.Get("OK"); v != int32(200) {
			t.Errorf("OK = %v, want 200", v)
		}
		if v, _ := obj.Get("LABEL"); v != "status" {
			t.Errorf("LABEL = %v, want status", v)
		}
	})

	t.Run("declared object", func(t *testing.T) {
		obj, err := l.CreateObject("com.example.Status")
		if err != nil || obj == nil {
			t.Fatalf("CreateObject = %v, %v", obj, err)
		}
		if obj.Len() != 2 {
			t.Errorf("Len() = %d, want 2", obj.Len())
		}
		if v, ok := obj.Get("OK"); !ok || v != nil {
			t.Errorf("OK = %v, %v; want nil, true", v, ok)
		}
	})

	t.Run("absent class", func(t *testing.T) {
		obj, err := l.CreateConstantObject("com.example.Missing")
		if err != nil || obj != nil {
			t.Errorf("CreateConstantObject(missing) = %v, %v; want nil, nil", obj, err)
		}
		obj, err = l.CreateObject("com.example.Missing")
		if err != nil || obj != nil {
			t.Errorf("CreateObject(missing) = %v, %v; want nil, nil", obj, err)
		}
	})

	t.Run("describe", func(t *testing.T) {
		model, err := l.Describe("com.example.Status")
		if err != nil || model == nil {
			t.Fatalf("Describe = %v, %v", model, err)
		}
		if len(model.Fields) != 2 {
			t.Errorf("len(Fields) = %d, want 2", len(model.Fields))
		}
	})
}

type memArchive struct {
	mu      sync.Mutex
	entries map[string][]byte
	reads   int
	closed  bool
}

func (m *memArchive) Read(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	data, ok := m.entries[name]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return data, nil
}

func (m *memArchive) Close() error {
	m.closed = true
	return nil
}

func TestJarLoader(t *testing.T) {
	archive := &memArchive{entries: map[string][]byte{
		"a/b/C.class": classBytes("a.b.C", "java.lang.Object"),
	}}
	l := NewJarLoader(archive)

	cf, err := l.GetClassDef("a.b.C")
	if err != nil || cf == nil {
		t.Fatalf("GetClassDef = %v, %v", cf, err)
	}
	if cf.ClassName() != "a.b.C" {
		t.Errorf("ClassName() = %q", cf.ClassName())
	}
	again, _ := l.GetClassDef("a.b.C")
	if again != cf {
		t.Error("second GetClassDef returned a different ClassFile")
	}

	missing, err := l.GetClassDef("a.b.Missing")
	if err != nil || missing != nil {
		t.Errorf("GetClassDef(missing) = %v, %v; want nil, nil", missing, err)
	}
	l.GetClassDef("a.b.Missing")

	if archive.reads != 2 {
		t.Errorf("archive read %d times, want 2", archive.reads)
	}
	if _, ok := l.resolver.cached("a/b/C.class"); !ok {
		t.Error("cache is not keyed by internal path")
	}

	if err := l.Close(); err != nil || !archive.closed {
		t.Errorf("Close() = %v, closed = %v", err, archive.closed)
	}
}

func TestOpenJarLoader(t *testing.T) {
	jar := filepath.Join(t.TempDir(), "svc.jar")
	writeJar(t, jar, map[string][]byte{"svc.Api": classBytes("svc.Api", "java.lang.Object")})

	l, err := OpenJarLoader(jar)
	if err != nil {
		t.Fatalf("OpenJarLoader: %v", err)
	}
	defer l.Close()

	cf, err := l.GetClassDef("svc.Api")
	if err != nil || cf == nil {
		t.Fatalf("GetClassDef = %v, %v", cf, err)
	}
	if _, err := OpenJarLoader(filepath.Join(t.TempDir(), "nope.jar")); err == nil {
		t.Error("OpenJarLoader on a missing file should fail")
	}
}

type gatedSource struct {
	release chan struct{}
	data    []byte
	reads   atomic.Int32
}

func (g *gatedSource) Read(string) ([]byte, error) {
	g.reads.Add(1)
	<-g.release
	return g.data, nil
}

func (g *gatedSource) String() string { return "gated" }

func TestResolverConcurrentMissesDecodeOnce(t *testing.T) {
	src := &gatedSource{release: make(chan struct{}), data: classBytes("x.Y", "java.lang.Object")}
	r := NewResolver(src)

	const workers = 8
	results := make([]any, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cf, err := r.Resolve("x.Y", "x/Y.class")
			if err != nil {
				t.Errorf("Resolve: %v", err)
			}
			results[i] = cf
		}(i)
	}
	close(src.release)
	wg.Wait()

	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("worker %d got a different ClassFile", i)
		}
	}
	if n := src.reads.Load(); n != 1 {
		t.Errorf("source read %d times, want 1", n)
	}
}

func TestMalformedNamesAreAbsent(t *testing.T) {
	root := t.TempDir()
	jar := filepath.Join(root, "a.jar")
	writeJar(t, jar, map[string][]byte{"x.Y": classBytes("x.Y", "java.lang.Object")})
	dir := filepath.Join(root, "classes")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	names := []string{"x..Y", ".x.Y", "x.Y."}

	t.Run("class loader", func(t *testing.T) {
		l, err := NewClassLoader(jar + ":" + dir)
		if err != nil {
			t.Fatalf("NewClassLoader: %v", err)
		}
		for _, name := range names {
			cf, err := l.FindClassInfo(name)
			if err != nil || cf != nil {
				t.Errorf("FindClassInfo(%q) = %v, %v; want nil, nil", name, cf, err)
			}
		}
	})

	t.Run("jar loader", func(t *testing.T) {
		l, err := OpenJarLoader(jar)
		if err != nil {
			t.Fatalf("OpenJarLoader: %v", err)
		}
		defer l.Close()
		for _, name := range names {
			cf, err := l.GetClassDef(name)
			if err != nil || cf != nil {
				t.Errorf("GetClassDef(%q) = %v, %v; want nil, nil", name, cf, err)
			}
		}
	})
}
