package preview

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeEditor struct {
	byPath map[string]Document
	byID   map[DocumentID]Document
}

func (f *fakeEditor) DocumentByPath(path string) (Document, bool) {
	d, ok := f.byPath[path]
	return d, ok
}

func (f *fakeEditor) DocumentByID(id DocumentID) (Document, bool) {
	d, ok := f.byID[id]
	return d, ok
}

type fakeDoc struct {
	path     string
	lines    []string
	hasLangs bool
}

func (d *fakeDoc) Path() string                     { return d.path }
func (d *fakeDoc) LineCount() int                   { return len(d.lines) }
func (d *fakeDoc) Lines(start, end int) []string    { return d.lines[start:end] }
func (d *fakeDoc) HasLanguageConfig() bool          { return d.hasLangs }
func (d *fakeDoc) VisualOffset(line int) int        { return line }

type fakeOpener struct {
	doc *fakeDoc
	err error
}

func (o *fakeOpener) Open(path string) (Document, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.doc, nil
}

func TestCacheResolveLiveBufferNeverCached(t *testing.T) {
	live := &fakeDoc{path: "a.go", lines: []string{"package a"}}
	editor := &fakeEditor{byPath: map[string]Document{"a.go": live}}
	c := NewCache(editor, &fakeOpener{})

	p := c.Resolve(Path("a.go"))
	if !p.Live || p.Doc != Document(live) {
		t.Fatalf("expected live buffer returned uncached")
	}
	if len(c.entries) != 0 {
		t.Fatalf("expected live buffer not to populate the cache")
	}
}

func TestCacheResolveMissingFileIsNotFound(t *testing.T) {
	editor := &fakeEditor{}
	c := NewCache(editor, &fakeOpener{})

	p := c.Resolve(Path(filepath.Join(t.TempDir(), "does-not-exist")))
	if p.Kind != KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", p.Kind)
	}
	ph, ok := p.Placeholder()
	if !ok || ph != "<File not found>" {
		t.Fatalf("expected not-found placeholder, got %q", ph)
	}
}

func TestCacheResolveBinaryFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bin.dat")
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	c := NewCache(&fakeEditor{}, &fakeOpener{})
	p := c.Resolve(Path(path))
	if p.Kind != KindBinary {
		t.Fatalf("expected KindBinary, got %v", p.Kind)
	}
}

func TestCacheResolveLargeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	data := make([]byte, MaxPreviewFileSize+1)
	for i := range data {
		data[i] = 'a'
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	c := NewCache(&fakeEditor{}, &fakeOpener{})
	p := c.Resolve(Path(path))
	if p.Kind != KindLargeFile {
		t.Fatalf("expected KindLargeFile, got %v", p.Kind)
	}
}

func TestCacheResolveDocumentHitNeverReopens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.go")
	if err := os.WriteFile(path, []byte("package doc\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	opens := 0
	doc := &fakeDoc{path: path, lines: []string{"package doc"}, hasLangs: true}
	opener := &countingOpener{doc: doc, opens: &opens}
	c := NewCache(&fakeEditor{}, opener)

	first := c.Resolve(Path(path))
	second := c.Resolve(Path(path))

	if first.Kind != KindDocument || second.Kind != KindDocument {
		t.Fatalf("expected both resolves to hit the document cache")
	}
	if opens != 1 {
		t.Fatalf("expected exactly one open, got %d", opens)
	}
}

type countingOpener struct {
	doc   *fakeDoc
	opens *int
}

func (o *countingOpener) Open(path string) (Document, error) {
	*o.opens++
	return o.doc, nil
}

func TestCacheResolveMissingLanguageConfigRequestsHighlight(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.go")
	if err := os.WriteFile(path, []byte("package doc\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	doc := &fakeDoc{path: path, lines: []string{"package doc"}, hasLangs: false}
	c := NewCache(&fakeEditor{}, &fakeOpener{doc: doc})

	var requested []string
	c.OnHighlightNeeded = func(p string) { requested = append(requested, p) }

	c.Resolve(Path(path))
	c.Resolve(Path(path))

	if len(requested) != 2 {
		t.Fatalf("expected a highlight request on open and on every hit while unhighlighted, got %d", len(requested))
	}
}

func TestCacheResolveOpenFailureIsNotFound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.go")
	if err := os.WriteFile(path, []byte("package doc\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	c := NewCache(&fakeEditor{}, &fakeOpener{err: errors.New("boom")})
	p := c.Resolve(Path(path))
	if p.Kind != KindNotFound {
		t.Fatalf("expected KindNotFound on open failure, got %v", p.Kind)
	}
}
