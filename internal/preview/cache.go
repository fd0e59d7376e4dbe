package preview

import (
	"net/http"
	"strings"

	"fuzzypick/internal/readfile"
)

// Bit-exact constants from the preview contract.
const (
	MaxPreviewFileSize = 10 * 1024 * 1024
	SniffWindow        = 1024
)

// Kind discriminates a CachedPreview's variant.
type Kind int

const (
	KindDocument Kind = iota
	KindBinary
	KindLargeFile
	KindNotFound
)

// CachedPreview is a sum type over what a cache lookup can yield. Once
// inserted it is never mutated; a Document entry is upgraded in place
// (its own language-config/highlight state changes), never replaced.
type CachedPreview struct {
	Kind Kind
	Doc  Document // valid iff Kind == KindDocument
}

// Preview is a transient, single-frame view: either a borrowed live
// editor document or a borrowed cached preview. It must not outlive the
// render frame that requested it.
type Preview struct {
	Live bool
	Doc  Document
	Kind Kind
}

// Placeholder returns the user-facing placeholder string for a preview
// that has no renderable document, per the error-handling contract.
func (p Preview) Placeholder() (string, bool) {
	if p.Live || p.Kind == KindDocument {
		return "", false
	}
	switch p.Kind {
	case KindBinary:
		return "<Binary file>", true
	case KindLargeFile:
		return "<File too large to preview>", true
	case KindNotFound:
		return "<File not found>", true
	default:
		return "<Invalid file location>", true
	}
}

// Opener opens a file-backed Document on a cache miss, e.g. reading its
// lines and detecting its language.
type Opener interface {
	Open(path string) (Document, error)
}

// Cache is a path-keyed, never-evicted cache of preview states. Per the
// concurrency model it is exclusively owned by, and mutated only from,
// the picker's UI goroutine — producers and the highlight worker never
// touch it directly.
type Cache struct {
	editor  Editor
	opener  Opener
	scratch []byte

	entries map[string]CachedPreview

	// OnHighlightNeeded is invoked (synchronously, from Resolve) whenever
	// a cached document's language config is missing, or was just
	// opened. The picker wires this to the highlight worker's queue.
	OnHighlightNeeded func(path string)
}

// NewCache creates an empty cache backed by editor (for live buffers)
// and opener (for cache misses).
func NewCache(editor Editor, opener Opener) *Cache {
	return &Cache{
		editor:  editor,
		opener:  opener,
		scratch: make([]byte, SniffWindow),
		entries: make(map[string]CachedPreview),
	}
}

// Resolve implements the preview cache policy: live buffers first,
// then a cache hit or miss by path, classifying misses by content and
// size.
func (c *Cache) Resolve(loc PathOrId) Preview {
	if loc.IsID() {
		if doc, ok := c.editor.DocumentByID(loc.IDValue()); ok {
			return Preview{Live: true, Doc: doc}
		}
		return Preview{Kind: KindNotFound}
	}

	path := loc.PathValue()
	if doc, ok := c.editor.DocumentByPath(path); ok {
		return Preview{Live: true, Doc: doc}
	}

	if cached, ok := c.entries[path]; ok {
		if cached.Kind == KindDocument && !cached.Doc.HasLanguageConfig() {
			c.notifyHighlight(path)
		}
		return Preview{Kind: cached.Kind, Doc: cached.Doc}
	}

	cached := c.load(path)
	c.entries[path] = cached
	return Preview{Kind: cached.Kind, Doc: cached.Doc}
}

func (c *Cache) load(path string) CachedPreview {
	n, size, err := readfile.ReadPrefixInto(path, c.scratch)
	if err != nil {
		return CachedPreview{Kind: KindNotFound}
	}

	binary := isBinaryContent(c.scratch[:n])
	for i := 0; i < n; i++ {
		c.scratch[i] = 0
	}
	if binary {
		return CachedPreview{Kind: KindBinary}
	}
	if size > MaxPreviewFileSize {
		return CachedPreview{Kind: KindLargeFile}
	}

	doc, err := c.opener.Open(path)
	if err != nil {
		return CachedPreview{Kind: KindNotFound}
	}
	c.notifyHighlight(path)
	return CachedPreview{Kind: KindDocument, Doc: doc}
}

func (c *Cache) notifyHighlight(path string) {
	if c.OnHighlightNeeded != nil {
		c.OnHighlightNeeded(path)
	}
}

// isBinaryContent classifies a content-sniff window using the same
// printable/control-byte heuristic net/http uses to guess a response's
// Content-Type — text-ish types (including application/json's lack of a
// "text/" prefix) are not binary.
func isBinaryContent(prefix []byte) bool {
	if len(prefix) == 0 {
		return false
	}
	ct := http.DetectContentType(prefix)
	if strings.HasPrefix(ct, "text/") {
		return false
	}
	switch {
	case strings.HasPrefix(ct, "application/json"),
		strings.HasPrefix(ct, "application/xml"),
		strings.HasPrefix(ct, "application/javascript"):
		return false
	}
	return true
}
