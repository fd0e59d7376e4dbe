package preview

import (
	"fmt"
	"sync"

	"fuzzypick/internal/highlighter"
	"fuzzypick/internal/lang"
	"fuzzypick/internal/readfile"
)

// memDocument is a minimal, read-only Document backed by a file's
// normalized lines, loaded once and held in memory.
type memDocument struct {
	path  string
	lines []string
	lang  lang.ID

	hl        *highlighter.Highlighter
	highlit   bool
}

func (d *memDocument) Path() string      { return d.path }
func (d *memDocument) LineCount() int    { return len(d.lines) }
func (d *memDocument) HasLanguageConfig() bool {
	if d.hl == nil || !d.hl.SupportsLanguage(d.lang) {
		return true
	}
	return d.highlit
}

func (d *memDocument) Lines(start, end int) []string {
	if start < 0 {
		start = 0
	}
	if end > len(d.lines) {
		end = len(d.lines)
	}
	if start >= end {
		return nil
	}
	return d.lines[start:end]
}

// VisualOffset is identity for plain line-based documents: no folding
// or wrapping is modeled.
func (d *memDocument) VisualOffset(line int) int { return line }

// markHighlighted records that the highlight worker has processed this
// document at least once, so Cache.Resolve stops re-enqueuing it.
func (d *memDocument) markHighlighted() { d.highlit = true }

// Registry is a minimal, in-memory Editor plus Opener: it has no live
// editor buffers of its own (DocumentByPath/DocumentByID always report
// a miss, routing everything through the preview cache) and opens files
// directly from disk for the cache to hold.
type Registry struct {
	hl *highlighter.Highlighter

	mu     sync.Mutex
	opened map[string]*memDocument
}

// NewRegistry creates a Registry that hands opened documents to hl for
// highlighting.
func NewRegistry(hl *highlighter.Highlighter) *Registry {
	return &Registry{hl: hl, opened: make(map[string]*memDocument)}
}

func (r *Registry) DocumentByPath(path string) (Document, bool) { return nil, false }
func (r *Registry) DocumentByID(id DocumentID) (Document, bool) { return nil, false }

// Open reads path's lines and detects its language, returning a Document
// the preview cache can hold indefinitely.
func (r *Registry) Open(path string) (Document, error) {
	lines, err := readfile.ReadLinesNormalized(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	doc := &memDocument{path: path, lines: lines, lang: lang.Detect(path), hl: r.hl}

	r.mu.Lock()
	r.opened[path] = doc
	r.mu.Unlock()

	return doc, nil
}

// HighlightRequestFunc returns an OnHighlightNeeded callback that looks up
// the opened document for path and queues it on worker. A path the
// registry never opened (such as a live editor buffer) is silently
// ignored.
func (r *Registry) HighlightRequestFunc(worker *Worker) func(path string) {
	return func(path string) {
		r.mu.Lock()
		doc, ok := r.opened[path]
		r.mu.Unlock()
		if !ok {
			return
		}
		worker.Queue(doc)
	}
}
