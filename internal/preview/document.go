// Package preview resolves candidate locations to renderable previews:
// live editor buffers are borrowed directly, file-backed previews are
// cached and classified as a document, a binary, an oversized file, or
// missing, and a background worker upgrades cached documents with syntax
// highlighting.
package preview

// DocumentID identifies a document already open in the editor's
// registry, independent of its backing path.
type DocumentID string

// PathOrId is resolved to a Preview: either a canonical filesystem path,
// or a document id already known to the editor registry.
type PathOrId struct {
	path string
	id   DocumentID
	isID bool
}

// Path constructs a PathOrId from a canonical filesystem path.
func Path(p string) PathOrId { return PathOrId{path: p} }

// ID constructs a PathOrId from an editor document id.
func ID(id DocumentID) PathOrId { return PathOrId{id: id, isID: true} }

func (p PathOrId) IsID() bool       { return p.isID }
func (p PathOrId) PathValue() string { return p.path }
func (p PathOrId) IDValue() DocumentID { return p.id }

// CacheKey identifies this location for the preview cache; only
// meaningful for path-backed locations, which are the only variant ever
// cached (document-id lookups always go straight to the editor).
func (p PathOrId) CacheKey() string { return p.path }

// LineRange selects a region of a document to center and highlight. It
// is valid iff Start <= End <= the document's line count.
type LineRange struct {
	Start, End int
}

// FileLocation pairs a resolvable location with an optional region of
// interest within it.
type FileLocation struct {
	Where PathOrId
	Range *LineRange
}

// Document is the opaque external collaborator exposing what the
// renderer needs from an open buffer: its path, line count, a text
// slice, whether its language highlighting is in place, and a
// visual-offset helper. It has no syntax highlight iterator; the
// renderer looks highlight spans up in the highlighter by path and line.
type Document interface {
	Path() string
	LineCount() int
	Lines(start, end int) []string
	HasLanguageConfig() bool
	// VisualOffset returns the on-screen row a given line would render
	// at if the viewport started at line 0. The renderer's preview anchor
	// works in plain line numbers and does not call it.
	VisualOffset(line int) int
}

// Editor is the opaque document registry collaborator: lookup of a live
// buffer by path or by id. A picker preview never caches what this
// returns.
type Editor interface {
	DocumentByPath(path string) (Document, bool)
	DocumentByID(id DocumentID) (Document, bool)
}
