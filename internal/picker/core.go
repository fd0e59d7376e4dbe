// Package picker implements the interactive fuzzy picker: a query
// mini-language (query.go), a declared column schema (column.go), a
// cancellation-aware candidate injector (injector.go), a ranked core
// driving a bubbletea program (core.go, core_nav.go), a debounced wrapper
// for remote sources (dynamic.go), and the terminal renderer
// (render.go).
package picker

import (
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"

	"fuzzypick/internal/highlighter"
	"fuzzypick/internal/matcher"
	"fuzzypick/internal/preview"
)

// SelectAction names how a selected item should be applied.
type SelectAction int

const (
	Replace SelectAction = iota
	Load
	HorizontalSplit
	VerticalSplit
)

// Constants (bit-exact per the picker contract).
const (
	TickBudgetMs          = 10
	MinPreviewWidth       = 72
	LargePickerDropThresh = 100_000
)

// PreviewFunc resolves the currently selected item to a location to
// preview. It is called on every render frame that needs a preview and
// must be cheap; the picker owns all caching.
type PreviewFunc[T, D any] func(data D, item T) (preview.FileLocation, bool)

// SelectFunc is invoked when an item is activated.
type SelectFunc[T, D any] func(data D, item T, action SelectAction)

// Picker is the generic, ranked, previewable fuzzy picker. It implements
// tea.Model directly so it can be run standalone or embedded by a host
// program's own model.
type Picker[T, D any] struct {
	columns Columns[T, D]
	data    D

	m          *matcher.Matcher[T]
	generation *atomic.Uint64

	input     textinput.Model
	lastQuery map[string]string

	// cursor indexes the matched-row snapshot directly; the viewport
	// offset is re-derived from it on every render, never stored.
	cursor   int
	colWidth []int // per schema column, never shrinks once observed

	width, height int

	previewEnabled bool
	previewFn      PreviewFunc[T, D]
	cache          *preview.Cache
	hl             *highlighter.Highlighter

	onSelect SelectFunc[T, D]

	theme Theme

	running bool
	closed  bool
}

// New creates a picker and synchronously injects options.
func New[T, D any](columns Columns[T, D], data D, options []T, onSelect SelectFunc[T, D]) *Picker[T, D] {
	p := newCore(columns, data, onSelect)
	for _, item := range options {
		_ = newInjector(p.m, columns, data, p.generation).Push(item)
	}
	return p
}

// Stream creates the matcher/injector pair for a streaming candidate
// source without yet attaching a picker, so a producer can start pushing
// before the UI exists.
func Stream[T, D any](columns Columns[T, D], data D) (*matcher.Matcher[T], Injector[T, D], *atomic.Uint64) {
	m := matcher.New[T](len(columns.FilteredIndices()))
	gen := &atomic.Uint64{}
	return m, newInjector(m, columns, data, gen), gen
}

// WithStream adopts a pre-built matcher/injector pair (typically produced
// by Stream and already being fed by a producer goroutine) as a picker.
func WithStream[T, D any](m *matcher.Matcher[T], columns Columns[T, D], data D, generation *atomic.Uint64, onSelect SelectFunc[T, D]) *Picker[T, D] {
	p := newCoreWithMatcher(m, generation, columns, data, onSelect)
	return p
}

func newCore[T, D any](columns Columns[T, D], data D, onSelect SelectFunc[T, D]) *Picker[T, D] {
	m := matcher.New[T](len(columns.FilteredIndices()))
	return newCoreWithMatcher(m, &atomic.Uint64{}, columns, data, onSelect)
}

func newCoreWithMatcher[T, D any](m *matcher.Matcher[T], generation *atomic.Uint64, columns Columns[T, D], data D, onSelect SelectFunc[T, D]) *Picker[T, D] {
	input := textinput.New()
	input.Prompt = "> "
	input.Focus()
	input.CharLimit = 1024

	return &Picker[T, D]{
		columns:    columns,
		data:       data,
		m:          m,
		generation: generation,
		input:      input,
		lastQuery:  map[string]string{},
		onSelect:   onSelect,
		theme:      DefaultTheme,
		running:    true,
	}
}

// WithPreview enables the preview panel, backed by cache for resolving
// and caching file contents, and fn for mapping the selected item to a
// location.
func (p *Picker[T, D]) WithPreview(cache *preview.Cache, fn PreviewFunc[T, D]) *Picker[T, D] {
	p.previewEnabled = true
	p.cache = cache
	p.previewFn = fn
	return p
}

// WithHighlighter attaches the syntax highlighter used to colorize the
// preview pane's source text.
func (p *Picker[T, D]) WithHighlighter(hl *highlighter.Highlighter) *Picker[T, D] {
	p.hl = hl
	return p
}

// WithLine seeds the initial prompt text, triggering an immediate
// reparse against the primary column.
func (p *Picker[T, D]) WithLine(line string) *Picker[T, D] {
	p.input.SetValue(line)
	p.reparse()
	return p
}

// WithTheme overrides the renderer's color palette.
func (p *Picker[T, D]) WithTheme(t Theme) *Picker[T, D] {
	p.theme = t
	return p
}

// SetOptions restarts the matcher, dropping all existing candidates, and
// injects items atomically. It also advances the generation so any
// injector obtained before this call starts reporting ErrInjectorShutdown.
func (p *Picker[T, D]) SetOptions(items []T) {
	p.generation.Add(1)
	p.m.Restart(true)
	inj := newInjector(p.m, p.columns, p.data, p.generation)
	for _, item := range items {
		_ = inj.Push(item)
	}
	p.cursor = 0
}

// Injector clones a new Injector pinned to the picker's current
// generation.
func (p *Picker[T, D]) Injector() Injector[T, D] {
	return newInjector(p.m, p.columns, p.data, p.generation)
}

// TogglePreview flips whether the preview panel is shown.
func (p *Picker[T, D]) TogglePreview() {
	p.previewEnabled = !p.previewEnabled
}

// Selection returns the currently highlighted item, if any.
func (p *Picker[T, D]) Selection() (T, bool) {
	snap := p.m.Snapshot()
	return snap.Get(p.cursor)
}

// reparse runs the query parser over the current prompt text and pushes
// each filtered column's pattern to the matcher, with an append hint set
// whenever the new text for that column extends the previous one.
func (p *Picker[T, D]) reparse() {
	fields := ParseQuery(p.columns.Names(), p.columns.Primary(), p.input.Value())

	for pos, schemaIdx := range p.columns.FilteredIndices() {
		name := p.columns.At(schemaIdx).Name
		text := fields[name]
		prev := p.lastQuery[name]
		appendHint := prev != "" && strings.HasPrefix(text, prev)
		p.m.Reparse(pos, text, matcher.CaseSmart, matcher.NormalizeNever, appendHint)
	}
	p.lastQuery = fields
}

func (p *Picker[T, D]) rowsPerPage() int {
	_, listH, _, _ := p.layout()
	if listH < 1 {
		return 1
	}
	return listH
}

func (p *Picker[T, D]) layout() (listW, listH, previewW, previewH int) {
	chrome := 3 // prompt + separator + one reserved line; no top border is drawn
	contentH := max(p.height-chrome, 1)

	if !p.previewEnabled || p.width < MinPreviewWidth {
		return p.width, contentH, 0, 0
	}

	listW = p.width / 2
	previewW = p.width - listW
	return listW, contentH, previewW, contentH
}
