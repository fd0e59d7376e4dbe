package matcher

import (
	"runtime"
	"sort"
	"sync"
)

var parallelThreshold = 20_000
var minChunkSize = 4_096

type entry[T any] struct {
	item T
	cols []string
	bonus int32
}

// Matcher scores candidates against a per-column Pattern and exposes a
// ranked, read-only Snapshot. Inject is safe to call concurrently with
// Tick; Reparse, Tick, and Snapshot are intended to be called only from
// the owning goroutine (the picker's render/event loop), matching the
// single-threaded matcher-access contract documented by the picker.
type Matcher[T any] struct {
	mu      sync.Mutex
	pattern *Pattern
	items   []entry[T]

	dirty        bool
	narrowScope  bool // true once Reparse has only ever seen append-hinted edits since the last full rescore
	scannedCount int  // len(items) as of the scope last scored

	lastMatched []MatchedItem[T]
	lastIdx     []int // items[] index backing each lastMatched entry, parallel slice
}

// New creates a Matcher scoring candidates across the given number of
// filtered columns.
func New[T any](columns int) *Matcher[T] {
	return &Matcher[T]{pattern: newPattern(columns)}
}

// Pattern returns the mutable per-column pattern state for this matcher.
func (m *Matcher[T]) Pattern() *Pattern { return m.pattern }

// Inject appends a candidate with its per-column plain-text projections.
// bonus is added to the candidate's score whenever it matches (used for
// domain-specific ranking nudges independent of the query text).
func (m *Matcher[T]) Inject(item T, cols []string, bonus int32) {
	m.mu.Lock()
	m.items = append(m.items, entry[T]{item: item, cols: cols, bonus: bonus})
	m.dirty = true
	m.mu.Unlock()
}

// Restart resets the matcher's pattern-derived state. When clearItems is
// true, all previously injected candidates are dropped as well — this is
// what backs the picker's set_options operation.
func (m *Matcher[T]) Restart(clearItems bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if clearItems {
		m.items = nil
	}
	m.lastMatched = nil
	m.lastIdx = nil
	m.narrowScope = false
	m.scannedCount = 0
	m.dirty = true
}

// Reparse updates one column's pattern text; see Pattern.Reparse for the
// append-hint contract.
func (m *Matcher[T]) Reparse(column int, text string, caseMatching CaseMatching, normalization Normalization, appendHint bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	changed := m.pattern.Reparse(column, text, caseMatching, normalization, appendHint)
	if !changed {
		return
	}
	m.dirty = true
	if !appendHint {
		m.narrowScope = false
	}
}

// Tick advances the matcher's scoring work. budgetMs is accepted for
// interface fidelity with the contract the picker core drives against;
// the engine scores synchronously (chunked across GOMAXPROCS workers for
// large candidate sets, exactly as the underlying scoring pass already
// does) rather than yielding mid-pass, so Running is always false in
// practice.
func (m *Matcher[T]) Tick(budgetMs int) TickResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return TickResult{Changed: false, Running: false}
	}

	var scopeIdx []int
	if m.narrowScope {
		// Columns changed only by append since the last full rescore: any
		// item that failed a column before cannot start matching a
		// strictly longer pattern for that same column, so only the
		// previously-surviving items plus anything injected since need
		// rescoring.
		scopeIdx = append(append([]int(nil), m.lastIdx...), rangeInts(m.scannedCount, len(m.items))...)
	} else {
		scopeIdx = rangeInts(0, len(m.items))
	}

	matched, idx := m.scoreIndices(scopeIdx)

	changed := !sameRanking(m.lastIdx, idx, m.lastMatched, matched)
	m.lastMatched = matched
	m.lastIdx = idx
	m.narrowScope = true
	m.scannedCount = len(m.items)
	m.dirty = false

	return TickResult{Changed: changed, Running: false}
}

// Snapshot returns the matcher's current ranked view.
func (m *Matcher[T]) Snapshot() Snapshot[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot[T]{items: m.lastMatched, total: len(m.items)}
}

// MatchedIndices returns the rune positions within text that the current
// pattern for column matched, for highlight rendering. Positions count
// runes in text, which the renderer must reinterpret as grapheme indices.
func (m *Matcher[T]) MatchedIndices(column int, text string) []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if column < 0 || column >= len(m.pattern.cols) {
		return nil
	}
	return fuzzyPositionsRunes(text, m.pattern.cols[column].lower)
}

func (m *Matcher[T]) scoreIndices(scopeIdx []int) ([]MatchedItem[T], []int) {
	n := len(scopeIdx)
	if n == 0 {
		return nil, nil
	}

	workers := workerCount(n)
	var matched []MatchedItem[T]
	var idx []int
	if workers <= 1 {
		matched, idx = scoreRange(m.pattern, m.items, scopeIdx, 0, n)
	} else {
		type part struct {
			matched []MatchedItem[T]
			idx     []int
		}
		parts := make([]part, workers)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			start := w * n / workers
			end := (w + 1) * n / workers
			wg.Add(1)
			go func(slot, start, end int) {
				defer wg.Done()
				mm, ii := scoreRange(m.pattern, m.items, scopeIdx, start, end)
				parts[slot] = part{matched: mm, idx: ii}
			}(w, start, end)
		}
		wg.Wait()
		for _, p := range parts {
			matched = append(matched, p.matched...)
			idx = append(idx, p.idx...)
		}
	}

	order := make([]int, len(matched))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if matched[ia].Score != matched[ib].Score {
			return matched[ia].Score > matched[ib].Score
		}
		return idx[ia] < idx[ib]
	})

	sortedMatched := make([]MatchedItem[T], len(matched))
	sortedIdx := make([]int, len(idx))
	for i, o := range order {
		sortedMatched[i] = matched[o]
		sortedIdx[i] = idx[o]
	}
	return sortedMatched, sortedIdx
}

func scoreRange[T any](pattern *Pattern, items []entry[T], scopeIdx []int, start, end int) ([]MatchedItem[T], []int) {
	matched := make([]MatchedItem[T], 0, (end-start)/4+1)
	idx := make([]int, 0, (end-start)/4+1)

	for i := start; i < end; i++ {
		realIdx := scopeIdx[i]
		item := items[realIdx]

		score, ok := scoreEntry(pattern, item)
		if !ok {
			continue
		}
		matched = append(matched, MatchedItem[T]{Item: item.item, Score: score})
		idx = append(idx, realIdx)
	}
	return matched, idx
}

func rangeInts(start, end int) []int {
	if end <= start {
		return nil
	}
	out := make([]int, end-start)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// scoreEntry reports whether item passes every non-empty column pattern
// (filtering is conjunctive across columns) and, if so, its combined
// score: the sum of each matched column's fuzzy score plus the item's
// static bonus.
func scoreEntry[T any](pattern *Pattern, item entry[T]) (int32, bool) {
	var total int32
	matchedAny := false

	for c, col := range pattern.cols {
		if len(col.lower) == 0 {
			continue
		}
		if c >= len(item.cols) {
			return 0, false
		}

		s, span, ok := fuzzyScore(item.cols[c], col.raw, col.lower, col.caseSensitive)
		if !ok {
			return 0, false
		}
		if rejectLooseFuzzyMatch(s, span, nonSpaceRuneCount(col.lower)) {
			return 0, false
		}
		total += int32(s)
		matchedAny = true
	}

	if !matchedAny {
		return item.bonus, true
	}
	return total + item.bonus, true
}

// sameRanking reports whether two ticks produced an identical ranked
// sequence, comparing by originating item index and score rather than by
// item value (T need not be comparable).
func sameRanking[T any](prevIdx, nextIdx []int, prev, next []MatchedItem[T]) bool {
	if len(prevIdx) != len(nextIdx) {
		return false
	}
	for i := range prevIdx {
		if prevIdx[i] != nextIdx[i] || prev[i].Score != next[i].Score {
			return false
		}
	}
	return true
}

func workerCount(n int) int {
	if n < parallelThreshold {
		return 1
	}
	workers := runtime.GOMAXPROCS(0)
	if workers < 2 {
		return 1
	}
	maxUseful := n / minChunkSize
	if maxUseful < 2 {
		return 1
	}
	if workers > maxUseful {
		workers = maxUseful
	}
	return workers
}
