// Package matcher implements the external fuzzy-matching engine consumed
// by the picker: candidate injection, pattern reparsing, incremental
// scoring, and snapshot reads.
package matcher

// CaseMatching controls whether an upper-case rune in the pattern must
// match an upper-case rune in the candidate.
type CaseMatching int

const (
	CaseSmart CaseMatching = iota
	CaseSensitive
	CaseInsensitive
)

// Normalization controls whether combining marks are stripped before
// comparison. Only NormalizeNever is implemented; the option exists so
// callers can name their intent explicitly.
type Normalization int

const (
	NormalizeNever Normalization = iota
	NormalizeSmart
)

// TickResult reports whether a Tick changed the ranked result set and
// whether background scoring work is still outstanding.
type TickResult struct {
	Changed bool
	Running bool
}

// MatchedItem pairs a candidate with its match score.
type MatchedItem[T any] struct {
	Item  T
	Score int32
}

// Snapshot is an immutable view of the matcher's current ranked results.
// It is safe to read from any goroutine; it never changes after return.
type Snapshot[T any] struct {
	items []MatchedItem[T]
	total int
}

// MatchedCount returns the number of items that currently pass the
// pattern.
func (s Snapshot[T]) MatchedCount() int { return len(s.items) }

// TotalCount returns the number of items injected so far, regardless of
// whether they pass the current pattern.
func (s Snapshot[T]) TotalCount() int { return s.total }

// MatchedItems returns the ranked items in [start, end), clamped to the
// available range.
func (s Snapshot[T]) MatchedItems(start, end int) []MatchedItem[T] {
	if start < 0 {
		start = 0
	}
	if end > len(s.items) {
		end = len(s.items)
	}
	if start >= end {
		return nil
	}
	return s.items[start:end]
}

// Get returns the item ranked at idx, if any.
func (s Snapshot[T]) Get(idx int) (T, bool) {
	var zero T
	if idx < 0 || idx >= len(s.items) {
		return zero, false
	}
	return s.items[idx].Item, true
}
