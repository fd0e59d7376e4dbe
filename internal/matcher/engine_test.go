package matcher

import "testing"

func tick(t *testing.T, m *Matcher[string]) Snapshot[string] {
	t.Helper()
	for i := 0; i < 4; i++ {
		res := m.Tick(10)
		if !res.Running {
			break
		}
	}
	return m.Snapshot()
}

func TestMatcherSingleColumnRanksByScore(t *testing.T) {
	m := New[string](1)
	m.Inject("myFunc", []string{"myFunc"}, 0)
	m.Inject("MyFunc", []string{"MyFunc"}, 0)
	m.Reparse(0, "MyF", CaseSmart, NormalizeNever, false)

	snap := tick(t, m)
	if snap.MatchedCount() != 2 {
		t.Fatalf("expected 2 matches, got %d", snap.MatchedCount())
	}
	got, _ := snap.Get(0)
	if got != "MyFunc" {
		t.Fatalf("expected case-matching MyFunc ranked first, got %q", got)
	}
}

func TestMatcherConjunctiveAcrossColumns(t *testing.T) {
	m := New[string](2)
	m.Inject("a", []string{"handler", "path/one.go"}, 0)
	m.Inject("b", []string{"handler", "path/two.go"}, 0)

	m.Reparse(0, "handler", CaseSmart, NormalizeNever, false)
	m.Reparse(1, "two", CaseSmart, NormalizeNever, false)

	snap := tick(t, m)
	if snap.MatchedCount() != 1 {
		t.Fatalf("expected 1 match after narrowing second column, got %d", snap.MatchedCount())
	}
	got, _ := snap.Get(0)
	if got != "b" {
		t.Fatalf("expected item b to survive the second column filter, got %q", got)
	}
}

func TestMatcherAppendHintNarrowsMonotonically(t *testing.T) {
	m := New[string](1)
	for _, s := range []string{"handler", "handle", "handshake", "other"} {
		m.Inject(s, []string{s}, 0)
	}

	m.Reparse(0, "hand", CaseSmart, NormalizeNever, false)
	first := tick(t, m)
	if first.MatchedCount() != 3 {
		t.Fatalf("expected 3 matches for 'hand', got %d", first.MatchedCount())
	}

	m.Reparse(0, "handle", CaseSmart, NormalizeNever, true)
	second := tick(t, m)
	if second.MatchedCount() != 2 {
		t.Fatalf("expected 2 matches for 'handle', got %d", second.MatchedCount())
	}
	for i := 0; i < second.MatchedCount(); i++ {
		item, _ := second.Get(i)
		if item != "handler" && item != "handle" {
			t.Fatalf("unexpected survivor %q after append-narrowed reparse", item)
		}
	}
}

func TestMatcherInjectAfterNarrowScopeIsStillConsidered(t *testing.T) {
	m := New[string](1)
	m.Inject("handler", []string{"handler"}, 0)
	m.Reparse(0, "handle", CaseSmart, NormalizeNever, false)
	tick(t, m)

	m.Inject("handled", []string{"handled"}, 0)
	m.Reparse(0, "handle", CaseSmart, NormalizeNever, true)
	snap := tick(t, m)

	if snap.MatchedCount() != 2 {
		t.Fatalf("expected newly injected candidate to be considered, got %d matches", snap.MatchedCount())
	}
}

func TestMatcherRestartClearsItems(t *testing.T) {
	m := New[string](1)
	m.Inject("a", []string{"a"}, 0)
	m.Restart(true)

	snap := tick(t, m)
	if snap.TotalCount() != 0 || snap.MatchedCount() != 0 {
		t.Fatalf("expected empty matcher after restart, got total=%d matched=%d", snap.TotalCount(), snap.MatchedCount())
	}
}

func TestMatcherEmptyPatternMatchesEverythingUnordered(t *testing.T) {
	m := New[string](1)
	m.Inject("a", []string{"a"}, 0)
	m.Inject("b", []string{"b"}, 0)

	snap := tick(t, m)
	if snap.MatchedCount() != 2 {
		t.Fatalf("expected both items to match an empty pattern, got %d", snap.MatchedCount())
	}
}

func TestMatcherMatchedIndicesReportsRunePositions(t *testing.T) {
	m := New[string](1)
	m.Reparse(0, "ab", CaseSmart, NormalizeNever, false)
	idx := m.MatchedIndices(0, "xaxb")
	if len(idx) != 2 || idx[0] != 1 || idx[1] != 3 {
		t.Fatalf("expected positions [1 3], got %v", idx)
	}
}
