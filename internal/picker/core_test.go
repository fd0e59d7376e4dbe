package picker

import (
	"testing"
)

type testItem struct {
	id   int
	text string
}

func testColumns() Columns[testItem, struct{}] {
	cols := []Column[testItem, struct{}]{
		{
			Name:   "text",
			Filter: true,
			Format: func(it testItem, _ struct{}) StyledCell { return PlainCell(it.text) },
		},
	}
	return NewColumns(cols, 0)
}

func newTestPicker(items []testItem) *Picker[testItem, struct{}] {
	return New(testColumns(), struct{}{}, items, nil)
}

func settle(p *Picker[testItem, struct{}]) {
	for i := 0; i < 8; i++ {
		if !p.m.Tick(TickBudgetMs).Running {
			break
		}
	}
}

func TestMoveByWrapsForwardAndBackward(t *testing.T) {
	p := newTestPicker([]testItem{{0, "a"}, {1, "b"}, {2, "c"}})
	settle(p)

	if got := p.m.Snapshot().MatchedCount(); got != 3 {
		t.Fatalf("MatchedCount() = %d, want 3", got)
	}

	p.MoveBy(1, Forward)
	p.MoveBy(1, Forward)
	p.MoveBy(1, Forward)
	if p.cursor != 0 {
		t.Fatalf("cursor after three forward moves = %d, want 0 (wrapped)", p.cursor)
	}

	p.MoveBy(1, Backward)
	if p.cursor != 2 {
		t.Fatalf("cursor after one backward move from 0 = %d, want 2 (wrapped)", p.cursor)
	}
}

func TestMoveByNoopOnEmptyResultSet(t *testing.T) {
	p := newTestPicker(nil)
	settle(p)

	p.cursor = 5
	p.MoveBy(3, Forward)
	if p.cursor != 0 {
		t.Fatalf("cursor on empty result set = %d, want 0", p.cursor)
	}
}

func TestToStartAndToEnd(t *testing.T) {
	p := newTestPicker([]testItem{{0, "a"}, {1, "b"}, {2, "c"}})
	settle(p)

	p.ToEnd()
	if p.cursor != 2 {
		t.Fatalf("cursor after ToEnd = %d, want 2", p.cursor)
	}
	p.ToStart()
	if p.cursor != 0 {
		t.Fatalf("cursor after ToStart = %d, want 0", p.cursor)
	}
}

func TestSetOptionsReplacesResultsAndResetsCursor(t *testing.T) {
	p := newTestPicker([]testItem{{0, "a"}, {1, "b"}})
	settle(p)
	p.MoveBy(1, Forward)

	p.SetOptions([]testItem{{9, "z"}})
	settle(p)

	if got := p.m.Snapshot().TotalCount(); got != 1 {
		t.Fatalf("TotalCount() after SetOptions = %d, want 1", got)
	}
	if p.cursor != 0 {
		t.Fatalf("cursor after SetOptions = %d, want 0", p.cursor)
	}
}

func TestSetOptionsShutsDownPriorInjectors(t *testing.T) {
	p := newTestPicker(nil)
	inj := p.Injector()

	p.SetOptions([]testItem{{1, "a"}})

	if err := inj.Push(testItem{2, "b"}); err != ErrInjectorShutdown {
		t.Fatalf("Push on stale injector after SetOptions = %v, want ErrInjectorShutdown", err)
	}
}

func TestClosePolicyDropsLargePickerWithoutBumpingGeneration(t *testing.T) {
	p := newTestPicker(nil)
	inj := p.Injector()
	for i := 0; i < LargePickerDropThresh+1; i++ {
		_ = inj.Push(testItem{id: i})
	}

	before := p.generation.Load()
	p.close()

	if p.generation.Load() != before {
		t.Fatalf("generation changed on large-picker close, want unchanged (discard fast path)")
	}
	if !p.closed {
		t.Fatalf("picker not marked closed")
	}
}

func TestClosePolicyBumpsGenerationForOrdinaryPicker(t *testing.T) {
	p := newTestPicker([]testItem{{0, "a"}})
	before := p.generation.Load()

	p.close()

	if p.generation.Load() == before {
		t.Fatalf("generation unchanged on ordinary-picker close, want bumped")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	p := newTestPicker([]testItem{{0, "a"}})
	p.close()
	gen := p.generation.Load()
	p.close()
	if p.generation.Load() != gen {
		t.Fatalf("second close() bumped generation again")
	}
}

func TestReparseNarrowsResultsAsQueryExtends(t *testing.T) {
	p := newTestPicker([]testItem{{0, "abc"}, {1, "xyz"}})
	settle(p)

	p.input.SetValue("a")
	p.reparse()
	settle(p)

	p.input.SetValue("ab")
	p.reparse()
	settle(p)

	if got := p.m.Snapshot().MatchedCount(); got != 1 {
		t.Fatalf("MatchedCount() after narrowing query = %d, want 1", got)
	}
}

func TestWithLineSeedsPromptAndFilters(t *testing.T) {
	p := New(testColumns(), struct{}{}, []testItem{{0, "alpha"}, {1, "beta"}}, nil).WithLine("alpha")
	settle(p)

	if p.input.Value() != "alpha" {
		t.Fatalf("input value = %q, want %q", p.input.Value(), "alpha")
	}
	if got := p.m.Snapshot().MatchedCount(); got != 1 {
		t.Fatalf("MatchedCount() after WithLine = %d, want 1", got)
	}
}

func TestTogglePreview(t *testing.T) {
	p := newTestPicker(nil)
	if p.previewEnabled {
		t.Fatalf("previewEnabled should start false")
	}
	p.TogglePreview()
	if !p.previewEnabled {
		t.Fatalf("previewEnabled should be true after one toggle")
	}
	p.TogglePreview()
	if p.previewEnabled {
		t.Fatalf("previewEnabled should be false after two toggles")
	}
}
