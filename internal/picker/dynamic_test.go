package picker

import (
	"errors"
	"testing"
)

func newTestDynamic(t *testing.T, query QueryCallback[testItem, struct{}]) *Dynamic[testItem, struct{}] {
	t.Helper()
	core := New(testColumns(), struct{}{}, nil, nil)
	return NewDynamic(core, 0, query)
}

func TestCheckIdleDispatchesOnChangedPrimaryColumn(t *testing.T) {
	calls := 0
	d := newTestDynamic(t, func(q string, _ struct{}) ([]testItem, error) {
		calls++
		return []testItem{{0, q}}, nil
	})

	d.input.SetValue("abc")
	d.debounceGen++
	cmd := d.checkIdle(d.debounceGen)
	if cmd == nil {
		t.Fatalf("checkIdle returned nil cmd, want a dispatch for a changed query")
	}
	msg := cmd()
	result, ok := msg.(dynamicResultMsg[testItem])
	if !ok {
		t.Fatalf("cmd() returned %T, want dynamicResultMsg[testItem]", msg)
	}
	if result.query != "abc" || len(result.items) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if calls != 1 {
		t.Fatalf("query callback invoked %d times, want 1", calls)
	}
}

func TestCheckIdleSkipsStaleGeneration(t *testing.T) {
	d := newTestDynamic(t, func(q string, _ struct{}) ([]testItem, error) {
		t.Fatalf("query callback should not run for a stale generation")
		return nil, nil
	})

	d.input.SetValue("abc")
	d.debounceGen = 5
	cmd := d.checkIdle(3)
	if cmd != nil {
		t.Fatalf("checkIdle with stale gen returned a cmd, want nil")
	}
}

func TestCheckIdleSkipsUnchangedQuery(t *testing.T) {
	calls := 0
	d := newTestDynamic(t, func(q string, _ struct{}) ([]testItem, error) {
		calls++
		return nil, nil
	})

	d.input.SetValue("abc")
	d.debounceGen++
	_ = d.checkIdle(d.debounceGen)
	if calls != 1 {
		t.Fatalf("first checkIdle call count = %d, want 1", calls)
	}

	d.debounceGen++
	cmd := d.checkIdle(d.debounceGen)
	if cmd != nil {
		t.Fatalf("checkIdle with unchanged primary-column text returned a cmd, want nil")
	}
	if calls != 1 {
		t.Fatalf("call count after unchanged-query checkIdle = %d, want 1 (no redispatch)", calls)
	}
}

func TestUpdateAppliesResultOnlyWhenQueryStillMatchesLastDispatched(t *testing.T) {
	d := newTestDynamic(t, func(q string, _ struct{}) ([]testItem, error) { return nil, nil })
	d.lastDispatched = "abc"

	fresh := dynamicResultMsg[testItem]{items: []testItem{{1, "x"}}, query: "abc"}
	if _, cmd := d.Update(fresh); cmd != nil {
		t.Fatalf("Update(dynamicResultMsg) returned a non-nil cmd")
	}
	if got := d.m.Snapshot().TotalCount(); got != 1 {
		t.Fatalf("TotalCount() after matching result = %d, want 1", got)
	}

	stale := dynamicResultMsg[testItem]{items: []testItem{{2, "y"}, {3, "z"}}, query: "old"}
	d.Update(stale)
	if got := d.m.Snapshot().TotalCount(); got != 1 {
		t.Fatalf("TotalCount() after stale result = %d, want unchanged at 1", got)
	}
}

func TestUpdateIdleTimeoutDelegatesToCheckIdle(t *testing.T) {
	d := newTestDynamic(t, func(q string, _ struct{}) ([]testItem, error) {
		return []testItem{{0, q}}, nil
	})
	d.input.SetValue("needle")
	d.debounceGen = 7

	_, cmd := d.Update(idleTimeoutMsg{gen: 7})
	if cmd == nil {
		t.Fatalf("Update(idleTimeoutMsg) with current generation returned nil cmd")
	}
}

func TestQueryCallbackErrorIsSwallowed(t *testing.T) {
	d := newTestDynamic(t, func(q string, _ struct{}) ([]testItem, error) {
		return nil, errors.New("boom")
	})
	d.input.SetValue("abc")
	d.debounceGen++
	cmd := d.checkIdle(d.debounceGen)
	if cmd == nil {
		t.Fatalf("checkIdle returned nil cmd")
	}
	if msg := cmd(); msg != nil {
		t.Fatalf("cmd() for a failing callback = %v, want nil msg (dropped by Update)", msg)
	}
}
