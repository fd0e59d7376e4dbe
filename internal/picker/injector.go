package picker

import (
	"errors"
	"sync/atomic"

	"fuzzypick/internal/matcher"
)

// ErrInjectorShutdown is returned by Injector.Push once the picker that
// created it has been closed or restarted; producers should treat it as
// a signal to stop.
var ErrInjectorShutdown = errors.New("picker: injector shutdown")

// Injector is a clone-cheap, thread-safe handle for pushing candidates
// into a Picker's matcher. Safe to call Push from any goroutine; ordering
// of pushes from a single Injector is preserved, but there is no ordering
// guarantee across distinct injectors or concurrent producers.
type Injector[T, D any] struct {
	m       *matcher.Matcher[T]
	columns Columns[T, D]
	data    D

	generation  *atomic.Uint64
	captured    uint64
}

func newInjector[T, D any](m *matcher.Matcher[T], columns Columns[T, D], data D, generation *atomic.Uint64) Injector[T, D] {
	return Injector[T, D]{
		m:          m,
		columns:    columns,
		data:       data,
		generation: generation,
		captured:   generation.Load(),
	}
}

// Push formats item's filtered columns into plain-text matcher rows and
// submits it. It fails with ErrInjectorShutdown if the picker's
// generation has advanced past the value captured when this Injector was
// created (via close, restart, or set_options).
func (inj Injector[T, D]) Push(item T) error {
	if inj.generation.Load() != inj.captured {
		return ErrInjectorShutdown
	}

	filtered := inj.columns.FilteredIndices()
	cols := make([]string, len(filtered))
	for i, ci := range filtered {
		cols[i] = inj.columns.At(ci).Format(item, inj.data).Text
	}

	var bonus int32
	if inj.columns.Bonus != nil {
		bonus = inj.columns.Bonus(item, inj.data)
	}

	inj.m.Inject(item, cols, bonus)
	return nil
}
