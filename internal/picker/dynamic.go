package picker

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// idleTimeoutMsg fires after the query has been stable for Debounce;
// it is the signal a Dynamic picker waits on before re-querying.
type idleTimeoutMsg struct{ gen uint64 }

// QueryCallback resolves a primary-column query to a fresh option set.
// Errors are swallowed by Dynamic: the picker simply keeps its prior
// options, per the dynamic-source contract.
type QueryCallback[T, D any] func(query string, data D) ([]T, error)

// Dynamic wraps a Picker and re-queries a remote or expensive source
// whenever the primary column's pattern settles, instead of on every
// keystroke — the same debounce shape the underlying editor uses for its
// own idle-triggered completions, applied here to avoid flooding a
// producer like grep or an LSP symbol search.
type Dynamic[T, D any] struct {
	*Picker[T, D]
	query    QueryCallback[T, D]
	debounce time.Duration

	lastDispatched string
	debounceGen    uint64
}

// NewDynamic wraps core with a debounced query callback.
func NewDynamic[T, D any](core *Picker[T, D], debounce time.Duration, query QueryCallback[T, D]) *Dynamic[T, D] {
	return &Dynamic[T, D]{Picker: core, query: query, debounce: debounce}
}

func (d *Dynamic[T, D]) Init() tea.Cmd { return d.Picker.Init() }

func (d *Dynamic[T, D]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case idleTimeoutMsg:
		return d, d.checkIdle(m.gen)
	case dynamicResultMsg[T]:
		if m.query == d.lastDispatched {
			d.SetOptions(m.items)
		}
		return d, nil
	}

	before := d.input.Value()
	model, cmd := d.Picker.Update(msg)
	d.Picker = model.(*Picker[T, D])

	if _, isKey := msg.(tea.KeyMsg); isKey && d.input.Value() != before {
		d.debounceGen++
		gen := d.debounceGen
		debounceCmd := tea.Tick(d.debounce, func(time.Time) tea.Msg { return idleTimeoutMsg{gen: gen} })
		return d, tea.Batch(cmd, debounceCmd)
	}

	return d, cmd
}

// checkIdle is driven by the idle-timeout message's arrival: if the
// query settled (no keystroke advanced the generation since the timer
// was armed) and the primary column's text differs from the last
// dispatched query, it fires query, replacing the picker's options on
// success and leaving them untouched on failure.
func (d *Dynamic[T, D]) checkIdle(gen uint64) tea.Cmd {
	if gen != d.debounceGen {
		return nil
	}

	fields := ParseQuery(d.columns.Names(), d.columns.Primary(), d.input.Value())
	current := fields[d.columns.PrimaryName()]
	if current == d.lastDispatched {
		return nil
	}
	d.lastDispatched = current

	return func() tea.Msg {
		items, err := d.query(current, d.data)
		if err != nil {
			return nil
		}
		return dynamicResultMsg[T]{items: items, query: current}
	}
}

type dynamicResultMsg[T any] struct {
	items []T
	query string
}

func (d *Dynamic[T, D]) View() string { return d.Picker.View() }
