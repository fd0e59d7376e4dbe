package picker

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// Direction names which way a relative move or page travels.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// MoveBy moves the cursor n rows in dir, wrapping at both ends. When the
// result set is empty nothing moves and the cursor is reset to 0.
func (p *Picker[T, D]) MoveBy(n int, dir Direction) {
	total := p.m.Snapshot().MatchedCount()
	if total == 0 {
		p.cursor = 0
		return
	}
	n %= total
	if dir == Forward {
		p.cursor = (p.cursor + n) % total
	} else {
		p.cursor = (p.cursor + total - n) % total
	}
}

// PageUp moves back one page (completion_height rows).
func (p *Picker[T, D]) PageUp() { p.MoveBy(p.rowsPerPage(), Backward) }

// PageDown moves forward one page.
func (p *Picker[T, D]) PageDown() { p.MoveBy(p.rowsPerPage(), Forward) }

// ToStart jumps to the first row.
func (p *Picker[T, D]) ToStart() {
	p.cursor = 0
}

// ToEnd jumps to the last row.
func (p *Picker[T, D]) ToEnd() {
	total := p.m.Snapshot().MatchedCount()
	if total == 0 {
		return
	}
	p.cursor = total - 1
}

// clampCursor keeps the cursor within [0, total) after a re-rank may have
// shrunk the matched set out from under it.
func (p *Picker[T, D]) clampCursor(total int) {
	if p.cursor < 0 || total == 0 {
		p.cursor = 0
		return
	}
	if p.cursor >= total {
		p.cursor = total - 1
	}
}

// Init satisfies tea.Model.
func (p *Picker[T, D]) Init() tea.Cmd { return tickCmd() }

// Update satisfies tea.Model, dispatching keys per the navigation table
// and forwarding everything else to the prompt.
func (p *Picker[T, D]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.input.Width = max(16, p.width-4)
		return p, nil

	case tickMsg:
		res := p.m.Tick(TickBudgetMs)
		p.running = res.Running
		if res.Changed {
			p.clampCursor(p.m.Snapshot().MatchedCount())
		}
		if !p.closed {
			return p, tickCmd()
		}
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return p, nil
}

func (p *Picker[T, D]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "shift+tab", "up", "ctrl+p":
		p.MoveBy(1, Backward)
		return p, nil
	case "tab", "down", "ctrl+n":
		p.MoveBy(1, Forward)
		return p, nil
	case "pgup", "ctrl+u":
		p.PageUp()
		return p, nil
	case "pgdown", "ctrl+d":
		p.PageDown()
		return p, nil
	case "home":
		p.ToStart()
		return p, nil
	case "end":
		p.ToEnd()
		return p, nil
	case "esc", "ctrl+c":
		p.close()
		return p, tea.Quit
	case "enter":
		p.activate(Replace)
		p.close()
		return p, tea.Quit
	case "alt+enter":
		p.activate(Load)
		return p, nil
	case "ctrl+s":
		p.activate(HorizontalSplit)
		p.close()
		return p, tea.Quit
	case "ctrl+v":
		p.activate(VerticalSplit)
		p.close()
		return p, tea.Quit
	case "ctrl+t":
		p.TogglePreview()
		return p, nil
	}

	prev := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != prev {
		p.reparse()
	}
	return p, cmd
}

func (p *Picker[T, D]) activate(action SelectAction) {
	item, ok := p.Selection()
	if !ok || p.onSelect == nil {
		return
	}
	p.onSelect(p.data, item, action)
}

// close implements the close policy: a picker that has ingested more
// than the large-picker threshold is discarded outright; otherwise the
// generation is bumped to stop any background producers still pushing
// into it.
func (p *Picker[T, D]) close() {
	if p.closed {
		return
	}
	p.closed = true
	if p.m.Snapshot().TotalCount() <= LargePickerDropThresh {
		p.generation.Add(1)
	}
}

// View satisfies tea.Model.
func (p *Picker[T, D]) View() string {
	return render(p)
}
