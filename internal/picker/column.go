package picker

import "github.com/charmbracelet/lipgloss"

// StyledCell is a single-line rendered column cell. Text is the plain
// projection the matcher scores against; Spans carries per-range styles
// in byte order over Text. The renderer does not paint Spans: a cell is
// drawn in the theme's text style with only its matched graphemes
// highlighted.
type StyledCell struct {
	Text  string
	Spans []StyleSpan
}

// StyleSpan marks [Start, End) of a StyledCell's Text with a style.
type StyleSpan struct {
	Start, End int
	Style      lipgloss.Style
}

// PlainCell builds an unstyled StyledCell.
func PlainCell(text string) StyledCell { return StyledCell{Text: text} }

// Column declares one displayed, and optionally filtered, projection of
// a candidate. Format renders the cell for a given item and the shared
// editor data; Filter controls whether the matcher sees this column's
// plain-text projection at all — a column with Filter=false is display
// only (e.g. a path column shown but not searched).
type Column[T, D any] struct {
	Name          string
	Format        func(item T, data D) StyledCell
	Filter        bool
	TruncateStart bool // true to elide from the left instead of the right when the cell overflows its width
}

// Columns is a declared column schema shared by a Picker. At least one
// column must have Filter=true.
type Columns[T, D any] struct {
	cols    []Column[T, D]
	primary int

	// Bonus, if set, adds a static ranking offset to an item independent
	// of the query text (e.g. preferring type declarations over local
	// variables). Optional.
	Bonus func(item T, data D) int32
}

// NewColumns validates and wraps a column list; primary must index a
// filtered column.
func NewColumns[T, D any](cols []Column[T, D], primary int) Columns[T, D] {
	filtered := 0
	for _, c := range cols {
		if c.Filter {
			filtered++
		}
	}
	if filtered == 0 {
		panic("picker: column schema must declare at least one filtered column")
	}
	if primary < 0 || primary >= len(cols) || !cols[primary].Filter {
		panic("picker: primary column must index a filtered column")
	}
	return Columns[T, D]{cols: append([]Column[T, D](nil), cols...), primary: primary}
}

func (c Columns[T, D]) Len() int               { return len(c.cols) }
func (c Columns[T, D]) At(i int) Column[T, D]  { return c.cols[i] }
func (c Columns[T, D]) Primary() int           { return c.primary }
func (c Columns[T, D]) PrimaryName() string    { return c.cols[c.primary].Name }

func (c Columns[T, D]) Names() []string {
	out := make([]string, len(c.cols))
	for i, col := range c.cols {
		out[i] = col.Name
	}
	return out
}

// FilteredIndices returns the indices, in schema order, of columns the
// matcher scores against.
func (c Columns[T, D]) FilteredIndices() []int {
	var out []int
	for i, col := range c.cols {
		if col.Filter {
			out = append(out, i)
		}
	}
	return out
}

// IndexOf returns a column's schema index by name.
func (c Columns[T, D]) IndexOf(name string) (int, bool) {
	for i, col := range c.cols {
		if col.Name == name {
			return i, true
		}
	}
	return 0, false
}
