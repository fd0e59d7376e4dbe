package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"fuzzypick/internal/highlighter"
	"fuzzypick/internal/preview"
)

var _ tea.Model = (*Picker[struct{}, struct{}])(nil)

func render[T, D any](p *Picker[T, D]) string {
	if p.width <= 0 || p.height <= 0 {
		return ""
	}

	listW, listH, previewW, _ := p.layout()

	header := p.renderHeader(listW)
	body := p.renderTable(listW, listH)
	list := lipgloss.JoinVertical(lipgloss.Left, header, separator(listW), body)

	if !p.previewEnabled || previewW <= 0 {
		return list
	}
	previewView := p.renderPreview(previewW, p.height)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, previewView)
}

func separator(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(DefaultTheme.Muted)).Render(strings.Repeat("─", width))
}

func (p *Picker[T, D]) renderHeader(width int) string {
	snap := p.m.Snapshot()
	counter := fmt.Sprintf("%d/%d", snap.MatchedCount(), snap.TotalCount())
	if p.running {
		counter = "(running) " + counter
	}

	promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.theme.Text))
	counterStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.theme.Muted))

	prompt := p.input.View()
	pad := width - lipgloss.Width(prompt) - lipgloss.Width(counter)
	if pad < 1 {
		pad = 1
	}
	return promptStyle.Render(prompt) + strings.Repeat(" ", pad) + counterStyle.Render(counter)
}

func (p *Picker[T, D]) renderTable(width, height int) string {
	snap := p.m.Snapshot()
	rows := p.rowsPerPage()
	start := p.cursor - (p.cursor % rows)
	end := min(snap.MatchedCount(), start+rows)

	var lines []string
	if p.columns.Len() > 1 {
		lines = append(lines, p.renderHeaderRow(width))
	}

	for i := start; i < end; i++ {
		item, ok := snap.Get(i)
		if !ok {
			break
		}
		lines = append(lines, p.renderRow(item, i == p.cursor, width))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (p *Picker[T, D]) renderHeaderRow(width int) string {
	names := p.columns.Names()
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(p.theme.Header)).Bold(true)
	return style.Render(padRight(strings.Join(names, "  "), width))
}

func (p *Picker[T, D]) renderRow(item T, selected bool, width int) string {
	marker := "   "
	if selected {
		marker = " > "
	}

	if len(p.colWidth) != p.columns.Len() {
		p.colWidth = make([]int, p.columns.Len())
	}

	var cells []string
	filtered := p.columns.FilteredIndices()
	filteredPos := make(map[int]int, len(filtered))
	for i, ci := range filtered {
		filteredPos[ci] = i
	}

	for ci := 0; ci < p.columns.Len(); ci++ {
		col := p.columns.At(ci)
		cell := col.Format(item, p.data)
		if w := lipgloss.Width(cell.Text); w > p.colWidth[ci] {
			p.colWidth[ci] = w
		}

		text := cell.Text
		if col.TruncateStart {
			text = truncateTextLeft(text, p.colWidth[ci])
		} else {
			text = truncateText(text, p.colWidth[ci])
		}
		cell.Text = text

		var matched []int
		if pos, ok := filteredPos[ci]; ok {
			matched = p.m.MatchedIndices(pos, cell.Text)
		}
		cells = append(cells, padRightANSI(renderCell(cell, matched, selected, p.theme), p.colWidth[ci]))
	}

	rowStyle := lipgloss.NewStyle()
	if selected {
		rowStyle = rowStyle.Background(lipgloss.Color(p.theme.SelectionBG))
	}
	markerStyle := rowStyle.Foreground(lipgloss.Color(p.theme.Accent))

	line := markerStyle.Render(marker) + strings.Join(cells, "  ")
	if lipgloss.Width(line) > width {
		return truncateText(line, width)
	}
	return padRightANSI(line, width)
}

// truncateTextLeft elides from the start of s instead of the end, for
// columns (e.g. file paths) where the tail is the informative part.
func truncateTextLeft(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width("..."+string(runes)) > maxWidth {
		runes = runes[1:]
	}
	return "..." + string(runes)
}

// renderCell walks text grapheme-by-grapheme, patching in the
// highlight style whenever the grapheme's index is in matched — the
// matcher reports rune positions, which this loop reinterprets as
// grapheme indices (documented quirk: after a multi-rune grapheme the
// rune positions run ahead of the grapheme count, so later highlights
// land on a later grapheme).
func renderCell(cell StyledCell, matched []int, selected bool, theme Theme) string {
	highlightSet := make(map[int]bool, len(matched))
	for _, idx := range matched {
		highlightSet[idx] = true
	}

	base := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Text))
	if selected {
		base = base.Background(lipgloss.Color(theme.SelectionBG))
	}
	highlight := base.Bold(true).Underline(true)

	var b strings.Builder
	gr := uniseg.NewGraphemes(cell.Text)
	idx := 0
	for gr.Next() {
		cluster := gr.Str()
		style := base
		if highlightSet[idx] {
			style = highlight
		}
		b.WriteString(style.Render(cluster))
		idx++
	}
	return b.String()
}

func (p *Picker[T, D]) renderPreview(width, height int) string {
	box := lipgloss.NewStyle().
		Width(width - 1).
		Height(height - 2).
		MarginLeft(1).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(p.theme.Muted))

	item, ok := p.Selection()
	if !ok || p.previewFn == nil || p.cache == nil {
		return box.Render("")
	}

	loc, ok := p.previewFn(p.data, item)
	if !ok {
		return box.Render("")
	}

	prev := p.cache.Resolve(loc.Where)
	if ph, isPlaceholder := prev.Placeholder(); isPlaceholder {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(p.theme.Error))
		return box.Render(centered(ph, width-3, height-4, style))
	}

	return box.Render(p.renderDocument(prev.Doc, loc, width-3, height-4))
}

func (p *Picker[T, D]) renderDocument(doc preview.Document, loc preview.FileLocation, width, height int) string {
	startLine, endLine := 1, doc.LineCount()
	if loc.Range != nil {
		startLine, endLine = loc.Range.Start, loc.Range.End
	}
	if startLine < 1 || endLine < startLine || endLine > doc.LineCount() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(p.theme.Error))
		return centered("<Invalid file location>", width, height, style)
	}

	from := max(1, anchorLine(startLine, endLine, height))
	to := min(doc.LineCount(), from+height-1)
	if to-from+1 < height {
		from = max(1, to-height+1)
	}

	lines := doc.Lines(from-1, to)
	numStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.theme.Dim))
	maxCode := max(0, width-7)

	var out []string
	for i, text := range lines {
		lineNo := from + i
		text = truncateText(text, maxCode)
		prefix := numStyle.Render(fmt.Sprintf("%6d ", lineNo))
		spans, haveSpans := p.lookupHighlight(doc, lineNo, text)
		selected := lineNo >= startLine && lineNo <= endLine
		out = append(out, prefix+renderTokenLine(text, spans, haveSpans, selected, p.theme))
	}
	return strings.Join(out, "\n")
}

func (p *Picker[T, D]) lookupHighlight(doc preview.Document, line int, text string) ([]highlighter.Span, bool) {
	if p.hl == nil {
		return nil, false
	}
	req := highlighter.HighlightRequest{
		Lang: highlighter.DetectLanguage(doc.Path()),
		Text: text,
		File: doc.Path(),
		Line: line,
		Mode: highlighter.HighlightContextFile,
	}
	spans, ok := p.hl.Lookup(req)
	if !ok {
		p.hl.Queue(req)
		return nil, false
	}
	return spans, true
}

func renderTokenLine(text string, spans []highlighter.Span, haveSpans bool, selected bool, theme Theme) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	if !haveSpans || len(spans) == 0 {
		spans = []highlighter.Span{{Start: 0, End: len(runes), Cat: highlighter.TokenPlain}}
	}

	var b strings.Builder
	for _, span := range spans {
		start, end := clampInt(span.Start, 0, len(runes)), clampInt(span.End, 0, len(runes))
		if end <= start {
			continue
		}
		style := tokenStyle(span.Cat, selected, theme)
		b.WriteString(style.Render(string(runes[start:end])))
	}
	return b.String()
}

func tokenStyle(cat highlighter.TokenCategory, selected bool, theme Theme) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Text))
	if selected {
		style = style.Background(lipgloss.Color(theme.SelectionBG))
	}
	switch cat {
	case highlighter.TokenKeyword:
		return style.Foreground(lipgloss.Color(theme.Keyword))
	case highlighter.TokenType:
		return style.Foreground(lipgloss.Color(theme.Type))
	case highlighter.TokenFunction:
		return style.Foreground(lipgloss.Color(theme.Function))
	case highlighter.TokenString:
		return style.Foreground(lipgloss.Color(theme.String))
	case highlighter.TokenNumber:
		return style.Foreground(lipgloss.Color(theme.Number))
	case highlighter.TokenComment:
		return style.Foreground(lipgloss.Color(theme.Comment))
	case highlighter.TokenOperator:
		return style.Foreground(lipgloss.Color(theme.Operator)).Faint(true)
	case highlighter.TokenError:
		return style.Foreground(lipgloss.Color(theme.Error)).Bold(true)
	default:
		return style
	}
}

// anchorLine picks the preview viewport's first displayed line: centered
// on the selection's own midpoint, startLine+h/2 where h is the
// selection's height, when the selection fits inside innerHeight;
// otherwise pinned directly to startLine.
func anchorLine(startLine, endLine, innerHeight int) int {
	h := endLine - startLine
	if h >= innerHeight {
		return startLine
	}
	middle := startLine + h/2
	from := middle - innerHeight/2
	if from > startLine {
		from = startLine
	}
	return from
}

func centered(msg string, width, height int, style lipgloss.Style) string {
	return lipgloss.Place(max(width, 0), max(height, 0), lipgloss.Center, lipgloss.Center, style.Render(msg))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncateText(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\t", "    ")
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return truncateText(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

func padRightANSI(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

