package picker

import "testing"

func TestTruncateTextShortensWithEllipsis(t *testing.T) {
	got := truncateText("the quick brown fox", 10)
	if lipglossWidth(got) > 10 {
		t.Fatalf("truncateText result %q wider than 10", got)
	}
	if got != "the qui..." {
		t.Fatalf("truncateText(...) = %q, want %q", got, "the qui...")
	}
}

func TestTruncateTextNoopWhenFits(t *testing.T) {
	if got := truncateText("short", 10); got != "short" {
		t.Fatalf("truncateText on short input = %q, want unchanged", got)
	}
}

func TestTruncateTextLeftElidesFromStart(t *testing.T) {
	got := truncateTextLeft("internal/picker/core.go", 12)
	if lipglossWidth(got) > 12 {
		t.Fatalf("truncateTextLeft result %q wider than 12", got)
	}
	if len(got) < 3 || got[:3] != "..." {
		t.Fatalf("truncateTextLeft(...) = %q, want a \"...\" prefix", got)
	}
	if got[len(got)-6:] != "ore.go" {
		t.Fatalf("truncateTextLeft(...) = %q, want the tail preserved", got)
	}
}

func TestTruncateTextLeftNoopWhenFits(t *testing.T) {
	if got := truncateTextLeft("short", 10); got != "short" {
		t.Fatalf("truncateTextLeft on short input = %q, want unchanged", got)
	}
}

func TestPadRightPadsToWidth(t *testing.T) {
	got := padRight("ab", 5)
	if got != "ab   " {
		t.Fatalf("padRight(%q, 5) = %q, want %q", "ab", got, "ab   ")
	}
}

func TestPadRightTruncatesWhenOverWidth(t *testing.T) {
	got := padRight("abcdefgh", 5)
	if lipglossWidth(got) != 5 {
		t.Fatalf("padRight over-width result %q, want width 5", got)
	}
}

func TestAnchorLineCentersOnSelectionMidpointWhenItFitsViewport(t *testing.T) {
	// h = endLine-startLine = 0, so the middle is startLine itself; the
	// viewport should center that single line, not the viewport's own
	// height around startLine.
	got := anchorLine(50, 50, 20)
	want := 50 - 20/2
	if got != want {
		t.Fatalf("anchorLine(50, 50, 20) = %d, want %d", got, want)
	}
}

func TestAnchorLineAccountsForSelectionHeightNotJustStart(t *testing.T) {
	// A wider selection shifts the centered midpoint later than a
	// zero-height one would, even though both still fit the viewport.
	got := anchorLine(40, 50, 20)
	middle := 40 + (50-40)/2
	want := middle - 20/2
	if got != want {
		t.Fatalf("anchorLine(40, 50, 20) = %d, want %d", got, want)
	}
}

func TestAnchorLineSnapsToStartWhenCenteringWouldPushPastIt(t *testing.T) {
	got := anchorLine(3, 3, 20)
	if got > 3 {
		t.Fatalf("anchorLine(3, 3, 20) = %d, want <= startLine (3)", got)
	}
}

func TestAnchorLinePinsToStartWhenRangeOverflowsViewport(t *testing.T) {
	got := anchorLine(1, 100, 20)
	if got != 1 {
		t.Fatalf("anchorLine for an overflowing range = %d, want pinned to start (1)", got)
	}
}

func TestClampIntBounds(t *testing.T) {
	if got := clampInt(-5, 0, 10); got != 0 {
		t.Fatalf("clampInt(-5, 0, 10) = %d, want 0", got)
	}
	if got := clampInt(15, 0, 10); got != 10 {
		t.Fatalf("clampInt(15, 0, 10) = %d, want 10", got)
	}
	if got := clampInt(5, 0, 10); got != 5 {
		t.Fatalf("clampInt(5, 0, 10) = %d, want 5", got)
	}
}

func lipglossWidth(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
