package matcher

import (
	"strings"
	"unicode"
)

// fuzzyScore scores text against a query given as both its original runes
// (queryRaw) and lower-cased runes (queryLower). It returns the score, the
// span in runes between the first and last matched rune (inclusive), and
// whether every query rune was matched in order.
func fuzzyScore(text string, queryRaw, queryLower []rune, caseSensitive bool) (score int, span int, ok bool) {
	if len(queryLower) == 0 {
		return 0, 0, true
	}

	qi := 0
	last := -2
	first := -1
	runeIdx := 0
	var prev rune
	hasPrev := false
	caseMatches := 0

	for _, raw := range text {
		r := lowerRuneFast(raw)

		if qi < len(queryLower) && r == queryLower[qi] {
			bonus := 10
			if runeIdx == 0 || (hasPrev && isBoundaryRune(prev)) {
				bonus += 8
			}
			if last+1 == runeIdx {
				bonus += 6
			}
			if caseSensitive && raw == queryRaw[qi] {
				bonus += 4
				caseMatches++
			}

			score += bonus
			if first < 0 {
				first = runeIdx
			}
			last = runeIdx
			qi++
		}

		prev = r
		hasPrev = true
		runeIdx++
	}

	if qi != len(queryLower) {
		return 0, 0, false
	}

	if runeIdx > len(queryLower) {
		score -= runeIdx - len(queryLower)
	}
	if runeIdx < 40 {
		score += 40 - runeIdx
	}
	if caseMatches > 0 {
		score += caseMatches * 3
	}

	return score, last - first + 1, true
}

// fuzzyPositionsRunes returns the rune index of each matched query rune, in
// text order. The index counts runes, not bytes or graphemes — see
// Matcher.MatchedIndices for how callers must reinterpret it.
func fuzzyPositionsRunes(text string, queryLower []rune) []int {
	if len(queryLower) == 0 {
		return nil
	}

	out := make([]int, 0, len(queryLower))
	qi := 0
	idx := 0
	for _, raw := range text {
		if qi >= len(queryLower) {
			break
		}
		if lowerRuneFast(raw) == queryLower[qi] {
			out = append(out, idx)
			qi++
		}
		idx++
	}
	if qi != len(queryLower) {
		return nil
	}
	return out
}

func trimRunes(s string) []rune {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return []rune(s)
}

func lowerRunes(r []rune) []rune {
	if len(r) == 0 {
		return nil
	}
	out := make([]rune, len(r))
	for i := range r {
		out[i] = lowerRuneFast(r[i])
	}
	return out
}

func lowerRuneFast(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	if r <= unicode.MaxASCII {
		return r
	}
	return unicode.ToLower(r)
}

func isBoundaryRune(r rune) bool {
	switch r {
	case '_', '-', '/', '.', ':':
		return true
	}
	if r <= unicode.MaxASCII {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func nonSpaceRuneCount(r []rune) int {
	n := 0
	for _, c := range r {
		if !unicode.IsSpace(c) {
			n++
		}
	}
	return n
}

// rejectLooseFuzzyMatch discards matches that are technically present but
// scattered across a span disproportionate to the query length — the same
// single-character-anywhere-in-a-long-string false positive the scoring
// bonuses alone don't penalize enough.
func rejectLooseFuzzyMatch(score, span, queryLen int) bool {
	if queryLen <= 1 || span <= 0 {
		return false
	}
	if span <= queryLen*5 {
		return false
	}
	return score < queryLen*4
}
