package picker

import "strings"

// ParseQuery splits input into a per-column pattern map using the
// structured "%column:pattern" mini-language: a leading "%prefix:" token
// redirects subsequent text to the declared column whose name begins
// with prefix (shortest match wins among ties), a bare space returns the
// destination to the primary column, double quotes make "%", ":" and
// space literal, and a backslash escapes the following character (only
// "%" and "\"" lose their syntactic meaning; any other escaped rune
// keeps its leading backslash). Repeated assignments to the same column
// concatenate with a single space. The result never contains a key
// outside columns, and never an empty pattern.
//
// columns is the full declared column list; primary indexes the column
// that receives text with no active redirect.
func ParseQuery(columns []string, primary int, input string) map[string]string {
	fields := make(map[string]string)
	primaryField := columns[primary]

	var (
		escaped   bool
		quoted    bool
		inField   bool
		field     string
		haveField bool
		text      strings.Builder
	)

	finish := func() {
		key := primaryField
		if haveField {
			key = field
		}
		haveField = false

		if existing, ok := fields[key]; ok {
			fields[key] = existing + " " + text.String()
		} else {
			fields[key] = text.String()
		}
		text.Reset()
	}

	for _, ch := range input {
		switch {
		case ch == '\\':
			escaped = !escaped
		case escaped:
			if ch != '%' && ch != '"' {
				text.WriteByte('\\')
			}
			text.WriteRune(ch)
			escaped = false
		case ch == '"':
			quoted = !quoted
		case quoted && (ch == '%' || ch == ':' || ch == ' '):
			text.WriteRune(ch)
		case (ch == '%' || ch == ' ') && text.Len() > 0:
			finish()
			inField = ch == '%'
		case ch == '%':
			inField = true
		case ch == ':' && inField:
			name := text.String()
			text.Reset()
			inField = false
			if col, ok := resolveColumnPrefix(columns, name); ok {
				field = col
				haveField = true
			} else {
				haveField = false
			}
		default:
			text.WriteRune(ch)
		}
	}

	if !inField && text.Len() > 0 {
		finish()
	}

	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	return fields
}

// resolveColumnPrefix finds the declared column whose name begins with
// prefix, preferring the shortest such name.
func resolveColumnPrefix(columns []string, prefix string) (string, bool) {
	best := ""
	found := false
	for _, col := range columns {
		if !strings.HasPrefix(col, prefix) {
			continue
		}
		if !found || len(col) < len(best) {
			best = col
			found = true
		}
	}
	return best, found
}
