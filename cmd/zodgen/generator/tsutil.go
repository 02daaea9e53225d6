package generator

import "strings"

// tsQuote renders a single-quoted TypeScript string literal, escaping
// backslashes and internal single quotes.
func tsQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

// tsRegex converts a host-engine regex parameter into a bare JS regex
// literal. Delimiters and trailing flags are preserved when present;
// undelimited patterns are wrapped. Dots escaped inside character classes
// are unescaped for the JS dialect, and forward slashes are escaped.
func tsRegex(pattern string) string {
	flags := ""
	if len(pattern) >= 2 && pattern[0] == '/' {
		if end := strings.LastIndexByte(pattern, '/'); end > 0 {
			flags = pattern[end+1:]
			pattern = pattern[1:end]
		}
	}
	pattern = normalizeCharClassDots(pattern)
	pattern = escapeRegexSlashes(pattern)
	return "/" + pattern + "/" + flags
}

// normalizeCharClassDots drops the needless backslash before a dot inside
// [...] groups, where JS treats the dot as literal.
func normalizeCharClassDots(pattern string) string {
	var sb strings.Builder
	inClass := false
	escaped := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case escaped:
			if inClass && c == '.' {
				// `\.` inside a class: the escape is redundant
				sb.WriteByte('.')
			} else {
				sb.WriteByte('\\')
				sb.WriteByte(c)
			}
			escaped = false
		case c == '\\':
			escaped = true
		case c == '[':
			inClass = true
			sb.WriteByte(c)
		case c == ']':
			inClass = false
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	if escaped {
		sb.WriteByte('\\')
	}
	return sb.String()
}

func escapeRegexSlashes(pattern string) string {
	var sb strings.Builder
	escaped := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case escaped:
			sb.WriteByte(c)
			escaped = false
		case c == '\\':
			sb.WriteByte(c)
			escaped = true
		case c == '/':
			sb.WriteString(`\/`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// dateFormatTokens maps host-engine date format characters to regex
// fragments. Unknown tokens make the whole translation fall back.
var dateFormatTokens = map[byte]string{
	'Y': `\d{4}`,
	'y': `\d{2}`,
	'm': `\d{2}`,
	'n': `\d{1,2}`,
	'd': `\d{2}`,
	'j': `\d{1,2}`,
	'H': `\d{2}`,
	'G': `\d{1,2}`,
	'i': `\d{2}`,
	's': `\d{2}`,
	'u': `\d{1,6}`,
	'v': `\d{1,3}`,
	'A': `(AM|PM)`,
	'a': `(am|pm)`,
	'T': `[A-Z]{1,4}`,
	'P': `[+-]\d{2}:\d{2}`,
	'O': `[+-]\d{4}`,
}

// dateFormatRegex translates a date format string (e.g. "Y-m-d") into an
// anchored regex literal. The second return is false when the format
// contains a token with no translation; callers fall back to a catch-all
// non-empty check.
func dateFormatRegex(format string) (string, bool) {
	var sb strings.Builder
	sb.WriteByte('^')
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c == '\\' && i+1 < len(format) {
			// escaped literal character
			sb.WriteString(regexEscapeByte(format[i+1]))
			i++
			continue
		}
		if frag, ok := dateFormatTokens[c]; ok {
			sb.WriteString(frag)
			continue
		}
		if isDateFormatSeparator(c) {
			sb.WriteString(regexEscapeByte(c))
			continue
		}
		return "", false
	}
	sb.WriteByte('$')
	return "/" + sb.String() + "/", true
}

func isDateFormatSeparator(c byte) bool {
	switch c {
	case '-', '/', ':', '.', ' ', ',', 'T', 'Z':
		return true
	}
	return false
}

func regexEscapeByte(c byte) string {
	switch c {
	case '.', '+', '*', '?', '(', ')', '[', ']', '{', '}', '^', '$', '|', '\\', '/':
		return `\` + string(c)
	}
	return string(c)
}

// tsPropertyKey renders an object property key, quoting it when it is not
// a plain identifier.
func tsPropertyKey(name string) string {
	if isTSIdentifier(name) {
		return name
	}
	return tsQuote(name)
}

func isTSIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// schemaConstName derives the exported schema constant from a schema name,
// e.g. "StoreOrder" -> "storeOrderSchema".
func schemaConstName(name string) string {
	return lowerFirst(name) + "Schema"
}

// tsAccess renders a data property access, using bracket syntax for keys
// that are not plain identifiers.
func tsAccess(base, name string) string {
	if isTSIdentifier(name) {
		return base + "." + name
	}
	return base + "[" + tsQuote(name) + "]"
}
