package jsonrepair

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Fallback is returned when nothing could be salvaged.
const Fallback = `{"menu_items": []}`

var menuItemsKey = regexp.MustCompile(`"menu_items"\s*:\s*\[`)

// Repair turns model output that should be a single JSON object into text
// that parses. Valid input is returned unchanged. Repairs only ever add
// quotes and closers or drop broken fragments; they never invent values.
func Repair(input string) string {
	if json.Valid([]byte(input)) {
		return input
	}

	repaired := balance(stripTrailingCommas(quoteRepair(input)))
	if json.Valid([]byte(repaired)) {
		return repaired
	}

	for _, candidate := range []string{repaired, input} {
		if items, ok := extractMenuItems(candidate); ok {
			return `{"menu_items": ` + items + `}`
		}
	}

	return Fallback
}

// quoteRepair quotes bare object keys and rewrites single-quoted strings
// as double-quoted ones. Content of double-quoted strings is left alone.
func quoteRepair(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	var prev byte
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"':
			end, _ := scanString(s, i, '"')
			b.WriteString(s[i:end])
			i = end
			prev = '"'

		case c == '\'':
			end, closed := scanString(s, i, '\'')
			b.WriteString(requote(s[i:end], closed))
			i = end
			prev = '"'

		case isIdentStart(c) && (prev == '{' || prev == ','):
			j := i
			for j < len(s) && isIdent(s[j]) {
				j++
			}
			word := s[i:j]
			if k := skipSpace(s, j); k < len(s) && s[k] == ':' {
				b.WriteString(`"` + word + `"`)
			} else {
				b.WriteString(word)
			}
			i = j
			prev = 'a'

		default:
			b.WriteByte(c)
			if !isSpace(c) {
				prev = c
			}
			i++
		}
	}

	return b.String()
}

// stripTrailingCommas drops commas that directly precede } or ].
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		c := s[i]
		if c == '"' {
			end, _ := scanString(s, i, '"')
			b.WriteString(s[i:end])
			i = end
			continue
		}
		if c == ',' {
			if k := skipSpace(s, i+1); k < len(s) && (s[k] == '}' || s[k] == ']') {
				i++
				continue
			}
		}
		b.WriteByte(c)
		i++
	}

	return b.String()
}

// balance closes an unterminated string, then appends the closers still
// owed by unclosed containers. A closer that skips over open containers
// closes them first; a closer with no opener at all is dropped. Openers
// are never inserted.
func balance(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	var stack []byte
	inString, escaped := false, false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			idx := strings.LastIndexByte(string(stack), c)
			if idx < 0 {
				continue
			}
			for len(stack)-1 > idx {
				b.WriteByte(stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			stack = stack[:idx]
		}
		b.WriteByte(c)
	}

	out := b.String()
	if inString {
		if escaped {
			out = out[:len(out)-1]
		}
		out += `"`
	}
	if len(stack) == 0 {
		return out
	}

	out = trimDanglingTail(out, stack[len(stack)-1])
	for i := len(stack) - 1; i >= 0; i-- {
		out += string(stack[i])
	}
	return out
}

// trimDanglingTail removes a trailing comma, a key without a value, or a
// key with a colon but no value, so that closers can be appended.
func trimDanglingTail(s string, closer byte) string {
	for {
		s = strings.TrimRight(s, " \t\r\n")
		if s == "" {
			return s
		}

		switch last := s[len(s)-1]; {
		case last == ',':
			s = s[:len(s)-1]

		case last == ':':
			s = strings.TrimRight(s[:len(s)-1], " \t\r\n")
			if start := stringStart(s); start >= 0 {
				s = s[:start]
			}

		case last == '"' && closer == '}':
			start := stringStart(s)
			if start < 0 {
				return s
			}
			before := strings.TrimRight(s[:start], " \t\r\n")
			if before == "" || (before[len(before)-1] != '{' && before[len(before)-1] != ',') {
				return s
			}
			s = before

		default:
			return s
		}
	}
}

// stringStart returns the index of the opening quote of the string that
// ends s, or -1 when s does not end in a string.
func stringStart(s string) int {
	if len(s) < 2 || s[len(s)-1] != '"' {
		return -1
	}
	for i := len(s) - 2; i >= 0; i-- {
		if s[i] != '"' {
			continue
		}
		slashes := 0
		for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
			slashes++
		}
		if slashes%2 == 0 {
			return i
		}
	}
	return -1
}

// extractMenuItems finds the shortest parseable array following a
// "menu_items" key.
func extractMenuItems(s string) (string, bool) {
	for _, loc := range menuItemsKey.FindAllStringIndex(s, -1) {
		start := loc[1] - 1
		for end := start + 1; end < len(s); end++ {
			if s[end] != ']' {
				continue
			}
			candidate := s[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
		}
	}
	return "", false
}

// scanString returns the index just past the string starting at s[i] and
// whether a closing quote was found.
func scanString(s string, i int, quote byte) (int, bool) {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j + 1, true
		}
	}
	return len(s), false
}

func requote(raw string, closed bool) string {
	body := raw[1:]
	if closed {
		body = body[:len(body)-1]
	}

	var b strings.Builder
	b.Grow(len(body) + 2)
	b.WriteByte('"')
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body) && body[i+1] == '\'':
			b.WriteByte('\'')
			i++
		case c == '\\' && i+1 < len(body):
			b.WriteByte(c)
			b.WriteByte(body[i+1])
			i++
		case c == '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	if closed {
		b.WriteByte('"')
	}
	return b.String()
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdent(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
