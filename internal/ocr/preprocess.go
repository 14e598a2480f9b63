package ocr

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// TruncationMarker is appended to text cut by Truncate.
const TruncationMarker = "... (text truncated due to length)"

var (
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	blankRuns       = regexp.MustCompile(`\n{3,}`)

	artifacts = []string{
		"\uFFFD",
		"\f", // page break
		"\x00",
	}
)

// Clean normalizes OCR output before it is sent for structuring. The raw
// text kept on the scan is never cleaned.
func Clean(text string) string {
	if text == "" {
		return text
	}

	for _, a := range artifacts {
		text = strings.ReplaceAll(text, a, "")
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = horizontalSpace.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	return strings.TrimSpace(blankRuns.ReplaceAllString(text, "\n\n"))
}

// Truncate keeps the first maxChars characters of text and appends
// TruncationMarker when anything was cut. maxChars <= 0 disables it.
func Truncate(text string, maxChars int) (string, bool) {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text, false
	}

	cut, n := 0, 0
	for i := range text {
		if n == maxChars {
			cut = i
			break
		}
		n++
	}
	return text[:cut] + TruncationMarker, true
}

// Meaningful reports whether text, once trimmed, is at least minChars
// characters long. Below that structuring is skipped.
func Meaningful(text string, minChars int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= minChars
}
