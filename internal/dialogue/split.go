// Package dialogue splits a single dialogue string into display lines no
// wider than a configured maximum, ignoring parenthesized stage directions
// when measuring width. Grounded on original_source/Takeo.py's
// dividir_dialogo, generalized per SPEC_FULL.md §4.2.
package dialogue

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars is the default maximum effective line width, per
// SPEC_FULL.md §6.
const DefaultMaxChars = 60

var parenRE = regexp.MustCompile(`\([^)]*\)`)

var curlyQuoteReplacer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
)

// EffectiveLength returns the number of characters (runes) in s with every
// "(...)" span removed, the width measure used by the splitter.
func EffectiveLength(s string) int {
	return utf8.RuneCountInString(parenRE.ReplaceAllString(s, ""))
}

// Split breaks s into one or more lines whose concatenation, joined by
// single spaces, reproduces s's whitespace-normalized word sequence. A
// maxChars of zero or less falls back to DefaultMaxChars.
func Split(s string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	s = curlyQuoteReplacer.Replace(s)

	if EffectiveLength(s) <= maxChars {
		return []string{s}
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{s}
	}

	var lines []string
	current := ""
	for _, w := range words {
		candidate := w
		if current != "" {
			candidate = current + " " + w
		}
		if EffectiveLength(candidate) > maxChars && current != "" {
			lines = append(lines, current)
			current = w
		} else {
			current = candidate
		}
	}
	if current != "" {
		lines = append(lines, current)
	}

	return lines
}
