package rssfeeds

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// NormalizeText strips HTML tags, decodes entities, and collapses
// whitespace runs into single spaces.
func NormalizeText(raw string) string {
	text := stripPolicy.Sanitize(raw)
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// DeriveSnippet normalizes the body and truncates it near the target
// length at a sentence boundary, falling back to a word boundary so the
// snippet never ends mid-word.
func DeriveSnippet(body string, target int) string {
	text := NormalizeText(body)
	if len(text) <= target {
		return text
	}

	// Back the cut up to a rune boundary so multibyte text never
	// yields a split rune.
	cut := target
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	window := text[:cut]

	// Prefer the last sentence end inside the window, as long as it
	// keeps a meaningful amount of text.
	if idx := lastSentenceEnd(window); idx >= target/2 {
		return strings.TrimSpace(window[:idx+1])
	}

	if idx := strings.LastIndex(window, " "); idx > 0 {
		return strings.TrimSpace(window[:idx]) + "..."
	}
	return window + "..."
}

func lastSentenceEnd(s string) int {
	best := -1
	for _, mark := range []string{". ", "! ", "? "} {
		if idx := strings.LastIndex(s, mark); idx > best {
			best = idx
		}
	}
	if best >= 0 {
		return best
	}
	// Sentence mark at the very end of the window counts too.
	switch {
	case strings.HasSuffix(s, "."), strings.HasSuffix(s, "!"), strings.HasSuffix(s, "?"):
		return len(s) - 1
	}
	return -1
}
