package rssfeeds

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	t.Run("strips tags and decodes entities", func(t *testing.T) {
		got := NormalizeText("<p>Acme &amp; Co <b>raises</b>   $10M</p>")
		assert.Equal(t, "Acme & Co raises $10M", got)
	})

	t.Run("collapses whitespace runs", func(t *testing.T) {
		got := NormalizeText("a\n\n  b\t c")
		assert.Equal(t, "a b c", got)
	})
}

func TestDeriveSnippet(t *testing.T) {
	t.Run("short body passes through", func(t *testing.T) {
		assert.Equal(t, "short body", DeriveSnippet("short body", 100))
	})

	t.Run("cuts at sentence boundary", func(t *testing.T) {
		body := "First sentence is here. Second sentence is much longer and spills over the limit."
		got := DeriveSnippet(body, 40)
		assert.Equal(t, "First sentence is here.", got)
	})

	t.Run("falls back to word boundary", func(t *testing.T) {
		body := "no sentence marks just a very long run of words that keeps on going and going"
		got := DeriveSnippet(body, 30)
		assert.True(t, strings.HasSuffix(got, "..."))
		// Never ends mid-word: the truncated prefix must align with a word.
		trimmed := strings.TrimSuffix(got, "...")
		assert.True(t, strings.HasSuffix(body[:len(trimmed)+1], trimmed+" "))
	})

	t.Run("strips markup before measuring", func(t *testing.T) {
		got := DeriveSnippet("<div>tiny</div>", 100)
		assert.Equal(t, "tiny", got)
	})

	t.Run("never splits a multibyte rune", func(t *testing.T) {
		// No spaces at all, so the word-boundary fallback cannot help.
		body := strings.Repeat("世界中のニュース", 20)
		got := DeriveSnippet(body, 50)
		assert.True(t, utf8.ValidString(got))
		assert.True(t, strings.HasSuffix(got, "..."))
	})
}
