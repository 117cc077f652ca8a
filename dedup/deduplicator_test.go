package dedup

import (
	"testing"

	"loungebot/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	t.Run("funding titles key on company and amount", func(t *testing.T) {
		a := types.Article{Title: "Acme Robotics raises $12M Series A led by Foo Ventures"}
		b := types.Article{Title: "Acme Robotics raises $12 million to automate warehouses"}
		assert.Equal(t, Fingerprint(a), Fingerprint(b))
		assert.Equal(t, "acme robotics|12m", Fingerprint(a))
	})

	t.Run("different amounts stay distinct", func(t *testing.T) {
		a := types.Article{Title: "Acme raises $12M"}
		b := types.Article{Title: "Acme raises $15M"}
		assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
	})

	t.Run("non-funding titles key on normalized prefix", func(t *testing.T) {
		a := types.Article{Title: "The Future of Work: Remote Teams Are Here To Stay, Experts Say"}
		b := types.Article{Title: "The future of work: remote teams are here to stay!"}
		assert.Equal(t, Fingerprint(a), Fingerprint(b))
	})
}

func TestDeduplicate(t *testing.T) {
	t.Run("never grows the input", func(t *testing.T) {
		articles := []types.Article{
			{Title: "Acme raises $12M", SourcePriority: 2},
			{Title: "unique story about something else entirely", SourcePriority: 1},
			{Title: "Acme raises $12 million", SourcePriority: 1},
		}
		out := Deduplicate(articles)
		assert.LessOrEqual(t, len(out), len(articles))

		seen := map[string]bool{}
		for _, a := range out {
			key := Fingerprint(a)
			assert.False(t, seen[key], "duplicate fingerprint survived: %s", key)
			seen[key] = true
		}
	})

	t.Run("higher priority source wins a collision", func(t *testing.T) {
		articles := []types.Article{
			{Title: "Acme raises $12M", SourceName: "Wire", SourcePriority: 3},
			{Title: "Acme raises $12 million", SourceName: "Primary", SourcePriority: 1},
		}
		out := Deduplicate(articles)
		require.Len(t, out, 1)
		assert.Equal(t, "Primary", out[0].SourceName)
	})

	t.Run("ties keep the first seen", func(t *testing.T) {
		articles := []types.Article{
			{Title: "Acme raises $12M", SourceName: "First", SourcePriority: 1},
			{Title: "Acme raises $12 million", SourceName: "Second", SourcePriority: 1},
		}
		out := Deduplicate(articles)
		require.Len(t, out, 1)
		assert.Equal(t, "First", out[0].SourceName)
	})

	t.Run("survivors keep input order", func(t *testing.T) {
		articles := []types.Article{
			{Title: "first unique story headline today", SourcePriority: 1},
			{Title: "second unique story headline today", SourcePriority: 1},
			{Title: "third unique story headline today", SourcePriority: 1},
		}
		out := Deduplicate(articles)
		require.Len(t, out, 3)
		assert.Equal(t, articles[0].Title, out[0].Title)
		assert.Equal(t, articles[2].Title, out[2].Title)
	})
}

func TestCategorize(t *testing.T) {
	t.Run("funding keywords override source category", func(t *testing.T) {
		out := Categorize([]types.Article{
			{Title: "Startup secures seed round", SourceCategory: types.CategoryWire},
		})
		assert.Equal(t, types.CategoryFunding, out[0].Category)
	})

	t.Run("wire sources stay wire", func(t *testing.T) {
		out := Categorize([]types.Article{
			{Title: "Quarterly results announced", SourceCategory: types.CategoryWire},
		})
		assert.Equal(t, types.CategoryWire, out[0].Category)
	})

	t.Run("everything else defaults to news", func(t *testing.T) {
		out := Categorize([]types.Article{
			{Title: "New framework released", SourceCategory: ""},
		})
		assert.Equal(t, types.CategoryNews, out[0].Category)
	})
}
