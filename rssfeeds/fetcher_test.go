package rssfeeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"loungebot/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func rssDocument(items ...string) string {
	doc := `<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>`
	for _, item := range items {
		doc += item
	}
	return doc + `</channel></rss>`
}

func rssItem(title, link string, published time.Time) string {
	return fmt.Sprintf(
		`<item><title>%s</title><link>%s</link><pubDate>%s</pubDate><description>body of %s</description></item>`,
		title, link, published.Format(time.RFC1123Z), title)
}

func serveRSS(t *testing.T, doc string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestIngestor_FetchAll(t *testing.T) {
	now := time.Now()

	t.Run("one failing feed does not fail the batch", func(t *testing.T) {
		good := serveRSS(t, rssDocument(
			rssItem("story one", "https://example.com/1", now.Add(-time.Hour)),
			rssItem("story two", "https://example.com/2", now.Add(-2*time.Hour)),
		))
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		t.Cleanup(bad.Close)

		in := NewIngestor([]types.FeedSource{
			{Name: "Good", URL: good.URL, Category: types.CategoryNews, Priority: 1},
			{Name: "Bad", URL: bad.URL, Category: types.CategoryNews, Priority: 2},
		}, testLogger())

		articles := in.FetchAll(context.Background())
		require.Len(t, articles, 2)
		for _, a := range articles {
			assert.Equal(t, "Good", a.SourceName)
		}
	})

	t.Run("output is sorted newest first", func(t *testing.T) {
		srv := serveRSS(t, rssDocument(
			rssItem("older", "https://example.com/old", now.Add(-5*time.Hour)),
			rssItem("newer", "https://example.com/new", now.Add(-time.Hour)),
		))

		in := NewIngestor([]types.FeedSource{
			{Name: "Feed", URL: srv.URL, Category: types.CategoryNews, Priority: 1},
		}, testLogger())

		articles := in.FetchAll(context.Background())
		require.Len(t, articles, 2)
		assert.Equal(t, "newer", articles[0].Title)
		assert.Equal(t, "older", articles[1].Title)
	})

	t.Run("widens the window when fresh articles are scarce", func(t *testing.T) {
		items := make([]string, 0, 12)
		// 3 articles inside 24h, 9 more between 24h and 48h.
		for i := 0; i < 3; i++ {
			items = append(items, rssItem(fmt.Sprintf("fresh %d", i),
				fmt.Sprintf("https://example.com/f%d", i), now.Add(-time.Duration(i+1)*time.Hour)))
		}
		for i := 0; i < 9; i++ {
			items = append(items, rssItem(fmt.Sprintf("stale %d", i),
				fmt.Sprintf("https://example.com/s%d", i), now.Add(-30*time.Hour)))
		}
		srv := serveRSS(t, rssDocument(items...))

		in := NewIngestor([]types.FeedSource{
			{Name: "Feed", URL: srv.URL, Category: types.CategoryNews, Priority: 1},
		}, testLogger())

		articles := in.FetchAll(context.Background())
		assert.Len(t, articles, 12)
	})

	t.Run("keeps the fresh window when it is rich enough", func(t *testing.T) {
		items := make([]string, 0, 13)
		for i := 0; i < 12; i++ {
			items = append(items, rssItem(fmt.Sprintf("fresh %d", i),
				fmt.Sprintf("https://example.com/f%d", i), now.Add(-time.Duration(i+1)*time.Minute)))
		}
		items = append(items, rssItem("stale", "https://example.com/stale", now.Add(-30*time.Hour)))
		srv := serveRSS(t, rssDocument(items...))

		in := NewIngestor([]types.FeedSource{
			{Name: "Feed", URL: srv.URL, Category: types.CategoryNews, Priority: 1},
		}, testLogger())

		articles := in.FetchAll(context.Background())
		assert.Len(t, articles, 12)
	})
}
