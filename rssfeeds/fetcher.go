package rssfeeds

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"loungebot/config"
	"loungebot/types"

	"github.com/mmcdole/gofeed"
)

// Ingestor fetches and normalizes articles from a configured source set.
// A single feed's failure never fails the batch; it is logged and
// contributes zero articles.
type Ingestor struct {
	sources []types.FeedSource
	logger  *slog.Logger
	now     func() time.Time
}

// NewIngestor creates an ingestor over the given sources.
func NewIngestor(sources []types.FeedSource, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		sources: sources,
		logger:  logger,
		now:     time.Now,
	}
}

// FetchAll fetches every source concurrently, normalizes the entries,
// and applies the two-tier recency filter. Output is newest-first.
func (in *Ingestor) FetchAll(ctx context.Context) []types.Article {
	var (
		mu  sync.Mutex
		all []types.Article
		wg  sync.WaitGroup
	)

	for _, source := range in.sources {
		wg.Add(1)
		go func(src types.FeedSource) {
			defer wg.Done()

			articles, err := in.fetchSource(ctx, src)
			if err != nil {
				in.logger.Warn("feed fetch failed", "source", src.Name, "error", err)
				return
			}

			mu.Lock()
			all = append(all, articles...)
			mu.Unlock()
		}(source)
	}
	wg.Wait()

	filtered := in.filterByRecency(all)

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].PublishedAt.After(filtered[j].PublishedAt)
	})

	in.logger.Info("feed ingestion complete",
		"sources", len(in.sources), "fetched", len(all), "retained", len(filtered))
	return filtered
}

// fetchSource retrieves and normalizes one feed within the fetch timeout.
func (in *Ingestor) fetchSource(ctx context.Context, src types.FeedSource) ([]types.Article, error) {
	fctx, cancel := context.WithTimeout(ctx, config.FeedFetchTimeout)
	defer cancel()

	parser := gofeed.NewParser()
	parser.UserAgent = config.FeedUserAgent

	feed, err := parser.ParseURLWithContext(src.URL, fctx)
	if err != nil {
		return nil, err
	}

	articles := make([]types.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}

		var publishedAt time.Time
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		body := item.Description
		if body == "" {
			body = item.Content
		}

		articles = append(articles, types.Article{
			Title:          NormalizeText(item.Title),
			Link:           item.Link,
			PublishedAt:    publishedAt,
			BodySnippet:    DeriveSnippet(body, config.SnippetTargetLength),
			SourceName:     src.Name,
			SourceCategory: src.Category,
			SourcePriority: src.Priority,
		})
	}
	return articles, nil
}

// filterByRecency prefers the fresh window and widens it when the
// result is too thin to curate from.
func (in *Ingestor) filterByRecency(articles []types.Article) []types.Article {
	now := in.now()

	fresh := withinWindow(articles, now, config.FreshWindow)
	if len(fresh) >= config.MinFreshArticles {
		return fresh
	}

	widened := withinWindow(articles, now, config.WidenedWindow)
	if len(widened) > len(fresh) {
		in.logger.Info("widened recency window",
			"fresh", len(fresh), "widened", len(widened))
		return widened
	}
	return fresh
}

func withinWindow(articles []types.Article, now time.Time, window time.Duration) []types.Article {
	cutoff := now.Add(-window)
	out := make([]types.Article, 0, len(articles))
	for _, a := range articles {
		if a.PublishedAt.After(cutoff) {
			out = append(out, a)
		}
	}
	return out
}
