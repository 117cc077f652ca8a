package prioritize

import (
	"loungebot/config"
	"loungebot/types"
)

// Buckets holds categorized articles in recency order.
type Buckets struct {
	Funding []types.Article
	News    []types.Article
	Wire    []types.Article
}

// Split sorts categorized articles into buckets, preserving order.
func Split(articles []types.Article) Buckets {
	var b Buckets
	for _, a := range articles {
		switch a.Category {
		case types.CategoryFunding:
			b.Funding = append(b.Funding, a)
		case types.CategoryWire:
			b.Wire = append(b.Wire, a)
		default:
			b.News = append(b.News, a)
		}
	}
	return b
}

// Select picks up to n articles with a 40/40/20 funding/news/wire split
// (rounded down), then backfills any shortfall from whatever remains,
// preserving recency order within each bucket. One dominant category
// cannot crowd out the others, and empty buckets never under-fill the
// result.
func Select(b Buckets, n int) []types.Article {
	if n <= 0 {
		return nil
	}

	fundingQuota := int(float64(n) * config.FundingShare)
	newsQuota := int(float64(n) * config.NewsShare)
	wireQuota := int(float64(n) * config.WireShare)

	selected := make([]types.Article, 0, n)
	selected = append(selected, take(b.Funding, fundingQuota)...)
	selected = append(selected, take(b.News, newsQuota)...)
	selected = append(selected, take(b.Wire, wireQuota)...)

	// Backfill from unused remainder until n is reached or input runs out.
	remainders := [][]types.Article{
		drop(b.Funding, fundingQuota),
		drop(b.News, newsQuota),
		drop(b.Wire, wireQuota),
	}
	for _, rest := range remainders {
		for _, a := range rest {
			if len(selected) >= n {
				return selected
			}
			selected = append(selected, a)
		}
	}
	return selected
}

func take(articles []types.Article, quota int) []types.Article {
	if quota > len(articles) {
		quota = len(articles)
	}
	return articles[:quota]
}

func drop(articles []types.Article, quota int) []types.Article {
	if quota > len(articles) {
		return nil
	}
	return articles[quota:]
}
