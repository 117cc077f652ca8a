package dedup

import (
	"regexp"
	"sort"
	"strings"

	"loungebot/types"
)

// fundingKeywords classify a title as funding/M&A news regardless of
// the source's declared category.
var fundingKeywords = []string{
	"raises", "raised", "secures", "closes", "funding", "series",
	"seed", "acquisition", "acquires", "merger", "ipo", "valuation",
	"venture", "investment round",
}

// fundingPattern captures "<Company> raises $12M"-shaped titles:
// a company name preceding a funding verb, then a dollar amount with an
// M/B suffix.
var fundingPattern = regexp.MustCompile(
	`(?i)^(.{2,60}?)\s+(?:raises|raised|secures|closes|lands|nabs|gets)\s+(?:a\s+)?\$?([\d.,]+)\s*(million|billion|[mb])\b`)

var nonAlnum = regexp.MustCompile(`[^a-z0-9 ]+`)

const titlePrefixWords = 8

// Fingerprint derives the dedup key for an article: normalized company
// name plus funding amount when detectable, else a normalized prefix of
// the title. Fingerprints are computed per run and never stored.
func Fingerprint(a types.Article) string {
	if m := fundingPattern.FindStringSubmatch(a.Title); m != nil {
		company := normalize(m[1])
		amount := strings.ReplaceAll(m[2], ",", "")
		unit := strings.ToLower(m[3][:1])
		if company != "" {
			return company + "|" + amount + unit
		}
	}

	words := strings.Fields(normalize(a.Title))
	if len(words) > titlePrefixWords {
		words = words[:titlePrefixWords]
	}
	return strings.Join(words, " ")
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnum.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// Deduplicate collapses near-duplicate articles across sources. On a
// fingerprint collision the article from the higher-priority source
// wins (lower priority number); ties keep the first seen. Input order
// is preserved for the survivors.
func Deduplicate(articles []types.Article) []types.Article {
	type slot struct {
		index   int
		article types.Article
	}

	byKey := make(map[string]slot, len(articles))
	for i, a := range articles {
		key := Fingerprint(a)
		existing, ok := byKey[key]
		if !ok {
			byKey[key] = slot{index: i, article: a}
			continue
		}
		if a.SourcePriority < existing.article.SourcePriority {
			// Replace the loser but keep its position in the stream.
			byKey[key] = slot{index: existing.index, article: a}
		}
	}

	survivors := make([]slot, 0, len(byKey))
	for _, s := range byKey {
		survivors = append(survivors, s)
	}
	sort.Slice(survivors, func(i, j int) bool { return survivors[i].index < survivors[j].index })

	out := make([]types.Article, len(survivors))
	for i, s := range survivors {
		out[i] = s.article
	}
	return out
}

// Categorize assigns each article its topical bucket: any title with a
// funding keyword is funding, otherwise the source's declared category
// (wire stays wire, everything else defaults to news).
func Categorize(articles []types.Article) []types.Article {
	out := make([]types.Article, len(articles))
	for i, a := range articles {
		a.Category = categoryFor(a)
		out[i] = a
	}
	return out
}

func categoryFor(a types.Article) types.Category {
	title := strings.ToLower(a.Title)
	for _, kw := range fundingKeywords {
		if strings.Contains(title, kw) {
			return types.CategoryFunding
		}
	}
	if a.SourceCategory == types.CategoryWire {
		return types.CategoryWire
	}
	return types.CategoryNews
}
