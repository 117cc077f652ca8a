package config

import "time"

// Feed Ingestion Constants
const (
	// FeedFetchTimeout bounds a single feed request
	FeedFetchTimeout = 10 * time.Second

	// FeedUserAgent identifies the fetcher to feed providers
	FeedUserAgent = "loungebot/1.0 (+https://loungebot.dev)"

	// FreshWindow is the preferred recency window for digest articles
	FreshWindow = 24 * time.Hour

	// WidenedWindow is used when the fresh window yields too few articles
	WidenedWindow = 48 * time.Hour

	// MinFreshArticles is the count below which the window is widened
	MinFreshArticles = 10

	// SnippetTargetLength is the approximate body snippet length in characters
	SnippetTargetLength = 300
)

// Curation Constants
const (
	// MinArticlesForCuration is the deduplicated count below which the
	// orchestrator falls back to pure generation
	MinArticlesForCuration = 10

	// MaxArticlesForCuration caps how many articles reach the oracle
	MaxArticlesForCuration = 25

	// MaxDigestBullets caps the bullet section of a digest
	MaxDigestBullets = 8

	// MaxSpecialSectionItems caps the special section of a digest
	MaxSpecialSectionItems = 3

	// FundingSectionTitle is the canonical title used when the dedicated
	// funding search replaces the special section
	FundingSectionTitle = "Funding Roundup"
)

// Category allocation ratios for the prioritizer
const (
	FundingShare = 0.4
	NewsShare    = 0.4
	WireShare    = 0.2
)

// Relevancy Scoring Constants
const (
	// ScoringBatchSize is the number of oracle calls in flight at once.
	// Batch N+1 does not start until batch N fully resolves.
	ScoringBatchSize = 5

	// NeutralScore is assigned when a scoring call fails; ambiguous
	// content is kept for now rather than blocking the pipeline
	NeutralScore = 50

	// NeutralReason accompanies a neutral score
	NeutralReason = "Error during relevancy check"

	// OracleTimeout bounds a single oracle call
	OracleTimeout = 60 * time.Second
)

// Seen-filter (cross-run dedup) Constants
const (
	// SeenFilterKey is the redis key for the fingerprint bloom filter
	SeenFilterKey = "articles:fingerprints"

	// SeenFilterTTL expires the filter after a quiet period
	SeenFilterTTL = 48 * time.Hour

	// SeenFilterCapacity sets the initial BF.RESERVE capacity
	SeenFilterCapacity = 100000

	// SeenFilterErrorRate is the target false positive probability
	SeenFilterErrorRate = 0.001
)
