package curation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"loungebot/dedup"
	"loungebot/oracle"
	"loungebot/prioritize"
	"loungebot/types"
)

// DigestConfig carries the per-lounge settings for one digest request.
type DigestConfig struct {
	Topic             string `json:"topic"`
	ThemeDescription  string `json:"theme_description"`
	GroundedCuration  bool   `json:"grounded_curation"`
	AllowFallback     bool   `json:"allow_fallback"`
	FundingSearch     bool   `json:"funding_search"`
	MinArticles       int    `json:"min_articles"`
	MaxArticles       int    `json:"max_articles"`
	MaxBullets        int    `json:"max_bullets"`
	MaxSpecialSection int    `json:"max_special_section"`
}

// ArticleSource produces the candidate articles for a digest run.
type ArticleSource interface {
	FetchAll(ctx context.Context) []types.Article
}

// SeenChecker suppresses articles already digested in a previous run.
type SeenChecker interface {
	Seen(ctx context.Context, a types.Article) (bool, error)
	Mark(ctx context.Context, a types.Article) error
}

// Orchestrator drives digest generation: feed-grounded curation with an
// optional dedicated funding search, degrading to pure generation when
// inputs are too thin or any step fails.
type Orchestrator struct {
	source ArticleSource
	seen   SeenChecker // nil disables cross-run suppression
	oracle oracle.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewOrchestrator wires the curation pipeline. seen may be nil.
func NewOrchestrator(source ArticleSource, seen SeenChecker, client oracle.Client, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		source: source,
		seen:   seen,
		oracle: client,
		logger: logger,
		now:    time.Now,
	}
}

// GenerateDigest runs the full cascade for one lounge. It returns a
// best-effort digest or a terminal error once every fallback level has
// failed; no partial digest is ever emitted.
func (o *Orchestrator) GenerateDigest(ctx context.Context, cfg DigestConfig) (types.DigestResult, error) {
	if !cfg.GroundedCuration {
		return o.pureGeneration(ctx, cfg)
	}

	result, err := o.groundedCuration(ctx, cfg)
	if err != nil {
		if !cfg.AllowFallback {
			return types.DigestResult{}, err
		}
		if errors.Is(err, errInsufficientArticles) {
			o.logger.Info("too few articles for grounded curation, using pure generation",
				"topic", cfg.Topic, "error", err)
		} else {
			o.logger.Warn("grounded curation failed, falling back to pure generation",
				"topic", cfg.Topic, "error", err)
		}
		return o.pureGeneration(ctx, cfg)
	}
	return result, nil
}

// errInsufficientArticles is a designed fallback trigger, not a failure.
var errInsufficientArticles = errors.New("insufficient articles")

func (o *Orchestrator) groundedCuration(ctx context.Context, cfg DigestConfig) (types.DigestResult, error) {
	articles := o.source.FetchAll(ctx)
	articles = dedup.Categorize(dedup.Deduplicate(articles))
	articles = o.dropSeen(ctx, articles)

	if len(articles) < cfg.MinArticles {
		if cfg.AllowFallback {
			return types.DigestResult{}, fmt.Errorf("%w: have %d, need %d",
				errInsufficientArticles, len(articles), cfg.MinArticles)
		}
		// Fallback disallowed: curate from whatever was fetched.
		o.logger.Warn("proceeding with thin article set",
			"have", len(articles), "need", cfg.MinArticles)
	}

	prioritized := prioritize.Select(prioritize.Split(articles), cfg.MaxArticles)

	// Curation and the dedicated funding search hit the oracle
	// concurrently; each has its own result shape.
	var (
		wg         sync.WaitGroup
		curated    types.DigestResult
		curateErr  error
		funding    []types.NewsItem
		fundingErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		curated, curateErr = o.curateFromArticles(ctx, cfg, prioritized)
	}()

	if cfg.FundingSearch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			funding, fundingErr = o.fundingSearch(ctx, cfg, prioritized)
		}()
	}
	wg.Wait()

	if curateErr != nil {
		return types.DigestResult{}, fmt.Errorf("curate: %w", curateErr)
	}
	if fundingErr != nil {
		return types.DigestResult{}, fmt.Errorf("funding search: %w", fundingErr)
	}

	// A non-empty funding result fully replaces the special section.
	if len(funding) > 0 {
		curated.SpecialSection = funding
		curated.SpecialSectionTitle = fundingSectionTitle
	}

	o.markDigested(ctx, prioritized)
	return curated, nil
}

// dropSeen filters out articles whose fingerprints were digested in a
// prior run. Filter errors are logged and the article is kept.
func (o *Orchestrator) dropSeen(ctx context.Context, articles []types.Article) []types.Article {
	if o.seen == nil {
		return articles
	}

	kept := make([]types.Article, 0, len(articles))
	for _, a := range articles {
		seen, err := o.seen.Seen(ctx, a)
		if err != nil {
			o.logger.Warn("seen-filter check failed", "link", a.Link, "error", err)
			kept = append(kept, a)
			continue
		}
		if !seen {
			kept = append(kept, a)
		}
	}
	if dropped := len(articles) - len(kept); dropped > 0 {
		o.logger.Info("suppressed previously digested articles", "dropped", dropped)
	}
	return kept
}

func (o *Orchestrator) markDigested(ctx context.Context, articles []types.Article) {
	if o.seen == nil {
		return
	}
	for _, a := range articles {
		if err := o.seen.Mark(ctx, a); err != nil {
			o.logger.Warn("seen-filter mark failed", "link", a.Link, "error", err)
		}
	}
}

func (o *Orchestrator) curateFromArticles(ctx context.Context, cfg DigestConfig, articles []types.Article) (types.DigestResult, error) {
	reply, err := o.oracle.Chat(ctx, curationSystemInstruction, curationPrompt(cfg, articles))
	if err != nil {
		return types.DigestResult{}, err
	}

	result, err := parseCuratedReply(reply, cfg)
	if err != nil {
		return types.DigestResult{}, err
	}
	result.Topic = cfg.Topic
	result.GeneratedAt = o.now()
	return result, nil
}

func (o *Orchestrator) fundingSearch(ctx context.Context, cfg DigestConfig, articles []types.Article) ([]types.NewsItem, error) {
	reply, err := o.oracle.Chat(ctx, fundingSystemInstruction, fundingPrompt(cfg, articles))
	if err != nil {
		return nil, err
	}
	return parseFundingReply(reply, cfg.MaxSpecialSection)
}

// pureGeneration asks the oracle for a full digest without grounding
// articles. The reply is used verbatim after validation.
func (o *Orchestrator) pureGeneration(ctx context.Context, cfg DigestConfig) (types.DigestResult, error) {
	reply, err := o.oracle.Chat(ctx, curationSystemInstruction, pureGenerationPrompt(cfg))
	if err != nil {
		return types.DigestResult{}, fmt.Errorf("pure generation: %w", err)
	}

	result, err := parseCuratedReply(reply, cfg)
	if err != nil {
		return types.DigestResult{}, fmt.Errorf("pure generation: %w", err)
	}
	result.Topic = cfg.Topic
	result.GeneratedAt = o.now()
	return result, nil
}
