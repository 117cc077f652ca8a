// Package orchestrator ties the pipelines together end to end: digest
// generation for a lounge, and the periodic relevancy sweep over owned
// content. Operational callers (HTTP API, cron wrappers) go through
// these entry points only.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loungebot/config"
	"loungebot/curation"
	"loungebot/relevancy"
	"loungebot/types"
)

// ContentSource yields unchecked content items and marks them checked.
type ContentSource interface {
	FetchBatch(ctx context.Context, limit int) ([]types.ContentItem, error)
	UpdateRelevancy(ctx context.Context, contentID string, score int, reason string, checkedAt time.Time) error
}

// noMembershipReason marks content that could not be evaluated because
// its creator belongs to no lounge.
const noMembershipReason = "No lounge memberships"

// MembershipSource resolves a creator's lounges.
type MembershipSource interface {
	ListCreatorLounges(ctx context.Context, creatorID string) ([]types.Lounge, error)
}

// DigestSink archives finished digests. May be nil.
type DigestSink interface {
	StoreDigest(ctx context.Context, digest types.DigestResult) error
}

// EventSink announces finished digests. May be nil.
type EventSink interface {
	DigestCompleted(ctx context.Context, digest types.DigestResult)
}

// Runner executes complete pipeline runs.
type Runner struct {
	curator     *curation.Orchestrator
	scorer      *relevancy.Scorer
	aggregator  *relevancy.Aggregator
	content     ContentSource
	memberships MembershipSource
	archive     DigestSink
	events      EventSink
	logger      *slog.Logger
}

// RunnerDeps wires the runner's collaborators. archive and events are
// optional.
type RunnerDeps struct {
	Curator     *curation.Orchestrator
	Scorer      *relevancy.Scorer
	Aggregator  *relevancy.Aggregator
	Content     ContentSource
	Memberships MembershipSource
	Archive     DigestSink
	Events      EventSink
	Logger      *slog.Logger
}

// NewRunner creates a runner from its dependencies.
func NewRunner(deps RunnerDeps) *Runner {
	return &Runner{
		curator:     deps.Curator,
		scorer:      deps.Scorer,
		aggregator:  deps.Aggregator,
		content:     deps.Content,
		memberships: deps.Memberships,
		archive:     deps.Archive,
		events:      deps.Events,
		logger:      deps.Logger,
	}
}

// RunDigest generates one lounge's digest and pushes it to the optional
// archive and event sinks. Sink failures are logged, not fatal: the
// digest itself is the product.
func (r *Runner) RunDigest(ctx context.Context, cfg curation.DigestConfig) (types.DigestResult, error) {
	digest, err := r.curator.GenerateDigest(ctx, cfg)
	if err != nil {
		return types.DigestResult{}, fmt.Errorf("generate digest for %q: %w", cfg.Topic, err)
	}

	if r.archive != nil {
		if err := r.archive.StoreDigest(ctx, digest); err != nil {
			r.logger.Warn("digest archive failed", "topic", cfg.Topic, "error", err)
		}
	}
	if r.events != nil {
		r.events.DigestCompleted(ctx, digest)
	}

	r.logger.Info("digest generated", "topic", cfg.Topic,
		"bullets", len(digest.Bullets), "special", len(digest.SpecialSection),
		"has_big_story", digest.BigStory != nil)
	return digest, nil
}

// RunRelevancy sweeps one batch of unchecked content: fetch, score per
// lounge membership, aggregate, persist. It returns a summary rather
// than failing the run on per-item errors.
func (r *Runner) RunRelevancy(ctx context.Context, limit int) (types.ProcessSummary, error) {
	items, err := r.content.FetchBatch(ctx, limit)
	if err != nil {
		return types.ProcessSummary{}, fmt.Errorf("fetch content batch: %w", err)
	}
	if len(items) == 0 {
		r.logger.Info("no unchecked content")
		return types.ProcessSummary{}, nil
	}

	var (
		evalItems []relevancy.EvalItem
		summary   types.ProcessSummary
	)
	for _, item := range items {
		lounges, err := r.memberships.ListCreatorLounges(ctx, item.CreatorID)
		if err != nil {
			r.logger.Error("failed to resolve lounges",
				"content_id", item.ID, "creator_id", item.CreatorID, "error", err)
			summary.Errors++
			continue
		}
		if len(lounges) == 0 {
			// Mark the item checked anyway or FetchBatch serves it on
			// every sweep and the pipeline stops making progress once
			// the oldest unchecked items all lack memberships.
			r.logger.Warn("content has no lounge memberships", "content_id", item.ID)
			if err := r.content.UpdateRelevancy(ctx, item.ID,
				config.NeutralScore, noMembershipReason, time.Now()); err != nil {
				r.logger.Error("failed to mark membership-less content checked",
					"content_id", item.ID, "error", err)
				summary.Errors++
				continue
			}
			summary.Processed++
			continue
		}

		// One evaluation per lounge: memberships are judged independently.
		for _, lounge := range lounges {
			evalItems = append(evalItems, relevancy.EvalItem{
				ContentID:         item.ID,
				Lounge:            lounge,
				Description:       item.Description,
				CreatorName:       item.CreatorName,
				ReferenceType:     item.ReferenceType,
				ReferencedContent: item.ReferencedContent,
			})
		}
	}

	results := r.scorer.Score(ctx, evalItems)

	batchSummary := r.aggregator.AggregateAndPersist(ctx, items, results)
	batchSummary.Errors += summary.Errors
	batchSummary.Processed += summary.Processed

	r.logger.Info("relevancy sweep complete",
		"processed", batchSummary.Processed,
		"deleted", batchSummary.Deleted,
		"errors", batchSummary.Errors)
	return batchSummary, nil
}
