package relevancy

import (
	"context"
	"log/slog"
	"time"

	"loungebot/types"
)

// ContentWriter persists per-item relevancy outcomes.
type ContentWriter interface {
	UpdateRelevancy(ctx context.Context, contentID string, score int, reason string, checkedAt time.Time) error
}

// LoungeReader resolves lounges for threshold lookups.
type LoungeReader interface {
	GetLounge(ctx context.Context, loungeID string) (types.Lounge, error)
}

// TombstoneWriter inserts soft-deletion records keyed by the content's
// natural key. Insert must be idempotent.
type TombstoneWriter interface {
	TombstoneExists(ctx context.Context, platformContentID, platform, creatorID string) (bool, error)
	InsertTombstone(ctx context.Context, rec types.DeletedContentRecord) error
}

// DeletionNotifier is told about fresh tombstones. May be nil.
type DeletionNotifier interface {
	ContentDeleted(ctx context.Context, rec types.DeletedContentRecord)
}

// Aggregator merges per-lounge assessments per content item, persists
// the best score, and tombstones items that cleared no lounge's bar.
type Aggregator struct {
	content    ContentWriter
	lounges    LoungeReader
	tombstones TombstoneWriter
	notifier   DeletionNotifier
	logger     *slog.Logger
	now        func() time.Time
}

// NewAggregator wires an aggregator. notifier may be nil.
func NewAggregator(content ContentWriter, lounges LoungeReader, tombstones TombstoneWriter, notifier DeletionNotifier, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		content:    content,
		lounges:    lounges,
		tombstones: tombstones,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

type itemOutcome struct {
	best   types.RelevancyAssessment
	scores map[string]int // loungeID -> score
}

// AggregateAndPersist processes one scored batch. It never aborts the
// run on a single item's failure; the summary carries the counts.
func (a *Aggregator) AggregateAndPersist(ctx context.Context, items []types.ContentItem, results []types.RelevancyAssessment) types.ProcessSummary {
	byID := make(map[string]types.ContentItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	outcomes := groupResults(results)
	checkedAt := a.now()

	var summary types.ProcessSummary
	for contentID, outcome := range outcomes {
		item, ok := byID[contentID]
		if !ok {
			a.logger.Warn("assessment for unknown content item", "content_id", contentID)
			summary.Errors++
			continue
		}

		// The best score is persisted unconditionally so the item is
		// marked as checked and not re-evaluated.
		if err := a.content.UpdateRelevancy(ctx, contentID, outcome.best.Score, outcome.best.Reason, checkedAt); err != nil {
			a.logger.Error("failed to persist relevancy score",
				"content_id", contentID, "error", err)
			summary.Errors++
			// Score persistence failure must not block tombstone
			// evaluation for this or other items.
		}

		deleted, err := a.evaluateDeletion(ctx, item, outcome, checkedAt)
		if err != nil {
			summary.Errors++
			continue
		}
		if deleted {
			summary.Deleted++
		}
		summary.Processed++
	}
	return summary
}

// evaluateDeletion tombstones the item only when its score fell below
// threshold for every lounge it was evaluated against: content relevant
// to even one of its communities survives globally.
func (a *Aggregator) evaluateDeletion(ctx context.Context, item types.ContentItem, outcome itemOutcome, deletedAt time.Time) (bool, error) {
	for loungeID, score := range outcome.scores {
		lounge, err := a.lounges.GetLounge(ctx, loungeID)
		if err != nil {
			a.logger.Error("failed to resolve lounge threshold",
				"lounge_id", loungeID, "content_id", item.ID, "error", err)
			return false, err
		}
		if score >= lounge.Threshold() {
			return false, nil
		}
	}

	rec := types.DeletedContentRecord{
		PlatformContentID: item.PlatformContentID,
		Platform:          item.Platform,
		CreatorID:         item.CreatorID,
		DeletedAt:         deletedAt,
		DeletionReason:    outcome.best.Reason,
		Title:             item.Title,
		URL:               item.URL,
	}

	// Idempotent insert: a pre-existing tombstone is left untouched,
	// so the first deletion reason wins across overlapping runs.
	exists, err := a.tombstones.TombstoneExists(ctx, rec.PlatformContentID, rec.Platform, rec.CreatorID)
	if err != nil {
		a.logger.Error("tombstone existence check failed", "content_id", item.ID, "error", err)
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := a.tombstones.InsertTombstone(ctx, rec); err != nil {
		a.logger.Error("tombstone insert failed", "content_id", item.ID, "error", err)
		return false, err
	}

	a.logger.Info("content tombstoned",
		"content_id", item.ID, "platform", item.Platform, "score", outcome.best.Score)
	if a.notifier != nil {
		a.notifier.ContentDeleted(ctx, rec)
	}
	return true, nil
}

// groupResults folds assessments per content item, tracking the highest
// score with its reason plus the full lounge->score set. Order
// independent: downstream only takes max and compares thresholds.
func groupResults(results []types.RelevancyAssessment) map[string]itemOutcome {
	outcomes := make(map[string]itemOutcome)
	for _, r := range results {
		outcome, ok := outcomes[r.ContentID]
		if !ok {
			outcome = itemOutcome{best: r, scores: map[string]int{}}
		} else if r.Score > outcome.best.Score {
			outcome.best = r
		}
		outcome.scores[r.LoungeID] = r.Score
		outcomes[r.ContentID] = outcome
	}
	return outcomes
}
