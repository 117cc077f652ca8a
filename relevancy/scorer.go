package relevancy

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"loungebot/config"
	"loungebot/oracle"
	"loungebot/types"
)

// AdjustmentSource provides the approved, active prompt adjustments for
// a lounge. Fetched at evaluation time so curator edits apply immediately.
type AdjustmentSource interface {
	ListActiveAdjustments(ctx context.Context, loungeID string) ([]types.PromptAdjustment, error)
}

// Scorer evaluates content items against their lounges through the
// oracle, with bounded concurrency: sub-batches of ScoringBatchSize run
// their calls concurrently, and batch N+1 waits for batch N.
type Scorer struct {
	oracle      oracle.Client
	adjustments AdjustmentSource
	logger      *slog.Logger
	batchSize   int
}

// NewScorer wires a scorer. adjustments may be nil to run on base rules only.
func NewScorer(client oracle.Client, adjustments AdjustmentSource, logger *slog.Logger) *Scorer {
	return &Scorer{
		oracle:      client,
		adjustments: adjustments,
		logger:      logger,
		batchSize:   config.ScoringBatchSize,
	}
}

// Score evaluates every item and always returns one assessment per
// input. A failed oracle call degrades that item to the neutral score;
// it never blocks the rest of the batch.
func (s *Scorer) Score(ctx context.Context, items []EvalItem) []types.RelevancyAssessment {
	results := make([]types.RelevancyAssessment, len(items))

	for start := 0; start < len(items); start += s.batchSize {
		end := start + s.batchSize
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				results[idx] = s.scoreOne(ctx, items[idx])
			}(i)
		}
		wg.Wait()
	}
	return results
}

func (s *Scorer) scoreOne(ctx context.Context, item EvalItem) types.RelevancyAssessment {
	neutral := types.RelevancyAssessment{
		ContentID: item.ContentID,
		LoungeID:  item.Lounge.ID,
		Score:     config.NeutralScore,
		Reason:    config.NeutralReason,
	}

	var adjustments []types.PromptAdjustment
	if s.adjustments != nil {
		var err error
		adjustments, err = s.adjustments.ListActiveAdjustments(ctx, item.Lounge.ID)
		if err != nil {
			// Base rules still apply; only the dynamic layer is lost.
			s.logger.Warn("failed to load prompt adjustments",
				"lounge_id", item.Lounge.ID, "error", err)
			adjustments = nil
		}
	}

	ruleCtx := BuildContext(item.Lounge.Rules, adjustments)

	octx, cancel := context.WithTimeout(ctx, config.OracleTimeout)
	defer cancel()

	reply, err := s.oracle.Chat(octx, scoringSystemInstruction, scoringPrompt(item, ruleCtx))
	if err != nil {
		s.logger.Warn("scoring call failed",
			"content_id", item.ContentID, "lounge_id", item.Lounge.ID, "error", err)
		return neutral
	}

	verdict, err := parseVerdict(reply)
	if err != nil {
		s.logger.Warn("unparseable scoring reply",
			"content_id", item.ContentID, "lounge_id", item.Lounge.ID, "error", err)
		return neutral
	}

	return types.RelevancyAssessment{
		ContentID: item.ContentID,
		LoungeID:  item.Lounge.ID,
		Score:     verdict.Score,
		Reason:    verdict.Reason,
	}
}

type verdict struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

func parseVerdict(reply string) (verdict, error) {
	payload, err := oracle.ExtractJSON(reply)
	if err != nil {
		return verdict{}, err
	}

	var v verdict
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return verdict{}, err
	}

	if v.Score < 0 {
		v.Score = 0
	}
	if v.Score > 100 {
		v.Score = 100
	}
	return v, nil
}
