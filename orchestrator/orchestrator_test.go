package orchestrator

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"loungebot/relevancy"
	"loungebot/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// fakeContentStore serves its items until they are marked checked.
type fakeContentStore struct {
	items   []types.ContentItem
	checked map[string]persistedOutcome
	fetches int
}

type persistedOutcome struct {
	score  int
	reason string
}

func newFakeContentStore(items ...types.ContentItem) *fakeContentStore {
	return &fakeContentStore{items: items, checked: map[string]persistedOutcome{}}
}

func (f *fakeContentStore) FetchBatch(ctx context.Context, limit int) ([]types.ContentItem, error) {
	f.fetches++
	var out []types.ContentItem
	for _, item := range f.items {
		if _, ok := f.checked[item.ID]; ok {
			continue
		}
		if len(out) < limit {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeContentStore) UpdateRelevancy(ctx context.Context, contentID string, score int, reason string, checkedAt time.Time) error {
	f.checked[contentID] = persistedOutcome{score: score, reason: reason}
	return nil
}

type fakeMemberships struct {
	lounges map[string][]types.Lounge
}

func (f *fakeMemberships) ListCreatorLounges(ctx context.Context, creatorID string) ([]types.Lounge, error) {
	return f.lounges[creatorID], nil
}

type fakeLoungeReader struct {
	lounges map[string]types.Lounge
}

func (f *fakeLoungeReader) GetLounge(ctx context.Context, loungeID string) (types.Lounge, error) {
	return f.lounges[loungeID], nil
}

type fakeTombstones struct {
	inserted []types.DeletedContentRecord
}

func (f *fakeTombstones) TombstoneExists(ctx context.Context, platformContentID, platform, creatorID string) (bool, error) {
	return false, nil
}

func (f *fakeTombstones) InsertTombstone(ctx context.Context, rec types.DeletedContentRecord) error {
	f.inserted = append(f.inserted, rec)
	return nil
}

type stubOracle struct {
	reply string
}

func (o *stubOracle) Chat(ctx context.Context, system, user string) (string, error) {
	return o.reply, nil
}

func newTestRunner(store *fakeContentStore, memberships *fakeMemberships, lounges *fakeLoungeReader, oracleReply string) *Runner {
	logger := testLogger()
	oracle := &stubOracle{reply: oracleReply}
	return NewRunner(RunnerDeps{
		Scorer: relevancy.NewScorer(oracle, nil, logger),
		Aggregator: relevancy.NewAggregator(store, lounges, &fakeTombstones{},
			nil, logger),
		Content:     store,
		Memberships: memberships,
		Logger:      logger,
	})
}

func TestRunRelevancy(t *testing.T) {
	t.Run("membership-less content is marked checked, not re-served", func(t *testing.T) {
		item := types.ContentItem{ID: "orphan-1", CreatorID: "creator-1", Description: "a post"}
		store := newFakeContentStore(item)
		memberships := &fakeMemberships{lounges: map[string][]types.Lounge{}}
		runner := newTestRunner(store, memberships, &fakeLoungeReader{}, `{"score": 80, "reason": "ok"}`)

		summary, err := runner.RunRelevancy(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Processed)

		outcome, ok := store.checked["orphan-1"]
		require.True(t, ok, "item was never marked checked")
		assert.Equal(t, "No lounge memberships", outcome.reason)

		// Later sweeps must not see the item again.
		for i := 0; i < 2; i++ {
			summary, err := runner.RunRelevancy(context.Background(), 10)
			require.NoError(t, err)
			assert.Equal(t, 0, summary.Processed)
		}
		assert.Equal(t, 3, store.fetches)
	})

	t.Run("items with memberships are scored and persisted", func(t *testing.T) {
		item := types.ContentItem{
			ID:                "c1",
			PlatformContentID: "platform-c1",
			Platform:          "twitter",
			CreatorID:         "creator-1",
			Description:       "on-topic post",
		}
		lounge := types.Lounge{ID: "lounge-1", Name: "Fintech"}
		store := newFakeContentStore(item)
		memberships := &fakeMemberships{lounges: map[string][]types.Lounge{
			"creator-1": {lounge},
		}}
		lounges := &fakeLoungeReader{lounges: map[string]types.Lounge{"lounge-1": lounge}}
		runner := newTestRunner(store, memberships, lounges, `{"score": 85, "reason": "relevant"}`)

		summary, err := runner.RunRelevancy(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Processed)
		assert.Equal(t, 0, summary.Deleted)
		assert.Equal(t, persistedOutcome{score: 85, reason: "relevant"}, store.checked["c1"])
	})

	t.Run("empty batch is a clean no-op", func(t *testing.T) {
		store := newFakeContentStore()
		runner := newTestRunner(store, &fakeMemberships{}, &fakeLoungeReader{}, "")

		summary, err := runner.RunRelevancy(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, types.ProcessSummary{}, summary)
	})
}
