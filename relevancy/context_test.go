package relevancy

import (
	"testing"

	"loungebot/types"

	"github.com/stretchr/testify/assert"
)

func TestBuildContext(t *testing.T) {
	rules := types.LoungeRules{
		Keep:   []string{"payments"},
		Filter: []string{"crypto scams"},
	}

	t.Run("appends adjustments to the matching category", func(t *testing.T) {
		ctx := BuildContext(rules, []types.PromptAdjustment{
			{AdjustmentType: types.AdjustmentKeep, Text: "open banking", Approved: true, Active: true},
			{AdjustmentType: types.AdjustmentBorderline, Text: "fintech memes", Approved: true, Active: true},
		})
		assert.Equal(t, []string{"payments", "open banking"}, ctx.Keep)
		assert.Equal(t, []string{"crypto scams"}, ctx.Filter)
		assert.Equal(t, []string{"fintech memes"}, ctx.Borderline)
	})

	t.Run("ignores unapproved or inactive adjustments", func(t *testing.T) {
		ctx := BuildContext(rules, []types.PromptAdjustment{
			{AdjustmentType: types.AdjustmentKeep, Text: "pending", Approved: false, Active: true},
			{AdjustmentType: types.AdjustmentKeep, Text: "retired", Approved: true, Active: false},
		})
		assert.Equal(t, []string{"payments"}, ctx.Keep)
	})

	t.Run("does not mutate the base rules", func(t *testing.T) {
		base := types.LoungeRules{Keep: []string{"a"}}
		_ = BuildContext(base, []types.PromptAdjustment{
			{AdjustmentType: types.AdjustmentKeep, Text: "b", Approved: true, Active: true},
		})
		assert.Equal(t, []string{"a"}, base.Keep)
	})
}

func TestEvalText(t *testing.T) {
	ref := &types.ReferencedContent{Text: "original post", AuthorName: "alice"}

	t.Run("quote appends referenced text and author", func(t *testing.T) {
		got := EvalText(EvalItem{
			Description:       "interesting take",
			ReferenceType:     types.ReferenceQuote,
			ReferencedContent: ref,
		})
		assert.Equal(t, `interesting take [quoting alice: "original post"]`, got)
	})

	t.Run("retweet replaces the text entirely", func(t *testing.T) {
		got := EvalText(EvalItem{
			Description:       "RT",
			ReferenceType:     types.ReferenceRetweet,
			ReferencedContent: ref,
		})
		assert.Equal(t, "original post", got)
	})

	t.Run("reply appends only the target author", func(t *testing.T) {
		got := EvalText(EvalItem{
			Description:       "agreed!",
			ReferenceType:     types.ReferenceReply,
			ReferencedContent: ref,
		})
		assert.Equal(t, "agreed! [replying to alice]", got)
	})

	t.Run("plain content passes through", func(t *testing.T) {
		got := EvalText(EvalItem{Description: "just a post"})
		assert.Equal(t, "just a post", got)
	})
}
