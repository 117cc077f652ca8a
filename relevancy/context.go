package relevancy

import (
	"fmt"
	"strings"

	"loungebot/types"
)

// EvalItem is one (content, lounge) evaluation unit. An item belonging
// to several lounges yields one EvalItem per lounge.
type EvalItem struct {
	ContentID         string
	Lounge            types.Lounge
	Description       string
	CreatorName       string
	ReferenceType     string
	ReferencedContent *types.ReferencedContent
}

// Context is the assembled rule set handed to the oracle for one
// evaluation. It is built fresh per call; nothing here is cached.
type Context struct {
	Keep       []string
	Filter     []string
	Borderline []string
}

// BuildContext merges a lounge's base rules with its approved, active
// prompt adjustments. Pure function: callers fetch adjustments per
// evaluation so curator corrections apply without a deploy.
func BuildContext(rules types.LoungeRules, adjustments []types.PromptAdjustment) Context {
	ctx := Context{
		Keep:       append([]string(nil), rules.Keep...),
		Filter:     append([]string(nil), rules.Filter...),
		Borderline: append([]string(nil), rules.Borderline...),
	}

	for _, adj := range adjustments {
		if !adj.Approved || !adj.Active {
			continue
		}
		switch adj.AdjustmentType {
		case types.AdjustmentKeep:
			ctx.Keep = append(ctx.Keep, adj.Text)
		case types.AdjustmentFilter:
			ctx.Filter = append(ctx.Filter, adj.Text)
		case types.AdjustmentBorderline:
			ctx.Borderline = append(ctx.Borderline, adj.Text)
		}
	}
	return ctx
}

// EvalText reshapes the content text according to its reference type:
// a quote appends the referenced text and author as bracketed context,
// a retweet is replaced by the referenced text (the repost has no
// independent voice), and a reply appends only the target author.
func EvalText(item EvalItem) string {
	text := item.Description

	ref := item.ReferencedContent
	switch item.ReferenceType {
	case types.ReferenceQuote:
		if ref != nil {
			text = fmt.Sprintf("%s [quoting %s: %q]", text, ref.AuthorName, ref.Text)
		}
	case types.ReferenceRetweet:
		if ref != nil && ref.Text != "" {
			text = ref.Text
		}
	case types.ReferenceReply:
		if ref != nil && ref.AuthorName != "" {
			text = fmt.Sprintf("%s [replying to %s]", text, ref.AuthorName)
		}
	}
	return text
}

const scoringSystemInstruction = `You judge whether content belongs in a themed community. ` +
	`You respond with a single JSON object {"score": 0-100, "reason": "..."} and no other text.`

func scoringPrompt(item EvalItem, ctx Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Community: %s\n", item.Lounge.Name)
	if item.Lounge.ThemeDescription != "" {
		fmt.Fprintf(&b, "Theme: %s\n", item.Lounge.ThemeDescription)
	}
	writeRules(&b, "Always relevant", ctx.Keep)
	writeRules(&b, "Never relevant", ctx.Filter)
	writeRules(&b, "Borderline, judge carefully", ctx.Borderline)

	fmt.Fprintf(&b, "\nCreator: %s\n", item.CreatorName)
	fmt.Fprintf(&b, "Content: %s\n", EvalText(item))
	b.WriteString("\nScore 0-100 how relevant this content is to the community.")
	return b.String()
}

func writeRules(b *strings.Builder, label string, rules []string) {
	if len(rules) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, r := range rules {
		fmt.Fprintf(b, "- %s\n", r)
	}
}
