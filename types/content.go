package types

import "time"

// Reference types for reposted/derived content.
const (
	ReferenceQuote   = "quote"
	ReferenceRetweet = "retweet"
	ReferenceReply   = "reply"
)

// ReferencedContent carries the text and author of the post a content
// item quotes, reposts, or replies to.
type ReferencedContent struct {
	Text       string `json:"text"`
	AuthorName string `json:"author_name"`
}

// ContentItem is an owned piece of content produced by a followed
// creator. Items are created by the ingestion process; this core only
// mutates the relevancy fields and never deletes rows physically.
type ContentItem struct {
	ID                 string             `json:"id"`
	PlatformContentID  string             `json:"platform_content_id"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	URL                string             `json:"url"`
	CreatorID          string             `json:"creator_id"`
	CreatorName        string             `json:"creator_name"`
	Platform           string             `json:"platform"`
	ReferenceType      string             `json:"reference_type,omitempty"`
	ReferencedContent  *ReferencedContent `json:"referenced_content,omitempty"`
	RelevancyScore     *int               `json:"relevancy_score,omitempty"`
	RelevancyReason    string             `json:"relevancy_reason,omitempty"`
	RelevancyCheckedAt *time.Time         `json:"relevancy_checked_at,omitempty"`
}

// LoungeRules is a lounge's structured scoring rule set. Rules are
// data, not code: every lounge carries its own lists.
type LoungeRules struct {
	Keep       []string `json:"keep"`
	Filter     []string `json:"filter"`
	Borderline []string `json:"borderline"`
}

// Lounge is a themed community with its own relevancy bar.
type Lounge struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Family             string      `json:"family"`
	ThemeDescription   string      `json:"theme_description"`
	RelevancyThreshold *int        `json:"relevancy_threshold,omitempty"`
	Rules              LoungeRules `json:"rules"`
}

// Threshold resolves the lounge's relevancy threshold, applying the
// family default when none is set (community lounges run permissive).
func (l Lounge) Threshold() int {
	if l.RelevancyThreshold != nil {
		return *l.RelevancyThreshold
	}
	if l.Family == "community" {
		return 60
	}
	return 70
}

// Adjustment types for dynamically injected rules.
const (
	AdjustmentKeep       = "keep"
	AdjustmentFilter     = "filter"
	AdjustmentBorderline = "borderline"
)

// PromptAdjustment is a curator-approved rule injected into a lounge's
// scoring context at evaluation time.
type PromptAdjustment struct {
	ID             string `json:"id"`
	LoungeID       string `json:"lounge_id"`
	AdjustmentType string `json:"adjustment_type"`
	Text           string `json:"text"`
	Approved       bool   `json:"approved"`
	Active         bool   `json:"active"`
}

// RelevancyAssessment is the ephemeral result of one scoring call.
type RelevancyAssessment struct {
	ContentID string `json:"content_id"`
	LoungeID  string `json:"lounge_id"`
	Score     int    `json:"score"`
	Reason    string `json:"reason"`
}

// DeletedContentRecord is a tombstone: a soft-deletion marker keyed by
// the content's natural key. Insertion is idempotent.
type DeletedContentRecord struct {
	PlatformContentID string    `json:"platform_content_id"`
	Platform          string    `json:"platform"`
	CreatorID         string    `json:"creator_id"`
	DeletedAt         time.Time `json:"deleted_at"`
	DeletionReason    string    `json:"deletion_reason"`
	Title             string    `json:"title"`
	URL               string    `json:"url"`
}

// ProcessSummary reports a batch outcome without throwing: periodic
// callers always get a clean count to log.
type ProcessSummary struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
	Deleted   int `json:"deleted"`
}
