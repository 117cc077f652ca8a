package curation

import (
	"encoding/json"
	"fmt"

	"loungebot/oracle"
	"loungebot/types"
)

// Raw oracle reply shapes. Every field is optional on the wire; the
// validation below decides what survives into the digest.
type rawNewsItem struct {
	Text      string `json:"text"`
	Summary   string `json:"summary"`
	Source    string `json:"source"`
	SourceURL string `json:"source_url"`
	Amount    string `json:"amount"`
	Series    string `json:"series"`
}

type rawBigStory struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Source    string `json:"source"`
	SourceURL string `json:"source_url"`
}

type rawCuratedReply struct {
	BigStory            *rawBigStory  `json:"big_story"`
	Bullets             []rawNewsItem `json:"bullets"`
	SpecialSection      []rawNewsItem `json:"special_section"`
	SpecialSectionTitle string        `json:"special_section_title"`
}

type rawFundingReply struct {
	Items []rawNewsItem `json:"items"`
}

const unknownSource = "Unknown"

// parseCuratedReply extracts and validates a curated digest. A big
// story without both title and source URL is dropped, not defaulted;
// list items need both text and source URL; remaining string fields are
// defensively defaulted so the digest never carries partial structures.
func parseCuratedReply(reply string, cfg DigestConfig) (types.DigestResult, error) {
	payload, err := oracle.ExtractJSON(reply)
	if err != nil {
		return types.DigestResult{}, err
	}

	var raw rawCuratedReply
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return types.DigestResult{}, fmt.Errorf("malformed curated reply: %w", err)
	}

	result := types.DigestResult{
		Bullets:             validateItems(raw.Bullets, cfg.MaxBullets),
		SpecialSection:      validateItems(raw.SpecialSection, cfg.MaxSpecialSection),
		SpecialSectionTitle: raw.SpecialSectionTitle,
	}

	if raw.BigStory != nil && raw.BigStory.Title != "" && raw.BigStory.SourceURL != "" {
		result.BigStory = &types.BigStory{
			Title:     raw.BigStory.Title,
			Summary:   raw.BigStory.Summary,
			Source:    defaultSource(raw.BigStory.Source),
			SourceURL: raw.BigStory.SourceURL,
		}
	}
	return result, nil
}

func parseFundingReply(reply string, maxItems int) ([]types.NewsItem, error) {
	payload, err := oracle.ExtractJSON(reply)
	if err != nil {
		return nil, err
	}

	var raw rawFundingReply
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("malformed funding reply: %w", err)
	}
	return validateItems(raw.Items, maxItems), nil
}

func validateItems(raw []rawNewsItem, max int) []types.NewsItem {
	items := make([]types.NewsItem, 0, len(raw))
	for _, r := range raw {
		if r.Text == "" || r.SourceURL == "" {
			continue
		}
		items = append(items, types.NewsItem{
			Text:      r.Text,
			Summary:   r.Summary,
			Source:    defaultSource(r.Source),
			SourceURL: r.SourceURL,
			Amount:    r.Amount,
			Series:    r.Series,
		})
		if max > 0 && len(items) >= max {
			break
		}
	}
	return items
}

func defaultSource(source string) string {
	if source == "" {
		return unknownSource
	}
	return source
}
