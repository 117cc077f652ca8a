package types

import "time"

// NewsItem is one bullet or special-section entry in a digest.
type NewsItem struct {
	Text      string `json:"text"`
	Summary   string `json:"summary"`
	Source    string `json:"source"`
	SourceURL string `json:"source_url"`
	Amount    string `json:"amount,omitempty"`
	Series    string `json:"series,omitempty"`
}

// BigStory is the headline slot of a digest. It is only populated when
// the oracle returned both a title and a source URL.
type BigStory struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Source    string `json:"source"`
	SourceURL string `json:"source_url"`
}

// DigestResult is the finished daily digest for one lounge.
// Invariant: no two sections reference the same underlying story URL.
type DigestResult struct {
	BigStory            *BigStory  `json:"big_story,omitempty"`
	Bullets             []NewsItem `json:"bullets"`
	SpecialSection      []NewsItem `json:"special_section,omitempty"`
	SpecialSectionTitle string     `json:"special_section_title,omitempty"`
	Topic               string     `json:"topic"`
	GeneratedAt         time.Time  `json:"generated_at"`
}
