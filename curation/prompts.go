package curation

import (
	"fmt"
	"strings"

	"loungebot/config"
	"loungebot/types"
)

const fundingSectionTitle = config.FundingSectionTitle

const curationSystemInstruction = `You are a newsletter curator for a themed community. ` +
	`You respond with a single JSON object and no other text.`

const fundingSystemInstruction = `You are a funding news researcher. ` +
	`You respond with a single JSON object and no other text.`

func curationPrompt(cfg DigestConfig, articles []types.Article) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Curate a daily digest for the %q community.\n", cfg.Topic)
	if cfg.ThemeDescription != "" {
		fmt.Fprintf(&b, "Community theme: %s\n", cfg.ThemeDescription)
	}
	fmt.Fprintf(&b, "Pick the single most important story as big_story, up to %d bullets, "+
		"and up to %d special_section items.\n", cfg.MaxBullets, cfg.MaxSpecialSection)
	b.WriteString("Never reference the same story or URL in more than one section.\n")
	b.WriteString(`Reply with JSON: {"big_story": {"title", "summary", "source", "source_url"}, ` +
		`"bullets": [{"text", "summary", "source", "source_url"}], ` +
		`"special_section": [...], "special_section_title"}` + "\n\n")

	b.WriteString("Articles:\n")
	writeArticles(&b, articles)
	return b.String()
}

func fundingPrompt(cfg DigestConfig, articles []types.Article) string {
	var b strings.Builder

	fmt.Fprintf(&b, "From the articles below, list up to %d funding rounds relevant to the %q community.\n",
		cfg.MaxSpecialSection, cfg.Topic)
	b.WriteString(`Reply with JSON: {"items": [{"text", "summary", "source", "source_url", "amount", "series"}]}` + "\n")
	b.WriteString("Return an empty items array if no funding news is present.\n\n")

	b.WriteString("Articles:\n")
	writeArticles(&b, articles)
	return b.String()
}

func pureGenerationPrompt(cfg DigestConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write today's digest for the %q community from your own knowledge "+
		"of recent industry developments.\n", cfg.Topic)
	if cfg.ThemeDescription != "" {
		fmt.Fprintf(&b, "Community theme: %s\n", cfg.ThemeDescription)
	}
	fmt.Fprintf(&b, "Include one big_story, up to %d bullets, and up to %d special_section items.\n",
		cfg.MaxBullets, cfg.MaxSpecialSection)
	b.WriteString(`Reply with JSON: {"big_story": {"title", "summary", "source", "source_url"}, ` +
		`"bullets": [{"text", "summary", "source", "source_url"}], ` +
		`"special_section": [...], "special_section_title"}` + "\n")
	return b.String()
}

func writeArticles(b *strings.Builder, articles []types.Article) {
	for i, a := range articles {
		fmt.Fprintf(b, "%d. [%s] %s (%s)\n", i+1, a.SourceName, a.Title, a.Link)
		if a.BodySnippet != "" {
			fmt.Fprintf(b, "   %s\n", a.BodySnippet)
		}
	}
}
