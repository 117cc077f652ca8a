package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"loungebot/config"
	"loungebot/curation"
	"loungebot/orchestrator"

	"github.com/gin-gonic/gin"
)

// GenerateDigestRequest is the POST /api/digest/generate body.
type GenerateDigestRequest struct {
	Topic             string `json:"topic" binding:"required"`
	ThemeDescription  string `json:"theme_description"`
	GroundedCuration  *bool  `json:"grounded_curation"`
	AllowFallback     *bool  `json:"allow_fallback"`
	FundingSearch     bool   `json:"funding_search"`
	MinArticles       int    `json:"min_articles"`
	MaxArticles       int    `json:"max_articles"`
	MaxBullets        int    `json:"max_bullets"`
	MaxSpecialSection int    `json:"max_special_section"`
}

// RegisterDigestRoutes exposes digest generation.
func RegisterDigestRoutes(r *gin.Engine, runner *orchestrator.Runner, logger *slog.Logger) {
	r.POST("/api/digest/generate", func(c *gin.Context) {
		var req GenerateDigestRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Topic == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
			return
		}

		digest, err := runner.RunDigest(c.Request.Context(), req.toConfig())
		if err != nil {
			logger.Error("digest generation failed", "topic", req.Topic, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, digest)
	})
}

func (req GenerateDigestRequest) toConfig() curation.DigestConfig {
	cfg := curation.DigestConfig{
		Topic:             req.Topic,
		ThemeDescription:  req.ThemeDescription,
		GroundedCuration:  true,
		AllowFallback:     true,
		FundingSearch:     req.FundingSearch,
		MinArticles:       config.MinArticlesForCuration,
		MaxArticles:       config.MaxArticlesForCuration,
		MaxBullets:        config.MaxDigestBullets,
		MaxSpecialSection: config.MaxSpecialSectionItems,
	}
	if req.GroundedCuration != nil {
		cfg.GroundedCuration = *req.GroundedCuration
	}
	if req.AllowFallback != nil {
		cfg.AllowFallback = *req.AllowFallback
	}
	if req.MinArticles > 0 {
		cfg.MinArticles = req.MinArticles
	}
	if req.MaxArticles > 0 {
		cfg.MaxArticles = req.MaxArticles
	}
	if req.MaxBullets > 0 {
		cfg.MaxBullets = req.MaxBullets
	}
	if req.MaxSpecialSection > 0 {
		cfg.MaxSpecialSection = req.MaxSpecialSection
	}
	return cfg
}
