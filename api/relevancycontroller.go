package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"loungebot/orchestrator"

	"github.com/gin-gonic/gin"
)

// ProcessRelevancyRequest is the POST /api/relevancy/process body.
type ProcessRelevancyRequest struct {
	Limit int `json:"limit"`
}

// RegisterRelevancyRoutes exposes the relevancy sweep trigger.
func RegisterRelevancyRoutes(r *gin.Engine, runner *orchestrator.Runner, defaultLimit int, logger *slog.Logger) {
	r.POST("/api/relevancy/process", func(c *gin.Context) {
		var req ProcessRelevancyRequest
		// An empty body is a valid trigger with defaults (cron hits
		// this endpoint bare), so io.EOF is not a client error.
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Limit <= 0 {
			req.Limit = defaultLimit
		}

		summary, err := runner.RunRelevancy(c.Request.Context(), req.Limit)
		if err != nil {
			logger.Error("relevancy sweep failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	})
}
