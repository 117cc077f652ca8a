package api

import (
	"log/slog"

	"loungebot/orchestrator"

	"github.com/gin-gonic/gin"
)

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(runner *orchestrator.Runner, relevancyLimit int, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterHealthRoutes(r)
	RegisterDigestRoutes(r, runner, logger)
	RegisterRelevancyRoutes(r, runner, relevancyLimit, logger)
	return r
}
