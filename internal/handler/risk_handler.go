package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jengzang/hcip-dashboard-go/internal/models"
	"github.com/jengzang/hcip-dashboard-go/internal/service"
	"github.com/jengzang/hcip-dashboard-go/pkg/response"
)

// RiskHandler handles HTTP requests for risk and recovery
type RiskHandler struct {
	riskService *service.RiskService
	logger      zerolog.Logger
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(riskService *service.RiskService, logger zerolog.Logger) *RiskHandler {
	return &RiskHandler{
		riskService: riskService,
		logger:      logger,
	}
}

// GetScores handles GET /api/risk/scores
func (h *RiskHandler) GetScores(c *gin.Context) {
	var filter models.RankingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	response.Success(c, h.riskService.Scores(filter))
}

// GetDistribution handles GET /api/risk/distribution
func (h *RiskHandler) GetDistribution(c *gin.Context) {
	response.Success(c, h.riskService.Distribution(c.Query("package_name")))
}

// GetRecoveryCandidates handles GET /api/risk/recovery-candidates
func (h *RiskHandler) GetRecoveryCandidates(c *gin.Context) {
	var filter models.RankingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	response.Success(c, h.riskService.RecoveryCandidates(filter))
}

// GetRedFlags handles GET /api/risk/red-flags
func (h *RiskHandler) GetRedFlags(c *gin.Context) {
	response.Success(c, h.riskService.RedFlags(c.Query("package_name")))
}

// GetTrends handles GET /api/risk/trends. Unreadable history yields an
// empty series.
func (h *RiskHandler) GetTrends(c *gin.Context) {
	points, err := h.riskService.Trends(c.Request.Context(), c.Query("package_name"))
	if err != nil {
		h.logger.Warn().Err(err).Msg("trend history unavailable")
		points = []models.TrendPoint{}
	}

	response.Success(c, points)
}
