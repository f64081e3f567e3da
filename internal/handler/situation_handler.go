package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/hcip-dashboard-go/internal/service"
	"github.com/jengzang/hcip-dashboard-go/pkg/response"
)

// SituationHandler handles the executive overview. Most routes accept an
// optional package_name query parameter.
type SituationHandler struct {
	situationService *service.SituationService
}

// NewSituationHandler creates a new situation room handler
func NewSituationHandler(situationService *service.SituationService) *SituationHandler {
	return &SituationHandler{situationService: situationService}
}

// GetKPIs handles GET /api/situation-room/kpis
func (h *SituationHandler) GetKPIs(c *gin.Context) {
	response.Success(c, h.situationService.KPIs(c.Query("package_name")))
}

// GetDelayDistribution handles GET /api/situation-room/delay-distribution
func (h *SituationHandler) GetDelayDistribution(c *gin.Context) {
	response.Success(c, h.situationService.DelayDistribution(c.Query("package_name")))
}

// GetStatusBreakdown handles GET /api/situation-room/status-breakdown
func (h *SituationHandler) GetStatusBreakdown(c *gin.Context) {
	response.Success(c, h.situationService.StatusBreakdown(c.Query("package_name")))
}

// GetCompliance handles GET /api/situation-room/compliance
func (h *SituationHandler) GetCompliance(c *gin.Context) {
	response.Success(c, h.situationService.Compliance(c.Query("package_name")))
}

// GetProgressByPackage handles GET /api/situation-room/progress-by-package
func (h *SituationHandler) GetProgressByPackage(c *gin.Context) {
	response.Success(c, h.situationService.ProgressByPackage())
}

// GetIPCHealth handles GET /api/situation-room/ipc-health
func (h *SituationHandler) GetIPCHealth(c *gin.Context) {
	response.Success(c, h.situationService.IPCHealth(c.Query("package_name")))
}

// GetRedList handles GET /api/situation-room/red-list
func (h *SituationHandler) GetRedList(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultRankLimit)))
	if err != nil {
		response.BadRequest(c, "Invalid limit parameter")
		return
	}

	response.Success(c, h.situationService.RedList(c.Query("package_name"), limit))
}
