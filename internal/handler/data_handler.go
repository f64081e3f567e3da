package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jengzang/hcip-dashboard-go/internal/middleware"
	"github.com/jengzang/hcip-dashboard-go/internal/models"
	"github.com/jengzang/hcip-dashboard-go/internal/service"
	"github.com/jengzang/hcip-dashboard-go/pkg/response"
)

// DataHandler handles HTTP requests for health, refresh and raw listings
type DataHandler struct {
	dataService *service.DataService
	logger      zerolog.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(dataService *service.DataService, logger zerolog.Logger) *DataHandler {
	return &DataHandler{
		dataService: dataService,
		logger:      logger,
	}
}

// Health handles GET /api/health
func (h *DataHandler) Health(c *gin.Context) {
	response.Success(c, h.dataService.Health())
}

// Refresh handles POST /api/data/refresh
func (h *DataHandler) Refresh(c *gin.Context) {
	res := h.dataService.Refresh(c.Request.Context())
	h.logger.Info().
		Str("run_id", res.RunID).
		Str("outcome", res.Outcome).
		Int("warnings", len(res.Warnings)).
		Str("client_ip", c.ClientIP()).
		Str("subject", middleware.Subject(c)).
		Msg("refresh requested")
	response.Success(c, res)
}

// GetSummary handles GET /api/data/summary
func (h *DataHandler) GetSummary(c *gin.Context) {
	response.Success(c, h.dataService.Summary())
}

// GetSites handles GET /api/data/sites
func (h *DataHandler) GetSites(c *gin.Context) {
	var filter models.SiteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	response.Success(c, h.dataService.Sites(filter))
}

// GetTasks handles GET /api/data/tasks
func (h *DataHandler) GetTasks(c *gin.Context) {
	var filter models.SiteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	response.Success(c, h.dataService.Tasks(filter))
}

// GetSnapshots handles GET /api/data/snapshots
func (h *DataHandler) GetSnapshots(c *gin.Context) {
	files, err := h.dataService.Snapshots()
	if err != nil {
		h.logger.Warn().Err(err).Msg("snapshot listing failed")
		files = []models.SnapshotFile{}
	}
	response.Success(c, files)
}

// GetRefreshHistory handles GET /api/data/refresh-history
func (h *DataHandler) GetRefreshHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		response.BadRequest(c, "Invalid limit parameter")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		response.BadRequest(c, "Invalid offset parameter")
		return
	}

	history, err := h.dataService.RefreshHistory(c.Request.Context(), limit, offset)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, history)
}
