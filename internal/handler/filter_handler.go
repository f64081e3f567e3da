package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/hcip-dashboard-go/internal/service"
	"github.com/jengzang/hcip-dashboard-go/pkg/response"
)

// FilterHandler serves dropdown values
type FilterHandler struct {
	filterService *service.FilterService
}

// NewFilterHandler creates a new filter handler
func NewFilterHandler(filterService *service.FilterService) *FilterHandler {
	return &FilterHandler{filterService: filterService}
}

// GetPackages handles GET /api/filters/packages
func (h *FilterHandler) GetPackages(c *gin.Context) {
	response.Success(c, h.filterService.Packages())
}

// GetDistricts handles GET /api/filters/districts
func (h *FilterHandler) GetDistricts(c *gin.Context) {
	response.Success(c, h.filterService.Districts(c.Query("package_name")))
}

// GetSites handles GET /api/filters/sites
func (h *FilterHandler) GetSites(c *gin.Context) {
	response.Success(c, h.filterService.Sites(c.Query("package_name"), c.Query("district")))
}

// GetStatuses handles GET /api/filters/statuses
func (h *FilterHandler) GetStatuses(c *gin.Context) {
	response.Success(c, h.filterService.Statuses())
}
