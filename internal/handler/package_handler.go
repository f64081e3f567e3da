package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/hcip-dashboard-go/internal/service"
	"github.com/jengzang/hcip-dashboard-go/pkg/response"
)

// PackageHandler handles HTTP requests for package drill-down
type PackageHandler struct {
	packageService *service.PackageService
}

// NewPackageHandler creates a new package handler
func NewPackageHandler(packageService *service.PackageService) *PackageHandler {
	return &PackageHandler{packageService: packageService}
}

// ListPackages handles GET /api/packages
func (h *PackageHandler) ListPackages(c *gin.Context) {
	response.Success(c, h.packageService.List())
}

// GetPackage handles GET /api/packages/:package_name
func (h *PackageHandler) GetPackage(c *gin.Context) {
	response.Success(c, h.packageService.Detail(c.Param("package_name")))
}

// GetDistricts handles GET /api/packages/:package_name/districts
func (h *PackageHandler) GetDistricts(c *gin.Context) {
	response.Success(c, h.packageService.Districts(c.Param("package_name")))
}

// GetSites handles GET /api/packages/:package_name/sites
func (h *PackageHandler) GetSites(c *gin.Context) {
	response.Success(c, h.packageService.Sites(c.Param("package_name"), c.Query("district")))
}

// GetDelayChart handles GET /api/packages/:package_name/delay-chart
func (h *PackageHandler) GetDelayChart(c *gin.Context) {
	response.Success(c, h.packageService.DelayChart(c.Param("package_name")))
}

// GetPlannedVsActual handles GET /api/situation-room/planned-vs-actual
func (h *PackageHandler) GetPlannedVsActual(c *gin.Context) {
	response.Success(c, h.packageService.PlannedVsActual())
}
