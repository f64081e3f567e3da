package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/hcip-dashboard-go/internal/errors"
	"github.com/jengzang/hcip-dashboard-go/internal/models"
	"github.com/jengzang/hcip-dashboard-go/internal/service"
	"github.com/jengzang/hcip-dashboard-go/pkg/response"
)

// SiteHandler handles HTTP requests for a single site. Every route takes
// package_name, district and site_name query parameters.
type SiteHandler struct {
	siteService *service.SiteService
}

// NewSiteHandler creates a new site handler
func NewSiteHandler(siteService *service.SiteService) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

func bindSiteKey(c *gin.Context) (models.SiteKey, bool) {
	for _, name := range models.SiteKeyParams {
		if _, ok := c.GetQuery(name); !ok {
			response.BadRequest(c, "package_name, district and site_name are required")
			return models.SiteKey{}, false
		}
	}

	var q models.SiteKeyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "package_name, district and site_name are required")
		return models.SiteKey{}, false
	}
	return q.Key(), true
}

// GetDetail handles GET /api/sites/detail
func (h *SiteHandler) GetDetail(c *gin.Context) {
	key, ok := bindSiteKey(c)
	if !ok {
		return
	}

	site, err := h.siteService.Detail(key)
	if errors.Is(err, errors.ErrNotFound) {
		response.NotFound(c, "Site not found")
		return
	}

	response.Success(c, site)
}

// GetTasks handles GET /api/sites/tasks
func (h *SiteHandler) GetTasks(c *gin.Context) {
	key, ok := bindSiteKey(c)
	if !ok {
		return
	}

	response.Success(c, h.siteService.Tasks(key))
}

// GetIPC handles GET /api/sites/ipc
func (h *SiteHandler) GetIPC(c *gin.Context) {
	key, ok := bindSiteKey(c)
	if !ok {
		return
	}

	ipc, err := h.siteService.IPC(key)
	if errors.Is(err, errors.ErrNotFound) {
		response.NotFound(c, "Site not found")
		return
	}

	response.Success(c, ipc)
}

// GetPhotos handles GET /api/sites/photos
func (h *SiteHandler) GetPhotos(c *gin.Context) {
	key, ok := bindSiteKey(c)
	if !ok {
		return
	}

	response.Success(c, h.siteService.Photos(key))
}

// GetDisciplines handles GET /api/sites/disciplines
func (h *SiteHandler) GetDisciplines(c *gin.Context) {
	key, ok := bindSiteKey(c)
	if !ok {
		return
	}

	response.Success(c, h.siteService.Disciplines(key))
}
