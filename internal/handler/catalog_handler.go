package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/trattoria-luca/service-booking/internal/application"
	"github.com/trattoria-luca/service-booking/internal/platform/response"
)

// CatalogHandler serves the read-only package catalog.
type CatalogHandler struct {
	service *application.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers the catalog routes on the given router group.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/packages", h.ListPackages)
	r.GET("/api/v1/packages/:id/catalog", h.GetCatalog)
	r.GET("/api/v1/venue-areas", h.ListAreas)
}

// ListPackages handles GET /api/v1/packages.
func (h *CatalogHandler) ListPackages(c *gin.Context) {
	response.Success(c, h.service.ListPackages())
}

// GetCatalog handles GET /api/v1/packages/:id/catalog.
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	result, err := h.service.GetCatalog(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListAreas handles GET /api/v1/venue-areas.
func (h *CatalogHandler) ListAreas(c *gin.Context) {
	response.Success(c, h.service.ListAreas())
}
