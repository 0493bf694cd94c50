package handlers

import (
	"net/http"

	"wheelstrust/models"
	"wheelstrust/services/catalog"
	"wheelstrust/utils"

	"github.com/gin-gonic/gin"
)

var serviceFilters = utils.Filterable{
	"serviceProvider": utils.StringField,
	"category":        utils.StringField,
	"status":          utils.StringField,
	"price":           utils.NumberField,
}

// CatalogHandler serves the services providers offer.
type CatalogHandler struct {
	CatalogService catalog.CatalogService
}

func NewCatalogHandler(cs catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{CatalogService: cs}
}

// ListServicesHandler handles GET /services.
func (h *CatalogHandler) ListServicesHandler(c *gin.Context) {
	q, ok := listQuery(c, serviceFilters)
	if !ok {
		return
	}
	services, page, err := h.CatalogService.ListServices(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Page(c, "services", services, page)
}

// GetServiceHandler handles GET /services/:id.
func (h *CatalogHandler) GetServiceHandler(c *gin.Context) {
	svc, err := h.CatalogService.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.OK(c, svc)
}

// CreateServiceHandler handles POST /services.
func (h *CatalogHandler) CreateServiceHandler(c *gin.Context) {
	var input models.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	svc, err := h.CatalogService.CreateService(c.Request.Context(), actor(c), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusCreated, "Service created successfully", svc)
}

// UpdateServiceHandler handles PUT /services/:id.
func (h *CatalogHandler) UpdateServiceHandler(c *gin.Context) {
	var input models.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	svc, err := h.CatalogService.UpdateService(c.Request.Context(), actor(c), c.Param("id"), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Service updated successfully", svc)
}

// DeleteServiceHandler handles DELETE /services/:id.
func (h *CatalogHandler) DeleteServiceHandler(c *gin.Context) {
	if err := h.CatalogService.DeleteService(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Service deleted successfully", nil)
}
