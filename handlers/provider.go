package handlers

import (
	"net/http"

	"wheelstrust/models"
	"wheelstrust/services/provider"
	"wheelstrust/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var providerFilters = utils.Filterable{
	"address.city": utils.StringField,
	"verified":     utils.BoolField,
	"services":     utils.StringField,
	"rating":       utils.NumberField,
	"user":         utils.StringField,
}

// ProviderHandler serves service provider profiles.
type ProviderHandler struct {
	ProviderService provider.ProviderService
}

func NewProviderHandler(ps provider.ProviderService) *ProviderHandler {
	return &ProviderHandler{ProviderService: ps}
}

// ListProvidersHandler handles GET /service-providers. ?city= filters on the address city.
func (h *ProviderHandler) ListProvidersHandler(c *gin.Context) {
	c.Request.URL.RawQuery = aliasParam(c.Request.URL.Query(), "city", "address.city").Encode()
	q, ok := listQuery(c, providerFilters)
	if !ok {
		return
	}
	providers, page, err := h.ProviderService.ListProviders(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Page(c, "serviceProviders", providers, page)
}

// GetProviderHandler handles GET /service-providers/:id.
func (h *ProviderHandler) GetProviderHandler(c *gin.Context) {
	p, err := h.ProviderService.GetProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.OK(c, p)
}

// GetMyProviderHandler handles GET /service-providers/me.
func (h *ProviderHandler) GetMyProviderHandler(c *gin.Context) {
	p, err := h.ProviderService.GetMine(c.Request.Context(), actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.OK(c, p)
}

// CreateProviderHandler handles POST /service-providers.
func (h *ProviderHandler) CreateProviderHandler(c *gin.Context) {
	var input models.ProviderInput
	if !bindJSON(c, &input) {
		return
	}
	p, err := h.ProviderService.CreateProvider(c.Request.Context(), actor(c), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	getLogger(c).Info("Service provider created", zap.String("providerId", p.ID), zap.String("userId", p.User))
	utils.Message(c, http.StatusCreated, "Service provider created successfully", p)
}

// UpdateProviderHandler handles PUT /service-providers/:id.
func (h *ProviderHandler) UpdateProviderHandler(c *gin.Context) {
	var input models.ProviderInput
	if !bindJSON(c, &input) {
		return
	}
	p, err := h.ProviderService.UpdateProvider(c.Request.Context(), actor(c), c.Param("id"), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Service provider updated successfully", p)
}

// DeleteProviderHandler handles DELETE /service-providers/:id.
func (h *ProviderHandler) DeleteProviderHandler(c *gin.Context) {
	if err := h.ProviderService.DeleteProvider(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Service provider deleted successfully", nil)
}

// VerifyProviderHandler handles PATCH /service-providers/:id/verify (admin).
func (h *ProviderHandler) VerifyProviderHandler(c *gin.Context) {
	var req models.ProviderVerification
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.ProviderService.SetVerified(c.Request.Context(), c.Param("id"), *req.Verified)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Verification updated", p)
}
