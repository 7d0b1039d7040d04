package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/technician-sla-api/internal/dto"
	"github.com/noah-isme/technician-sla-api/internal/middleware"
	"github.com/noah-isme/technician-sla-api/internal/models"
	appErrors "github.com/noah-isme/technician-sla-api/pkg/errors"
	"github.com/noah-isme/technician-sla-api/pkg/response"
)

type technicianService interface {
	List(ctx context.Context, filter models.TechnicianFilter) ([]dto.TechnicianView, error)
	Pending(ctx context.Context) ([]dto.TechnicianView, error)
}

// TechnicianHandler wires the technician list service to HTTP endpoints.
type TechnicianHandler struct {
	service technicianService
}

// NewTechnicianHandler constructs the handler.
func NewTechnicianHandler(service technicianService) *TechnicianHandler {
	return &TechnicianHandler{service: service}
}

func parseTechnicianFilter(c *gin.Context) (models.TechnicianFilter, error) {
	filter := models.TechnicianFilter{
		Status:    strings.TrimSpace(c.Query("status")),
		Area:      strings.TrimSpace(c.Query("area")),
		Province:  strings.TrimSpace(c.Query("province")),
		DepotCode: strings.TrimSpace(c.Query("depot_code")),
		DepotName: strings.TrimSpace(c.Query("depot")),
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, appErrors.Clone(appErrors.ErrValidation, "limit must be a non-negative integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}

// List godoc
// @Summary List technician records
// @Tags Technicians
// @Produce json
// @Param status query string false "Lifecycle state filter"
// @Param area query string false "Area filter"
// @Param province query string false "Province filter"
// @Param depot_code query string false "Depot code substring"
// @Param depot query string false "Depot name substring"
// @Param limit query int false "Maximum rows"
// @Success 200 {object} response.Envelope
// @Router /technicians [get]
func (h *TechnicianHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, err := parseTechnicianFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	views, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetRowCount(c, len(views))
	response.JSON(c, http.StatusOK, views, middleware.ExtractMeta(c))
}

// Pending godoc
// @Summary In-process technicians, longest waiting first
// @Tags Technicians
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /technicians/pending [get]
func (h *TechnicianHandler) Pending(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	views, err := h.service.Pending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetRowCount(c, len(views))
	response.JSON(c, http.StatusOK, views, middleware.ExtractMeta(c))
}
