package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/technician-sla-api/internal/models"
	"github.com/noah-isme/technician-sla-api/internal/service"
	appErrors "github.com/noah-isme/technician-sla-api/pkg/errors"
	"github.com/noah-isme/technician-sla-api/pkg/response"
)

type exportService interface {
	TechniciansCSV(ctx context.Context, filter models.TechnicianFilter) (*service.ExportFile, error)
	TechniciansXLSX(ctx context.Context, filter models.TechnicianFilter) (*service.ExportFile, error)
	SummaryPDF(ctx context.Context) (*service.ExportFile, error)
}

// ExportHandler streams rendered export files.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

func serveFile(c *gin.Context, file *service.ExportFile, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// TechniciansCSV godoc
// @Summary Download the technician list as CSV
// @Tags Exports
// @Produce text/csv
// @Success 200 {file} file
// @Router /exports/technicians.csv [get]
func (h *ExportHandler) TechniciansCSV(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, err := parseTechnicianFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.TechniciansCSV(c.Request.Context(), filter)
	serveFile(c, file, err)
}

// TechniciansXLSX godoc
// @Summary Download the technician list as XLSX
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /exports/technicians.xlsx [get]
func (h *ExportHandler) TechniciansXLSX(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, err := parseTechnicianFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.TechniciansXLSX(c.Request.Context(), filter)
	serveFile(c, file, err)
}

// SummaryPDF godoc
// @Summary Download the summary report as PDF
// @Tags Exports
// @Produce application/pdf
// @Success 200 {file} file
// @Router /exports/summary.pdf [get]
func (h *ExportHandler) SummaryPDF(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	file, err := h.service.SummaryPDF(c.Request.Context())
	serveFile(c, file, err)
}
