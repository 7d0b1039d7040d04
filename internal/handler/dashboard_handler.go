package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/technician-sla-api/internal/dto"
	"github.com/noah-isme/technician-sla-api/internal/middleware"
	appErrors "github.com/noah-isme/technician-sla-api/pkg/errors"
	"github.com/noah-isme/technician-sla-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context) (*dto.SummaryResponse, bool, error)
	StepStats(ctx context.Context) ([]dto.StepStat, bool, error)
	AreaStats(ctx context.Context) ([]dto.AreaStat, bool, error)
	AreaStepSummary(ctx context.Context) ([]dto.AreaStepSummary, bool, error)
	ProvinceStats(ctx context.Context) ([]dto.ProvinceStat, bool, error)
	ProvinceStatsAll(ctx context.Context) ([]dto.ProvinceStat, bool, error)
	MonthlyStats(ctx context.Context) ([]dto.MonthlyStat, bool, error)
	TrainerStats(ctx context.Context) ([]dto.TrainerStat, bool, error)
	DepotStats(ctx context.Context) ([]dto.DepotStat, bool, error)
	StatusDetail(ctx context.Context) ([]dto.StatusDetail, bool, error)
	SLADistribution(ctx context.Context) ([]dto.SLARange, bool, error)
	Bottleneck(ctx context.Context) ([]dto.BottleneckEntry, bool, error)
	FilterOptions(ctx context.Context) (*dto.FilterOptions, bool, error)
}

// DashboardHandler wires the aggregation service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) respond(c *gin.Context, data interface{}, cacheHit bool, err error, start time.Time) {
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, data, meta)
}

// Summary godoc
// @Summary Top-level SLA roll-up
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	summary, cacheHit, err := h.service.Summary(c.Request.Context())
	h.respond(c, summary, cacheHit, err, start)
}

// Areas godoc
// @Summary Per-area roll-up with status breakdowns
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /areas [get]
func (h *DashboardHandler) Areas(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	stats, cacheHit, err := h.service.AreaStats(c.Request.Context())
	h.respond(c, stats, cacheHit, err, start)
}

// AreaSteps godoc
// @Summary Per-area workflow stage drill-down
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /areas/steps [get]
func (h *DashboardHandler) AreaSteps(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	stats, cacheHit, err := h.service.AreaStepSummary(c.Request.Context())
	h.respond(c, stats, cacheHit, err, start)
}

// Provinces godoc
// @Summary Top provinces by registrations
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /provinces [get]
func (h *DashboardHandler) Provinces(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	stats, cacheHit, err := h.service.ProvinceStats(c.Request.Context())
	h.respond(c, stats, cacheHit, err, start)
}

// ProvincesMap godoc
// @Summary All provinces for the map view
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /provinces/map [get]
func (h *DashboardHandler) ProvincesMap(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	stats, cacheHit, err := h.service.ProvinceStatsAll(c.Request.Context())
	h.respond(c, stats, cacheHit, err, start)
}

// Monthly godoc
// @Summary Per-training-month roll-up
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /monthly [get]
func (h *DashboardHandler) Monthly(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	stats, cacheHit, err := h.service.MonthlyStats(c.Request.Context())
	h.respond(c, stats, cacheHit, err, start)
}

// Trainers godoc
// @Summary Top trainers by trainee count
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /trainers [get]
func (h *DashboardHandler) Trainers(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	stats, cacheHit, err := h.service.TrainerStats(c.Request.Context())
	h.respond(c, stats, cacheHit, err, start)
}

// Depots godoc
// @Summary Top depots by registrations
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /depots [get]
func (h *DashboardHandler) Depots(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	stats, cacheHit, err := h.service.DepotStats(c.Request.Context())
	h.respond(c, stats, cacheHit, err, start)
}

// StatusDetail godoc
// @Summary Raw result value counts
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /status-detail [get]
func (h *DashboardHandler) StatusDetail(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	details, cacheHit, err := h.service.StatusDetail(c.Request.Context())
	h.respond(c, details, cacheHit, err, start)
}

// SLASteps godoc
// @Summary Per-stage SLA statistics
// @Tags SLA
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sla/steps [get]
func (h *DashboardHandler) SLASteps(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	stats, cacheHit, err := h.service.StepStats(c.Request.Context())
	h.respond(c, stats, cacheHit, err, start)
}

// SLADistribution godoc
// @Summary End-to-end duration distribution buckets
// @Tags SLA
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sla/distribution [get]
func (h *DashboardHandler) SLADistribution(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	ranges, cacheHit, err := h.service.SLADistribution(c.Request.Context())
	h.respond(c, ranges, cacheHit, err, start)
}

// SLABottleneck godoc
// @Summary Stages ranked by average duration
// @Tags SLA
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sla/bottleneck [get]
func (h *DashboardHandler) SLABottleneck(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	entries, cacheHit, err := h.service.Bottleneck(c.Request.Context())
	h.respond(c, entries, cacheHit, err, start)
}

// Filters godoc
// @Summary Distinct filter option values
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /filters [get]
func (h *DashboardHandler) Filters(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	options, cacheHit, err := h.service.FilterOptions(c.Request.Context())
	h.respond(c, options, cacheHit, err, start)
}
