package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/technician-sla-api/internal/dto"
	"github.com/noah-isme/technician-sla-api/internal/models"
)

type fakeTechnicianSrv struct {
	views      []dto.TechnicianView
	pending    []dto.TechnicianView
	err        error
	lastFilter models.TechnicianFilter
}

func (f *fakeTechnicianSrv) List(_ context.Context, filter models.TechnicianFilter) ([]dto.TechnicianView, error) {
	f.lastFilter = filter
	return f.views, f.err
}

func (f *fakeTechnicianSrv) Pending(context.Context) ([]dto.TechnicianView, error) {
	return f.pending, f.err
}

func TestTechnicianHandlerListParsesFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeTechnicianSrv{views: []dto.TechnicianView{{No: "T-1"}}}
	handler := NewTechnicianHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/technicians?status=Onprocess&area=RSM1&depot=north&limit=25", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Onprocess", service.lastFilter.Status)
	assert.Equal(t, "RSM1", service.lastFilter.Area)
	assert.Equal(t, "north", service.lastFilter.DepotName)
	assert.Equal(t, 25, service.lastFilter.Limit)
}

func TestTechnicianHandlerListRejectsBadLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTechnicianHandler(&fakeTechnicianSrv{})

	for _, limit := range []string{"abc", "-1"} {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/technicians?limit="+limit, nil)

		handler.List(c)

		assert.Equal(t, http.StatusBadRequest, rec.Code, limit)
	}
}

func TestTechnicianHandlerPending(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTechnicianHandler(&fakeTechnicianSrv{
		pending: []dto.TechnicianView{
			{No: "T-2", CurrentStage: "OJT", DaysInStage: 14},
		},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/technicians/pending", nil)

	handler.Pending(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var views []dto.TechnicianView
	require.NoError(t, json.Unmarshal(envelope.Data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "OJT", views[0].CurrentStage)
	assert.Equal(t, 14, views[0].DaysInStage)
	assert.Equal(t, float64(1), envelope.Meta["rows"])
}
