package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/technician-sla-api/internal/dto"
	"github.com/noah-isme/technician-sla-api/internal/models"
	appErrors "github.com/noah-isme/technician-sla-api/pkg/errors"
)

type fakeLister struct {
	views []dto.TechnicianView
	err   error
}

func (f *fakeLister) List(context.Context, models.TechnicianFilter) ([]dto.TechnicianView, error) {
	return f.views, f.err
}

type fakeSummary struct {
	resp *dto.SummaryResponse
	err  error
}

func (f *fakeSummary) Summary(context.Context) (*dto.SummaryResponse, bool, error) {
	return f.resp, false, f.err
}

func newTestExports(enabled bool) *ExportService {
	return NewExportService(ExportServiceParams{
		Technicians: &fakeLister{views: []dto.TechnicianView{
			{No: "T-1", Name: "ช่างหนึ่ง", Depot: "Depot A", SLATotal: 42},
			{No: "T-2", Name: "ช่างสอง", Depot: "Depot B"},
		}},
		Dashboard: &fakeSummary{resp: &dto.SummaryResponse{Total: 2, Completed: 1, CompletedRate: 50}},
		Enabled:   enabled,
	})
}

func TestExportsDisabled(t *testing.T) {
	svc := newTestExports(false)

	_, err := svc.TechniciansCSV(context.Background(), models.TechnicianFilter{})
	assert.ErrorIs(t, err, appErrors.ErrExportDisabled)
	_, err = svc.TechniciansXLSX(context.Background(), models.TechnicianFilter{})
	assert.ErrorIs(t, err, appErrors.ErrExportDisabled)
	_, err = svc.SummaryPDF(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrExportDisabled)
}

func TestTechniciansCSV(t *testing.T) {
	svc := newTestExports(true)

	file, err := svc.TechniciansCSV(context.Background(), models.TechnicianFilter{})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "technicians-"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	body := string(file.Data)
	assert.Contains(t, body, "No,Name,Depot Code")
	assert.Contains(t, body, "T-1")
	assert.Contains(t, body, "42")
}

func TestTechniciansXLSX(t *testing.T) {
	svc := newTestExports(true)

	file, err := svc.TechniciansXLSX(context.Background(), models.TechnicianFilter{})
	require.NoError(t, err)
	assert.NotEmpty(t, file.Data)
	assert.True(t, strings.HasSuffix(file.Filename, ".xlsx"))
	// XLSX payloads are zip archives.
	assert.Equal(t, "PK", string(file.Data[:2]))
}

func TestSummaryPDF(t *testing.T) {
	svc := newTestExports(true)

	file, err := svc.SummaryPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Data), "%PDF"))
}
