package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/technician-sla-api/internal/dto"
	"github.com/noah-isme/technician-sla-api/internal/models"
	"github.com/noah-isme/technician-sla-api/pkg/errors"
	"github.com/noah-isme/technician-sla-api/pkg/export"
)

var technicianExportHeaders = []string{
	"No", "Name", "Depot Code", "Depot", "Province", "Area",
	"Training Month", "Trainer", "Theory", "OJT", "Status", "Result", "SLA Total",
}

type technicianLister interface {
	List(ctx context.Context, filter models.TechnicianFilter) ([]dto.TechnicianView, error)
}

type summaryProvider interface {
	Summary(ctx context.Context) (*dto.SummaryResponse, bool, error)
}

// ExportFile is a rendered download ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportServiceParams groups constructor dependencies.
type ExportServiceParams struct {
	Technicians technicianLister
	Dashboard   summaryProvider
	Enabled     bool
	Logger      *zap.Logger
}

// ExportService renders dashboard data into downloadable files.
type ExportService struct {
	technicians technicianLister
	dashboard   summaryProvider
	enabled     bool
	logger      *zap.Logger
	csv         *export.CSVExporter
	excel       *export.ExcelExporter
	pdf         *export.PDFExporter
}

// NewExportService constructs an ExportService.
func NewExportService(params ExportServiceParams) *ExportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		technicians: params.Technicians,
		dashboard:   params.Dashboard,
		enabled:     params.Enabled,
		logger:      logger,
		csv:         export.NewCSVExporter(),
		excel:       export.NewExcelExporter(),
		pdf:         export.NewPDFExporter(),
	}
}

// TechniciansCSV renders the filtered technician list as CSV.
func (s *ExportService) TechniciansCSV(ctx context.Context, filter models.TechnicianFilter) (*ExportFile, error) {
	if !s.enabled {
		return nil, errors.ErrExportDisabled
	}
	dataset, err := s.technicianDataset(ctx, filter)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(*dataset)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "render csv export")
	}
	return &ExportFile{
		Filename:    exportFilename("technicians", "csv"),
		ContentType: "text/csv",
		Data:        data,
	}, nil
}

// TechniciansXLSX renders the filtered technician list as an XLSX workbook.
func (s *ExportService) TechniciansXLSX(ctx context.Context, filter models.TechnicianFilter) (*ExportFile, error) {
	if !s.enabled {
		return nil, errors.ErrExportDisabled
	}
	dataset, err := s.technicianDataset(ctx, filter)
	if err != nil {
		return nil, err
	}
	data, err := s.excel.Render(*dataset, "Technicians")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "render xlsx export")
	}
	return &ExportFile{
		Filename:    exportFilename("technicians", "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

// SummaryPDF renders the top-level roll-up as a one-page PDF report.
func (s *ExportService) SummaryPDF(ctx context.Context) (*ExportFile, error) {
	if !s.enabled {
		return nil, errors.ErrExportDisabled
	}
	summary, _, err := s.dashboard.Summary(ctx)
	if err != nil {
		return nil, err
	}

	rows := []map[string]string{
		{"Metric": "Total", "Value": strconv.Itoa(summary.Total)},
		{"Metric": "Completed", "Value": strconv.Itoa(summary.Completed)},
		{"Metric": "On Process", "Value": strconv.Itoa(summary.Onprocess)},
		{"Metric": "Closed", "Value": strconv.Itoa(summary.Closed)},
		{"Metric": "Cancelled", "Value": strconv.Itoa(summary.Cancelled)},
		{"Metric": "Completed Rate (%)", "Value": formatFloat(summary.CompletedRate)},
		{"Metric": "Theory Pass Rate (%)", "Value": formatFloat(summary.TheoryRate)},
		{"Metric": "OJT Pass Rate (%)", "Value": formatFloat(summary.OJTRate)},
		{"Metric": "Avg SLA Total (days)", "Value": formatFloat(summary.AvgSLATotal)},
	}
	data, err := s.pdf.Render(export.Dataset{Headers: []string{"Metric", "Value"}, Rows: rows}, "Technician SLA Summary")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "render pdf export")
	}
	return &ExportFile{
		Filename:    exportFilename("summary", "pdf"),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func (s *ExportService) technicianDataset(ctx context.Context, filter models.TechnicianFilter) (*export.Dataset, error) {
	views, err := s.technicians.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]string, 0, len(views))
	for _, view := range views {
		rows = append(rows, map[string]string{
			"No":             view.No,
			"Name":           view.Name,
			"Depot Code":     view.DepotCode,
			"Depot":          view.Depot,
			"Province":       view.Province,
			"Area":           view.Area,
			"Training Month": view.TrainingMonth,
			"Trainer":        view.Trainer,
			"Theory":         view.TheoryResult,
			"OJT":            view.OJTResult,
			"Status":         view.Status,
			"Result":         view.Result,
			"SLA Total":      strconv.Itoa(view.SLATotal),
		})
	}
	return &export.Dataset{Headers: technicianExportHeaders, Rows: rows}, nil
}

func exportFilename(prefix, ext string) string {
	return fmt.Sprintf("%s-%s.%s", prefix, uuid.NewString()[:8], ext)
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64)
}
