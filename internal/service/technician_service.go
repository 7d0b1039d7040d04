package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/technician-sla-api/internal/dto"
	"github.com/noah-isme/technician-sla-api/internal/models"
)

// pendingSortFloor stands in for a missing or negative total duration so
// those records sort after every real value in the descending pending list,
// keeping their source order within the group.
const pendingSortFloor = -9999

// TechnicianServiceParams groups constructor dependencies.
type TechnicianServiceParams struct {
	Source     RecordProvider
	Catalog    models.SchemaCatalog
	Classifier LifecycleClassifier
	Logger     *zap.Logger
}

// TechnicianService serves the per-record list views.
type TechnicianService struct {
	source     RecordProvider
	catalog    models.SchemaCatalog
	classifier LifecycleClassifier
	logger     *zap.Logger
	now        func() time.Time
}

// NewTechnicianService constructs a TechnicianService.
func NewTechnicianService(params TechnicianServiceParams) *TechnicianService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	classifier := params.Classifier
	if classifier == nil {
		classifier = NewClassifier(params.Catalog)
	}
	return &TechnicianService{
		source:     params.Source,
		catalog:    params.Catalog,
		classifier: classifier,
		logger:     logger,
		now:        time.Now,
	}
}

// List returns technician rows matching the filter, in source order.
func (s *TechnicianService) List(ctx context.Context, filter models.TechnicianFilter) ([]dto.TechnicianView, error) {
	records := NormalizeRecords(s.source.Load(ctx), s.catalog)
	views := make([]dto.TechnicianView, 0, len(records))
	for _, rec := range records {
		if !s.matches(rec, filter) {
			continue
		}
		views = append(views, s.project(rec))
		if filter.Limit > 0 && len(views) >= filter.Limit {
			break
		}
	}
	return views, nil
}

// Pending returns in-process technicians sorted by total elapsed days,
// longest waiting first, annotated with their current stage.
func (s *TechnicianService) Pending(ctx context.Context) ([]dto.TechnicianView, error) {
	records := NormalizeRecords(s.source.Load(ctx), s.catalog)
	type pendingRow struct {
		view dto.TechnicianView
		sla  float64
	}
	rows := make([]pendingRow, 0, len(records))
	for _, rec := range records {
		classification := s.classifier.Classify(rec)
		if classification.State != models.StateOnprocess {
			continue
		}
		view := s.project(rec)
		if spec, ok := s.currentStage(rec, classification); ok {
			view.CurrentStage = spec.Label
			if elapsed := StageElapsed(rec, spec, s.now()); elapsed != nil {
				view.DaysInStage = *elapsed
			}
		}
		sla := float64(pendingSortFloor)
		if rec.SLATotal != nil && *rec.SLATotal >= 0 {
			sla = *rec.SLATotal
		}
		rows = append(rows, pendingRow{view: view, sla: sla})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].sla > rows[j].sla })
	views := make([]dto.TechnicianView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.view)
	}
	return views, nil
}

// currentStage resolves the stage a pending record is sitting in. The status
// mapping wins when it names a stage; otherwise the last started stage
// without an end date is used.
func (s *TechnicianService) currentStage(rec models.TechnicianRecord, classification models.Classification) (models.StageSpec, bool) {
	if classification.StageKey != "" {
		if spec, ok := s.catalog.StageByKey(classification.StageKey); ok {
			return spec, true
		}
	}
	var found models.StageSpec
	var ok bool
	for _, spec := range s.catalog.Stages {
		timing := rec.Stage(spec.Key)
		if timing.Start != nil && timing.End == nil {
			found = spec
			ok = true
		}
	}
	return found, ok
}

func (s *TechnicianService) matches(rec models.TechnicianRecord, filter models.TechnicianFilter) bool {
	if filter.Status != "" {
		// A sub-stage label filters on the raw status; anything else is
		// treated as a lifecycle state name.
		if s.catalog.IsSubStage(filter.Status) {
			if rec.Status != filter.Status {
				return false
			}
		} else if !strings.EqualFold(string(s.classifier.Classify(rec).State), filter.Status) {
			return false
		}
	}
	if filter.Area != "" && rec.Area != filter.Area {
		return false
	}
	if filter.Province != "" && rec.Province != filter.Province {
		return false
	}
	if filter.DepotCode != "" && !strings.Contains(strings.ToLower(rec.DepotCode), strings.ToLower(filter.DepotCode)) {
		return false
	}
	if filter.DepotName != "" && !strings.Contains(strings.ToLower(rec.DepotName), strings.ToLower(filter.DepotName)) {
		return false
	}
	return true
}

func (s *TechnicianService) project(rec models.TechnicianRecord) dto.TechnicianView {
	view := dto.TechnicianView{
		No:            rec.No,
		Name:          rec.FullNameTH,
		NameEN:        strings.TrimSpace(rec.FirstNameEN + " " + rec.LastNameEN),
		Depot:         rec.DepotName,
		DepotCode:     rec.DepotCode,
		Province:      rec.Province,
		Area:          rec.Area,
		Education:     rec.Education,
		Workgroup:     rec.Workgroup,
		TheoryResult:  rec.TheoryResult,
		OJTResult:     rec.OJTResult,
		Status:        rec.Status,
		Result:        rec.Result,
		TrainingMonth: rec.TrainingMonth,
		TrainingRound: rec.TrainingRound,
		Trainer:       rec.Trainer,
		StageSLAs:     make(map[string]int, len(s.catalog.Stages)),
	}
	view.SLATotal = safeInt(rec.SLATotal)
	for _, spec := range s.catalog.Stages {
		view.StageSLAs[spec.Key] = safeInt(rec.Stage(spec.Key).SLA)
	}
	return view
}
