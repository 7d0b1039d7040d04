package service

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/technician-sla-api/internal/dto"
	"github.com/noah-isme/technician-sla-api/internal/models"
)

// RecordProvider supplies the raw technician table for one request.
type RecordProvider interface {
	Load(ctx context.Context) []models.RawRecord
}

var areaPattern = regexp.MustCompile(`RSM(\d+)`)

// Labels for the end-to-end SLA distribution buckets, in bucket order.
var slaBucketLabels = []string{"0-30 วัน", "31-45 วัน", "46-60 วัน", "61-90 วัน", ">90 วัน"}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Source     RecordProvider
	Catalog    models.SchemaCatalog
	Classifier LifecycleClassifier
	MonthOrder []string
	Cache      *CacheService
	CacheTTL   time.Duration
	Logger     *zap.Logger
}

// DashboardService computes every aggregate from a request-scoped snapshot of
// the record table. All computations are pure over the normalized records; no
// state survives a request.
type DashboardService struct {
	source     RecordProvider
	catalog    models.SchemaCatalog
	classifier LifecycleClassifier
	monthOrder []string
	cache      *CacheService
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	classifier := params.Classifier
	if classifier == nil {
		classifier = NewClassifier(params.Catalog)
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DashboardService{
		source:     params.Source,
		catalog:    params.Catalog,
		classifier: classifier,
		monthOrder: params.MonthOrder,
		cache:      params.Cache,
		cacheTTL:   ttl,
		logger:     logger,
	}
}

func (s *DashboardService) loadRecords(ctx context.Context) []models.TechnicianRecord {
	if s.source == nil {
		return nil
	}
	return NormalizeRecords(s.source.Load(ctx), s.catalog)
}

// cached wraps an aggregate computation with the optional response cache.
func cached[T any](ctx context.Context, s *DashboardService, key string, compute func([]models.TechnicianRecord) T) (T, bool, error) {
	var result T
	if s.cache.Enabled() {
		if hit, err := s.cache.Get(ctx, key, &result); err == nil && hit {
			return result, true, nil
		}
	}
	result = compute(s.loadRecords(ctx))
	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return result, false, nil
}

// Summary returns the top-level roll-up.
func (s *DashboardService) Summary(ctx context.Context) (*dto.SummaryResponse, bool, error) {
	return cached(ctx, s, "dash:summary", s.buildSummary)
}

// StepStats returns the per-stage SLA statistics.
func (s *DashboardService) StepStats(ctx context.Context) ([]dto.StepStat, bool, error) {
	return cached(ctx, s, "dash:steps", s.buildStepStats)
}

// AreaStats returns per-area roll-ups with status breakdowns.
func (s *DashboardService) AreaStats(ctx context.Context) ([]dto.AreaStat, bool, error) {
	return cached(ctx, s, "dash:areas", s.buildAreaStats)
}

// AreaStepSummary returns the per-area, per-stage drill-down.
func (s *DashboardService) AreaStepSummary(ctx context.Context) ([]dto.AreaStepSummary, bool, error) {
	return cached(ctx, s, "dash:areas:steps", s.buildAreaStepSummary)
}

// ProvinceStats returns the ten provinces with the most registrations.
func (s *DashboardService) ProvinceStats(ctx context.Context) ([]dto.ProvinceStat, bool, error) {
	return cached(ctx, s, "dash:provinces", func(records []models.TechnicianRecord) []dto.ProvinceStat {
		return s.buildProvinceStats(records, 10, false)
	})
}

// ProvinceStatsAll returns every province for the map view.
func (s *DashboardService) ProvinceStatsAll(ctx context.Context) ([]dto.ProvinceStat, bool, error) {
	return cached(ctx, s, "dash:provinces:map", func(records []models.TechnicianRecord) []dto.ProvinceStat {
		return s.buildProvinceStats(records, 0, true)
	})
}

// MonthlyStats returns per-training-month roll-ups.
func (s *DashboardService) MonthlyStats(ctx context.Context) ([]dto.MonthlyStat, bool, error) {
	return cached(ctx, s, "dash:monthly", s.buildMonthlyStats)
}

// TrainerStats returns the ten busiest trainers.
func (s *DashboardService) TrainerStats(ctx context.Context) ([]dto.TrainerStat, bool, error) {
	return cached(ctx, s, "dash:trainers", s.buildTrainerStats)
}

// DepotStats returns the twenty busiest depots.
func (s *DashboardService) DepotStats(ctx context.Context) ([]dto.DepotStat, bool, error) {
	return cached(ctx, s, "dash:depots", s.buildDepotStats)
}

// StatusDetail counts raw result values.
func (s *DashboardService) StatusDetail(ctx context.Context) ([]dto.StatusDetail, bool, error) {
	return cached(ctx, s, "dash:status-detail", s.buildStatusDetail)
}

// SLADistribution buckets total durations into fixed day ranges.
func (s *DashboardService) SLADistribution(ctx context.Context) ([]dto.SLARange, bool, error) {
	return cached(ctx, s, "dash:sla:distribution", s.buildSLADistribution)
}

// Bottleneck ranks workflow stages by average valid duration, slowest first.
func (s *DashboardService) Bottleneck(ctx context.Context) ([]dto.BottleneckEntry, bool, error) {
	return cached(ctx, s, "dash:sla:bottleneck", s.buildBottleneck)
}

// FilterOptions lists distinct areas and provinces for the filter widgets.
func (s *DashboardService) FilterOptions(ctx context.Context) (*dto.FilterOptions, bool, error) {
	return cached(ctx, s, "dash:filters", s.buildFilterOptions)
}

func (s *DashboardService) buildSummary(records []models.TechnicianRecord) *dto.SummaryResponse {
	summary := &dto.SummaryResponse{
		SLAByStep:    map[string]float64{},
		StatusCounts: map[string]int{},
	}
	if len(records) == 0 {
		for _, spec := range s.catalog.Stages {
			summary.SLAByStep[spec.Key] = 0
		}
		return summary
	}

	summary.Total = len(records)
	for _, rec := range records {
		if rec.Status != "" {
			summary.StatusCounts[rec.Status]++
		}
		switch s.classifier.Classify(rec).State {
		case models.StateCompleted:
			summary.Completed++
		case models.StateOnprocess:
			summary.Onprocess++
		case models.StateClosed:
			summary.Closed++
		case models.StateCancel:
			summary.Cancelled++
		}
		switch rec.TheoryResult {
		case models.ResultPass:
			summary.TheoryPass++
		case models.ResultFail:
			summary.TheoryFail++
		}
		switch rec.OJTResult {
		case models.ResultPass:
			summary.OJTPass++
		case models.ResultFail:
			summary.OJTFail++
		}
	}

	summary.CompletedRate = rate(summary.Completed, summary.Total)
	summary.OnprocessRate = rate(summary.Onprocess, summary.Total)
	summary.ClosedRate = rate(summary.Closed, summary.Total)
	summary.TheoryRate = rate(summary.TheoryPass, summary.TheoryPass+summary.TheoryFail)
	summary.OJTRate = rate(summary.OJTPass, summary.OJTPass+summary.OJTFail)

	var totalSum float64
	var totalCount int
	for _, rec := range records {
		if totalValid(rec) {
			totalSum += *rec.SLATotal
			totalCount++
		}
	}
	if totalCount > 0 {
		summary.AvgSLATotal = round1(totalSum / float64(totalCount))
	}

	for _, spec := range s.catalog.Stages {
		var sum float64
		var count int
		for _, rec := range records {
			if timing := rec.Stage(spec.Key); stageValid(timing) {
				sum += *timing.SLA
				count++
			}
		}
		if count > 0 {
			summary.SLAByStep[spec.Key] = round1(sum / float64(count))
		} else {
			summary.SLAByStep[spec.Key] = 0
		}
	}
	return summary
}

func (s *DashboardService) buildStepStats(records []models.TechnicianRecord) []dto.StepStat {
	if len(records) == 0 {
		return []dto.StepStat{}
	}
	stats := make([]dto.StepStat, 0, len(s.catalog.Stages))
	for _, spec := range s.catalog.Stages {
		var sum, max, min float64
		var count int
		for _, rec := range records {
			timing := rec.Stage(spec.Key)
			if !stageValid(timing) {
				continue
			}
			value := *timing.SLA
			if count == 0 || value > max {
				max = value
			}
			if count == 0 || value < min {
				min = value
			}
			sum += value
			count++
		}

		complete := 0
		for _, rec := range records {
			if stageComplete(rec.Stage(spec.Key), spec.Key) {
				complete++
			}
		}

		stat := dto.StepStat{Key: spec.Key, Name: spec.Label, Total: count, Complete: complete}
		if count > 0 {
			stat.AvgSLA = round1(sum / float64(count))
			stat.MaxSLA = int(max)
			stat.MinSLA = int(min)
		}
		stats = append(stats, stat)
	}
	return stats
}

// stageComplete reports whether a stage has finished for a record. The DFlow
// approval stage signals completion through its result value rather than a
// Complete status.
func stageComplete(timing models.StageTiming, key string) bool {
	if key == "dflow" || key == "approval" {
		switch timing.Result {
		case "Approve", "Reject", "Resend":
			return true
		}
		return false
	}
	return timing.Status == "Complete"
}

func (s *DashboardService) buildAreaStats(records []models.TechnicianRecord) []dto.AreaStat {
	if len(records) == 0 {
		return []dto.AreaStat{}
	}

	type areaAcc struct {
		stat         dto.AreaStat
		slaSum       float64
		slaCount     int
		onprocessIdx map[string]int
		closedIdx    map[string]int
	}
	accs := map[string]*areaAcc{}
	order := []string{}

	for _, rec := range records {
		if rec.Area == "" {
			continue
		}
		acc, ok := accs[rec.Area]
		if !ok {
			acc = &areaAcc{
				stat:         dto.AreaStat{Area: rec.Area, OnprocessBreakdown: []dto.StatusCount{}, ClosedBreakdown: []dto.StatusCount{}},
				onprocessIdx: map[string]int{},
				closedIdx:    map[string]int{},
			}
			accs[rec.Area] = acc
			order = append(order, rec.Area)
		}
		acc.stat.Total++

		switch s.classifier.Classify(rec).State {
		case models.StateCompleted:
			acc.stat.Completed++
		case models.StateOnprocess:
			acc.stat.Onprocess++
			bumpBreakdown(&acc.stat.OnprocessBreakdown, acc.onprocessIdx, rec.Status)
		case models.StateClosed:
			acc.stat.Closed++
			label := rec.Status
			if label == s.catalog.StatusSets.AgentPending {
				label += " (Closed)"
			}
			bumpBreakdown(&acc.stat.ClosedBreakdown, acc.closedIdx, label)
		}

		if totalValid(rec) {
			acc.slaSum += *rec.SLATotal
			acc.slaCount++
		}
	}

	stats := make([]dto.AreaStat, 0, len(order))
	for _, area := range order {
		acc := accs[area]
		if acc.slaCount > 0 {
			acc.stat.AvgSLA = round1(acc.slaSum / float64(acc.slaCount))
		}
		acc.stat.SuccessRate = rate(acc.stat.Completed, acc.stat.Total)
		stats = append(stats, acc.stat)
	}
	sortAreas(stats, func(stat dto.AreaStat) string { return stat.Area })
	return stats
}

func bumpBreakdown(breakdown *[]dto.StatusCount, index map[string]int, label string) {
	if label == "" {
		label = "(unknown)"
	}
	if i, ok := index[label]; ok {
		(*breakdown)[i].Count++
		return
	}
	index[label] = len(*breakdown)
	*breakdown = append(*breakdown, dto.StatusCount{Status: label, Count: 1})
}

func (s *DashboardService) buildAreaStepSummary(records []models.TechnicianRecord) []dto.AreaStepSummary {
	if len(records) == 0 {
		return []dto.AreaStepSummary{}
	}

	byArea := map[string][]models.TechnicianRecord{}
	order := []string{}
	for _, rec := range records {
		if rec.Area == "" {
			continue
		}
		if _, ok := byArea[rec.Area]; !ok {
			order = append(order, rec.Area)
		}
		byArea[rec.Area] = append(byArea[rec.Area], rec)
	}

	summaries := make([]dto.AreaStepSummary, 0, len(order))
	for _, area := range order {
		group := byArea[area]
		summary := dto.AreaStepSummary{
			Area:  area,
			Total: len(group),
			Steps: make(map[string]dto.AreaStepGroup, len(s.catalog.Stages)),
		}

		for _, rec := range group {
			switch s.classifier.Classify(rec).State {
			case models.StateCompleted:
				summary.Completed++
			case models.StateClosed:
				summary.Closed++
			}
		}

		for _, spec := range s.catalog.Stages {
			step := dto.AreaStepGroup{Details: []dto.TechnicianDetail{}}
			var sum float64
			var count int
			for _, rec := range group {
				timing := rec.Stage(spec.Key)
				if !stageInFlight(timing) {
					continue
				}
				step.Count++
				step.Details = append(step.Details, dto.TechnicianDetail{
					DepotCode:  rec.DepotCode,
					DepotName:  rec.DepotName,
					FullNameTH: rec.FullNameTH,
				})
				// In-flight stages have no end timestamp yet, so the
				// full validity rule cannot apply here; negative and
				// missing durations are still excluded.
				if timing.SLA != nil && *timing.SLA >= 0 {
					sum += *timing.SLA
					count++
				}
			}
			if count > 0 {
				step.AvgSLA = round1(sum / float64(count))
			}
			summary.Steps[spec.Key] = step
			summary.Onprocess += step.Count
		}

		summaries = append(summaries, summary)
	}
	sortAreas(summaries, func(summary dto.AreaStepSummary) string { return summary.Area })
	return summaries
}

// stageInFlight reports whether a record is currently inside a stage. Some
// stages record progress only through their result column.
func stageInFlight(timing models.StageTiming) bool {
	if timing.Status == string(models.StateOnprocess) {
		return true
	}
	return timing.Status == "" && timing.Result == string(models.StateOnprocess)
}

func (s *DashboardService) buildProvinceStats(records []models.TechnicianRecord, topN int, withOnprocess bool) []dto.ProvinceStat {
	if len(records) == 0 {
		return []dto.ProvinceStat{}
	}

	accs := map[string]*dto.ProvinceStat{}
	order := []string{}
	for _, rec := range records {
		if rec.Province == "" {
			continue
		}
		stat, ok := accs[rec.Province]
		if !ok {
			stat = &dto.ProvinceStat{Province: rec.Province}
			accs[rec.Province] = stat
			order = append(order, rec.Province)
		}
		stat.Total++
		switch s.classifier.Classify(rec).State {
		case models.StateCompleted:
			stat.Completed++
		case models.StateOnprocess:
			if withOnprocess {
				stat.Onprocess++
			}
		}
	}

	stats := make([]dto.ProvinceStat, 0, len(order))
	for _, province := range order {
		stat := accs[province]
		stat.SuccessRate = rate(stat.Completed, stat.Total)
		stats = append(stats, *stat)
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Total > stats[j].Total })
	if topN > 0 && len(stats) > topN {
		stats = stats[:topN]
	}
	return stats
}

func (s *DashboardService) buildMonthlyStats(records []models.TechnicianRecord) []dto.MonthlyStat {
	if len(records) == 0 {
		return []dto.MonthlyStat{}
	}

	accs := map[string]*dto.MonthlyStat{}
	order := []string{}
	for _, rec := range records {
		if rec.TrainingMonth == "" {
			continue
		}
		stat, ok := accs[rec.TrainingMonth]
		if !ok {
			stat = &dto.MonthlyStat{Month: rec.TrainingMonth}
			accs[rec.TrainingMonth] = stat
			order = append(order, rec.TrainingMonth)
		}
		stat.Total++
		switch s.classifier.Classify(rec).State {
		case models.StateCompleted:
			stat.Completed++
		case models.StateOnprocess:
			stat.Onprocess++
		case models.StateClosed:
			stat.Closed++
		}
	}

	stats := make([]dto.MonthlyStat, 0, len(order))
	for _, month := range order {
		stats = append(stats, *accs[month])
	}

	rank := func(month string) int {
		for i, m := range s.monthOrder {
			if m == month {
				return i
			}
		}
		return len(s.monthOrder) + 99
	}
	sort.SliceStable(stats, func(i, j int) bool { return rank(stats[i].Month) < rank(stats[j].Month) })
	return stats
}

func (s *DashboardService) buildTrainerStats(records []models.TechnicianRecord) []dto.TrainerStat {
	if len(records) == 0 {
		return []dto.TrainerStat{}
	}

	accs := map[string]*dto.TrainerStat{}
	order := []string{}
	for _, rec := range records {
		if rec.Trainer == "" {
			continue
		}
		stat, ok := accs[rec.Trainer]
		if !ok {
			stat = &dto.TrainerStat{Trainer: rec.Trainer}
			accs[rec.Trainer] = stat
			order = append(order, rec.Trainer)
		}
		stat.Total++
		if rec.TheoryResult == models.ResultPass {
			stat.Passed++
		}
	}

	stats := make([]dto.TrainerStat, 0, len(order))
	for _, trainer := range order {
		stat := accs[trainer]
		stat.PassRate = rate(stat.Passed, stat.Total)
		stats = append(stats, *stat)
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Total > stats[j].Total })
	if len(stats) > 10 {
		stats = stats[:10]
	}
	return stats
}

func (s *DashboardService) buildDepotStats(records []models.TechnicianRecord) []dto.DepotStat {
	if len(records) == 0 {
		return []dto.DepotStat{}
	}

	type depotAcc struct {
		stat     dto.DepotStat
		slaSum   float64
		slaCount int
	}
	accs := map[string]*depotAcc{}
	order := []string{}
	for _, rec := range records {
		if rec.DepotName == "" {
			continue
		}
		acc, ok := accs[rec.DepotName]
		if !ok {
			acc = &depotAcc{stat: dto.DepotStat{Depot: rec.DepotName, Code: rec.DepotCode}}
			accs[rec.DepotName] = acc
			order = append(order, rec.DepotName)
		}
		acc.stat.Total++
		if s.classifier.Classify(rec).State == models.StateCompleted {
			acc.stat.Completed++
		}
		if totalValid(rec) {
			acc.slaSum += *rec.SLATotal
			acc.slaCount++
		}
	}

	stats := make([]dto.DepotStat, 0, len(order))
	for _, depot := range order {
		acc := accs[depot]
		if acc.slaCount > 0 {
			acc.stat.AvgSLA = round1(acc.slaSum / float64(acc.slaCount))
		}
		stats = append(stats, acc.stat)
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Total > stats[j].Total })
	if len(stats) > 20 {
		stats = stats[:20]
	}
	return stats
}

func (s *DashboardService) buildStatusDetail(records []models.TechnicianRecord) []dto.StatusDetail {
	if len(records) == 0 {
		return []dto.StatusDetail{}
	}
	counts := map[string]int{}
	order := []string{}
	for _, rec := range records {
		if rec.Result == "" {
			continue
		}
		if _, ok := counts[rec.Result]; !ok {
			order = append(order, rec.Result)
		}
		counts[rec.Result]++
	}
	details := make([]dto.StatusDetail, 0, len(order))
	for _, result := range order {
		details = append(details, dto.StatusDetail{Result: result, Count: counts[result]})
	}
	sort.SliceStable(details, func(i, j int) bool { return details[i].Count > details[j].Count })
	return details
}

func (s *DashboardService) buildSLADistribution(records []models.TechnicianRecord) []dto.SLARange {
	counts := make([]int, len(slaBucketLabels))
	valid := 0
	for _, rec := range records {
		if !totalValid(rec) {
			continue
		}
		counts[slaBucket(*rec.SLATotal)]++
		valid++
	}
	if valid == 0 {
		return []dto.SLARange{}
	}
	ranges := make([]dto.SLARange, 0, len(slaBucketLabels))
	for i, label := range slaBucketLabels {
		ranges = append(ranges, dto.SLARange{Range: label, Count: counts[i]})
	}
	return ranges
}

// slaBucket places a duration into whole-day buckets 0-30, 31-45, 46-60,
// 61-90, >90. Boundary values fall in the lower bucket.
func slaBucket(days float64) int {
	switch {
	case days <= 30:
		return 0
	case days <= 45:
		return 1
	case days <= 60:
		return 2
	case days <= 90:
		return 3
	default:
		return 4
	}
}

func (s *DashboardService) buildBottleneck(records []models.TechnicianRecord) []dto.BottleneckEntry {
	if len(records) == 0 {
		return []dto.BottleneckEntry{}
	}
	entries := []dto.BottleneckEntry{}
	for _, spec := range s.catalog.Stages {
		var sum float64
		var count int
		for _, rec := range records {
			if timing := rec.Stage(spec.Key); stageValid(timing) {
				sum += *timing.SLA
				count++
			}
		}
		if count == 0 {
			continue
		}
		entries = append(entries, dto.BottleneckEntry{
			Step:    spec.Label,
			Key:     spec.Key,
			AvgDays: round1(sum / float64(count)),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].AvgDays > entries[j].AvgDays })
	return entries
}

func (s *DashboardService) buildFilterOptions(records []models.TechnicianRecord) *dto.FilterOptions {
	options := &dto.FilterOptions{Areas: []string{}, Provinces: []string{}}
	areas := map[string]struct{}{}
	provinces := map[string]struct{}{}
	for _, rec := range records {
		if rec.Area != "" {
			areas[rec.Area] = struct{}{}
		}
		if rec.Province != "" {
			provinces[rec.Province] = struct{}{}
		}
	}
	for area := range areas {
		options.Areas = append(options.Areas, area)
	}
	for province := range provinces {
		options.Provinces = append(options.Provinces, province)
	}
	sort.Strings(options.Areas)
	sort.Strings(options.Provinces)
	return options
}

// sortAreas orders area groups by the numeric part of their RSM label;
// non-matching labels keep their encountered order after all matches.
func sortAreas[T any](items []T, label func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return areaSortKey(label(items[i])) < areaSortKey(label(items[j]))
	})
}

func areaSortKey(area string) int {
	match := areaPattern.FindStringSubmatch(area)
	if match == nil {
		return 999
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 999
	}
	return n
}
