package service

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/technician-sla-api/internal/models"
	appErrors "github.com/noah-isme/technician-sla-api/pkg/errors"
)

type stubSource struct {
	rows  []models.RawRecord
	calls int
}

func (s *stubSource) Load(context.Context) []models.RawRecord {
	s.calls++
	return s.rows
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = payload
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(context.Context, string) error {
	m.entries = map[string][]byte{}
	return nil
}

func legacyRow(overrides map[string]string) models.RawRecord {
	row := models.RawRecord{
		"no":           "T-001",
		"full_name_th": "ช่างทดสอบ",
		"depot_code":   "D01",
		"depot_name":   "Depot One",
		"province":     "เชียงใหม่",
		"area":         "RSM1",
		"status":       models.StatusTraining,
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func completedRow(overrides map[string]string) models.RawRecord {
	base := map[string]string{
		"status":     models.StatusRegistered,
		"sla_total":  "40",
		"start_date": "2025-10-01",
		"end_date":   "2025-11-10",
	}
	for k, v := range overrides {
		base[k] = v
	}
	return legacyRow(base)
}

func newTestDashboard(rows []models.RawRecord) *DashboardService {
	return NewDashboardService(DashboardServiceParams{
		Source:     &stubSource{rows: rows},
		Catalog:    models.NewLegacyCatalog(),
		MonthOrder: []string{"Oct25", "Nov25", "Dec25", "Jan26", "Feb26"},
	})
}

func TestSummaryPartition(t *testing.T) {
	svc := newTestDashboard([]models.RawRecord{
		completedRow(nil),
		legacyRow(map[string]string{"status": models.StatusTraining}),
		legacyRow(map[string]string{"status": "ไม่ผ่านอบรม"}),
	})

	summary, cacheHit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 1, summary.Onprocess)
	assert.Equal(t, 1, summary.Closed)
	assert.Equal(t, 0, summary.Cancelled)
	assert.Equal(t, 33.3, summary.CompletedRate)
	assert.Equal(t, 40.0, summary.AvgSLATotal)
}

func TestSummaryUnknownStatusKeepsPartitionTotal(t *testing.T) {
	svc := newTestDashboard([]models.RawRecord{
		completedRow(nil),
		legacyRow(map[string]string{"status": "สถานะประหลาด"}),
	})

	summary, _, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, summary.Total, summary.Completed+summary.Onprocess+summary.Closed+summary.Cancelled)
	assert.Equal(t, 1, summary.Onprocess)
}

func TestSummaryTheoryAndOJTRates(t *testing.T) {
	svc := newTestDashboard([]models.RawRecord{
		legacyRow(map[string]string{"result_round": models.ResultPass, "result_round_ojt": models.ResultPass}),
		legacyRow(map[string]string{"result_round": models.ResultPass, "result_round_ojt": models.ResultFail}),
		legacyRow(map[string]string{"result_round": models.ResultFail}),
	})

	summary, _, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TheoryPass)
	assert.Equal(t, 1, summary.TheoryFail)
	assert.Equal(t, 66.7, summary.TheoryRate)
	assert.Equal(t, 1, summary.OJTPass)
	assert.Equal(t, 50.0, summary.OJTRate)
}

func TestSummaryEmptyDataset(t *testing.T) {
	svc := newTestDashboard(nil)

	summary, _, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.0, summary.CompletedRate)
	for _, spec := range models.NewLegacyCatalog().Stages {
		assert.Equal(t, 0.0, summary.SLAByStep[spec.Key])
	}
}

func TestSummaryIsIdempotent(t *testing.T) {
	rows := []models.RawRecord{
		completedRow(nil),
		legacyRow(map[string]string{"status": models.StatusOJT}),
	}
	svc := newTestDashboard(rows)

	first, _, err := svc.Summary(context.Background())
	require.NoError(t, err)
	second, _, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSummaryUsesResponseCache(t *testing.T) {
	source := &stubSource{rows: []models.RawRecord{completedRow(nil)}}
	cacheSvc := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	svc := NewDashboardService(DashboardServiceParams{
		Source:  source,
		Catalog: models.NewLegacyCatalog(),
		Cache:   cacheSvc,
	})

	_, cacheHit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, cacheHit)

	summary, cacheHit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, cacheHit)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, source.calls)
}

func TestSLADistributionBucketBoundaries(t *testing.T) {
	rows := []models.RawRecord{}
	for _, days := range []string{"0", "30", "31", "45", "46", "60", "61", "90", "91"} {
		rows = append(rows, completedRow(map[string]string{"sla_total": days}))
	}
	// Invalid durations stay out of every bucket.
	rows = append(rows, completedRow(map[string]string{"sla_total": "-5"}))
	rows = append(rows, legacyRow(map[string]string{"sla_total": "10"}))

	svc := newTestDashboard(rows)
	ranges, _, err := svc.SLADistribution(context.Background())
	require.NoError(t, err)
	require.Len(t, ranges, 5)

	assert.Equal(t, "0-30 วัน", ranges[0].Range)
	assert.Equal(t, 2, ranges[0].Count)
	assert.Equal(t, 2, ranges[1].Count)
	assert.Equal(t, 2, ranges[2].Count)
	assert.Equal(t, 2, ranges[3].Count)
	assert.Equal(t, ">90 วัน", ranges[4].Range)
	assert.Equal(t, 1, ranges[4].Count)
}

func TestSLADistributionEmptyWhenNoValidDurations(t *testing.T) {
	svc := newTestDashboard([]models.RawRecord{legacyRow(nil)})
	ranges, _, err := svc.SLADistribution(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ranges)
}

func TestAreaStatsNumericSort(t *testing.T) {
	svc := newTestDashboard([]models.RawRecord{
		legacyRow(map[string]string{"area": "RSM10"}),
		legacyRow(map[string]string{"area": "สำนักงานใหญ่"}),
		legacyRow(map[string]string{"area": "RSM2"}),
	})

	stats, _, err := svc.AreaStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, "RSM2", stats[0].Area)
	assert.Equal(t, "RSM10", stats[1].Area)
	assert.Equal(t, "สำนักงานใหญ่", stats[2].Area)
}

func TestAreaStatsBreakdowns(t *testing.T) {
	svc := newTestDashboard([]models.RawRecord{
		completedRow(map[string]string{"area": "RSM1"}),
		legacyRow(map[string]string{"area": "RSM1", "status": models.StatusTraining}),
		legacyRow(map[string]string{"area": "RSM1", "status": models.StatusTraining}),
		legacyRow(map[string]string{"area": "RSM1", "status": models.StatusAgentPending, "result": "Closed"}),
		legacyRow(map[string]string{"area": "RSM1", "status": "ช่างลาออก"}),
	})

	stats, _, err := svc.AreaStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	stat := stats[0]

	assert.Equal(t, 5, stat.Total)
	assert.Equal(t, 1, stat.Completed)
	assert.Equal(t, 2, stat.Onprocess)
	assert.Equal(t, 2, stat.Closed)
	assert.Equal(t, 20.0, stat.SuccessRate)

	require.Len(t, stat.OnprocessBreakdown, 1)
	assert.Equal(t, models.StatusTraining, stat.OnprocessBreakdown[0].Status)
	assert.Equal(t, 2, stat.OnprocessBreakdown[0].Count)

	require.Len(t, stat.ClosedBreakdown, 2)
	assert.Equal(t, models.StatusAgentPending+" (Closed)", stat.ClosedBreakdown[0].Status)
}

func TestAreaStepSummary(t *testing.T) {
	svc := newTestDashboard([]models.RawRecord{
		completedRow(map[string]string{"area": "RSM1"}),
		legacyRow(map[string]string{
			"area":              "RSM1",
			"status":            models.StatusOJT,
			"status_result_ojt": "Onprocess",
			"sla_ojt":           "12",
		}),
		legacyRow(map[string]string{
			"area":         "RSM1",
			"status":       models.StatusDFlow,
			"result_dflow": "Onprocess",
		}),
	})

	summaries, _, err := svc.AreaStepSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	summary := summaries[0]

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 2, summary.Onprocess)

	ojt := summary.Steps["ojt"]
	assert.Equal(t, 1, ojt.Count)
	assert.Equal(t, 12.0, ojt.AvgSLA)
	require.Len(t, ojt.Details, 1)
	assert.Equal(t, "ช่างทดสอบ", ojt.Details[0].FullNameTH)

	dflow := summary.Steps["dflow"]
	assert.Equal(t, 1, dflow.Count)
}

func TestProvinceStatsTopTen(t *testing.T) {
	rows := []models.RawRecord{}
	for i := 0; i < 12; i++ {
		province := "จังหวัด" + strconv.Itoa(i)
		for j := 0; j <= i; j++ {
			rows = append(rows, legacyRow(map[string]string{"province": province}))
		}
	}
	svc := newTestDashboard(rows)

	stats, _, err := svc.ProvinceStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 10)
	assert.Equal(t, "จังหวัด11", stats[0].Province)
	assert.Equal(t, 12, stats[0].Total)

	all, _, err := svc.ProvinceStatsAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 12)
}

func TestMonthlyStatsFollowConfiguredOrder(t *testing.T) {
	svc := newTestDashboard([]models.RawRecord{
		legacyRow(map[string]string{"training_month": "Nov25"}),
		legacyRow(map[string]string{"training_month": "Oct25"}),
		legacyRow(map[string]string{"training_month": "Mar99"}),
		completedRow(map[string]string{"training_month": "Oct25"}),
	})

	stats, _, err := svc.MonthlyStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, "Oct25", stats[0].Month)
	assert.Equal(t, 2, stats[0].Total)
	assert.Equal(t, 1, stats[0].Completed)
	assert.Equal(t, "Nov25", stats[1].Month)
	assert.Equal(t, "Mar99", stats[2].Month)
}

func TestTrainerStats(t *testing.T) {
	svc := newTestDashboard([]models.RawRecord{
		legacyRow(map[string]string{"training_by": "ครู ก", "result_round": models.ResultPass}),
		legacyRow(map[string]string{"training_by": "ครู ก", "result_round": models.ResultFail}),
		legacyRow(map[string]string{"training_by": "ครู ข", "result_round": models.ResultPass}),
	})

	stats, _, err := svc.TrainerStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "ครู ก", stats[0].Trainer)
	assert.Equal(t, 2, stats[0].Total)
	assert.Equal(t, 50.0, stats[0].PassRate)
	assert.Equal(t, 100.0, stats[1].PassRate)
}

func TestDepotStats(t *testing.T) {
	svc := newTestDashboard([]models.RawRecord{
		completedRow(map[string]string{"depot_name": "Depot A", "depot_code": "A1"}),
		legacyRow(map[string]string{"depot_name": "Depot A", "depot_code": "A1"}),
		legacyRow(map[string]string{"depot_name": "Depot B", "depot_code": "B1"}),
	})

	stats, _, err := svc.DepotStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Depot A", stats[0].Depot)
	assert.Equal(t, "A1", stats[0].Code)
	assert.Equal(t, 2, stats[0].Total)
	assert.Equal(t, 1, stats[0].Completed)
	assert.Equal(t, 40.0, stats[0].AvgSLA)
}

func TestStatusDetailSortedByCount(t *testing.T) {
	svc := newTestDashboard([]models.RawRecord{
		legacyRow(map[string]string{"result": "Onprocess"}),
		legacyRow(map[string]string{"result": "Closed"}),
		legacyRow(map[string]string{"result": "Onprocess"}),
		legacyRow(nil),
	})

	details, _, err := svc.StatusDetail(context.Background())
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "Onprocess", details[0].Result)
	assert.Equal(t, 2, details[0].Count)
}

func TestBottleneckRanksSlowestFirst(t *testing.T) {
	svc := newTestDashboard([]models.RawRecord{
		completedRow(map[string]string{
			"sla_training":   "5",
			"training_start": "2025-10-01",
			"training_end":   "2025-10-06",
			"sla_ojt":        "20",
			"ojt_start":      "2025-10-06",
			"ojt_end":        "2025-10-26",
		}),
	})

	entries, _, err := svc.Bottleneck(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ojt", entries[0].Key)
	assert.Equal(t, 20.0, entries[0].AvgDays)
	assert.Equal(t, "training", entries[1].Key)
}

func TestStepStatsValidityFilter(t *testing.T) {
	svc := newTestDashboard([]models.RawRecord{
		completedRow(map[string]string{
			"sla_training":        "10",
			"training_start":      "2025-10-01",
			"training_end":        "2025-10-11",
			"status_result_round": "Complete",
		}),
		// Duration without endpoints never counts.
		legacyRow(map[string]string{"sla_training": "99"}),
	})

	stats, _, err := svc.StepStats(context.Background())
	require.NoError(t, err)
	training := stats[0]
	assert.Equal(t, "training", training.Key)
	assert.Equal(t, 1, training.Total)
	assert.Equal(t, 10.0, training.AvgSLA)
	assert.Equal(t, 10, training.MaxSLA)
	assert.Equal(t, 10, training.MinSLA)
	assert.Equal(t, 1, training.Complete)
}

func TestFilterOptions(t *testing.T) {
	svc := newTestDashboard([]models.RawRecord{
		legacyRow(map[string]string{"area": "RSM2", "province": "ขอนแก่น"}),
		legacyRow(map[string]string{"area": "RSM1", "province": "เชียงใหม่"}),
		legacyRow(map[string]string{"area": "RSM1", "province": "ขอนแก่น"}),
	})

	options, _, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"RSM1", "RSM2"}, options.Areas)
	assert.Len(t, options.Provinces, 2)
}

func TestAreaSortKey(t *testing.T) {
	assert.Equal(t, 2, areaSortKey("RSM2"))
	assert.Equal(t, 10, areaSortKey("RSM10 ภาคเหนือ"))
	assert.Equal(t, 999, areaSortKey("สำนักงานใหญ่"))
}
