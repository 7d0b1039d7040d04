package service

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/technician-sla-api/internal/models"
)

// Duration values below this are data-entry corruption (epoch/overflow
// artifacts) and are discarded during normalization.
const corruptDurationFloor = -1000

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// NormalizeRecords cleans the raw table into typed technician records.
// Unparsable values become nil, never an error; missing columns simply leave
// the corresponding field nil/empty so downstream aggregates degrade to zero.
func NormalizeRecords(raw []models.RawRecord, catalog models.SchemaCatalog) []models.TechnicianRecord {
	records := make([]models.TechnicianRecord, 0, len(raw))
	for _, row := range raw {
		records = append(records, normalizeRecord(row, catalog))
	}
	return records
}

func normalizeRecord(row models.RawRecord, catalog models.SchemaCatalog) models.TechnicianRecord {
	rec := models.TechnicianRecord{
		No:            safeStr(row["no"]),
		FullNameTH:    safeStr(row["full_name_th"]),
		FirstNameEN:   safeStr(row["first_name_en"]),
		LastNameEN:    safeStr(row["last_name_en"]),
		DepotCode:     safeStr(row["depot_code"]),
		DepotName:     safeStr(row["depot_name"]),
		Province:      safeStr(row["province"]),
		Area:          safeStr(row["area"]),
		Education:     safeStr(row["education"]),
		Workgroup:     safeStr(row["workgroup_status"]),
		Status:        safeStr(row["status"]),
		Result:        safeStr(row["result"]),
		TheoryResult:  safeStr(row["result_round"]),
		OJTResult:     safeStr(row["result_round_ojt"]),
		TrainingMonth: safeStr(row["training_month"]),
		TrainingRound: safeStr(row["training_round_date"]),
		Trainer:       safeStr(row["training_by"]),
		SLATotal:      parseDuration(row["sla_total"]),
		StartDate:     parseDate(row["start_date"]),
		EndDate:       parseDate(row["end_date"]),
		Stages:        make(map[string]models.StageTiming, len(catalog.Stages)),
	}

	for _, spec := range catalog.Stages {
		rec.Stages[spec.Key] = models.StageTiming{
			SLA:    parseDuration(row[spec.SLAColumn]),
			Start:  parseDate(row[spec.StartColumn]),
			End:    parseDate(row[spec.EndColumn]),
			Status: safeStr(row[spec.StatusColumn]),
			Result: safeStr(row[spec.ResultColumn]),
		}
	}
	return rec
}

// stageValid is the single validity predicate every aggregator shares: a
// stage duration contributes to averages only when it is non-negative and
// both of its endpoints are recorded.
func stageValid(timing models.StageTiming) bool {
	return timing.SLA != nil && *timing.SLA >= 0 && timing.Start != nil && timing.End != nil
}

// totalValid applies the same rule to the end-to-end duration.
func totalValid(rec models.TechnicianRecord) bool {
	return rec.SLATotal != nil && *rec.SLATotal >= 0 && rec.StartDate != nil && rec.EndDate != nil
}

func parseDuration(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	if value < corruptDurationFloor {
		return nil
	}
	return &value
}

func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}

func safeStr(raw string) string {
	return strings.TrimSpace(raw)
}

func safeInt(value *float64) int {
	if value == nil || *value < 0 {
		return 0
	}
	return int(*value)
}

func round1(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return math.Round(value*10) / 10
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}
