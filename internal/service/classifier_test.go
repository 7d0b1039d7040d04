package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/technician-sla-api/internal/models"
)

func TestLegacyClassifierStates(t *testing.T) {
	classifier := NewClassifier(models.NewLegacyCatalog())

	tests := []struct {
		name   string
		status string
		result string
		want   models.LifecycleState
	}{
		{"registered is completed", models.StatusRegistered, "", models.StateCompleted},
		{"failed training is closed", "ไม่ผ่านอบรม", "", models.StateClosed},
		{"resigned is closed", "ช่างลาออก", "", models.StateClosed},
		{"cancel result wins over status", models.StatusTraining, "Cancel", models.StateCancel},
		{"training is onprocess", models.StatusTraining, "", models.StateOnprocess},
		{"unknown status stays onprocess", "สถานะใหม่ที่ไม่รู้จัก", "", models.StateOnprocess},
		{"empty record is onprocess", "", "", models.StateOnprocess},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifier.Classify(models.TechnicianRecord{Status: tc.status, Result: tc.result})
			assert.Equal(t, tc.want, got.State)
		})
	}
}

func TestLegacyClassifierAgentPending(t *testing.T) {
	classifier := NewClassifier(models.NewLegacyCatalog())

	closed := classifier.Classify(models.TechnicianRecord{Status: models.StatusAgentPending, Result: "Closed"})
	assert.Equal(t, models.StateClosed, closed.State)

	pending := classifier.Classify(models.TechnicianRecord{Status: models.StatusAgentPending, Result: ""})
	assert.Equal(t, models.StateOnprocess, pending.State)
	assert.Equal(t, models.StatusAgentPending, pending.SubStage)

	other := classifier.Classify(models.TechnicianRecord{Status: models.StatusAgentPending, Result: "Completed"})
	assert.Equal(t, models.StateOnprocess, other.State)
}

func TestResultClassifierReadsResultVerbatim(t *testing.T) {
	classifier := NewClassifier(models.NewResultCatalog())

	assert.Equal(t, models.StateCompleted, classifier.Classify(models.TechnicianRecord{Result: "Completed"}).State)
	assert.Equal(t, models.StateClosed, classifier.Classify(models.TechnicianRecord{Result: "Closed"}).State)
	assert.Equal(t, models.StateCancel, classifier.Classify(models.TechnicianRecord{Result: "Cancel"}).State)

	inFlight := classifier.Classify(models.TechnicianRecord{Result: "Onprocess", Status: models.StatusOJT})
	assert.Equal(t, models.StateOnprocess, inFlight.State)
	assert.Equal(t, models.StatusOJT, inFlight.SubStage)
	assert.Equal(t, "ojt", inFlight.StageKey)
}

func TestResultClassifierUnknownResultStaysOnprocess(t *testing.T) {
	classifier := NewClassifier(models.NewResultCatalog())

	got := classifier.Classify(models.TechnicianRecord{Result: "Pending Review", Status: models.StatusTraining})
	assert.Equal(t, models.StateOnprocess, got.State)
	assert.Equal(t, "training", got.StageKey)
}

func TestStageElapsed(t *testing.T) {
	catalog := models.NewLegacyCatalog()
	spec, _ := catalog.StageByKey("ojt")
	now := time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)

	start := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 14, 0, 0, 0, 0, time.UTC)

	rec := models.TechnicianRecord{Stages: map[string]models.StageTiming{
		"ojt": {Start: &start, End: &end},
	}}
	elapsed := StageElapsed(rec, spec, now)
	if assert.NotNil(t, elapsed) {
		assert.Equal(t, 4, *elapsed)
	}

	open := models.TechnicianRecord{Stages: map[string]models.StageTiming{
		"ojt": {Start: &start},
	}}
	elapsed = StageElapsed(open, spec, now)
	if assert.NotNil(t, elapsed) {
		assert.Equal(t, 10, *elapsed)
	}

	assert.Nil(t, StageElapsed(models.TechnicianRecord{}, spec, now))

	future := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	clamped := models.TechnicianRecord{Stages: map[string]models.StageTiming{
		"ojt": {Start: &future},
	}}
	elapsed = StageElapsed(clamped, spec, now)
	if assert.NotNil(t, elapsed) {
		assert.Equal(t, 0, *elapsed)
	}
}
