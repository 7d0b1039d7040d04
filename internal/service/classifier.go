package service

import (
	"time"

	"github.com/noah-isme/technician-sla-api/internal/models"
)

// LifecycleClassifier maps a record to its lifecycle state. Implementations
// must be pure functions of the record itself.
type LifecycleClassifier interface {
	Classify(rec models.TechnicianRecord) models.Classification
}

// NewClassifier selects the strategy for the catalog's schema version.
func NewClassifier(catalog models.SchemaCatalog) LifecycleClassifier {
	if catalog.Version == "legacy-status" {
		return &legacyStatusClassifier{catalog: catalog}
	}
	return &resultClassifier{catalog: catalog}
}

// resultClassifier reads the result column verbatim; status carries the
// workflow sub-stage for in-flight records.
type resultClassifier struct {
	catalog models.SchemaCatalog
}

func (c *resultClassifier) Classify(rec models.TechnicianRecord) models.Classification {
	switch models.LifecycleState(rec.Result) {
	case models.StateCompleted:
		return models.Classification{State: models.StateCompleted}
	case models.StateClosed:
		return models.Classification{State: models.StateClosed}
	case models.StateCancel:
		return models.Classification{State: models.StateCancel}
	}
	// Anything not terminal is still in flight; keeps the state partition
	// total even for unknown result values.
	return models.Classification{
		State:    models.StateOnprocess,
		SubStage: rec.Status,
		StageKey: c.catalog.StageKeyFor(rec.Status),
	}
}

// legacyStatusClassifier infers the lifecycle state from the older schema's
// free-text status values. The agent-pending status is Closed only when the
// auxiliary result column says so.
type legacyStatusClassifier struct {
	catalog models.SchemaCatalog
}

func (c *legacyStatusClassifier) Classify(rec models.TechnicianRecord) models.Classification {
	sets := c.catalog.StatusSets

	if models.LifecycleState(rec.Result) == models.StateCancel {
		return models.Classification{State: models.StateCancel}
	}
	if contains(sets.Completed, rec.Status) {
		return models.Classification{State: models.StateCompleted}
	}
	if contains(sets.Closed, rec.Status) {
		return models.Classification{State: models.StateClosed}
	}
	if rec.Status == sets.AgentPending {
		if models.LifecycleState(rec.Result) == models.StateClosed {
			return models.Classification{State: models.StateClosed}
		}
		return models.Classification{State: models.StateOnprocess, SubStage: rec.Status}
	}
	return models.Classification{
		State:    models.StateOnprocess,
		SubStage: rec.Status,
		StageKey: c.catalog.StageKeyFor(rec.Status),
	}
}

// StageElapsed returns the whole days a record has spent in a stage,
// measuring against now when the stage has not finished. Nil when the stage
// never started.
func StageElapsed(rec models.TechnicianRecord, spec models.StageSpec, now time.Time) *int {
	timing := rec.Stage(spec.Key)
	if timing.Start == nil {
		return nil
	}
	end := now
	if timing.End != nil {
		end = *timing.End
	}
	days := int(end.Sub(*timing.Start).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
