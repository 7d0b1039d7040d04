package dto

// SummaryResponse is the top-level dashboard roll-up. Field names are part of
// the contract consumed by the presentation layer.
type SummaryResponse struct {
	Total         int                `json:"total"`
	Completed     int                `json:"completed"`
	Onprocess     int                `json:"onprocess"`
	Closed        int                `json:"closed"`
	Cancelled     int                `json:"cancelled"`
	CompletedRate float64            `json:"completed_rate"`
	OnprocessRate float64            `json:"onprocess_rate"`
	ClosedRate    float64            `json:"closed_rate"`
	TheoryPass    int                `json:"theory_pass"`
	TheoryFail    int                `json:"theory_fail"`
	TheoryRate    float64            `json:"theory_rate"`
	OJTPass       int                `json:"ojt_pass"`
	OJTFail       int                `json:"ojt_fail"`
	OJTRate       float64            `json:"ojt_rate"`
	AvgSLATotal   float64            `json:"avg_sla_total"`
	SLAByStep     map[string]float64 `json:"sla_by_step"`
	StatusCounts  map[string]int     `json:"status_counts"`
}

// StatusCount is one status + count breakdown entry.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// AreaStat aggregates one geographic area.
type AreaStat struct {
	Area               string        `json:"area"`
	Total              int           `json:"total"`
	Completed          int           `json:"completed"`
	Onprocess          int           `json:"onprocess"`
	OnprocessBreakdown []StatusCount `json:"onprocess_breakdown"`
	Closed             int           `json:"closed"`
	ClosedBreakdown    []StatusCount `json:"closed_breakdown"`
	AvgSLA             float64       `json:"avg_sla"`
	SuccessRate        float64       `json:"success_rate"`
}

// TechnicianDetail identifies one technician inside a drill-down group.
type TechnicianDetail struct {
	DepotCode  string `json:"depot_code"`
	DepotName  string `json:"depot_name"`
	FullNameTH string `json:"full_name_th"`
}

// AreaStepGroup is one workflow stage inside an area drill-down.
type AreaStepGroup struct {
	Count   int                `json:"count"`
	AvgSLA  float64            `json:"avg_sla"`
	Details []TechnicianDetail `json:"details"`
}

// AreaStepSummary is the per-area, per-stage drill-down.
type AreaStepSummary struct {
	Area      string                   `json:"area"`
	Total     int                      `json:"total"`
	Closed    int                      `json:"closed"`
	Onprocess int                      `json:"onprocess"`
	Completed int                      `json:"completed"`
	Steps     map[string]AreaStepGroup `json:"steps"`
}

// ProvinceStat aggregates one province.
type ProvinceStat struct {
	Province    string  `json:"province"`
	Total       int     `json:"total"`
	Completed   int     `json:"completed"`
	Onprocess   int     `json:"onprocess,omitempty"`
	SuccessRate float64 `json:"success_rate"`
}

// MonthlyStat aggregates one training month.
type MonthlyStat struct {
	Month     string `json:"month"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Onprocess int    `json:"onprocess"`
	Closed    int    `json:"closed"`
}

// TrainerStat aggregates one trainer.
type TrainerStat struct {
	Trainer  string  `json:"trainer"`
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	PassRate float64 `json:"pass_rate"`
}

// DepotStat aggregates one depot.
type DepotStat struct {
	Depot     string  `json:"depot"`
	Code      string  `json:"code"`
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	AvgSLA    float64 `json:"avg_sla"`
}

// StatusDetail counts one raw result value.
type StatusDetail struct {
	Result string `json:"result"`
	Count  int    `json:"count"`
}

// SLARange is one bucket of the end-to-end SLA distribution.
type SLARange struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// StepStat is the per-stage SLA statistic row.
type StepStat struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Total    int     `json:"total"`
	Complete int     `json:"complete"`
	AvgSLA   float64 `json:"avg_sla"`
	MaxSLA   int     `json:"max_sla"`
	MinSLA   int     `json:"min_sla"`
}

// BottleneckEntry ranks one workflow stage by average valid duration.
type BottleneckEntry struct {
	Step    string  `json:"step"`
	Key     string  `json:"key"`
	AvgDays float64 `json:"avg_days"`
}

// FilterOptions lists the distinct values the presentation layer filters on.
type FilterOptions struct {
	Areas     []string `json:"areas"`
	Provinces []string `json:"provinces"`
}
