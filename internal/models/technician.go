package models

import "time"

// RawRecord is one untyped row from the record source. Column names are keys;
// absent columns are simply absent keys, so schema drift degrades to empty
// aggregates instead of failing the request.
type RawRecord map[string]string

// StageTiming holds the per-stage SLA fields of a single record.
type StageTiming struct {
	SLA    *float64
	Start  *time.Time
	End    *time.Time
	Status string
	Result string
}

// TechnicianRecord is one normalized technician registration record. Nullable
// source values are pointer-typed; aggregators treat nil as "not eligible".
type TechnicianRecord struct {
	No          string
	FullNameTH  string
	FirstNameEN string
	LastNameEN  string
	DepotCode   string
	DepotName   string
	Province    string
	Area        string
	Education   string
	Workgroup   string

	Status string
	Result string

	TheoryResult string
	OJTResult    string

	TrainingMonth string
	TrainingRound string
	Trainer       string

	SLATotal  *float64
	StartDate *time.Time
	EndDate   *time.Time

	Stages map[string]StageTiming
}

// Stage returns the timing block for a stage key, zero-valued when absent.
func (r TechnicianRecord) Stage(key string) StageTiming {
	if r.Stages == nil {
		return StageTiming{}
	}
	return r.Stages[key]
}

// TechnicianFilter narrows the technician list query. Empty fields mean no
// restriction; depot filters are case-insensitive substring matches.
type TechnicianFilter struct {
	Status    string
	Area      string
	Province  string
	DepotCode string
	DepotName string
	Limit     int
}
