package dto

// TechnicianView is the flat list projection of one technician record.
// Numeric fields default to 0 and strings to "" when the source value is
// absent or unparsable.
type TechnicianView struct {
	No            string `json:"no"`
	Name          string `json:"name"`
	NameEN        string `json:"name_en"`
	Depot         string `json:"depot"`
	DepotCode     string `json:"depot_code"`
	Province      string `json:"province"`
	Area          string `json:"area"`
	Education     string `json:"education"`
	Workgroup     string `json:"workgroup"`
	TheoryResult  string `json:"theory_result"`
	OJTResult     string `json:"ojt_result"`
	Status        string `json:"status"`
	Result        string `json:"result"`
	SLATotal      int    `json:"sla_total"`
	TrainingMonth string `json:"training_month"`
	TrainingRound string `json:"training_round"`
	Trainer       string `json:"trainer"`

	StageSLAs map[string]int `json:"sla_steps"`

	CurrentStage string `json:"current_stage,omitempty"`
	DaysInStage  int    `json:"days_in_stage,omitempty"`
}
