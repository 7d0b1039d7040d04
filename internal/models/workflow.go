package models

// LifecycleState is the top-level bucket a record belongs to.
type LifecycleState string

const (
	StateCompleted LifecycleState = "Completed"
	StateOnprocess LifecycleState = "Onprocess"
	StateClosed    LifecycleState = "Closed"
	StateCancel    LifecycleState = "Cancel"
)

// Classification is the classifier verdict for one record.
type Classification struct {
	State    LifecycleState
	SubStage string
	StageKey string
}

// StageSpec maps one workflow stage onto its source columns. The stage list is
// data, not code: aggregators iterate whatever catalog they are given.
type StageSpec struct {
	Key          string
	Label        string
	SLAColumn    string
	StatusColumn string
	ResultColumn string
	StartColumn  string
	EndColumn    string
}

// StatusSets holds the status string constants the legacy classifier infers
// lifecycle state from. Treated as configuration; defaults below match the
// live dataset.
type StatusSets struct {
	Completed    []string
	Closed       []string
	Onprocess    []string
	AgentPending string
}

// SchemaCatalog bundles everything that differs between the two source schema
// generations: the stage list, the sub-stage label to stage-key mapping, and
// the legacy status sets.
type SchemaCatalog struct {
	Version      string
	Stages       []StageSpec
	SubStageKeys map[string]string
	StatusSets   StatusSets
}

// IsSubStage reports whether label names a known workflow sub-stage.
func (c SchemaCatalog) IsSubStage(label string) bool {
	_, ok := c.SubStageKeys[label]
	return ok
}

// StageKeyFor resolves a sub-stage label to its stage key, empty when unknown.
func (c SchemaCatalog) StageKeyFor(label string) string {
	return c.SubStageKeys[label]
}

// StageByKey returns the spec for a stage key.
func (c SchemaCatalog) StageByKey(key string) (StageSpec, bool) {
	for _, spec := range c.Stages {
		if spec.Key == key {
			return spec, true
		}
	}
	return StageSpec{}, false
}

// Dataset status constants shared by both schema generations.
const (
	StatusRegistered   = "ขึ้นทะเบียนเรียบร้อย"
	StatusAgentPending = "ตัวแทนยังไม่ส่งขึ้นทะเบียน"
	StatusTraining     = "อบรม"
	StatusOJT          = "OJT"
	StatusDFlow        = "ขออนุมัติDflow ขึ้นทะเบียนช่าง"
	StatusGenidCard    = "Genid/ปริ้นบัตร/ส่งบัตร"
	StatusUserRequest  = "ขอ User"
	StatusRegistering  = "ขึ้นทะเบียน"
	StatusAreaApproval = "พื้นที่ขออนุมัติ"

	ResultPass = "ผ่าน"
	ResultFail = "ไม่ผ่าน"
)

// NewLegacyCatalog builds the six-stage catalog for the older schema where
// lifecycle state is inferred from free-text status values.
func NewLegacyCatalog() SchemaCatalog {
	stages := []StageSpec{
		{Key: "training", Label: "อบรม", SLAColumn: "sla_training", StatusColumn: "status_result_round", ResultColumn: "result_round", StartColumn: "training_start", EndColumn: "training_end"},
		{Key: "ojt", Label: "OJT", SLAColumn: "sla_ojt", StatusColumn: "status_result_ojt", ResultColumn: "result_round_ojt", StartColumn: "ojt_start", EndColumn: "ojt_end"},
		{Key: "genid", Label: "ทำบัตร", SLAColumn: "sla_genid_card", StatusColumn: "status_genid_card_card", ResultColumn: "result_genid_card_card", StartColumn: "genid_card_start", EndColumn: "genid_card_end"},
		{Key: "inspection", Label: "ตรวจความพร้อม", SLAColumn: "sla_inspection", StatusColumn: "status_inspection", ResultColumn: "result_inspection", StartColumn: "inspection_start", EndColumn: "inspection_end"},
		{Key: "dflow", Label: "DFlow", SLAColumn: "sla_dflow", StatusColumn: "status_dflow", ResultColumn: "result_dflow", StartColumn: "dflow_start", EndColumn: "dflow_end"},
		{Key: "registration", Label: "ขึ้นทะเบียน", SLAColumn: "sla_registration", StatusColumn: "status_registration", ResultColumn: "result_registration", StartColumn: "registration_start", EndColumn: "registration_end"},
	}
	return SchemaCatalog{
		Version: "legacy-status",
		Stages:  stages,
		SubStageKeys: map[string]string{
			StatusTraining:    "training",
			StatusOJT:         "ojt",
			StatusGenidCard:   "genid",
			StatusDFlow:       "dflow",
			StatusRegistering: "registration",
		},
		StatusSets: StatusSets{
			Completed:    []string{StatusRegistered},
			Closed:       []string{"ไม่ผ่านคุณสมบัติ", "ไม่ผ่านอบรม", "ไม่เข้าอบรม", "ช่างลาออก"},
			Onprocess:    []string{StatusOJT, StatusTraining, StatusDFlow, StatusGenidCard, StatusUserRequest, StatusRegistering},
			AgentPending: StatusAgentPending,
		},
	}
}

// NewResultCatalog builds the eight-stage catalog for the newer schema where
// the result column is authoritative and status carries the sub-stage.
func NewResultCatalog() SchemaCatalog {
	stages := []StageSpec{
		{Key: "document", Label: "เอกสาร", SLAColumn: "sla_doc", StatusColumn: "status_doc", ResultColumn: "result_doc", StartColumn: "doc_start", EndColumn: "doc_end"},
		{Key: "training", Label: "อบรม", SLAColumn: "sla_training", StatusColumn: "status_result_round", ResultColumn: "result_round", StartColumn: "training_start", EndColumn: "training_end"},
		{Key: "ojt", Label: "OJT", SLAColumn: "sla_ojt", StatusColumn: "status_result_ojt", ResultColumn: "result_round_ojt", StartColumn: "ojt_start", EndColumn: "ojt_end"},
		{Key: "genid", Label: "Gen ID", SLAColumn: "sla_genid_card", StatusColumn: "status_genid_card_card", ResultColumn: "result_genid_card_card", StartColumn: "genid_card_start", EndColumn: "genid_card_end"},
		{Key: "card", Label: "ปริ้น/ส่งบัตร", SLAColumn: "sla_print_card", StatusColumn: "status_print_card", ResultColumn: "result_print_card", StartColumn: "print_card_start", EndColumn: "print_card_end"},
		{Key: "inspection", Label: "ตรวจความพร้อม", SLAColumn: "sla_inspection", StatusColumn: "status_inspection", ResultColumn: "result_inspection", StartColumn: "inspection_start", EndColumn: "inspection_end"},
		{Key: "approval", Label: "พื้นที่ขออนุมัติ", SLAColumn: "sla_area_approve", StatusColumn: "status_area_approve", ResultColumn: "result_area_approve", StartColumn: "area_approve_start", EndColumn: "area_approve_end"},
		{Key: "access", Label: "ขอ User", SLAColumn: "sla_access_right", StatusColumn: "status_access_right", ResultColumn: "result_access_right", StartColumn: "access_right_start", EndColumn: "access_right_end"},
	}
	return SchemaCatalog{
		Version: "result",
		Stages:  stages,
		SubStageKeys: map[string]string{
			"เอกสาร":           "document",
			StatusTraining:     "training",
			StatusOJT:          "ojt",
			"Gen ID":           "genid",
			StatusGenidCard:    "card",
			"ตรวจความพร้อม":    "inspection",
			StatusAreaApproval: "approval",
			StatusUserRequest:  "access",
		},
		StatusSets: StatusSets{
			Completed:    []string{StatusRegistered},
			Closed:       []string{"ไม่ผ่านคุณสมบัติ", "ไม่ผ่านอบรม", "ไม่เข้าอบรม", "ช่างลาออก"},
			Onprocess:    []string{StatusOJT, StatusTraining, StatusGenidCard, StatusUserRequest, StatusRegistering, StatusAreaApproval},
			AgentPending: StatusAgentPending,
		},
	}
}

// CatalogForVersion selects the stage catalog for a configured schema version.
func CatalogForVersion(version string) SchemaCatalog {
	if version == "legacy-status" {
		return NewLegacyCatalog()
	}
	return NewResultCatalog()
}
