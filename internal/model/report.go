package model

// ReportSchemaVersion is stamped on every report we emit.
const ReportSchemaVersion = "1.0"

// Evidence is one sample justifying why an item counted toward a food group
// or tag.
type Evidence struct {
	Weekday  string   `json:"weekday"`
	MenuType MenuType `json:"menu_type"`
	RawText  string   `json:"raw_text"`
}

// RuleResult is the outcome of evaluating one rule for one diet run.
type RuleResult struct {
	ID             string     `json:"id"`
	Label          string     `json:"label"`
	Diet           string     `json:"diet"`
	Applies        bool       `json:"applies"`
	Target         RuleTarget `json:"target"`
	Operator       string     `json:"operator"`
	Threshold      int        `json:"threshold"`
	Expected       string     `json:"expected"`
	Actual         int        `json:"actual"`
	Passed         bool       `json:"passed"`
	Notes          string     `json:"notes,omitempty"`
	EvidenceSample []Evidence `json:"evidence_sample"`
}

// ReportSummary aggregates pass counts and the 0-1 score for one diet run.
type ReportSummary struct {
	ApplicableRules int     `json:"applicable_rules"`
	PassedRules     int     `json:"passed_rules"`
	Score           float64 `json:"score"`
}

// ReportCounts holds the per-category aggregation a diet run was scored on.
type ReportCounts struct {
	FoodGroups map[string]int `json:"food_groups"`
	Tags       map[string]int `json:"tags"`
}

// Report is the scored result for a single diet.
type Report struct {
	SchemaVersion string        `json:"schema_version"`
	Diet          Diet          `json:"diet"`
	Scope         string        `json:"scope"`
	Summary       ReportSummary `json:"summary"`
	Counts        ReportCounts  `json:"counts"`
	Rules         []RuleResult  `json:"rules"`
}

// DualReport wraps both diet reports under fixed keys.
type DualReport struct {
	SchemaVersion      string       `json:"schema_version"`
	Mode               string       `json:"mode"`
	Mixed              *Report      `json:"mixed"`
	OvoLactoVegetarian *Report      `json:"ovo_lacto_vegetarian"`
	Debug              *ReportDebug `json:"debug,omitempty"`
}

// ReportDebug carries request-level traceability, not evaluation data.
type ReportDebug struct {
	SourceFilename string `json:"source_filename,omitempty"`
	AnalysisID     string `json:"analysis_id,omitempty"`
}
