package model

import "encoding/json"

// Operator names accepted in rule documents. Anything else is a fatal
// configuration error at evaluation time.
const (
	OperatorMin    = "min"
	OperatorMax    = "max"
	OperatorEquals = "equals"
)

// Target selectors accepted in rule documents.
const (
	CountByFoodGroup = "food_group"
	CountByTag       = "tag"
)

// RuleDoc is a rule document loaded once per evaluation. Read-only.
type RuleDoc struct {
	Scope string `json:"scope" yaml:"scope"`
	Rules []Rule `json:"rules" yaml:"rules"`
}

// Rule is one threshold check against aggregated plan counts.
type Rule struct {
	ID        string     `json:"id" yaml:"id"`
	Label     string     `json:"label" yaml:"label"`
	Diet      string     `json:"diet" yaml:"diet"`
	Target    RuleTarget `json:"target" yaml:"target"`
	Operator  string     `json:"operator" yaml:"operator"`
	Threshold int        `json:"threshold" yaml:"threshold"`
	Notes     string     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// AppliesTo reports whether the rule participates in the given diet's run.
// Diet "all" (or empty) applies everywhere.
func (r Rule) AppliesTo(diet Diet) bool {
	if r.Diet == "" || r.Diet == "all" {
		return true
	}
	return r.Diet == string(diet)
}

// RuleTarget selects what to count and which values to sum over.
type RuleTarget struct {
	CountBy string    `json:"count_by" yaml:"count_by"`
	Value   ValueList `json:"value" yaml:"value"`
}

// ValueList accepts either a single string or a list of strings in rule
// documents; a single value behaves as a one-element list.
type ValueList []string

func (v *ValueList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*v = ValueList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*v = ValueList(many)
	return nil
}

// MarshalJSON keeps the single-value form stable for round-trips.
func (v ValueList) MarshalJSON() ([]byte, error) {
	if len(v) == 1 {
		return json.Marshal(v[0])
	}
	return json.Marshal([]string(v))
}

// UnmarshalYAML mirrors the JSON behavior for YAML rule documents.
func (v *ValueList) UnmarshalYAML(unmarshal func(any) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*v = ValueList{single}
		return nil
	}
	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*v = ValueList(many)
	return nil
}
