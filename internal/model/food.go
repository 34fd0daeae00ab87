package model

// Food is one reference entry in the nutrition lookup store, imported from
// the official BLS spreadsheet.
type Food struct {
	ID      int64     `json:"id"`
	NameDE  string    `json:"name_de"`
	Per100g Nutrients `json:"per_100g"`
}

// Nutrients holds typical per-100g values. Any of them may be missing in the
// source data, hence pointers.
type Nutrients struct {
	EnergyKcal *float64 `json:"energy_kcal"`
	WaterG     *float64 `json:"water_g"`
	ProteinG   *float64 `json:"protein_g"`
	FatG       *float64 `json:"fat_g"`
	CarbsG     *float64 `json:"carbs_g"`
}

// FoodCandidate is the slim row shape the classifier fallback ranks.
type FoodCandidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
