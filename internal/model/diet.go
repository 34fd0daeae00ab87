package model

import "strings"

// Diet is an evaluation target for the rule engine. Shared is a routing
// concept only: shared menus count toward both real diets, but no report is
// ever produced for shared itself.
type Diet string

const (
	DietMixed              Diet = "mixed"
	DietOvoLactoVegetarian Diet = "ovo_lacto_vegetarian"
	DietShared             Diet = "shared"
)

// EvaluatedDiets lists the diets a dual evaluation run produces reports for.
func EvaluatedDiets() []Diet {
	return []Diet{DietMixed, DietOvoLactoVegetarian}
}

// DietForMenuType maps a plan menu line onto a diet key. Unrecognized menu
// types route to shared so their items still count in both reports.
func DietForMenuType(menuType MenuType) Diet {
	switch MenuType(strings.ToLower(strings.TrimSpace(string(menuType)))) {
	case MenuTypeMischkost:
		return DietMixed
	case MenuTypeVegetarisch:
		return DietOvoLactoVegetarian
	case MenuTypeDessert:
		return DietShared
	default:
		return DietShared
	}
}

// MenuIncludedForDiet reports whether a menu line participates in the given
// diet's evaluation run. Shared menus participate in every run.
func MenuIncludedForDiet(menuType MenuType, diet Diet) bool {
	d := DietForMenuType(menuType)
	if d == DietShared {
		return true
	}
	return d == diet
}
