// Package planparse turns the fixed-layout weekly lunch spreadsheet into a
// plan document. Exactly one template is supported: weekday labels in column
// A start day blocks, and each day carries three name/portion/notes column
// triples (mischkost 1-3, vegetarisch 4-6, dessert 7-9).
package planparse

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/genau-project/speisecheck/internal/model"
)

// ErrFormatMismatch signals that the spreadsheet does not match the weekly
// plan template. Callers must treat this as rejected input, not as an empty
// plan.
var ErrFormatMismatch = eris.New("planparse: spreadsheet does not match the weekly plan template")

// UsedColumns is how many leading columns of the sheet the template uses.
const UsedColumns = 10

// weekdays are the five labels that start a day block in column 0.
var weekdays = map[string]struct{}{
	"montag":     {},
	"dienstag":   {},
	"mittwoch":   {},
	"donnerstag": {},
	"freitag":    {},
}

// menuBlock fixes the column offsets of one menu line within a day block.
type menuBlock struct {
	menuType model.MenuType
	name     int
	portion  int
	notes    int
}

var menuBlocks = []menuBlock{
	{model.MenuTypeMischkost, 1, 2, 3},
	{model.MenuTypeVegetarisch, 4, 5, 6},
	{model.MenuTypeDessert, 7, 8, 9},
}

// Parse reconstructs a plan from raw cell data (rows × columns, no header).
// sourceFile may be nil for in-memory input; sheet names the sheet the rows
// came from.
func Parse(rows [][]string, sourceFile *string, sheet string) (*model.Plan, error) {
	dayRows := findDayRows(rows)
	if len(dayRows) == 0 {
		return nil, eris.Wrap(ErrFormatMismatch, "no weekday rows (Montag-Freitag) in column 0")
	}

	plan := &model.Plan{
		SchemaVersion: model.PlanSchemaVersion,
		Source: model.Source{
			Type:  "excel",
			File:  sourceFile,
			Sheet: sheet,
		},
		Context: model.Context{
			MealType: "lunch",
			Timezone: "Europe/Berlin",
		},
	}

	for i, start := range dayRows {
		end := len(rows)
		if i+1 < len(dayRows) {
			end = dayRows[i+1]
		}

		day := model.Day{
			Weekday: cellAt(rows, start, 0),
		}
		for _, block := range menuBlocks {
			day.Menus = append(day.Menus, model.Menu{
				MenuType: block.menuType,
				Items:    parseBlock(rows, start, end, block),
			})
		}
		plan.Days = append(plan.Days, day)
	}

	total := plan.TotalItems()
	if total == 0 {
		return nil, eris.Wrap(ErrFormatMismatch, "0 items extracted from day blocks")
	}

	zap.L().Info("parse: plan extracted",
		zap.Int("days", len(plan.Days)),
		zap.Int("items", total),
	)
	return plan, nil
}

// findDayRows returns the indices of rows whose first cell is a weekday label.
func findDayRows(rows [][]string) []int {
	var dayRows []int
	for i := range rows {
		v := strings.ToLower(cellAt(rows, i, 0))
		if _, ok := weekdays[v]; ok {
			dayRows = append(dayRows, i)
		}
	}
	return dayRows
}

// parseBlock runs the per-block state machine over one column triple of one
// day block. States are "no open dish" (current == nil) and "dish open".
func parseBlock(rows [][]string, start, end int, block menuBlock) []model.Item {
	items := []model.Item{}
	var current *model.Item

	emit := func() {
		if current == nil {
			return
		}
		if strings.TrimSpace(current.RawText) != "" {
			items = append(items, *current)
		}
		current = nil
	}

	for r := start; r < end; r++ {
		name := cellAt(rows, r, block.name)
		amount := cellAt(rows, r, block.portion)
		notes := cellAt(rows, r, block.notes)

		// fully empty row
		if name == "" && amount == "" && notes == "" {
			continue
		}

		// continuation line: wrapped dish name without portion/notes of its own
		if name != "" && current != nil && amount == "" && notes == "" {
			current.RawText = joinHyphen(current.RawText, name)
			continue
		}

		// new dish
		if name != "" {
			emit()
			item := model.Item{
				RawText: name,
				Portion: ParsePortion(amount),
				Notes:   []string{},
				Tags:    []string{},
			}
			if notes != "" {
				item.Notes = append(item.Notes, notes)
			}
			current = &item
			continue
		}

		// no name: backfill the open dish
		if current != nil {
			if amount != "" && current.Portion == nil {
				current.Portion = ParsePortion(amount)
			}
			if notes != "" {
				current.Notes = append(current.Notes, notes)
			}
		}
	}

	emit()
	return items
}

// joinHyphen merges a wrapped line into the current dish text. A trailing
// hyphen is a hyphenated word wrap: drop it and concatenate without a space.
func joinHyphen(prev, curr string) string {
	if strings.HasSuffix(prev, "-") {
		return strings.TrimSuffix(prev, "-") + curr
	}
	return prev + " " + curr
}

// cellAt returns the trimmed cell value, or "" for out-of-range coordinates.
func cellAt(rows [][]string, r, c int) string {
	if r < 0 || r >= len(rows) {
		return ""
	}
	row := rows[r]
	if c < 0 || c >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[c])
}
