// Package importer turns the official BLS nutrient spreadsheet into lookup
// store rows. The import is a destructive reset: the whole table is replaced
// in one transaction so repeated imports stay reproducible.
package importer

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/genau-project/speisecheck/internal/model"
	"github.com/genau-project/speisecheck/internal/store"
)

// Column headers as published in BLS 4.0. Newer BLS releases may rename
// these, in which case the affected nutrient is simply left empty.
const (
	colName   = "Lebensmittelbezeichnung"
	colEnergy = "ENERCC Energie (Kilokalorien) [kcal/100g]"
	colWater  = "WATER Wasser [g/100g]"
	colProt   = "PROT625 Protein (Nx6,25) [g/100g]"
	colFat    = "FAT Fett [g/100g]"
	colCarbs  = "CHO Kohlenhydrate, verfügbar [g/100g]"
)

// ParseBLS reads foods out of the raw spreadsheet grid. The first row must
// be the header row and must contain the food name column; nutrient columns
// are optional. Rows without a name are skipped.
func ParseBLS(rows [][]string) ([]model.Food, error) {
	if len(rows) == 0 {
		return nil, eris.New("importer: spreadsheet is empty")
	}

	idx := headerIndex(rows[0])
	nameIdx := idx.at(colName)
	if nameIdx < 0 {
		return nil, eris.Errorf("importer: required column %q not found in header", colName)
	}

	foods := make([]model.Food, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := strings.TrimSpace(cellAt(row, nameIdx))
		if name == "" {
			continue
		}
		foods = append(foods, model.Food{
			NameDE: name,
			Per100g: model.Nutrients{
				EnergyKcal: safeFloat(cellAt(row, idx.at(colEnergy))),
				WaterG:     safeFloat(cellAt(row, idx.at(colWater))),
				ProteinG:   safeFloat(cellAt(row, idx.at(colProt))),
				FatG:       safeFloat(cellAt(row, idx.at(colFat))),
				CarbsG:     safeFloat(cellAt(row, idx.at(colCarbs))),
			},
		})
	}
	return foods, nil
}

// Import parses the grid and replaces the store contents. Returns the number
// of imported rows.
func Import(ctx context.Context, s store.FoodStore, rows [][]string) (int, error) {
	foods, err := ParseBLS(rows)
	if err != nil {
		return 0, err
	}
	if err := s.Migrate(ctx); err != nil {
		return 0, err
	}
	n, err := s.ReplaceAll(ctx, foods)
	if err != nil {
		return 0, err
	}
	zap.L().Info("importer: lookup store replaced",
		zap.Int("rows", len(rows)-1),
		zap.Int("imported", n),
	)
	return n, nil
}

// columnIndex maps header text to column position. Missing columns resolve
// to -1 so the caller can index unconditionally via cellAt.
type columnIndex map[string]int

func headerIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func (c columnIndex) at(name string) int {
	if i, ok := c[name]; ok {
		return i
	}
	return -1
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// safeFloat converts a spreadsheet cell to a nutrient value. Empty or
// unparsable cells become nil. German exports use a decimal comma.
func safeFloat(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
