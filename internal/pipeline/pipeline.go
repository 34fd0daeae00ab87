// Package pipeline chains plan parsing, enrichment and rule evaluation
// into one synchronous run per input spreadsheet.
package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/genau-project/speisecheck/internal/classify"
	"github.com/genau-project/speisecheck/internal/config"
	"github.com/genau-project/speisecheck/internal/enrich"
	"github.com/genau-project/speisecheck/internal/fetcher"
	"github.com/genau-project/speisecheck/internal/keywords"
	"github.com/genau-project/speisecheck/internal/model"
	"github.com/genau-project/speisecheck/internal/planparse"
	"github.com/genau-project/speisecheck/internal/rules"
	"github.com/genau-project/speisecheck/internal/store"
)

// Analyzer holds the immutable configuration of the analysis pipeline: the
// merged keyword catalogs and the rule document. The lookup store is opened
// fresh for each run and closed when the run ends.
type Analyzer struct {
	groups   keywords.Catalog
	tags     keywords.Catalog
	ruleDoc  *model.RuleDoc
	storeCfg store.Config
	sheet    string
}

// New loads the keyword catalogs and rule document. The mapping file and the
// rule document are required configuration; missing keyword directories are
// tolerated.
func New(cfg *config.Config) (*Analyzer, error) {
	groupTxt, err := keywords.LoadDir(filepath.Join(cfg.Keywords.Root, "groups"))
	if err != nil {
		return nil, err
	}
	tagTxt, err := keywords.LoadDir(filepath.Join(cfg.Keywords.Root, "tags"))
	if err != nil {
		return nil, err
	}

	groupJSON, tagJSON, err := keywords.LoadMappingFile(cfg.Keywords.MappingFile)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: required keyword mapping")
	}

	ruleDoc, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: required rule document")
	}

	return &Analyzer{
		groups:  keywords.Merge(groupTxt, groupJSON),
		tags:    keywords.Merge(tagTxt, tagJSON),
		ruleDoc: ruleDoc,
		storeCfg: store.Config{
			Driver:      cfg.Store.Driver,
			DatabaseURL: cfg.Store.DatabaseURL,
		},
		sheet: cfg.Plan.Sheet,
	}, nil
}

// RuleDoc exposes the loaded rule document for standalone evaluation.
func (a *Analyzer) RuleDoc() *model.RuleDoc {
	return a.ruleDoc
}

// Classifier builds a classifier over the merged catalogs with the given
// lookup (nil disables the fallback path).
func (a *Analyzer) Classifier(lookup classify.FoodLookup) *classify.Classifier {
	return classify.New(a.groups, a.tags, lookup)
}

// AnalyzeBytes runs the full parse → enrich → normalize → evaluate sequence
// over an in-memory spreadsheet. filename is kept for traceability only; the
// upload is never written to disk.
func (a *Analyzer) AnalyzeBytes(ctx context.Context, data []byte, filename string) (*model.DualReport, error) {
	rows, err := fetcher.ReadXLSXBytes(data, fetcher.XLSXOptions{
		SheetName:  a.sheet,
		MaxColumns: planparse.UsedColumns,
	})
	if err != nil {
		return nil, eris.Wrap(planparse.ErrFormatMismatch, err.Error())
	}

	var file *string
	if filename != "" {
		file = &filename
	}
	return a.analyzeRows(ctx, rows, file)
}

// AnalyzeFile runs the full sequence over a spreadsheet on disk.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*model.DualReport, error) {
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{
		SheetName:  a.sheet,
		MaxColumns: planparse.UsedColumns,
	})
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	return a.analyzeRows(ctx, rows, &name)
}

func (a *Analyzer) analyzeRows(ctx context.Context, rows [][]string, file *string) (*model.DualReport, error) {
	plan, err := planparse.Parse(rows, file, a.sheet)
	if err != nil {
		return nil, err
	}

	lookup, closeLookup := a.OpenLookup(ctx)
	defer closeLookup()

	enrich.Enrich(ctx, plan, a.Classifier(lookup))
	enrich.NormalizePlan(plan)

	return rules.EvaluateDual(ctx, plan, a.ruleDoc)
}

// OpenLookup opens the fallback store for one run. Any failure degrades to
// keyword-only classification rather than aborting the run. SQLite would
// silently create an empty database on open, so a missing file is checked
// up front instead.
func (a *Analyzer) OpenLookup(ctx context.Context) (classify.FoodLookup, func()) {
	if a.storeCfg.Driver == "" || a.storeCfg.Driver == "sqlite" {
		if _, err := os.Stat(a.storeCfg.DatabaseURL); err != nil {
			zap.L().Warn("pipeline: lookup database not found, fallback disabled",
				zap.String("path", a.storeCfg.DatabaseURL),
			)
			return nil, func() {}
		}
	}

	s, err := store.Open(ctx, a.storeCfg)
	if err != nil {
		zap.L().Warn("pipeline: lookup store unavailable, fallback disabled",
			zap.String("driver", a.storeCfg.Driver),
			zap.Error(err),
		)
		return nil, func() {}
	}
	return s, func() {
		if err := s.Close(); err != nil {
			zap.L().Warn("pipeline: close lookup store", zap.Error(err))
		}
	}
}
