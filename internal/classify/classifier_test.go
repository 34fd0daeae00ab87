package classify

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genau-project/speisecheck/internal/keywords"
	"github.com/genau-project/speisecheck/internal/model"
)

type fakeLookup struct {
	candidates []model.FoodCandidate
	err        error
	gotTokens  []string
	calls      int
}

func (f *fakeLookup) SearchByTokens(_ context.Context, tokens []string, _ int) ([]model.FoodCandidate, error) {
	f.calls++
	f.gotTokens = tokens
	return f.candidates, f.err
}

func TestBestGroup_FullConfidence(t *testing.T) {
	c := New(keywords.Catalog{"vegetables": {"gemüse"}}, nil, nil)

	match := c.BestGroup("Kartoffeln mit Gemüse")
	assert.Equal(t, "vegetables", match.Key)
	assert.Equal(t, 1.0, match.Score)
	assert.Equal(t, 1, match.Hits)
}

func TestBestGroup_NoHit(t *testing.T) {
	c := New(keywords.Catalog{"vegetables": {"gemüse"}}, nil, nil)

	match := c.BestGroup("Spaghetti Bolognese")
	assert.Equal(t, "", match.Key)
	assert.Equal(t, 0.0, match.Score)
}

func TestBestGroup_ConfidenceIsHitDensity(t *testing.T) {
	c := New(keywords.Catalog{
		"vegetables": {"brokkoli", "gemüse", "möhren", "spinat"},
	}, nil, nil)

	match := c.BestGroup("Brokkoli und Möhren")
	assert.Equal(t, "vegetables", match.Key)
	assert.Equal(t, 2, match.Hits)
	assert.Equal(t, 0.5, match.Score)
}

func TestBestGroup_TieKeepsLexicographicFirst(t *testing.T) {
	// both categories score exactly one hit
	c := New(keywords.Catalog{
		"meat": {"gulasch"},
		"fish": {"fisch"},
	}, nil, nil)

	match := c.BestGroup("Fisch mit Gulasch")
	assert.Equal(t, "fish", match.Key)
}

func TestBestGroup_KeywordCountsOnce(t *testing.T) {
	c := New(keywords.Catalog{"vegetables": {"gemüse"}}, nil, nil)

	match := c.BestGroup("Gemüse auf Gemüse")
	assert.Equal(t, 1, match.Hits)
	assert.Equal(t, 1.0, match.Score)
}

func TestCollectTags_SortedNotExclusive(t *testing.T) {
	c := New(nil, keywords.Catalog{
		"raw_veg": {"salat"},
		"fried":   {"paniert"},
		"fish":    {"fisch"},
	}, nil)

	tags := c.CollectTags("Panierter Fisch mit Salat")
	assert.Equal(t, []string{"fish", "fried", "raw_veg"}, tags)
}

func TestClassify_KeywordHitSkipsLookup(t *testing.T) {
	lookup := &fakeLookup{}
	c := New(keywords.Catalog{"vegetables": {"gemüse"}}, nil, lookup)

	res := c.Classify(context.Background(), "Gemüsesuppe")
	assert.Equal(t, "vegetables", res.FoodGroup)
	assert.False(t, res.UsedLookup)
	assert.Zero(t, lookup.calls)
}

func TestClassify_FallbackClassifiesCandidateName(t *testing.T) {
	lookup := &fakeLookup{candidates: []model.FoodCandidate{
		{ID: "B123", Name: "Seelachsfilet paniert"},
		{ID: "B456", Name: "Weizenmehl Type 405"},
	}}
	c := New(
		keywords.Catalog{"fish": {"seelachs"}},
		keywords.Catalog{"fried": {"paniert"}},
		lookup,
	)

	res := c.Classify(context.Background(), "Knusperfilet vom Kutter")
	require.True(t, res.UsedLookup)
	assert.Equal(t, "fish", res.FoodGroup)
	assert.Equal(t, "B123", res.BLSID)
	assert.Equal(t, "Seelachsfilet paniert", res.BLSName)
	assert.Contains(t, res.Tags, "fried")
}

func TestClassify_FallbackQueryCapsTokens(t *testing.T) {
	lookup := &fakeLookup{candidates: []model.FoodCandidate{{ID: "1", Name: "Kartoffel"}}}
	c := New(keywords.Catalog{"starches": {"kartoffel"}}, nil, lookup)

	c.Classify(context.Background(), "eins zwei drei vier fünf sechs sieben acht")
	require.Equal(t, 1, lookup.calls)
	assert.Len(t, lookup.gotTokens, maxLookupTokens)
}

func TestClassify_LookupErrorDegradesToKeywordOnly(t *testing.T) {
	lookup := &fakeLookup{err: eris.New("connection refused")}
	c := New(keywords.Catalog{"vegetables": {"gemüse"}}, nil, lookup)

	res := c.Classify(context.Background(), "Mysteriöses Gericht")
	assert.Equal(t, "", res.FoodGroup)
	assert.Equal(t, 0.0, res.Confidence)
	assert.False(t, res.UsedLookup)
	assert.Equal(t, []string{}, res.Tags)
}

func TestClassify_NilLookupNoFallback(t *testing.T) {
	c := New(keywords.Catalog{"vegetables": {"gemüse"}}, nil, nil)

	res := c.Classify(context.Background(), "Spaghetti")
	assert.Equal(t, "", res.FoodGroup)
	assert.False(t, res.UsedLookup)
}

func TestClassify_TagsNeverNil(t *testing.T) {
	c := New(nil, nil, nil)

	res := c.Classify(context.Background(), "irgendwas")
	assert.NotNil(t, res.Tags)
	assert.Empty(t, res.Tags)
}
