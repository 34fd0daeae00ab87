package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genau-project/speisecheck/internal/model"
)

func float(v float64) *float64 { return &v }

func testSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "foods.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seedFoods(t *testing.T, s *SQLiteStore) {
	t.Helper()
	n, err := s.ReplaceAll(context.Background(), []model.Food{
		{NameDE: "Apfel roh", Per100g: model.Nutrients{EnergyKcal: float(54), WaterG: float(85.3)}},
		{NameDE: "Apfelmus", Per100g: model.Nutrients{EnergyKcal: float(81)}},
		{NameDE: "Seelachs Filet", Per100g: model.Nutrients{ProteinG: float(18.2)}},
	})
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestSQLiteStore_SearchByName(t *testing.T) {
	s := testSQLite(t)
	seedFoods(t, s)

	foods, err := s.SearchByName(context.Background(), "APFEL", 10)
	require.NoError(t, err)

	require.Len(t, foods, 2)
	assert.Equal(t, "Apfel roh", foods[0].NameDE)
	assert.Equal(t, "Apfelmus", foods[1].NameDE)
	require.NotNil(t, foods[0].Per100g.EnergyKcal)
	assert.Equal(t, 54.0, *foods[0].Per100g.EnergyKcal)
	assert.Nil(t, foods[0].Per100g.ProteinG)
}

func TestSQLiteStore_SearchByName_Limit(t *testing.T) {
	s := testSQLite(t)
	seedFoods(t, s)

	foods, err := s.SearchByName(context.Background(), "apfel", 1)
	require.NoError(t, err)
	assert.Len(t, foods, 1)
}

func TestSQLiteStore_GetFood(t *testing.T) {
	s := testSQLite(t)
	seedFoods(t, s)

	foods, err := s.SearchByName(context.Background(), "seelachs", 1)
	require.NoError(t, err)
	require.Len(t, foods, 1)

	food, err := s.GetFood(context.Background(), foods[0].ID)
	require.NoError(t, err)
	require.NotNil(t, food)
	assert.Equal(t, "Seelachs Filet", food.NameDE)
	require.NotNil(t, food.Per100g.ProteinG)
	assert.Equal(t, 18.2, *food.Per100g.ProteinG)
}

func TestSQLiteStore_GetFood_NotFound(t *testing.T) {
	s := testSQLite(t)

	food, err := s.GetFood(context.Background(), 424242)
	require.NoError(t, err)
	assert.Nil(t, food)
}

func TestSQLiteStore_SearchByTokens(t *testing.T) {
	s := testSQLite(t)
	seedFoods(t, s)

	candidates, err := s.SearchByTokens(context.Background(), []string{"apfel", "seelachs"}, 10)
	require.NoError(t, err)

	require.Len(t, candidates, 3)
	for _, c := range candidates {
		assert.NotEmpty(t, c.ID)
		assert.NotEmpty(t, c.Name)
	}
}

func TestSQLiteStore_SearchByTokens_Empty(t *testing.T) {
	s := testSQLite(t)

	candidates, err := s.SearchByTokens(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestSQLiteStore_ReplaceAll_Resets(t *testing.T) {
	s := testSQLite(t)
	seedFoods(t, s)

	n, err := s.ReplaceAll(context.Background(), []model.Food{
		{NameDE: "Banane", Per100g: model.Nutrients{EnergyKcal: float(93)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	foods, err := s.SearchByName(context.Background(), "apfel", 10)
	require.NoError(t, err)
	assert.Empty(t, foods, "old rows must be gone after reimport")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle"})
	require.Error(t, err)
}

func TestOpen_DefaultsToSQLite(t *testing.T) {
	s, err := Open(context.Background(), Config{DatabaseURL: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	defer s.Close()
	_, ok := s.(*SQLiteStore)
	assert.True(t, ok)
}
