package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/genau-project/speisecheck/internal/config"
	"github.com/genau-project/speisecheck/internal/model"
	"github.com/genau-project/speisecheck/internal/pipeline"
	"github.com/genau-project/speisecheck/internal/store"
)

func testAnalyzer(t *testing.T) *pipeline.Analyzer {
	t.Helper()
	analyzer, err := pipeline.New(&config.Config{
		Store: config.StoreConfig{
			Driver:      "sqlite",
			DatabaseURL: filepath.Join(t.TempDir(), "missing.db"),
		},
		Rules: config.RulesConfig{Path: filepath.Join("..", "..", "rules", "dge_lunch_rules.json")},
		Keywords: config.KeywordsConfig{
			Root:        filepath.Join("..", "..", "rules", "keywords"),
			MappingFile: filepath.Join("..", "..", "rules", "bls_to_dge_groups.json"),
		},
		Plan: config.PlanConfig{Sheet: "Tabelle1"},
	})
	require.NoError(t, err)
	return analyzer
}

func planUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func weekXLSX(t *testing.T) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Tabelle1")
	require.NoError(t, err)
	row := sheet.AddRow()
	for _, c := range []string{"Montag", "Gulasch", "350g", "", "Gemüselasagne", "300g", "", "Obstsalat", "150g", ""} {
		row.AddCell().SetString(c)
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	srv := New(testAnalyzer(t), nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAnalyze_OK(t *testing.T) {
	srv := New(testAnalyzer(t), nil)
	body, contentType := planUpload(t, "kw12.xlsx", weekXLSX(t))

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report model.DualReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "dual", report.Mode)
	require.NotNil(t, report.Mixed)
	require.NotNil(t, report.OvoLactoVegetarian)
	require.NotNil(t, report.Debug)
	assert.Equal(t, "kw12.xlsx", report.Debug.SourceFilename)
	assert.NotEmpty(t, report.Debug.AnalysisID)
}

func TestAnalyze_MissingFile(t *testing.T) {
	srv := New(testAnalyzer(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_WrongExtension(t *testing.T) {
	srv := New(testAnalyzer(t), nil)
	body, contentType := planUpload(t, "plan.csv", []byte("a;b;c"))

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_TemplateMismatch(t *testing.T) {
	srv := New(testAnalyzer(t), nil)
	body, contentType := planUpload(t, "report.xlsx", []byte("kein xlsx"))

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func seededStore(t *testing.T) store.FoodStore {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "foods.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	kcal := 54.0
	_, err = s.ReplaceAll(context.Background(), []model.Food{
		{NameDE: "Apfel roh", Per100g: model.Nutrients{EnergyKcal: &kcal}},
	})
	require.NoError(t, err)
	return s
}

func TestSearchFoods(t *testing.T) {
	srv := New(testAnalyzer(t), seededStore(t))
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/foods?q=apfel", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []struct {
			ID     int64  `json:"id"`
			NameDE string `json:"name_de"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Apfel roh", resp.Items[0].NameDE)
}

func TestSearchFoods_EmptyQuery(t *testing.T) {
	srv := New(testAnalyzer(t), seededStore(t))
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/foods", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestSearchFoods_InvalidLimit(t *testing.T) {
	srv := New(testAnalyzer(t), seededStore(t))
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/foods?q=apfel&limit=-1", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchFoods_NoStore(t *testing.T) {
	srv := New(testAnalyzer(t), nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/foods?q=apfel", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetFood(t *testing.T) {
	s := seededStore(t)
	foods, err := s.SearchByName(context.Background(), "apfel", 1)
	require.NoError(t, err)
	require.Len(t, foods, 1)

	srv := New(testAnalyzer(t), s)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/foods/"+strconv.FormatInt(foods[0].ID, 10), nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var food model.Food
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &food))
	assert.Equal(t, "Apfel roh", food.NameDE)
	require.NotNil(t, food.Per100g.EnergyKcal)
	assert.Equal(t, 54.0, *food.Per100g.EnergyKcal)
}

func TestGetFood_NotFound(t *testing.T) {
	srv := New(testAnalyzer(t), seededStore(t))
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/foods/424242", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetFood_InvalidID(t *testing.T) {
	srv := New(testAnalyzer(t), seededStore(t))
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/foods/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
