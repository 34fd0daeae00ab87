// Package server exposes the analysis pipeline and the foods lookup over
// HTTP. All logic lives in the internal packages; handlers stay thin.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/genau-project/speisecheck/internal/model"
	"github.com/genau-project/speisecheck/internal/pipeline"
	"github.com/genau-project/speisecheck/internal/planparse"
	"github.com/genau-project/speisecheck/internal/store"
)

// maxUploadBytes bounds the spreadsheet upload size.
const maxUploadBytes = 10 << 20

// Server wires the analyzer and the foods store into HTTP handlers. foods
// may be nil, in which case the /foods endpoints answer 503.
type Server struct {
	analyzer *pipeline.Analyzer
	foods    store.FoodStore
}

// New creates a Server.
func New(analyzer *pipeline.Analyzer, foods store.FoodStore) *Server {
	return &Server{analyzer: analyzer, foods: foods}
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/foods", s.handleSearchFoods)
	r.Get("/foods/{id}", s.handleGetFood)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze accepts a multipart upload under field "file", parses and
// scores it fully in memory, and returns the dual report. The upload is
// never written to disk.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	analysisID := uuid.NewString()
	log := zap.L().With(zap.String("analysis_id", analysisID))

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no upload under field 'file'")
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if strings.ToLower(filepath.Ext(filename)) != ".xlsx" {
		writeError(w, http.StatusBadRequest, "expected an .xlsx upload in the weekly plan template")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	report, err := s.analyzer.AnalyzeBytes(r.Context(), data, filename)
	if err != nil {
		if eris.Is(err, planparse.ErrFormatMismatch) {
			log.Warn("analyze: rejected upload", zap.String("file", filename), zap.Error(err))
			writeError(w, http.StatusUnprocessableEntity, "spreadsheet does not match the weekly plan template")
			return
		}
		log.Error("analyze: pipeline failed", zap.String("file", filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	report.Debug = &model.ReportDebug{
		SourceFilename: filename,
		AnalysisID:     analysisID,
	}
	log.Info("analyze: report ready",
		zap.String("file", filename),
		zap.Float64("mixed_score", report.Mixed.Summary.Score),
		zap.Float64("veg_score", report.OvoLactoVegetarian.Summary.Score),
	)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSearchFoods(w http.ResponseWriter, r *http.Request) {
	if s.foods == nil {
		writeError(w, http.StatusServiceUnavailable, "food store not configured")
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	foods, err := s.foods.SearchByName(r.Context(), q, limit)
	if err != nil {
		zap.L().Error("foods: search failed", zap.String("q", q), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	type slimFood struct {
		ID     int64  `json:"id"`
		NameDE string `json:"name_de"`
	}
	items := make([]slimFood, 0, len(foods))
	for _, f := range foods {
		items = append(items, slimFood{ID: f.ID, NameDE: f.NameDE})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleGetFood(w http.ResponseWriter, r *http.Request) {
	if s.foods == nil {
		writeError(w, http.StatusServiceUnavailable, "food store not configured")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid food id")
		return
	}

	food, err := s.foods.GetFood(r.Context(), id)
	if err != nil {
		zap.L().Error("foods: get failed", zap.Int64("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if food == nil {
		writeError(w, http.StatusNotFound, "food not found")
		return
	}
	writeJSON(w, http.StatusOK, food)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
