// Package server exposes the prod and theme pipelines over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/andreicstoica/refract/internal/domain"
	"github.com/andreicstoica/refract/internal/embedding"
	"github.com/andreicstoica/refract/internal/intelligence"
	"github.com/andreicstoica/refract/internal/service"
)

// Server handles the two POST contracts of the writing core.
type Server struct {
	prod     intelligence.ProdService
	analysis *service.Analysis
}

// New creates a Server over the given services.
func New(prod intelligence.ProdService, analysis *service.Analysis) *Server {
	return &Server{prod: prod, analysis: analysis}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/prod", s.handleProd)
	mux.HandleFunc("POST /api/themes", s.handleThemes)
	return mux
}

type prodRequest struct {
	LastParagraph string `json:"lastParagraph"`
	FullText      string `json:"fullText,omitempty"`
}

type prodResponse struct {
	SelectedProd string  `json:"selectedProd,omitempty"`
	Confidence   float64 `json:"confidence"`
	ShouldSkip   bool    `json:"shouldSkip,omitempty"`
}

func (s *Server) handleProd(w http.ResponseWriter, r *http.Request) {
	var req prodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.LastParagraph) == "" {
		writeError(w, http.StatusBadRequest, "lastParagraph is required")
		return
	}

	res, err := s.prod.Generate(r.Context(), req.LastParagraph, req.FullText)
	if err != nil {
		// Only cancellation reaches here; upstream failures resolve to
		// fallback or skip results.
		writeError(w, http.StatusInternalServerError, "prod generation interrupted")
		return
	}

	writeJSON(w, http.StatusOK, prodResponse{
		SelectedProd: res.SelectedProd,
		Confidence:   res.Confidence,
		ShouldSkip:   res.ShouldSkip,
	})
}

type themesRequest struct {
	Sentences []domain.Sentence `json:"sentences"`
	FullText  string            `json:"fullText,omitempty"`
}

type themesResponse struct {
	Clusters []domain.ClusterResult `json:"clusters"`
	Themes   []domain.Theme         `json:"themes"`
	Usage    domain.EmbeddingUsage  `json:"usage"`
	Error    string                 `json:"error,omitempty"`
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	var req themesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Sentences) == 0 {
		// Short-circuit before any network call.
		writeJSON(w, http.StatusBadRequest, themesResponse{
			Clusters: []domain.ClusterResult{},
			Themes:   []domain.Theme{},
			Error:    "sentences are required",
		})
		return
	}

	res, err := s.analysis.ThemesForSentences(r.Context(), req.Sentences, req.FullText)
	if errors.Is(err, embedding.ErrNoCredential) {
		writeError(w, http.StatusServiceUnavailable, "theme analysis is disabled: no embedding credential configured")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "theme analysis failed")
		return
	}

	// External view: drop low-correlation chunks from each theme.
	themes := make([]domain.Theme, len(res.Themes))
	for i, theme := range res.Themes {
		theme.Chunks = theme.FilterChunks()
		themes[i] = theme
	}

	writeJSON(w, http.StatusOK, themesResponse{
		Clusters: res.Clusters,
		Themes:   themes,
		Usage:    res.Usage,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}
