// Package server exposes the colorpaps HTTP surface: the generation API the
// site calls when a visitor composes a rencontre, the artwork catalog, the
// static /generated assets, and the websocket that streams the progressive
// reveal of a freshly generated artwork.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/hazyhaar/colorpaps/internal/config"
	"github.com/hazyhaar/colorpaps/internal/generator"
	"github.com/hazyhaar/colorpaps/internal/palette"
	"github.com/hazyhaar/colorpaps/internal/store"
)

// Generator abstracts the composition subprocess so tests can stub it.
type Generator interface {
	Generate(ctx context.Context, mode string, colors []string, full bool) (*generator.Result, error)
}

// Server wires the API handlers together.
type Server struct {
	logger *slog.Logger
	store  *store.Store
	gen    Generator
	cfg    *config.Config
}

// New creates a server.
func New(logger *slog.Logger, st *store.Store, gen Generator, cfg *config.Config) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{logger: logger, store: st, gen: gen, cfg: cfg}
}

// RegisterHTTP registers every endpoint on the router.
func (s *Server) RegisterHTTP(r chi.Router) {
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/colors", s.handleColors)
	r.Get("/api/classify", s.handleClassify)
	r.Get("/api/artworks", s.handleArtworks)
	r.Post("/api/generate/{mode}", s.handleGenerate)
	r.Get("/ws/reveal", s.handleReveal)
	r.Handle("/generated/*", http.StripPrefix("/generated/",
		http.FileServer(http.Dir(s.cfg.Generator.OutputDir))))
}

// Handler returns a ready-to-serve router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterHTTP(r)
	return r
}

// GenerateRequest is the body of POST /api/generate/{mode}.
type GenerateRequest struct {
	Colors []string `json:"colors"`
	Full   bool     `json:"full"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	mode := chi.URLParam(r, "mode")
	if !generator.KnownMode(mode) {
		writeError(w, http.StatusNotFound, "unknown generation mode "+strconv.Quote(mode))
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateSelection(mode, req.Colors); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	res, err := s.gen.Generate(r.Context(), mode, req.Colors, req.Full)
	if err != nil {
		s.store.LogEvent(r.Context(), store.Event{
			Mode:         mode,
			Action:       "generate",
			Success:      false,
			ErrorMessage: err.Error(),
			DurationMS:   time.Since(start).Milliseconds(),
		})
		var genErr *generator.GenerationError
		if errors.As(err, &genErr) {
			// Upstream failure: the script's message is displayable
			// verbatim; no session ever starts on it.
			writeError(w, http.StatusUnprocessableEntity, genErr.Message)
			return
		}
		s.logger.Error("generation failed", "mode", mode, "error", err)
		writeError(w, http.StatusBadGateway, "generation failed")
		return
	}

	art := &store.Artwork{
		Mode:           mode,
		Colors:         res.Colors,
		Count:          res.Count,
		TotalAvailable: res.TotalAvailable,
		PreviewPath:    res.Preview,
		FullPath:       res.Full,
	}
	if len(art.Colors) == 0 {
		art.Colors = req.Colors
	}
	if err := s.store.InsertArtwork(r.Context(), art); err != nil {
		s.logger.Error("artwork insert failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.store.LogEvent(r.Context(), store.Event{
		ArtworkID:  art.ID,
		Mode:       mode,
		Action:     "generate",
		Success:    true,
		DurationMS: time.Since(start).Milliseconds(),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(art)
}

func (s *Server) handleArtworks(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	artworks, err := s.store.ListArtworks(r.Context(), mode, limit)
	if err != nil {
		s.logger.Error("artwork list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if artworks == nil {
		artworks = []*store.Artwork{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"artworks": artworks})
}

// validateSelection applies the per-mode arity contract, then the family
// checks (known names, no duplicates) for modes that take colors.
func validateSelection(mode string, colors []string) error {
	if err := generator.CheckSelection(mode, colors); err != nil {
		return err
	}
	if len(colors) > 0 {
		return palette.Validate(colors)
	}
	return nil
}

// handleClassify resolves a hex swatch to its color family, backing the
// picker's "this pixel belongs to jaune" hint. Out-of-gamut swatches (the
// paper white, the print margins) report no family.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	hex := r.URL.Query().Get("color")
	if hex == "" {
		writeError(w, http.StatusBadRequest, "missing color parameter")
		return
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid hex color "+strconv.Quote(hex))
		return
	}
	family := palette.Classify(c)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"color":   hex,
		"family":  family,
		"matched": family != "",
	})
}

func (s *Server) handleColors(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"colors": palette.Names(),
		"modes":  generator.Modes(),
		"max":    palette.MaxSelection,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
