// Package web serves the list and detail views as HTML pages and as a JSON
// API over the same render models.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/Sternrassler/pokedex-browser/pkg/catalog"
	"github.com/Sternrassler/pokedex-browser/pkg/detail"
	"github.com/Sternrassler/pokedex-browser/pkg/logging"
	"github.com/Sternrassler/pokedex-browser/pkg/metrics"
	"github.com/Sternrassler/pokedex-browser/pkg/notify"
	"github.com/Sternrassler/pokedex-browser/pkg/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config holds web layer configuration.
type Config struct {
	// SpriteURL is the sprite image base ({SpriteURL}/{id}.png)
	SpriteURL string
	// CORSOrigins are the origins allowed to call the JSON API
	CORSOrigins []string
}

// Server holds the HTTP server dependencies.
type Server struct {
	catalog *catalog.Catalog
	details *detail.Loader
	toasts  *notify.Center
	config  Config
	router  chi.Router
	pages   map[string]*template.Template
	logger  zerolog.Logger
}

// New creates a new web server.
func New(cat *catalog.Catalog, details *detail.Loader, toasts *notify.Center, cfg Config) (*Server, error) {
	if cat == nil || details == nil || toasts == nil {
		return nil, errors.New("catalog, detail loader and notification center are required")
	}

	s := &Server{
		catalog: cat,
		details: details,
		toasts:  toasts,
		config:  cfg,
		router:  chi.NewRouter(),
		logger:  logging.NewLogger("web"),
	}

	pages, err := parsePages(cfg.SpriteURL)
	if err != nil {
		return nil, err
	}
	s.pages = pages

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestMetrics)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	// Views
	s.router.Get("/", s.handleList)
	s.router.Get("/detail/{id}", s.handleDetail)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/pokemon", s.handleAPIList)
		r.Get("/pokemon/{id}/detail", s.handleAPIDetail)

		r.Get("/catalog", s.handleAPICatalog)
		r.Post("/catalog/refresh", s.handleAPIRefresh)

		r.Get("/toasts", s.handleAPIToasts)
		r.Delete("/toasts/{id}", s.handleAPIDismissToast)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	s.router.Handle("/metrics", metrics.Handler())
}

// listPage resolves the page and query parameters into a list render model.
// Pages past the end are clamped to the last page.
func (s *Server) listPage(r *http.Request) catalog.ListPage {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	page := pageParam(r)

	lp := s.catalog.Search(query, page)
	if clamped := pagination.ClampPage(page, lp.Nav.PagesCount); clamped != page {
		lp = s.catalog.Search(query, clamped)
	}
	lp.Toast = s.toasts.Active()
	return lp
}

// pageParam parses ?page=, defaulting to 1 for missing or invalid values.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	lp := s.listPage(r)
	s.render(w, r, http.StatusOK, "list", lp)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	view := s.details.Load(r.Context(), chi.URLParam(r, "id"))

	status := http.StatusOK
	if !view.Found() {
		status = http.StatusNotFound
	}
	s.render(w, r, status, "detail", detailPage{View: view, Toasts: s.toasts.Active()})
}

func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.listPage(r))
}

func (s *Server) handleAPIDetail(w http.ResponseWriter, r *http.Request) {
	view := s.details.Load(r.Context(), chi.URLParam(r, "id"))
	if !view.Found() {
		respondJSON(w, http.StatusNotFound, view)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// catalogStatus is the /api/catalog response.
type catalogStatus struct {
	State      catalog.State `json:"state"`
	Refreshing bool          `json:"refreshing,omitempty"`
	Items      int           `json:"items"`
	LoadedAt   string        `json:"loaded_at,omitempty"`
	Error      string        `json:"error,omitempty"`
}

func (s *Server) status() catalogStatus {
	st := catalogStatus{
		State: s.catalog.State(),
		Items: s.catalog.Len(),
	}
	st.Refreshing = st.State == catalog.StateLoaded && s.catalog.Busy()
	if t := s.catalog.LoadedAt(); !t.IsZero() {
		st.LoadedAt = t.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	if err := s.catalog.Err(); err != nil {
		st.Error = err.Error()
	}
	return st
}

func (s *Server) handleAPICatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.status())
}

// handleAPIRefresh starts a refresh in the background and answers at once.
func (s *Server) handleAPIRefresh(w http.ResponseWriter, r *http.Request) {
	if s.catalog.Busy() {
		respondError(w, http.StatusConflict, catalog.ErrBusy.Error())
		return
	}

	ctx := context.WithoutCancel(r.Context())
	go func() {
		if err := s.catalog.Refresh(ctx); err != nil && !errors.Is(err, catalog.ErrBusy) {
			s.logger.Warn().Err(err).Msg("Catalog refresh failed")
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}

func (s *Server) handleAPIToasts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.toasts.Active())
}

func (s *Server) handleAPIDismissToast(w http.ResponseWriter, r *http.Request) {
	if !s.toasts.Dismiss(chi.URLParam(r, "id")) {
		respondError(w, http.StatusNotFound, "toast not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown page %q", name), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		s.logger.Error().
			Err(err).
			Str("page", name).
			Str("path", r.URL.Path).
			Msg("Template render failed")
	}
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
