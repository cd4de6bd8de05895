package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/navgest/internal/config"
	"github.com/dgallion1/navgest/internal/fragment"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Invalidator is implemented by sources that cache fragments.
type Invalidator interface {
	Invalidate(path string)
}

// StatsReporter is implemented by sources that track fetch statistics.
type StatsReporter interface {
	Stats() fragment.StatsSnapshot
}

// Server is the HTTP API server for navgest.
type Server struct {
	router chi.Router
	src    fragment.Source
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(src fragment.Source, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		src: src,
		log: log,
		cfg: cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Get("/nav", s.handleNavHTML)

	// API endpoints, authenticated when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.NavgestAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.NavgestAPIKey, s.log))
		}

		r.Get("/api/nav", s.handleNavJSON)
		r.Post("/api/nav/simulate", s.handleSimulate)
		r.Post("/api/nav/render", s.handleRenderUpload)
		r.Delete("/api/nav/cache", s.handleInvalidate)
		r.Get("/api/stats/fragments", s.handleFragmentStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
