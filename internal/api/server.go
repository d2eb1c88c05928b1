package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/pharmadocs/internal/config"
	"github.com/dgallion1/pharmadocs/internal/loader"
	"github.com/dgallion1/pharmadocs/internal/metrics"
)

// Server is the HTTP API server for pharmadocs.
type Server struct {
	router  chi.Router
	loader  *loader.Loader
	metrics *metrics.LoaderMetrics
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server. m may be nil, in which
// case /metrics is not served.
func NewServer(ld *loader.Loader, m *metrics.LoaderMetrics, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		loader:  ld,
		metrics: m,
		log:     log,
		cfg:     cfg,
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
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	// Authenticated endpoints when an API key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/documents", s.handleDocuments)
		r.Get("/api/products", s.handleProducts)
		r.Get("/api/stats", s.handleStats)
		r.Get("/api/prices", s.handlePrices)
		r.Get("/api/report", s.handleReport)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
