package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/outlinemd/internal/config"
	"github.com/dgallion1/outlinemd/internal/logo"
	"github.com/dgallion1/outlinemd/internal/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// logoPath serves the processed logo.
const logoPath = "/api/logo"

// Server is the HTTP server for the converter UI and API. It holds no
// editor state; the browser sends its current text with every request.
type Server struct {
	router chi.Router
	logo   *logo.Processor
	stats  *stats.Latency
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server. lp may be nil when logo
// processing is disabled.
func NewServer(lp *logo.Processor, st *stats.Latency, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		logo:  lp,
		stats: st,
		log:   log,
		cfg:   cfg,
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

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/convert", s.handleConvert)
		r.Post("/clear", s.handleClear)
		r.Post("/preview", s.handlePreview)
		r.Post("/upload", s.handleUpload)
		r.Get("/logo", s.handleLogo)
		r.Get("/logo/status", s.handleLogoStatus)
		r.Get("/stats/convert", s.handleConvertStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
