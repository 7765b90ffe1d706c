package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/pbaille/postcards/internal/domain"
	"github.com/pbaille/postcards/internal/ingest"
	"github.com/pbaille/postcards/internal/observability"
	"github.com/pbaille/postcards/internal/query"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Options configures the HTTP server
type Options struct {
	Addr            string
	StaticDir       string
	CORSOrigins     []string
	RateLimit       int // requests per minute per IP, 0 disables
	ShutdownTimeout time.Duration
}

// Server handles HTTP requests for the postcard API
type Server struct {
	svc     *query.Service
	metrics *observability.Metrics
	logger  zerolog.Logger
	opts    Options
	report  atomic.Pointer[ingest.Report]
	handler http.Handler
}

// New creates a new API server
func New(svc *query.Service, metrics *observability.Metrics, logger zerolog.Logger, opts Options) *Server {
	s := &Server{svc: svc, metrics: metrics, logger: logger, opts: opts}
	s.handler = s.routes()
	return s
}

// SetReport records the latest ingestion run; the server is ready once set
func (s *Server) SetReport(r ingest.Report) {
	s.report.Store(&r)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.opts.Addr).Msg("starting server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info().Msg("shutting down server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(s.instrument)
	r.Use(corsHandler(s.opts.CORSOrigins))

	r.Get("/healthz", s.health)
	r.Get("/readyz", s.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit(s.opts.RateLimit))

		r.Get("/", s.root)
		r.Get("/cities", s.listCities)
		r.Get("/cities/{id}", s.getCity)
		r.Get("/statistics", s.statistics)
		r.Get("/letters", s.listLetters)
		r.Get("/search", s.search)
		r.Get("/debug", s.debug)
		r.Get("/test-data", s.testData)
	})

	if s.opts.StaticDir != "" {
		r.NotFound(staticHandler(s.opts.StaticDir).ServeHTTP)
	} else {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not found")
		})
	}

	return r
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Postcard Analytics API"})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	report := s.report.Load()
	if report == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "ingesting"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "outcome": report.Outcome})
}

func (s *Server) listCities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.ListCities(r.Context()))
}

func (s *Server) getCity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "city not found")
		return
	}

	detail, err := s.svc.CityDetail(r.Context(), id)
	if errors.Is(err, query.ErrNotFound) {
		writeError(w, http.StatusNotFound, "city not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) statistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Statistics(r.Context()))
}

func (s *Server) listLetters(w http.ResponseWriter, r *http.Request) {
	var filter domain.LetterFilter

	if raw := r.URL.Query().Get("city_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "city_id must be an integer")
			return
		}
		filter.CityID = &id
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("theme")); raw != "" {
		theme := domain.Theme(raw)
		filter.Theme = &theme
	}

	writeJSON(w, http.StatusOK, s.svc.ListLetters(r.Context(), filter))
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	letters, err := s.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if errors.Is(err, query.ErrEmptyQuery) {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, letters)
}

func (s *Server) debug(w http.ResponseWriter, r *http.Request) {
	cities := s.svc.ListCities(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"cities_count":        len(cities),
		"cities":              head(cities, 5),
		"statistics":          s.svc.Statistics(r.Context()),
		"total_letters_in_db": s.svc.LetterRows(r.Context()),
	})
}

func (s *Server) testData(w http.ResponseWriter, r *http.Request) {
	letters := s.svc.ListLetters(r.Context(), domain.LetterFilter{})
	writeJSON(w, http.StatusOK, map[string]any{
		"ingest":  s.report.Load(),
		"cities":  head(s.svc.ListCities(r.Context()), 3),
		"letters": head(letters, 5),
	})
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data) //nolint:errcheck // client gone
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
