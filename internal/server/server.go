// Package server exposes stored graph documents over HTTP.
//
// # Routes
//
//	GET    /healthz                     liveness probe
//	GET    /metrics                     Prometheus metrics
//	GET    /documents                   list stored documents
//	POST   /documents?name=             create a document from the body
//	GET    /documents/{id}              fetch the saved document
//	PUT    /documents/{id}?name=        replace a document
//	DELETE /documents/{id}              delete a document
//	POST   /documents/{id}/merge        merge the body into a document
//	GET    /documents/{id}/search?q=    search node labels
//
// Request bodies are JSON unless the Content-Type names YAML. Document
// responses honor ?format=yaml. Errors are returned as
// {"error": {"code", "message", "field"}}.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/graphit/internal/config"
	"github.com/matzehuels/graphit/internal/service"
)

const (
	maxBodyBytes    = 10 << 20
	shutdownTimeout = 5 * time.Second
)

// Server is the HTTP API.
type Server struct {
	cfg     config.ServerConfig
	limit   int
	svc     *service.DocumentService
	metrics *Metrics
	logger  *log.Logger
}

// New creates a server. searchLimit is the default cap on search results
// when a request gives none. metrics may be nil.
func New(cfg config.ServerConfig, searchLimit int, svc *service.DocumentService, metrics *Metrics, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:     cfg,
		limit:   searchLimit,
		svc:     svc,
		metrics: metrics,
		logger:  logger,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.listDocuments)
		r.Post("/", s.createDocument)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getDocument)
			r.Put("/", s.replaceDocument)
			r.Delete("/", s.deleteDocument)
			r.Post("/merge", s.mergeDocument)
			r.Get("/search", s.searchDocument)
		})
	})
	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		elapsed := time.Since(start)
		if s.metrics != nil {
			s.metrics.ObserveRequest(r.Method, route, status, elapsed)
		}

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
			"request_id", chimiddleware.GetReqID(r.Context()),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error("request", fields...)
		} else {
			s.logger.Debug("request", fields...)
		}
	})
}
