// Package api provides the HTTP API server and handlers for the Bookly application.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/booklyapp/bookly-server/internal/http/response"
	"github.com/booklyapp/bookly-server/internal/ratelimit"
	"github.com/booklyapp/bookly-server/internal/store"
)

// Options configures the HTTP surface of the server.
type Options struct {
	// BasePath prefixes every route, e.g. "/api". Empty mounts at the root.
	BasePath       string
	Version        string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       store.BookStore
	services    *Services
	opts        Options
	router      *chi.Mux
	api         huma.API
	rateLimiter *ratelimit.KeyedRateLimiter
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.BookStore, services *Services, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := &Server{
		store:    st,
		services: services,
		opts:     opts,
		router:   chi.NewRouter(),
		logger:   logger,
	}
	if opts.RateLimitRPS > 0 {
		s.rateLimiter = ratelimit.New(opts.RateLimitRPS, opts.RateLimitBurst)
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Bookly API", opts.Version)
	humaConfig.Info.Description = "Mood and genre based book recommendations."
	humaConfig.OpenAPIPath = s.path("/openapi")
	humaConfig.DocsPath = s.path("/docs")
	humaConfig.SchemasPath = s.path("/schemas")
	// Response bodies keep their documented shape, without a $schema link.
	humaConfig.CreateHooks = nil

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(accessLogMiddleware(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(metricsMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if s.rateLimiter != nil {
		s.router.Use(RateLimitMiddleware(s.rateLimiter, s.logger))
	}

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Not Found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "Method Not Allowed", s.logger)
	})
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerRootRoutes()
	s.registerHealthRoutes()
	s.registerRecommendationRoutes()
	s.registerBookRoutes()
	s.registerStatusRoutes()

	s.router.Handle(s.path("/metrics"), promhttp.Handler())
}

// path prefixes p with the configured base path.
func (s *Server) path(p string) string {
	return s.opts.BasePath + p
}

func (s *Server) corsOrigins() []string {
	if len(s.opts.CORSOrigins) == 0 {
		return []string{"*"}
	}
	origins := make([]string, 0, len(s.opts.CORSOrigins))
	for _, o := range s.opts.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
