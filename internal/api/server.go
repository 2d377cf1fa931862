// Package api provides the HTTP API server and handlers for the Acervo application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/acervoapp/acervo-server/internal/importer"
	"github.com/acervoapp/acervo-server/internal/ratelimit"
	"github.com/acervoapp/acervo-server/internal/search"
	"github.com/acervoapp/acervo-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalogService   *service.CatalogService
	ingestionService *service.IngestionService
	loanService      *service.LoanService
	patronService    *service.PatronService
	curationService  *service.CurationService
	importer         *importer.Importer
	searchIndex      *search.SearchIndex
	limiter          *ratelimit.Limiter
	router           *chi.Mux
	logger           *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	catalogService *service.CatalogService,
	ingestionService *service.IngestionService,
	loanService *service.LoanService,
	patronService *service.PatronService,
	curationService *service.CurationService,
	imp *importer.Importer,
	searchIndex *search.SearchIndex,
	logger *slog.Logger,
) *Server {
	s := &Server{
		catalogService:   catalogService,
		ingestionService: ingestionService,
		loanService:      loanService,
		patronService:    patronService,
		curationService:  curationService,
		importer:         imp,
		searchIndex:      searchIndex,
		limiter:          ratelimit.New(20, 40),
		router:           chi.NewRouter(),
		logger:           logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-owned resources. The HTTP listener itself is owned
// by the caller.
func (s *Server) Close() {
	s.limiter.Stop()
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(s.rateLimitMiddleware)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Scanning desk.
		r.Post("/checkin", s.handleCheckIn)

		// Full-text search.
		r.Get("/search", s.handleSearch)

		// Catalog reads and manual corrections.
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", s.handleSearchCatalog)
			r.Get("/genres", s.handleListGenres)
			r.Get("/export", s.handleExportCatalog)
			r.Get("/{code}", s.handleGetEntry)
			r.Put("/{code}", s.handleUpdateEntry)
		})

		// Bulk spreadsheet imports.
		r.Route("/import", func(r chi.Router) {
			r.Post("/classify", s.handleClassifyImport)
			r.Post("/commit", s.handleCommitImport)
		})

		// Loan desk.
		r.Route("/loans", func(r chi.Router) {
			r.Post("/", s.handleCheckout)
			r.Get("/active", s.handleListActiveLoans)
			r.Post("/{id}/return", s.handleReturnLoan)
		})

		// Patron roster.
		r.Route("/patrons", func(r chi.Router) {
			r.Get("/", s.handleListPatrons)
			r.Put("/", s.handleSyncPatrons)
		})

		// Metadata backfill.
		r.Post("/curation/run", s.handleRunCuration)
	})
}
