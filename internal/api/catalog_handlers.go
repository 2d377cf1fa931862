package api

import (
	"encoding/json/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/acervoapp/acervo-server/internal/http/response"
	"github.com/acervoapp/acervo-server/internal/service"
)

// handleSearchCatalog lists the catalog, filtered by ?q= when present.
func (s *Server) handleSearchCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := s.catalogService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, entries, s.logger)
}

// handleGetEntry returns one entry by exact code.
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.catalogService.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, entry, s.logger)
}

// handleUpdateEntry applies a manual correction to an entry.
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, err := s.catalogService.Update(r.Context(), chi.URLParam(r, "code"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, entry, s.logger)
}

// handleListGenres returns the distinct genres on the shelves.
func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.catalogService.Genres(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, genres, s.logger)
}

// handleExportCatalog streams the catalog as an xlsx attachment, one sheet
// per genre.
func (s *Server) handleExportCatalog(w http.ResponseWriter, r *http.Request) {
	f, err := s.catalogService.ExportWorkbook(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	defer f.Close()

	filename := "acervo-" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := f.Write(w); err != nil {
		s.logger.Error("Failed to stream workbook", "error", err)
	}
}
