package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/http/response"
)

// SyncPatronsRequest carries the full roster to reconcile against.
type SyncPatronsRequest struct {
	Patrons []*domain.Patron `json:"patrons"`
}

// handleSyncPatrons reconciles the stored roster against the uploaded
// list and returns the result.
func (s *Server) handleSyncPatrons(w http.ResponseWriter, r *http.Request) {
	var req SyncPatronsRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	patrons, err := s.patronService.Sync(r.Context(), req.Patrons)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, patrons, s.logger)
}

// handleListPatrons returns all patrons ordered by name.
func (s *Server) handleListPatrons(w http.ResponseWriter, r *http.Request) {
	patrons, err := s.patronService.List(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, patrons, s.logger)
}
