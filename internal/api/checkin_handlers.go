package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/http/response"
	"github.com/acervoapp/acervo-server/internal/service"
)

// handleCheckIn processes one scanned code: restock, resolve-and-create,
// or hand back to the operator for manual entry.
func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var req service.CheckInRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.ingestionService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	switch result.Action {
	case domain.ActionCreated:
		response.Created(w, result, s.logger)
	default:
		response.Success(w, result, s.logger)
	}
}
