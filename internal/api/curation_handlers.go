package api

import (
	"net/http"

	"github.com/acervoapp/acervo-server/internal/http/response"
)

// handleRunCuration sweeps the catalog for pending metadata and backfills
// what the cascade can resolve. Runs synchronously; the report is the body.
func (s *Server) handleRunCuration(w http.ResponseWriter, r *http.Request) {
	report, err := s.curationService.Run(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, report, s.logger)
}
