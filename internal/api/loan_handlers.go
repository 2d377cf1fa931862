package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acervoapp/acervo-server/internal/http/response"
	"github.com/acervoapp/acervo-server/internal/service"
)

// handleCheckout lends one copy to a patron. A refusal carries the
// blocking condition: out of stock, unknown code, or unknown patron.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	loan, err := s.loanService.Checkout(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, loan, s.logger)
}

// handleReturnLoan closes an active loan and restocks the copy.
func (s *Server) handleReturnLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := s.loanService.Return(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, loan, s.logger)
}

// handleListActiveLoans returns active loans with titles and patron names.
func (s *Server) handleListActiveLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := s.loanService.ListActive(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, loans, s.logger)
}
