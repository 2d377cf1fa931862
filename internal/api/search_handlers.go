package api

import (
	"net/http"
	"strconv"

	"github.com/acervoapp/acervo-server/internal/http/response"
	"github.com/acervoapp/acervo-server/internal/search"
)

// handleSearch runs a full-text query against the catalog index, with
// genre filtering, facets, and highlighting for a richer picker UI than
// the plain catalog listing.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := search.DefaultSearchParams()
	params.Query = q.Get("q")
	params.Genre = q.Get("genre")

	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 && limit <= 100 {
		params.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset >= 0 {
		params.Offset = offset
	}
	if sortBy := q.Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}
	if order := q.Get("order"); order != "" {
		params.SortOrder = order
	}

	result, err := s.searchIndex.Search(r.Context(), params)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, result, s.logger)
}
