package api

import (
	"net/http"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/http/response"
	"github.com/acervoapp/acervo-server/internal/importer"
)

// maxImportSize caps uploaded workbooks at 20 MiB.
const maxImportSize = 20 << 20

// handleClassifyImport parses an uploaded workbook and reports which rows
// are novel and which collide with the existing catalog. Nothing is written.
func (s *Server) handleClassifyImport(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.readWorkbook(w, r)
	if !ok {
		return
	}

	report, err := s.importer.Classify(r.Context(), rows)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, report, s.logger)
}

// handleCommitImport inserts the uploaded rows. ?force=true also inserts
// rows that classify as conflicting.
func (s *Server) handleCommitImport(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.readWorkbook(w, r)
	if !ok {
		return
	}

	force := r.URL.Query().Get("force") == "true"
	result, err := s.importer.Commit(r.Context(), rows, force)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, result, s.logger)
}

// readWorkbook extracts import rows from the multipart "workbook" field.
// On failure it writes the error response and returns ok=false.
func (s *Server) readWorkbook(w http.ResponseWriter, r *http.Request) ([]domain.ImportRow, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	file, _, err := r.FormFile("workbook")
	if err != nil {
		response.BadRequest(w, `Missing "workbook" file field`, s.logger)
		return nil, false
	}
	defer file.Close()

	rows, err := importer.ParseWorkbook(file)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return nil, false
	}
	return rows, true
}
