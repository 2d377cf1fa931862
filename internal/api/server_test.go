package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/http/response"
	"github.com/acervoapp/acervo-server/internal/importer"
	"github.com/acervoapp/acervo-server/internal/resolver"
	"github.com/acervoapp/acervo-server/internal/search"
	"github.com/acervoapp/acervo-server/internal/service"
	"github.com/acervoapp/acervo-server/internal/store/sqlite"
)

// fakeResolver returns canned fields for every query.
type fakeResolver struct {
	fields domain.ResolvedFields
}

func (f *fakeResolver) Resolve(context.Context, resolver.Query) (domain.ResolvedFields, []resolver.Contribution) {
	return f.fields, nil
}

type testEnv struct {
	server  *Server
	store   *sqlite.Store
	catalog *search.Catalog
	fake    *fakeResolver
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	idx, err := search.NewSearchIndex(search.Options{DataPath: t.TempDir(), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	catalog, err := search.NewCatalog(context.Background(), s, idx, logger)
	require.NoError(t, err)

	fake := &fakeResolver{}
	server := NewServer(
		service.NewCatalogService(catalog, logger),
		service.NewIngestionService(catalog, fake, logger),
		service.NewLoanService(s, 15, logger),
		service.NewPatronService(s, logger),
		service.NewCurationService(catalog, fake, logger),
		importer.New(catalog, logger),
		idx,
		logger,
	)
	t.Cleanup(server.Close)
	return &testEnv{server: server, store: s, catalog: catalog, fake: fake}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func seedEntry(t *testing.T, env *testEnv, code, title string, quantity int) {
	t.Helper()
	e := domain.NewCatalogEntry(code, title)
	e.Quantity = quantity
	require.NoError(t, env.catalog.CreateEntry(context.Background(), e))
}

func seedPatron(t *testing.T, s *sqlite.Store, name, group string) *domain.Patron {
	t.Helper()
	synced, err := s.SyncPatrons(context.Background(), []*domain.Patron{{Name: name, Group: group}})
	require.NoError(t, err)
	require.Len(t, synced, 1)
	return synced[0]
}

func TestHealthCheck(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestCheckInEndpoint(t *testing.T) {
	env := newTestServer(t)
	env.fake.fields = domain.ResolvedFields{Title: "O Hobbit", Author: "J.R.R. Tolkien"}

	rec := env.do(t, http.MethodPost, "/api/v1/checkin", map[string]any{"code": "9788532511010"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	env.fake.fields = domain.ResolvedFields{}
	rec = env.do(t, http.MethodPost, "/api/v1/checkin", map[string]any{"code": "9788532511010", "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Restocked"`)
}

func TestCheckInEndpoint_InvalidCode(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/api/v1/checkin", map[string]any{"code": "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_CODE", decodeEnvelope(t, rec).Code)
}

func TestCheckInEndpoint_NeedsManualEntry(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/api/v1/checkin", map[string]any{"code": "9999000011111"})
	assert.Equal(t, http.StatusOK, rec.Code, "manual entry is an outcome, not an error")
	assert.Contains(t, rec.Body.String(), `"NeedsManualEntry"`)
}

func TestCatalogEndpoints(t *testing.T) {
	env := newTestServer(t)
	seedEntry(t, env, "9788532511010", "O Hobbit", 2)
	seedEntry(t, env, "9788535910663", "Dom Casmurro", 1)

	rec := env.do(t, http.MethodGet, "/api/v1/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "O Hobbit")
	assert.Contains(t, rec.Body.String(), "Dom Casmurro")

	rec = env.do(t, http.MethodGet, "/api/v1/catalog?q=hobbit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "O Hobbit")
	assert.NotContains(t, rec.Body.String(), "Dom Casmurro")

	rec = env.do(t, http.MethodGet, "/api/v1/catalog/9788532511010", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/catalog/9788500000000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/catalog/genres", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.DefaultGenre)
}

func TestSearchEndpoint(t *testing.T) {
	env := newTestServer(t)
	seedEntry(t, env, "9788532511010", "O Hobbit", 2)
	seedEntry(t, env, "9788535910663", "Dom Casmurro", 1)

	rec := env.do(t, http.MethodGet, "/api/v1/search?q=hobbit", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"9788532511010"`)
	assert.NotContains(t, rec.Body.String(), "Dom Casmurro")

	// Misspelled query still finds the title through the fuzzy clause.
	rec = env.do(t, http.MethodGet, "/api/v1/search?q=casmuro", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"9788535910663"`)
}

func TestUpdateEntryEndpoint(t *testing.T) {
	env := newTestServer(t)
	seedEntry(t, env, "9788532511010", "O Hobbitt", 1)

	rec := env.do(t, http.MethodPut, "/api/v1/catalog/9788532511010", map[string]any{
		"title":    "O Hobbit",
		"author":   "J.R.R. Tolkien",
		"genre":    "Fantasia",
		"quantity": 4,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	entry, err := env.store.GetEntryByCode(context.Background(), "9788532511010")
	require.NoError(t, err)
	assert.Equal(t, "O Hobbit", entry.Title)
	assert.Equal(t, 4, entry.Quantity)
}

func TestExportEndpoint(t *testing.T) {
	env := newTestServer(t)
	seedEntry(t, env, "9788532511010", "O Hobbit", 1)

	rec := env.do(t, http.MethodGet, "/api/v1/catalog/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), domain.DefaultGenre)
}

func TestLoanEndpoints(t *testing.T) {
	env := newTestServer(t)
	seedEntry(t, env, "9788532511010", "O Hobbit", 1)
	patron := seedPatron(t, env.store, "Ana Souza", "5º Ano B")

	rec := env.do(t, http.MethodPost, "/api/v1/loans", map[string]any{
		"code":      "9788532511010",
		"patron_id": patron.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data domain.LoanRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	loanID := created.Data.ID

	// The single copy is out; the next checkout is refused.
	rec = env.do(t, http.MethodPost, "/api/v1/loans", map[string]any{
		"code":      "9788532511010",
		"patron_id": patron.ID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "OUT_OF_STOCK", decodeEnvelope(t, rec).Code)

	rec = env.do(t, http.MethodGet, "/api/v1/loans/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ana Souza")

	rec = env.do(t, http.MethodPost, "/api/v1/loans/"+loanID+"/return", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/loans/"+loanID+"/return", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_TRANSITION", decodeEnvelope(t, rec).Code)
}

func TestPatronEndpoints(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPut, "/api/v1/patrons", map[string]any{
		"patrons": []map[string]string{
			{"name": "Ana Souza", "group": "5º Ano B"},
			{"name": "Bruno Lima", "group": "Professores"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/v1/patrons", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ana Souza")
	assert.Contains(t, rec.Body.String(), "Bruno Lima")
}

func TestCurationEndpoint(t *testing.T) {
	env := newTestServer(t)
	seedEntry(t, env, "9788532511010", "O Hobbit", 1)
	env.fake.fields = domain.ResolvedFields{
		Author:   "J.R.R. Tolkien",
		Synopsis: "Bilbo parte em uma jornada inesperada pela Terra Média.",
		Genre:    "Ficção",
	}

	rec := env.do(t, http.MethodPost, "/api/v1/curation/run", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"updated":1`)
}

func uploadWorkbook(t *testing.T, env *testEnv, path string, rows [][]any) *httptest.ResponseRecorder {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet(importer.ImportSheet)
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(importer.ImportSheet, cell, &row))
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("workbook", "import.xlsx")
	require.NoError(t, err)
	require.NoError(t, f.Write(part))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

func TestImportEndpoints(t *testing.T) {
	env := newTestServer(t)
	seedEntry(t, env, "9788532511010", "O Hobbit", 1)

	rows := [][]any{
		{"ISBN", "Título", "Autor(es)"},
		{"9788532511010", "O Hobbit", "J.R.R. Tolkien"},
		{"9788535910663", "Dom Casmurro", "Machado de Assis"},
	}

	rec := uploadWorkbook(t, env, "/api/v1/import/classify", rows)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"novel"`)
	assert.Contains(t, rec.Body.String(), `"conflicting"`)

	rec = uploadWorkbook(t, env, "/api/v1/import/commit", rows)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"inserted":1`)
	assert.Contains(t, rec.Body.String(), `"skipped":1`)

	rec = uploadWorkbook(t, env, "/api/v1/import/commit?force=true", rows)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"inserted":2`)
}

func TestImportEndpoint_MissingFile(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodPost, "/api/v1/import/classify", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
