package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/export"
	"github.com/acervoapp/acervo-server/internal/store"
	"github.com/acervoapp/acervo-server/internal/validation"
)

// CatalogService serves reads and manual corrections of the catalog.
type CatalogService struct {
	store     store.CatalogStore
	logger    *slog.Logger
	validator *validation.Validator
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store store.CatalogStore, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// Search returns entries matching the term by title or code, or the whole
// catalog when the term is blank.
func (s *CatalogService) Search(ctx context.Context, term string) ([]*domain.CatalogEntry, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.store.ListEntries(ctx)
	}
	return s.store.SearchEntries(ctx, term)
}

// Get fetches one entry by exact code.
func (s *CatalogService) Get(ctx context.Context, code string) (*domain.CatalogEntry, error) {
	return s.store.GetEntryByCode(ctx, code)
}

// UpdateRequest is a full-field manual correction of an entry.
type UpdateRequest struct {
	Title    string `json:"title" validate:"required"`
	Author   string `json:"author"`
	Synopsis string `json:"synopsis"`
	Genre    string `json:"genre"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// Update overwrites the entry's fields with operator-supplied values.
// A manual correction outranks every automated source, so no sentinel
// rules apply beyond re-defaulting blanked-out fields.
func (s *CatalogService) Update(ctx context.Context, code string, req UpdateRequest) (*domain.CatalogEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	entry, err := s.store.GetEntryByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	entry.Title = strings.TrimSpace(req.Title)
	entry.Author = strings.TrimSpace(req.Author)
	entry.Synopsis = strings.TrimSpace(req.Synopsis)
	entry.Genre = strings.TrimSpace(req.Genre)
	entry.Quantity = req.Quantity
	entry.ApplyDefaults()

	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("entry updated", "code", code, "title", entry.Title)
	return entry, nil
}

// Genres returns the distinct genres on the shelves.
func (s *CatalogService) Genres(ctx context.Context) ([]string, error) {
	return s.store.ListGenres(ctx)
}

// ExportWorkbook renders the whole catalog as a genre-grouped workbook.
func (s *CatalogService) ExportWorkbook(ctx context.Context) (*excelize.File, error) {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	return export.Workbook(entries)
}
