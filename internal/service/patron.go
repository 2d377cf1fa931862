package service

import (
	"context"
	"log/slog"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/store"
)

// PatronService manages the patron roster. The roster is maintained as a
// whole-list sync: the caller sends the full list and the store reconciles.
type PatronService struct {
	store  store.PatronStore
	logger *slog.Logger
}

// NewPatronService creates a new patron service.
func NewPatronService(store store.PatronStore, logger *slog.Logger) *PatronService {
	return &PatronService{
		store:  store,
		logger: logger,
	}
}

// Sync reconciles the stored roster against the supplied list and returns
// the resulting roster. Patrons with active loans cannot be removed.
func (s *PatronService) Sync(ctx context.Context, patrons []*domain.Patron) ([]*domain.Patron, error) {
	for _, p := range patrons {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	synced, err := s.store.SyncPatrons(ctx, patrons)
	if err != nil {
		return nil, err
	}

	s.logger.Info("patron roster synced", "count", len(synced))
	return synced, nil
}

// List returns all patrons ordered by name.
func (s *PatronService) List(ctx context.Context) ([]*domain.Patron, error) {
	return s.store.ListPatrons(ctx)
}

// Get fetches one patron by ID.
func (s *PatronService) Get(ctx context.Context, id string) (*domain.Patron, error) {
	return s.store.GetPatron(ctx, id)
}
