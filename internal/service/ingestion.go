// Package service orchestrates catalog, loan, patron, and curation
// operations over the store and the resolution cascade.
package service

import (
	"context"
	"log/slog"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/errors"
	"github.com/acervoapp/acervo-server/internal/normalize"
	"github.com/acervoapp/acervo-server/internal/resolver"
	"github.com/acervoapp/acervo-server/internal/store"
	"github.com/acervoapp/acervo-server/internal/validation"
)

// Resolver is the bibliographic cascade consumed by services. Satisfied by
// *resolver.Resolver; tests substitute fakes.
type Resolver interface {
	Resolve(ctx context.Context, q resolver.Query) (domain.ResolvedFields, []resolver.Contribution)
}

// IngestionService handles check-ins at the scanning desk: one code in,
// one restocked or freshly resolved entry out.
type IngestionService struct {
	store     store.CatalogStore
	resolver  Resolver
	logger    *slog.Logger
	validator *validation.Validator
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(store store.CatalogStore, r Resolver, logger *slog.Logger) *IngestionService {
	return &IngestionService{
		store:     store,
		resolver:  r,
		logger:    logger,
		validator: validation.New(),
	}
}

// CheckInRequest is one scan. Quantity defaults to a single copy. The
// manual fields, when present, win over anything the cascade resolves.
type CheckInRequest struct {
	Code     string `json:"code" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0,lte=1000"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Synopsis string `json:"synopsis"`
	Genre    string `json:"genre"`
}

// CheckInResult pairs the affected entry with what happened to it. Entry is
// nil for NeedsManualEntry.
type CheckInResult struct {
	Entry         *domain.CatalogEntry    `json:"entry,omitempty"`
	Action        domain.CheckInAction    `json:"action"`
	Contributions []resolver.Contribution `json:"contributions,omitempty"`
}

// CheckIn processes one scanned code:
//
//   - known code: stock is incremented, nothing else changes (Restocked)
//   - unknown code with a resolvable or manually supplied title: a new
//     entry is created with sentinel defaults for whatever stayed
//     unresolved (Created)
//   - nothing usable: NeedsManualEntry, which is an outcome, not an error
func (s *IngestionService) CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	code, err := normalize.Code(req.Code)
	if err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	_, err = s.store.GetEntryByCode(ctx, code)
	if err == nil {
		if err := s.store.AdjustQuantity(ctx, code, quantity); err != nil {
			return nil, err
		}
		updated, err := s.store.GetEntryByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		s.logger.Info("entry restocked", "code", code, "added", quantity, "quantity", updated.Quantity)
		return &CheckInResult{Entry: updated, Action: domain.ActionRestocked}, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	fields, contributions := s.resolver.Resolve(ctx, resolver.Query{
		Code:   code,
		Title:  req.Title,
		Author: req.Author,
	})

	entry := domain.NewCatalogEntry(code, req.Title)
	entry.Author = req.Author
	entry.Synopsis = req.Synopsis
	entry.Genre = req.Genre
	fields.Merge(entry)
	entry.ApplyDefaults()
	entry.Quantity = quantity

	if entry.Title == "" {
		s.logger.Info("check-in needs manual entry", "code", code)
		return &CheckInResult{Action: domain.ActionNeedsManualEntry}, nil
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateEntry(ctx, entry); err != nil {
		// Concurrent scan of the same new code: the loser restocks instead.
		if errors.Is(err, errors.ErrDuplicateCode) {
			if err := s.store.AdjustQuantity(ctx, code, quantity); err != nil {
				return nil, err
			}
			updated, err := s.store.GetEntryByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			return &CheckInResult{Entry: updated, Action: domain.ActionRestocked}, nil
		}
		return nil, err
	}

	s.logger.Info("entry created",
		"code", code,
		"title", entry.Title,
		"sources", len(contributions),
		"quantity", quantity)

	return &CheckInResult{
		Entry:         entry,
		Action:        domain.ActionCreated,
		Contributions: contributions,
	}, nil
}
