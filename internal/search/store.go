package search

import (
	"context"
	"log/slog"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/store"
)

// Catalog wraps a store.CatalogStore and keeps the search index in sync
// with catalog writes. Reads pass through to the underlying store except
// SearchEntries, which is served from the index.
//
// Index failures never fail the catalog write: the store row is the source
// of truth and the index can always be rebuilt from it.
type Catalog struct {
	store.CatalogStore
	index  *SearchIndex
	logger *slog.Logger
}

// NewCatalog wraps inner with the given index and performs a full reindex
// so the index reflects the current catalog.
func NewCatalog(ctx context.Context, inner store.CatalogStore, index *SearchIndex, logger *slog.Logger) (*Catalog, error) {
	c := &Catalog{
		CatalogStore: inner,
		index:        index,
		logger:       logger,
	}

	entries, err := inner.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	if err := index.Rebuild(); err != nil {
		return nil, err
	}
	if err := index.IndexEntries(entries); err != nil {
		return nil, err
	}
	logger.Info("search index synced with catalog", "entries", len(entries))

	return c, nil
}

func (c *Catalog) CreateEntry(ctx context.Context, e *domain.CatalogEntry) error {
	if err := c.CatalogStore.CreateEntry(ctx, e); err != nil {
		return err
	}
	if err := c.index.IndexEntry(e); err != nil {
		c.logger.Warn("failed to index new entry", "code", e.Code, "error", err)
	}
	return nil
}

func (c *Catalog) UpdateEntry(ctx context.Context, e *domain.CatalogEntry) error {
	if err := c.CatalogStore.UpdateEntry(ctx, e); err != nil {
		return err
	}
	if err := c.index.IndexEntry(e); err != nil {
		c.logger.Warn("failed to reindex entry", "code", e.Code, "error", err)
	}
	return nil
}

// SearchEntries serves substring-style searches from the full-text index.
// Hits are resolved back to fresh store rows so quantities are never stale.
// If the index query fails the underlying store's search is used instead.
func (c *Catalog) SearchEntries(ctx context.Context, term string) ([]*domain.CatalogEntry, error) {
	params := DefaultSearchParams()
	params.Query = term
	params.Limit = 100
	params.IncludeFacets = false
	params.Highlight = false

	result, err := c.index.Search(ctx, params)
	if err != nil {
		c.logger.Warn("index search failed, falling back to store", "error", err)
		return c.CatalogStore.SearchEntries(ctx, term)
	}

	entries := make([]*domain.CatalogEntry, 0, len(result.Hits))
	for _, hit := range result.Hits {
		entry, err := c.CatalogStore.GetEntryByCode(ctx, hit.Code)
		if err != nil {
			// Index is ahead of or behind the store, skip the orphan.
			c.logger.Warn("search hit missing from store", "code", hit.Code)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
