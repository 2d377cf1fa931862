package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/acervoapp/acervo-server/internal/config"
	"github.com/acervoapp/acervo-server/internal/logger"
	"github.com/acervoapp/acervo-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index, stored next to the
// database file.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	idx, err := search.NewSearchIndex(search.Options{
		DataPath: filepath.Dir(cfg.Store.Path),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{SearchIndex: idx}, nil
}

// ProvideSearchCatalog provides the catalog store wrapped with index sync.
// Every service that writes catalog entries goes through this wrapper so the
// index never drifts from the store.
func ProvideSearchCatalog(i do.Injector) (*search.Catalog, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	idxHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return search.NewCatalog(context.Background(), storeHandle.Store, idxHandle.SearchIndex, log.Logger)
}
