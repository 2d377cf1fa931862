package providers

import (
	"github.com/samber/do/v2"

	"github.com/acervoapp/acervo-server/internal/config"
	"github.com/acervoapp/acervo-server/internal/importer"
	"github.com/acervoapp/acervo-server/internal/logger"
	"github.com/acervoapp/acervo-server/internal/search"
	"github.com/acervoapp/acervo-server/internal/service"
)

// Catalog writers resolve the search-wrapped store so the full-text index
// stays in sync; the loan service keeps the raw store since loans never
// touch searchable fields.

// ProvideCatalogService provides the catalog read/correction service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	catalog := do.MustInvoke[*search.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(catalog, log.Logger), nil
}

// ProvideIngestionService provides the check-in service.
func ProvideIngestionService(i do.Injector) (*service.IngestionService, error) {
	catalog := do.MustInvoke[*search.Catalog](i)
	checkInResolver := do.MustInvoke[*CheckInResolver](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewIngestionService(catalog, checkInResolver.Resolver, log.Logger), nil
}

// ProvideLoanService provides the loan desk service.
func ProvideLoanService(i do.Injector) (*service.LoanService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLoanService(storeHandle.Store, cfg.Loan.DefaultDueDays, log.Logger), nil
}

// ProvidePatronService provides the patron roster service.
func ProvidePatronService(i do.Injector) (*service.PatronService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPatronService(storeHandle.Store, log.Logger), nil
}

// ProvideCurationService provides the metadata backfill service.
func ProvideCurationService(i do.Injector) (*service.CurationService, error) {
	catalog := do.MustInvoke[*search.Catalog](i)
	curationResolver := do.MustInvoke[*CurationResolver](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCurationService(catalog, curationResolver.Resolver, log.Logger), nil
}

// ProvideImporter provides the bulk spreadsheet importer.
func ProvideImporter(i do.Injector) (*importer.Importer, error) {
	catalog := do.MustInvoke[*search.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)

	return importer.New(catalog, log.Logger), nil
}
