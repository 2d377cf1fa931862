// Package di provides dependency injection configuration for the Acervo server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/acervoapp/acervo-server/internal/config"
	"github.com/acervoapp/acervo-server/internal/di/providers"
	"github.com/acervoapp/acervo-server/internal/importer"
	"github.com/acervoapp/acervo-server/internal/logger"
	"github.com/acervoapp/acervo-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database and search layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchCatalog)

	// Metadata layer
	do.Provide(injector, providers.ProvideGoogleBooksClient)
	do.Provide(injector, providers.ProvideOpenLibraryClient)
	do.Provide(injector, providers.ProvideGeminiClient)
	do.Provide(injector, providers.ProvideCheckInResolver)
	do.Provide(injector, providers.ProvideCurationResolver)

	// Business services
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideIngestionService)
	do.Provide(injector, providers.ProvideLoanService)
	do.Provide(injector, providers.ProvidePatronService)
	do.Provide(injector, providers.ProvideCurationService)
	do.Provide(injector, providers.ProvideImporter)

	// Server and discovery
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNS)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)

	// Metadata layer
	_ = do.MustInvoke[*providers.CheckInResolver](injector)
	_ = do.MustInvoke[*providers.CurationResolver](injector)

	// Business services
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.IngestionService](injector)
	_ = do.MustInvoke[*service.LoanService](injector)
	_ = do.MustInvoke[*service.PatronService](injector)
	_ = do.MustInvoke[*service.CurationService](injector)
	_ = do.MustInvoke[*importer.Importer](injector)

	// Server and discovery
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	_ = do.MustInvoke[*providers.MDNSHandle](injector)

	return nil
}
