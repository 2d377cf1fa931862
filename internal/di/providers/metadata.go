package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/acervoapp/acervo-server/internal/config"
	"github.com/acervoapp/acervo-server/internal/logger"
	"github.com/acervoapp/acervo-server/internal/metadata/gemini"
	"github.com/acervoapp/acervo-server/internal/metadata/googlebooks"
	"github.com/acervoapp/acervo-server/internal/metadata/openlibrary"
	"github.com/acervoapp/acervo-server/internal/resolver"
)

// ProvideGoogleBooksClient provides the primary bibliographic source.
func ProvideGoogleBooksClient(i do.Injector) (*googlebooks.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return googlebooks.New(cfg.Metadata.GoogleBooksAPIKey, log.Logger), nil
}

// ProvideOpenLibraryClient provides the secondary bibliographic source.
func ProvideOpenLibraryClient(i do.Injector) (*openlibrary.Client, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return openlibrary.New(log.Logger), nil
}

// GeminiHandle wraps the optional generative client. Client is nil when no
// API key is configured; the curation cascade then runs without it.
type GeminiHandle struct {
	Client *gemini.Client
}

// ProvideGeminiClient provides the generative curation fallback.
func ProvideGeminiClient(i do.Injector) (*GeminiHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Gemini.APIKey == "" {
		log.Info("Gemini API key not configured, generative curation disabled")
		return &GeminiHandle{}, nil
	}

	client, err := gemini.NewClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, log.Logger)
	if err != nil {
		return nil, err
	}
	return &GeminiHandle{Client: client}, nil
}

// CheckInResolver is the cascade used at the scanning desk: code lookups
// only, fast sources first.
type CheckInResolver struct {
	*resolver.Resolver
}

// ProvideCheckInResolver provides the check-in cascade.
func ProvideCheckInResolver(i do.Injector) (*CheckInResolver, error) {
	log := do.MustInvoke[*logger.Logger](i)
	gb := do.MustInvoke[*googlebooks.Client](i)
	ol := do.MustInvoke[*openlibrary.Client](i)

	return &CheckInResolver{Resolver: resolver.New(log.Logger,
		&resolver.GoogleBooksISBN{Client: gb},
		&resolver.OpenLibraryISBN{Client: ol},
	)}, nil
}

// CurationResolver is the cascade used by the metadata sweep: title
// lookups with the generative fallback last.
type CurationResolver struct {
	*resolver.Resolver
}

// ProvideCurationResolver provides the curation cascade.
func ProvideCurationResolver(i do.Injector) (*CurationResolver, error) {
	log := do.MustInvoke[*logger.Logger](i)
	gb := do.MustInvoke[*googlebooks.Client](i)
	gem := do.MustInvoke[*GeminiHandle](i)

	steps := []resolver.Step{
		&resolver.GoogleBooksTitle{Client: gb},
	}
	if gem.Client != nil {
		steps = append(steps, &resolver.GeminiSuggest{Client: gem.Client})
	}

	return &CurationResolver{Resolver: resolver.New(log.Logger, steps...)}, nil
}
