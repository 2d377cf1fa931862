package resolver

import (
	"context"
	"errors"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/metadata/gemini"
	"github.com/acervoapp/acervo-server/internal/metadata/googlebooks"
	"github.com/acervoapp/acervo-server/internal/metadata/openlibrary"
)

// GoogleBooksISBN resolves by exact code via the Google Books volumes API.
// It is the primary source on the check-in path.
type GoogleBooksISBN struct {
	Client *googlebooks.Client
}

func (s *GoogleBooksISBN) Name() string { return "googlebooks-isbn" }

func (s *GoogleBooksISBN) Lookup(ctx context.Context, q Query) (domain.ResolvedFields, error) {
	if q.Code == "" {
		return domain.ResolvedFields{}, ErrNoMatch
	}
	vol, err := s.Client.VolumeByISBN(ctx, q.Code)
	if err != nil {
		return domain.ResolvedFields{}, wrapLookupErr(err, googlebooks.ErrNotFound)
	}
	return fieldsFromVolume(vol), nil
}

// GoogleBooksTitle resolves by title text. The curation pass uses it for
// entries whose code lookup came up empty, typically synthetic codes.
type GoogleBooksTitle struct {
	Client *googlebooks.Client
}

func (s *GoogleBooksTitle) Name() string { return "googlebooks-title" }

func (s *GoogleBooksTitle) Lookup(ctx context.Context, q Query) (domain.ResolvedFields, error) {
	if q.Title == "" {
		return domain.ResolvedFields{}, ErrNoMatch
	}
	vol, err := s.Client.VolumeByTitle(ctx, q.Title)
	if err != nil {
		return domain.ResolvedFields{}, wrapLookupErr(err, googlebooks.ErrNotFound)
	}
	return fieldsFromVolume(vol), nil
}

// OpenLibraryISBN is the secondary code lookup. Open Library records carry
// title and author only, so it can complete a check-in but never a synopsis.
type OpenLibraryISBN struct {
	Client *openlibrary.Client
}

func (s *OpenLibraryISBN) Name() string { return "openlibrary-isbn" }

func (s *OpenLibraryISBN) Lookup(ctx context.Context, q Query) (domain.ResolvedFields, error) {
	if q.Code == "" {
		return domain.ResolvedFields{}, ErrNoMatch
	}
	rec, err := s.Client.ByISBN(ctx, q.Code)
	if err != nil {
		return domain.ResolvedFields{}, wrapLookupErr(err, openlibrary.ErrNotFound)
	}
	return domain.ResolvedFields{
		Title:  rec.Title,
		Author: rec.Author,
	}, nil
}

// GeminiSuggest is the generative fallback at the end of the curation
// cascade. It needs a title to work from and contributes author, synopsis,
// and genre.
type GeminiSuggest struct {
	Client *gemini.Client
}

func (s *GeminiSuggest) Name() string { return "gemini" }

func (s *GeminiSuggest) Lookup(ctx context.Context, q Query) (domain.ResolvedFields, error) {
	if q.Title == "" {
		return domain.ResolvedFields{}, ErrNoMatch
	}
	sug, err := s.Client.Suggest(ctx, q.Title, q.Author)
	if err != nil {
		return domain.ResolvedFields{}, wrapLookupErr(err, gemini.ErrBadResponse)
	}
	return domain.ResolvedFields{
		Author:   sug.Author,
		Synopsis: sug.Synopsis,
		Genre:    TranslateGenre(sug.Genre),
	}, nil
}

func fieldsFromVolume(vol *googlebooks.Volume) domain.ResolvedFields {
	f := domain.ResolvedFields{
		Title:    vol.Title,
		Author:   JoinAuthors(vol.Authors),
		Synopsis: vol.Description,
	}
	if len(vol.Categories) > 0 {
		f.Genre = TranslateGenre(vol.Categories[0])
	}
	return f
}

// wrapLookupErr maps a client's not-found sentinel onto ErrNoMatch so the
// cascade can tell "unknown to this source" apart from a real failure.
func wrapLookupErr(err, notFound error) error {
	if errors.Is(err, notFound) {
		return ErrNoMatch
	}
	return err
}
