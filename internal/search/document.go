// Package search provides full-text catalog search using Bleve.
// Entries are indexed by code with Portuguese-language analysis so a
// librarian can find a title from a fragment, an author name, or a
// misspelled word.
package search

import (
	"github.com/acervoapp/acervo-server/internal/domain"
)

// SearchDocument is the document structure for the Bleve index.
// It carries only the searchable text of a catalog entry; quantities and
// timestamps live in the catalog store and are fetched fresh per result.
type SearchDocument struct {
	Code     string `json:"code"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Synopsis string `json:"synopsis"`
	Genre    string `json:"genre"`

	// Unix millis, for sorting by recency.
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *SearchDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"code":       d.Code,
		"title":      d.Title,
		"updated_at": d.UpdatedAt,
	}

	if d.Author != "" && d.Author != domain.PendingField {
		m["author"] = d.Author
	}
	if d.Synopsis != "" && d.Synopsis != domain.PendingField {
		m["synopsis"] = d.Synopsis
	}
	if d.Genre != "" {
		m["genre"] = d.Genre
	}

	return m
}

// EntryToDocument converts a catalog entry to a SearchDocument.
// Pending sentinel fields are dropped by ToMap so they never match a query.
func EntryToDocument(e *domain.CatalogEntry) *SearchDocument {
	return &SearchDocument{
		Code:      e.Code,
		Title:     e.Title,
		Author:    e.Author,
		Synopsis:  e.Synopsis,
		Genre:     e.Genre,
		UpdatedAt: e.UpdatedAt.UnixMilli(),
	}
}
