package resolver

import "strings"

// genreMap translates the category labels the upstream sources return into
// the shelf genres the catalog uses. Unmapped labels pass through as-is so
// an unusual category is kept rather than discarded.
var genreMap = map[string]string{
	"Fiction":                 "Ficção",
	"Juvenile Fiction":        "Ficção",
	"Education":               "Didático",
	"Study Aids":              "Didático",
	"History":                 "História",
	"General":                 "Geral",
	"Biography & Autobiography": "Biografia",
	"Poetry":                  "Poesia",
	"Comics & Graphic Novels": "Quadrinhos",
}

// TranslateGenre maps an upstream category to a shelf genre. Empty input
// yields the empty string so the caller's sentinel defaulting applies.
func TranslateGenre(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return ""
	}
	if genre, ok := genreMap[category]; ok {
		return genre
	}
	// Sources often return "Fiction / Fantasy" style paths; match on the
	// leading segment before passing through.
	if head, _, found := strings.Cut(category, "/"); found {
		if genre, ok := genreMap[strings.TrimSpace(head)]; ok {
			return genre
		}
	}
	return category
}
