// Package normalize provides utilities for normalizing and sanitizing data.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/acervoapp/acervo-server/internal/errors"
)

// minCodeDigits is the minimum digit count for a usable catalog code.
// ISBN-10 is the shortest real identifier we accept; anything shorter is
// scanner noise or a typo.
const minCodeDigits = 10

// maxSheetNameLen is the spreadsheet sheet-name limit imposed by the xlsx format.
const maxSheetNameLen = 30

// Code normalizes a scanned or typed catalog code by stripping every
// non-digit character. Returns errors.ErrInvalidCode when fewer than ten
// digits remain. Pure function, no I/O.
func Code(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	code := b.String()
	if len(code) < minCodeDigits {
		return "", errors.InvalidCodef("code %q has %d digits, need at least %d", raw, len(code), minCodeDigits)
	}
	return code, nil
}

// stripAccents removes combining marks after NFD decomposition, so that
// "história" and "historia" compare equal.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Title prepares a title for comparison: trimmed, lowercased, and with
// accents folded away. Catalog spreadsheets are typed by hand and the same
// title shows up with and without diacritics. Matching is exact equality
// after folding, not fuzzy.
func Title(title string) string {
	folded := strings.ToLower(strings.TrimSpace(title))
	if out, _, err := transform.String(stripAccents, folded); err == nil {
		folded = out
	}
	return folded
}

// SheetName sanitizes a genre label for use as a workbook sheet name:
// only letters, digits, and spaces survive, truncated to the xlsx limit.
// An empty result falls back to "Geral".
func SheetName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	name := strings.TrimSpace(b.String())
	if name == "" {
		return "Geral"
	}
	runes := []rune(name)
	if len(runes) > maxSheetNameLen {
		name = string(runes[:maxSheetNameLen])
	}
	return strings.TrimSpace(name)
}
