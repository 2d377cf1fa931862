package importer

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/errors"
)

// ImportSheet is the sheet name the scanning workflow produces. Workbooks
// without it are rejected rather than guessed at.
const ImportSheet = "livros escaneados"

// Column headers the scanner app writes. Matching is case-insensitive and
// ignores surrounding whitespace.
var headerAliases = map[string]string{
	"isbn":       "code",
	"código":     "code",
	"codigo":     "code",
	"título":     "title",
	"titulo":     "title",
	"autor(es)":  "author",
	"autor":      "author",
	"sinopse":    "synopsis",
	"categorias": "genre",
	"gênero":     "genre",
	"genero":     "genre",
}

// ParseWorkbook reads import rows from the "livros escaneados" sheet.
// The first row is the header; rows with an empty title are skipped.
func ParseWorkbook(r io.Reader) ([]domain.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Validationf("not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ImportSheet)
	if err != nil {
		return nil, errors.Validationf("workbook has no %q sheet", ImportSheet)
	}
	if len(rows) == 0 {
		return nil, errors.Validationf("sheet %q is empty", ImportSheet)
	}

	cols := map[int]string{}
	for i, h := range rows[0] {
		if field, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			cols[i] = field
		}
	}
	if !hasField(cols, "title") {
		return nil, errors.Validationf("sheet %q has no title column", ImportSheet)
	}

	var out []domain.ImportRow
	for _, cells := range rows[1:] {
		var row domain.ImportRow
		for i, cell := range cells {
			cell = strings.TrimSpace(cell)
			switch cols[i] {
			case "code":
				// Spreadsheets love turning ISBNs into floats.
				row.Code = strings.TrimSuffix(cell, ".0")
			case "title":
				row.Title = cell
			case "author":
				row.Author = cell
			case "synopsis":
				row.Synopsis = cell
			case "genre":
				row.Genre = cell
			}
		}
		if row.Title == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func hasField(cols map[int]string, field string) bool {
	for _, f := range cols {
		if f == field {
			return true
		}
	}
	return false
}
