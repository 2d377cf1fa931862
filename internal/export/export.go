// Package export renders the catalog as an xlsx workbook, one sheet per
// genre, for sharing with staff who work out of spreadsheets.
package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/normalize"
)

var header = []any{"Título", "Autor", "Sinopse", "Quantidade", "Código"}

// Workbook builds a genre-grouped workbook from catalog entries. Sheet
// names are sanitized and truncated to what xlsx allows; genres that
// collide after sanitization share a sheet. The caller owns the returned
// file and must Close it.
func Workbook(entries []*domain.CatalogEntry) (*excelize.File, error) {
	f := excelize.NewFile()

	byGenre := make(map[string][]*domain.CatalogEntry)
	for _, e := range entries {
		sheet := normalize.SheetName(e.Genre)
		byGenre[sheet] = append(byGenre[sheet], e)
	}

	sheets := make([]string, 0, len(byGenre))
	for sheet := range byGenre {
		sheets = append(sheets, sheet)
	}
	sort.Strings(sheets)

	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %q: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}

		group := byGenre[sheet]
		sort.Slice(group, func(i, j int) bool { return group[i].Title < group[j].Title })

		for i, e := range group {
			row := []any{e.Title, e.Author, e.Synopsis, e.Quantity, e.Code}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				f.Close()
				return nil, fmt.Errorf("write row: %w", err)
			}
		}
	}

	// The implicit default sheet only goes once a real one exists.
	if len(sheets) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			f.Close()
			return nil, fmt.Errorf("drop default sheet: %w", err)
		}
	}

	return f, nil
}
