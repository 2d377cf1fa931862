package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acervoapp/acervo-server/internal/domain"
)

func entry(code, title, genre string, quantity int) *domain.CatalogEntry {
	e := domain.NewCatalogEntry(code, title)
	e.Genre = genre
	e.Quantity = quantity
	return e
}

func TestWorkbook_OneSheetPerGenre(t *testing.T) {
	f, err := Workbook([]*domain.CatalogEntry{
		entry("9788532511010", "O Hobbit", "Ficção", 3),
		entry("9788535910663", "Dom Casmurro", "Ficção", 1),
		entry("9788520925188", "História do Brasil", "História", 2),
	})
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{"Ficção", "História"}, sheets)

	rows, err := f.GetRows("Ficção")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Título", "Autor", "Sinopse", "Quantidade", "Código"}, rows[0])
	// Rows are title-sorted within a sheet.
	assert.Equal(t, "Dom Casmurro", rows[1][0])
	assert.Equal(t, "O Hobbit", rows[2][0])
	assert.Equal(t, "9788532511010", rows[2][4])
}

func TestWorkbook_SanitizesSheetNames(t *testing.T) {
	f, err := Workbook([]*domain.CatalogEntry{
		entry("9788500000001", "Um Livro", "Ficção/Fantasia: Épica e Clássica, Volume I", 1),
		entry("9788500000002", "Outro Livro", "", 1),
	})
	require.NoError(t, err)
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		assert.LessOrEqual(t, len([]rune(sheet)), 30)
		assert.NotContains(t, sheet, "/")
		assert.NotContains(t, sheet, ":")
	}
	assert.Contains(t, f.GetSheetList(), "Geral", "blank genre falls back to the default sheet")
}

func TestWorkbook_CollidingGenresShareASheet(t *testing.T) {
	f, err := Workbook([]*domain.CatalogEntry{
		entry("9788500000001", "A", "Poesia!", 1),
		entry("9788500000002", "B", "Poesia?", 1),
	})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Poesia")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestWorkbook_Empty(t *testing.T) {
	f, err := Workbook(nil)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
}
