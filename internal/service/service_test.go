package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/resolver"
	"github.com/acervoapp/acervo-server/internal/store/sqlite"
)

// fakeResolver returns canned fields and records how it was queried.
type fakeResolver struct {
	fields  domain.ResolvedFields
	sources []resolver.Contribution
	calls   int
	lastQ   resolver.Query
}

func (f *fakeResolver) Resolve(_ context.Context, q resolver.Query) (domain.ResolvedFields, []resolver.Contribution) {
	f.calls++
	f.lastQ = q
	return f.fields, f.sources
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedEntry(t *testing.T, s *sqlite.Store, code, title string, quantity int) *domain.CatalogEntry {
	t.Helper()
	e := domain.NewCatalogEntry(code, title)
	e.Quantity = quantity
	require.NoError(t, s.CreateEntry(context.Background(), e))
	return e
}

func seedPatron(t *testing.T, s *sqlite.Store, name, group string) *domain.Patron {
	t.Helper()
	existing, err := s.ListPatrons(context.Background())
	require.NoError(t, err)
	synced, err := s.SyncPatrons(context.Background(), append(existing, &domain.Patron{Name: name, Group: group}))
	require.NoError(t, err)
	for _, p := range synced {
		if p.Name == name && p.Group == group {
			return p
		}
	}
	t.Fatalf("patron %s not found after sync", name)
	return nil
}
