package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/id"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedEntry inserts a catalog entry with the given stock.
func seedEntry(t *testing.T, s *Store, code, title string, quantity int) *domain.CatalogEntry {
	t.Helper()
	e := domain.NewCatalogEntry(code, title)
	e.Quantity = quantity
	if err := s.CreateEntry(context.Background(), e); err != nil {
		t.Fatalf("seed entry %s: %v", code, err)
	}
	return e
}

// seedPatron inserts one patron through the sync path.
func seedPatron(t *testing.T, s *Store, name, group string) *domain.Patron {
	t.Helper()
	existing, err := s.ListPatrons(context.Background())
	if err != nil {
		t.Fatalf("list patrons: %v", err)
	}
	patrons := append(existing, &domain.Patron{Name: name, Group: group})
	synced, err := s.SyncPatrons(context.Background(), patrons)
	if err != nil {
		t.Fatalf("seed patron %s: %v", name, err)
	}
	for _, p := range synced {
		if p.Name == name && p.Group == group {
			return p
		}
	}
	t.Fatalf("patron %s not found after sync", name)
	return nil
}

// seedLoan checks out one copy for the patron.
func seedLoan(t *testing.T, s *Store, code, patronID string) *domain.LoanRecord {
	t.Helper()
	loan := domain.NewLoanRecord(id.MustGenerate(id.PrefixLoan), code, patronID, 15)
	if err := s.CreateLoan(context.Background(), loan); err != nil {
		t.Fatalf("seed loan for %s: %v", code, err)
	}
	return loan
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	// Verify tables exist.
	for _, table := range []string{"catalog_entries", "patrons", "loans"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open should work (schema is idempotent).
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	defer s2.Close()
}
