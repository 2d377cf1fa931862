// Package main seeds the catalog database with sample data for local
// development.
//
// Usage:
//
//	DB_PATH=~/Acervo/acervo.db go run ./cmd/seed [--with-loans]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/id"
	"github.com/acervoapp/acervo-server/internal/store/sqlite"
)

func main() {
	withLoans := flag.Bool("with-loans", false, "Also create sample loans")
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Acervo/acervo.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	s, err := sqlite.Open(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	entries := sampleEntries()
	created := 0
	for _, entry := range entries {
		if err := s.CreateEntry(ctx, entry); err != nil {
			fmt.Printf("Skipping %s (%s): %v\n", entry.Title, entry.Code, err)
			continue
		}
		created++
	}
	fmt.Printf("Created %d catalog entries\n", created)

	synced, err := s.SyncPatrons(ctx, samplePatrons())
	if err != nil {
		log.Fatalf("Failed to sync patrons: %v", err)
	}
	fmt.Printf("Synced %d patrons\n", len(synced))

	if *withLoans {
		if len(synced) == 0 || len(entries) == 0 {
			log.Fatalf("Nothing to loan against")
		}
		loan := domain.NewLoanRecord(id.MustGenerate(id.PrefixLoan), entries[0].Code, synced[0].ID, 15)
		if err := s.CreateLoan(ctx, loan); err != nil {
			log.Fatalf("Failed to create loan: %v", err)
		}
		fmt.Printf("Created loan %s: %q -> %s\n", loan.ID, entries[0].Title, synced[0].Name)
	}

	fmt.Println("Seed complete")
}

func sampleEntries() []*domain.CatalogEntry {
	raw := []struct {
		code, title, author, synopsis, genre string
		quantity                             int
	}{
		{
			code:     "9788532511010",
			title:    "O Hobbit",
			author:   "J.R.R. Tolkien",
			synopsis: "Bilbo Bolseiro deixa o conforto do Condado para acompanhar treze anões em uma jornada até a Montanha Solitária.",
			genre:    "Ficção",
			quantity: 3,
		},
		{
			code:     "9788525406262",
			title:    "Dom Casmurro",
			author:   "Machado de Assis",
			synopsis: "Bento Santiago relembra sua vida e o amor por Capitu, alimentando a dúvida que atravessa o romance.",
			genre:    "Ficção",
			quantity: 2,
		},
		{
			code:     "9788535914849",
			title:    "Vidas Secas",
			author:   "Graciliano Ramos",
			synopsis: "A saga de Fabiano e sua família retirante pelo sertão nordestino, marcada pela seca e pela miséria.",
			genre:    "Ficção",
			quantity: 1,
		},
		{
			// Scanned but never resolved, exercises the curation path.
			code:     "9788574801066",
			title:    "Poemas Escolhidos",
			quantity: 1,
		},
		{
			code:     "9786555872",
			title:    "Atlas de História do Brasil",
			author:   "Pending",
			genre:    "História",
			quantity: 2,
		},
	}

	entries := make([]*domain.CatalogEntry, 0, len(raw))
	for _, r := range raw {
		entry := domain.NewCatalogEntry(r.code, r.title)
		entry.Author = r.author
		entry.Synopsis = r.synopsis
		entry.Genre = r.genre
		entry.Quantity = r.quantity
		entry.ApplyDefaults()
		entries = append(entries, entry)
	}
	return entries
}

func samplePatrons() []*domain.Patron {
	names := []struct{ name, group string }{
		{"Ana Souza", "5A"},
		{"Bruno Lima", "5A"},
		{"Carla Mendes", "6B"},
		{"Diego Ferreira", "6B"},
		{"Elisa Rocha", "7C"},
	}
	patrons := make([]*domain.Patron, 0, len(names))
	for _, n := range names {
		patrons = append(patrons, &domain.Patron{
			ID:    id.MustGenerate(id.PrefixPatron),
			Name:  n.name,
			Group: n.group,
		})
	}
	return patrons
}
