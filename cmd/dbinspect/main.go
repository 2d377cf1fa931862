// Package main provides a read-only tool to inspect the catalog database.
//
// Usage:
//
//	DB_PATH=~/Acervo/acervo.db go run ./cmd/dbinspect
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/acervoapp/acervo-server/internal/store/sqlite"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Acervo/acervo.db")
	}

	s, err := sqlite.Open(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	entries, err := s.ListEntries(ctx)
	if err != nil {
		log.Fatalf("Failed to list entries: %v", err)
	}

	totalCopies := 0
	pending := 0
	synthetic := 0
	byGenre := map[string]int{}
	for _, e := range entries {
		totalCopies += e.Quantity
		byGenre[e.Genre]++
		if e.NeedsCuration() {
			pending++
		}
		if len(e.Code) >= 4 && e.Code[:4] == "9999" {
			synthetic++
		}
	}

	fmt.Printf("Catalog entries:    %d\n", len(entries))
	fmt.Printf("Total copies:       %d\n", totalCopies)
	fmt.Printf("Needing curation:   %d\n", pending)
	fmt.Printf("Synthetic codes:    %d\n", synthetic)
	fmt.Println()

	fmt.Println("Entries per genre:")
	for genre, count := range byGenre {
		fmt.Printf("  %-30s %d\n", genre, count)
	}
	fmt.Println()

	patrons, err := s.ListPatrons(ctx)
	if err != nil {
		log.Fatalf("Failed to list patrons: %v", err)
	}
	fmt.Printf("Patrons:            %d\n", len(patrons))

	loans, err := s.ListActiveLoans(ctx)
	if err != nil {
		log.Fatalf("Failed to list active loans: %v", err)
	}
	fmt.Printf("Active loans:       %d\n", len(loans))
	if len(loans) > 0 {
		fmt.Println()
		fmt.Println("Out on loan:")
		for _, l := range loans {
			fmt.Printf("  %-40s -> %s (due %s)\n", l.Title, l.PatronName, l.DueDate.Format("2006-01-02"))
		}
	}

	if pending > 0 {
		fmt.Println()
		fmt.Println("Entries needing curation:")
		needing, err := s.ListEntriesNeedingCuration(ctx)
		if err != nil {
			log.Fatalf("Failed to list pending entries: %v", err)
		}
		for _, e := range needing {
			fmt.Printf("  %s  %-40s author=%s\n", e.Code, truncate(e.Title, 40), e.Author)
		}
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
