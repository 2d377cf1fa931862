package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes used for entity IDs across the application.
const (
	PrefixLoan   = "loan"
	PrefixPatron = "pat"
	PrefixImport = "imp"
)

// syntheticAlphabet restricts synthetic catalog codes to digits so they pass
// through the same normalization path as scanned ISBNs.
const syntheticAlphabet = "0123456789"

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "loan-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when you're certain the system entropy is available,
// or when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// SyntheticCode creates a placeholder catalog code for titles that arrive
// without an ISBN (typically bulk-import rows). The code is all digits and
// starts with "9999" so it can never collide with a real ISBN prefix.
func SyntheticCode() (string, error) {
	digits, err := gonanoid.Generate(syntheticAlphabet, 9)
	if err != nil {
		return "", fmt.Errorf("generate synthetic code: %w", err)
	}
	return "9999" + digits, nil
}

// MustSyntheticCode is like SyntheticCode but panics on entropy failure.
func MustSyntheticCode() string {
	code, err := SyntheticCode()
	if err != nil {
		panic(fmt.Sprintf("failed to generate synthetic code: %v", err))
	}
	return code
}
