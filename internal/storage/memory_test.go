package storage

import (
	"context"
	"testing"

	"paybot/internal/core"
)

func TestMemoryFilterFoldsASCIIOnly(t *testing.T) {
	// SQLite's lower() only folds ASCII letters; the memory twin must
	// behave the same so the backends are interchangeable.
	store := NewMemoryStore()
	ctx := context.Background()

	mustAppend(t, store, "José", "Café Pay", "JOSÉ", "100", core.NewDate(2025, 4, 10))

	start, end := (core.Period{Month: 4, Year: 2025}).Window()

	// ASCII letters fold: "cafe" prefix matches "Café Pay".
	records, err := store.QueryPayments(ctx, start, end, "", "caf")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("ASCII-cased app filter should match, got %d records", len(records))
	}

	// Non-ASCII letters pass through unfolded, so byte-identical text
	// still matches.
	records, err = store.QueryPayments(ctx, start, end, "", "café")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("byte-identical non-ASCII filter should match, got %d records", len(records))
	}

	// "JOSÉ" stored; the filter "josé" folds J-O-S but not É, so it must
	// not match, same as SQLite.
	records, err = store.QueryPayments(ctx, start, end, "josé", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("differently-cased non-ASCII filter should not match, got %d records", len(records))
	}

	// The folded ASCII prefix alone still matches.
	records, err = store.QueryPayments(ctx, start, end, "jos", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("ASCII prefix filter should match, got %d records", len(records))
	}
}
