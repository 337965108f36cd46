package audit

import (
	"context"
	"testing"

	"paybot/internal/core"
	"paybot/internal/storage"
)

func seedStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	ctx := context.Background()

	seed := []struct {
		creator, app, submitter, amount string
		date                            core.Date
	}{
		{"Jane", "Astra", "jacobm6039", "150.5", core.NewDate(2025, 4, 10)},
		{"Marta", "Astra", "jacobm6039", "99.99", core.NewDate(2025, 4, 2)},
		{"Jane", "Borealis", "someoneelse", "20", core.NewDate(2025, 4, 15)},
		{"Jane", "Astra", "jacobm6039", "75", core.NewDate(2025, 5, 1)},
	}
	for _, s := range seed {
		if _, err := store.EnsureCreator(ctx, s.creator); err != nil {
			t.Fatal(err)
		}
		if _, err := store.EnsureApp(ctx, s.app); err != nil {
			t.Fatal(err)
		}
		if _, err := store.AppendPayment(ctx, core.PaymentRecord{
			CreatorName: s.creator,
			AppName:     s.app,
			Submitter:   s.submitter,
			Amount:      s.amount,
			Date:        s.date,
		}); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func TestRunWildcardMatchesEverything(t *testing.T) {
	engine := NewEngine(seedStore(t))

	report, err := engine.Run(context.Background(), core.AuditQuery{
		User:   "all",
		App:    "ALL",
		Period: core.Period{Month: 4, Year: 2025},
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Count != 3 {
		t.Fatalf("expected 3 april records, got %d", report.Count)
	}
	if got := report.Total.StringFixed(2); got != "270.49" {
		t.Fatalf("expected total 270.49, got %s", got)
	}
}

func TestRunSpecificFilters(t *testing.T) {
	engine := NewEngine(seedStore(t))
	ctx := context.Background()

	report, err := engine.Run(ctx, core.AuditQuery{
		User:   "jacob",
		App:    "astra",
		Period: core.Period{Month: 4, Year: 2025},
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Count != 2 {
		t.Fatalf("expected 2 records for jacob/astra, got %d", report.Count)
	}
	if got := report.Total.StringFixed(2); got != "250.49" {
		t.Fatalf("expected total 250.49, got %s", got)
	}

	// A value that merely contains "all" is a substring filter, not the
	// wildcard literal.
	report, err = engine.Run(ctx, core.AuditQuery{
		User:   "allan",
		App:    "all",
		Period: core.Period{Month: 4, Year: 2025},
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Count != 0 {
		t.Fatalf("expected no records for user 'allan', got %d", report.Count)
	}
}

func TestRunOrdersByDateThenID(t *testing.T) {
	engine := NewEngine(seedStore(t))

	report, err := engine.Run(context.Background(), core.AuditQuery{
		User:   "all",
		App:    "all",
		Period: core.Period{Month: 4, Year: 2025},
	})
	if err != nil {
		t.Fatal(err)
	}
	dates := make([]string, len(report.Rows))
	for i, row := range report.Rows {
		dates[i] = row.Record.Date.String()
	}
	want := []string{"2025-04-02", "2025-04-10", "2025-04-15"}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, dates)
		}
	}
}

func TestRunUnparsableAmountListedNotSummed(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	// Simulate a legacy row whose stored amount is not numeric.
	if _, err := store.AppendPayment(ctx, core.PaymentRecord{
		CreatorName: "Jane",
		AppName:     "Astra",
		Submitter:   "jacobm6039",
		Amount:      "twenty",
		Date:        core.NewDate(2025, 4, 20),
	}); err != nil {
		t.Fatal(err)
	}

	report, err := NewEngine(store).Run(ctx, core.AuditQuery{
		User:   "jacob",
		App:    "Astra",
		Period: core.Period{Month: 4, Year: 2025},
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Count != 3 {
		t.Fatalf("unparsable row must still be counted, got count %d", report.Count)
	}
	if got := report.Total.StringFixed(2); got != "250.49" {
		t.Fatalf("unparsable row must not move the total, got %s", got)
	}

	var sawUnparsed bool
	for _, row := range report.Rows {
		if !row.AmountOK {
			sawUnparsed = true
			if row.Record.Amount != "twenty" {
				t.Fatalf("raw amount lost: %+v", row.Record)
			}
		}
	}
	if !sawUnparsed {
		t.Fatal("unparsable row missing from listing")
	}
}

func TestRunZeroMatchesIsValid(t *testing.T) {
	engine := NewEngine(seedStore(t))

	report, err := engine.Run(context.Background(), core.AuditQuery{
		User:   "all",
		App:    "all",
		Period: core.Period{Month: 1, Year: 2020},
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Count != 0 || len(report.Rows) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
	if !report.Total.IsZero() {
		t.Fatalf("empty report must have zero total, got %s", report.Total)
	}
}
