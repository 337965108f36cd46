package audit

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"paybot/internal/core"
)

func sampleReport() Report {
	amount := decimal.RequireFromString("150.5")
	return Report{
		Query: core.AuditQuery{
			User:   "all",
			App:    "Astra",
			Period: core.Period{Month: 4, Year: 2025},
		},
		Rows: []Row{
			{
				Record: core.PaymentRecord{
					ID:          1,
					CreatorName: "Jane",
					AppName:     "Astra",
					Submitter:   "jacobm6039",
					Amount:      "150.5",
					Date:        core.NewDate(2025, 4, 10),
				},
				Amount:   amount,
				AmountOK: true,
			},
		},
		Total: amount,
		Count: 1,
	}
}

func TestFormatReport(t *testing.T) {
	got := Format(sampleReport())
	want := "✅ 1 payment(s) for 4/2025 (user: all, app: Astra). Total: $150.50\n" +
		"Creator: Jane | App: Astra | Amount: $150.50 | Date: 2025-04-10"
	if got != want {
		t.Fatalf("unexpected report:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatIsDeterministic(t *testing.T) {
	report := sampleReport()
	first := Format(report)
	second := Format(report)
	if first != second {
		t.Fatal("identical input must produce byte-identical output")
	}
}

func TestFormatZeroMatches(t *testing.T) {
	report := Report{
		Query: core.AuditQuery{
			User:   "jacob",
			App:    "all",
			Period: core.Period{Month: 2, Year: 2025},
		},
		Total: decimal.Zero,
	}
	got := Format(report)
	if got != "📭 No payments found for 2/2025 (user: jacob, app: all)." {
		t.Fatalf("unexpected zero-match output: %s", got)
	}
	if strings.Contains(got, "Total") {
		t.Fatal("zero-match output must not contain a total line")
	}
}

func TestFormatUnparsableAmountRendersRaw(t *testing.T) {
	report := sampleReport()
	report.Rows = append(report.Rows, Row{
		Record: core.PaymentRecord{
			ID:          2,
			CreatorName: "Marta",
			AppName:     "Astra",
			Submitter:   "jacobm6039",
			Amount:      "twenty",
			Date:        core.NewDate(2025, 4, 11),
		},
	})
	report.Count = 2

	got := Format(report)
	if !strings.Contains(got, "Amount: twenty |") {
		t.Fatalf("raw amount should render verbatim:\n%s", got)
	}
	if !strings.Contains(got, "Total: $150.50") {
		t.Fatalf("total must exclude the unparsable amount:\n%s", got)
	}
}
