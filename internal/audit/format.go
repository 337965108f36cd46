package audit

import (
	"fmt"
	"strings"

	"paybot/internal/core"
)

// Format renders a report as plain text. It is a pure function of the
// report: no timestamps, no randomness, byte-identical output for
// identical input.
func Format(report Report) string {
	user := displayFilter(report.Query.User)
	app := displayFilter(report.Query.App)
	period := report.Query.Period.String()

	if report.Count == 0 {
		// Distinct from an empty listing with a zero total, so "found
		// nothing" is never mistaken for "failed silently".
		return fmt.Sprintf("📭 No payments found for %s (user: %s, app: %s).", period, user, app)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ %d payment(s) for %s (user: %s, app: %s). Total: $%s\n",
		report.Count, period, user, app, core.FormatAmount(report.Total))

	for _, row := range report.Rows {
		amount := row.Record.Amount
		if row.AmountOK {
			amount = "$" + core.FormatAmount(row.Amount)
		}
		fmt.Fprintf(&b, "Creator: %s | App: %s | Amount: %s | Date: %s\n",
			row.Record.CreatorName, row.Record.AppName, amount, row.Record.Date)
	}

	return strings.TrimRight(b.String(), "\n")
}

func displayFilter(filter string) string {
	if core.IsWildcard(filter) || strings.TrimSpace(filter) == "" {
		return core.WildcardFilter
	}
	return strings.TrimSpace(filter)
}
