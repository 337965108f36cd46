// Package audit runs filtered monthly aggregations over payment records
// and renders them as deterministic plain-text reports.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"paybot/internal/core"
)

// Querier is the slice of the store the engine reads through.
type Querier interface {
	QueryPayments(ctx context.Context, start, end core.Date, userFilter, appFilter string) ([]core.PaymentRecord, error)
}

// Row is one matched record with its coerced amount. A stored amount that
// no longer parses keeps AmountOK false: the row is listed and counted but
// contributes nothing to the total. Malformed amounts degrade a single
// row, never the whole report.
type Row struct {
	Record   core.PaymentRecord
	Amount   decimal.Decimal
	AmountOK bool
}

// Report is the result of one audit query. Rows are ordered by date
// ascending, then by record id, so identical data always renders
// identically.
type Report struct {
	Query core.AuditQuery
	Rows  []Row
	Total decimal.Decimal
	Count int
}

type Engine struct {
	store Querier
}

func NewEngine(store Querier) *Engine {
	return &Engine{store: store}
}

// Run resolves the query's date window, fetches matching records and folds
// them into a report. Zero matches is a valid report, not an error.
func (e *Engine) Run(ctx context.Context, q core.AuditQuery) (Report, error) {
	start, end := q.Period.Window()

	// The wildcard literal short-circuits the substring predicate
	// entirely; it must never be searched for as text.
	userFilter := filterValue(q.User)
	appFilter := filterValue(q.App)

	records, err := e.store.QueryPayments(ctx, start, end, userFilter, appFilter)
	if err != nil {
		return Report{}, fmt.Errorf("query payments: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date.Time) {
			return records[i].Date.Before(records[j].Date.Time)
		}
		return records[i].ID < records[j].ID
	})

	report := Report{
		Query: q,
		Rows:  make([]Row, 0, len(records)),
		Total: decimal.Zero,
		Count: len(records),
	}
	for _, rec := range records {
		row := Row{Record: rec}
		amount, err := decimal.NewFromString(rec.Amount)
		if err != nil {
			slog.WarnContext(ctx, "Stored amount no longer parses, excluded from total",
				"id", rec.ID,
				"amount", rec.Amount)
		} else {
			row.Amount = amount
			row.AmountOK = true
			report.Total = report.Total.Add(amount)
		}
		report.Rows = append(report.Rows, row)
	}

	return report, nil
}

func filterValue(filter string) string {
	if core.IsWildcard(filter) {
		return ""
	}
	return strings.TrimSpace(filter)
}
