// Command paybot-audit runs an audit query directly against the database
// and renders the report as a terminal table, with an optional .xlsx
// export. It is the offline counterpart of the /audit command.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"

	"paybot/internal/audit"
	"paybot/internal/core"
	"paybot/internal/storage"
)

func main() {
	_ = godotenv.Load()

	var (
		dbPath   = flag.String("db", envOr("SQLITE_DB_PATH", "./data/paybot.db"), "path to the SQLite database")
		user     = flag.String("user", core.WildcardFilter, "submitter filter, or 'all'")
		app      = flag.String("app", core.WildcardFilter, "app filter, or 'all'")
		period   = flag.String("period", "", "month to audit, e.g. 4/2025 (required)")
		xlsxPath = flag.String("xlsx", "", "write the report to this .xlsx file")
	)
	flag.Parse()

	if *period == "" {
		fmt.Fprintln(os.Stderr, "error: -period is required, e.g. -period 4/2025")
		flag.Usage()
		os.Exit(2)
	}

	parsed, err := core.ParsePeriod(*period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid period %q: use month/year, e.g. 4/2025\n", *period)
		os.Exit(2)
	}

	store, err := storage.NewSQLiteStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: open database %s: %v\n", *dbPath, err)
		os.Exit(1)
	}
	defer store.Close()

	report, err := audit.NewEngine(store).Run(context.Background(), core.AuditQuery{
		User:   *user,
		App:    *app,
		Period: parsed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: audit failed: %v\n", err)
		os.Exit(1)
	}

	renderTable(report)

	if *xlsxPath != "" {
		if err := writeXLSX(report, *xlsxPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: write %s: %v\n", *xlsxPath, err)
			os.Exit(1)
		}
		fmt.Printf("Report written to %s\n", *xlsxPath)
	}
}

func renderTable(report audit.Report) {
	fmt.Printf("Audit for %s (user: %s, app: %s)\n",
		report.Query.Period, report.Query.User, report.Query.App)

	if report.Count == 0 {
		fmt.Println("No payments found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Date", "Creator", "App", "Submitter", "Amount", "Payment Info", "Note"})
	for _, row := range report.Rows {
		t.AppendRow(table.Row{
			row.Record.ID,
			row.Record.Date.String(),
			row.Record.CreatorName,
			row.Record.AppName,
			row.Record.Submitter,
			amountCell(row),
			row.Record.PaymentInfo,
			row.Record.Note,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total",
		"$" + core.FormatAmount(report.Total), "", ""})
	t.Render()

	fmt.Printf("%d payment(s).\n", report.Count)
}

// amountCell renders a parsed amount normalized; an unparsable stored
// amount is shown raw so it stays visible in the listing.
func amountCell(row audit.Row) string {
	if row.AmountOK {
		return "$" + core.FormatAmount(row.Amount)
	}
	return row.Record.Amount + " (unparsable)"
}

func writeXLSX(report audit.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Audit"
	f.SetSheetName("Sheet1", sheet)

	header := []interface{}{"ID", "Date", "Creator", "App", "Submitter", "Amount", "Payment Info", "Note"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, row := range report.Rows {
		cell := "A" + strconv.Itoa(i+2)
		values := []interface{}{
			row.Record.ID,
			row.Record.Date.String(),
			row.Record.CreatorName,
			row.Record.AppName,
			row.Record.Submitter,
			amountCell(row),
			row.Record.PaymentInfo,
			row.Record.Note,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	footer := []interface{}{"", "", "", "", "Total", "$" + core.FormatAmount(report.Total)}
	cell := "A" + strconv.Itoa(len(report.Rows)+2)
	if err := f.SetSheetRow(sheet, cell, &footer); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
