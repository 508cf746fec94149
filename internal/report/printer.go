// Package report renders aggregated spending as a text table or CSV.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/mol3earth/ofx/internal/model"
	"github.com/mol3earth/ofx/internal/spending"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow, color.Bold)
	blue   = color.New(color.FgBlue)
)

const ruleWidth = 43

// Money formats an amount right-aligned in eight columns with two decimals.
func Money(d decimal.Decimal) string {
	return fmt.Sprintf("%8s", d.StringFixed(2))
}

// PrintHeader writes the "All transactions since" line.
func PrintHeader(w io.Writer, since time.Time) {
	green.Fprintf(w, "All transactions since - %s\n", since.Format("Mon, Jan 2, 2006"))
}

// Print writes every bucket's line items and totals followed by the grand total.
func Print(w io.Writer, r *spending.Report) {
	rule := strings.Repeat("-", ruleWidth)
	fmt.Fprintln(w, rule)
	for _, b := range r.Buckets {
		blue.Fprintln(w, b.Key)
		for i, amount := range b.Amounts {
			fmt.Fprintf(w, "\t%s - %s\n", Money(amount), b.Counterparties[i])
		}
		fmt.Fprintf(w, "\t%s - TOTAL\n", Money(b.Total))
	}
	fmt.Fprintln(w, "\t--------")
	yellow.Fprintf(w, "Total:\t%s\n", Money(r.Total))
	fmt.Fprintln(w, rule)
}

// PrintBalance writes the statement balance, normalized like spending.
func PrintBalance(w io.Writer, balance decimal.Decimal) {
	fmt.Fprintf(w, "Total Balance: %s\n", spending.Normalize(balance).StringFixed(2))
}

// PrintAnomalies lists transactions left out of the totals.
func PrintAnomalies(w io.Writer, anomalies []spending.Anomaly) {
	if len(anomalies) == 0 {
		return
	}
	yellow.Fprintf(w, "Skipped %d transaction(s):\n", len(anomalies))
	for _, a := range anomalies {
		fmt.Fprintf(w, "  ⚠ %s %s - %s\n", Money(a.Transaction.Amount), a.Transaction.Counterparty, a.Reason)
	}
}

// PrintRejected lists source rows the importer could not read.
func PrintRejected(w io.Writer, rejected []model.RejectedRecord) {
	if len(rejected) == 0 {
		return
	}
	yellow.Fprintf(w, "Rejected %d record(s):\n", len(rejected))
	for _, r := range rejected {
		fmt.Fprintf(w, "  ⚠ record %d: %s\n", r.Row, r.Reason)
	}
}
