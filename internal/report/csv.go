package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mol3earth/ofx/internal/spending"
)

// Header is the CSV header written by WriteCSV.
const Header = "date,counterparty,amount,bucket_total,running_total"

const (
	numFields  = 5
	colDate    = 0
	colCparty  = 1
	colAmount  = 2
	colBucket  = 3
	colRunning = 4
	dateFormat = "2006-01-02"
)

// WriteCSV writes one row per line item. Buckets with no spending get a
// single row with empty counterparty and amount so the series stays gap-free.
func WriteCSV(w io.Writer, r *spending.Report) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	running := decimal.Zero
	row := 2
	for _, b := range r.Buckets {
		running = running.Add(b.Total)
		if len(b.Amounts) == 0 {
			if err := cw.Write(marshalRow(b, -1, running.StringFixed(2))); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			row++
			continue
		}
		for i := range b.Amounts {
			if err := cw.Write(marshalRow(b, i, running.StringFixed(2))); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			row++
		}
	}
	return cw.Error()
}

func marshalRow(b spending.Bucket, item int, running string) []string {
	rec := make([]string, numFields)
	rec[colDate] = b.Date.Format(dateFormat)
	if item >= 0 {
		rec[colCparty] = b.Counterparties[item]
		rec[colAmount] = b.Amounts[item].StringFixed(2)
	}
	rec[colBucket] = b.Total.StringFixed(2)
	rec[colRunning] = running
	return rec
}
