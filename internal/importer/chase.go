package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mol3earth/ofx/internal/id"
	"github.com/mol3earth/ofx/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColType    = 4
	chaseColBalance = 5
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV. Rows with an unreadable date or amount are
// listed in Statement.Rejected rather than failing the whole file.
func (p *ChaseParser) Parse(r io.Reader) (*model.Statement, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	stmt := &model.Statement{Institution: "chase", AccountType: "checking"}
	if len(records) <= 1 {
		return stmt, nil
	}

	var ids id.Sequencer
	for i, rec := range records[1:] {
		row := i + 2
		txn, err := parseChaseRow(rec)
		if err != nil {
			stmt.Rejected = append(stmt.Rejected, model.RejectedRecord{Row: row, Reason: err.Error()})
			continue
		}
		txn.ID = ids.Next(txn.PostedAt)
		stmt.Transactions = append(stmt.Transactions, txn)
		stmt.Extend(txn.PostedAt)

		// Chase lists a running balance per row; the latest posting carries the ledger balance.
		bal, err := decimal.NewFromString(rec[chaseColBalance])
		if err == nil && (stmt.BalanceAsOf.IsZero() || txn.PostedAt.After(stmt.BalanceAsOf)) {
			stmt.Balance = bal
			stmt.BalanceAsOf = txn.PostedAt
		}
	}
	return stmt, nil
}

func parseChaseRow(rec []string) (model.Transaction, error) {
	date, err := time.Parse(chaseDateFormat, rec[chaseColDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := decimal.NewFromString(rec[chaseColAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}

	return model.Transaction{
		PostedAt:     date,
		Amount:       amount,
		Counterparty: rec[chaseColDesc],
		Memo:         rec[chaseColType],
	}, nil
}
