package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement is an account statement as delivered by an institution or export file.
type Statement struct {
	Institution  string
	AccountID    string
	AccountType  string // checking, savings, credit
	Start        time.Time
	End          time.Time
	Transactions []Transaction
	Rejected     []RejectedRecord
	Balance      decimal.Decimal // ledger balance, sign as reported
	BalanceAsOf  time.Time
}

// RejectedRecord is a source row that could not be read as a Transaction.
type RejectedRecord struct {
	Row    int
	Reason string
}

// Extend widens the statement period to include t.
func (s *Statement) Extend(t time.Time) {
	if s.Start.IsZero() || t.Before(s.Start) {
		s.Start = t
	}
	if s.End.IsZero() || t.After(s.End) {
		s.End = t
	}
}
