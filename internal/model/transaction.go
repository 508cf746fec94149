package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one posted statement line.
type Transaction struct {
	ID           string          // institution transaction ID (FITID), may be empty
	PostedAt     time.Time       // as reported by the institution, never synthesized
	Amount       decimal.Decimal // negative = outflow, positive = inflow
	Counterparty string
	Memo         string
}

var (
	ErrMissingPostedAt     = errors.New("missing posting date")
	ErrMissingCounterparty = errors.New("missing counterparty")
)

// Validate reports the first missing required field. A blank but present
// counterparty is kept as is.
func (t Transaction) Validate() error {
	if t.PostedAt.IsZero() {
		return ErrMissingPostedAt
	}
	if t.Counterparty == "" {
		return ErrMissingCounterparty
	}
	return nil
}
