package spending

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mol3earth/ofx/internal/model"
)

// Normalize maps an amount to its spending magnitude: outflows become
// positive and inflows become zero.
func Normalize(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return amount.Neg()
	}
	return decimal.Zero
}

// Bucket accumulates the spending posted on one grid date.
type Bucket struct {
	Key            string
	Date           time.Time
	Amounts        []decimal.Decimal
	Counterparties []string // index-aligned with Amounts
	Total          decimal.Decimal
}

func (b *Bucket) add(amount decimal.Decimal, counterparty string) {
	b.Amounts = append(b.Amounts, amount)
	b.Counterparties = append(b.Counterparties, counterparty)
	b.Total = b.Total.Add(amount)
}

// Report is the populated grid produced by one aggregation run.
type Report struct {
	Since     time.Time
	Increment Increment
	Buckets   []Bucket // grid order
	Total     decimal.Decimal
	Anomalies []Anomaly
}

// Bucket returns the bucket stored under key.
func (r *Report) Bucket(key string) (*Bucket, bool) {
	for i := range r.Buckets {
		if r.Buckets[i].Key == key {
			return &r.Buckets[i], true
		}
	}
	return nil, false
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithStrict makes Aggregate fail on the first anomaly instead of recording it.
func WithStrict() Option {
	return func(a *Aggregator) { a.strict = true }
}

// Aggregator assigns transactions to grid buckets.
type Aggregator struct {
	strict bool
}

// NewAggregator creates an Aggregator.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate distributes the spending of txns posted strictly after since
// into a fresh Report shaped like grid. Transactions are processed in
// slice order. The grid itself is not modified.
func (a *Aggregator) Aggregate(grid *Grid, txns []model.Transaction, since time.Time) (*Report, error) {
	r := &Report{
		Since:     since,
		Increment: grid.Increment(),
		Buckets:   make([]Bucket, grid.Len()),
		Total:     decimal.Zero,
	}
	for i, key := range grid.keys {
		r.Buckets[i] = Bucket{Key: key, Date: grid.Date(i), Total: decimal.Zero}
	}

	for i, txn := range txns {
		if txn.PostedAt.IsZero() {
			if err := a.skip(r, Anomaly{Kind: AnomalyMalformed, Index: i, Transaction: txn, Reason: model.ErrMissingPostedAt.Error()}); err != nil {
				return nil, err
			}
			continue
		}

		// Records before the window are dropped without further checks.
		if !txn.PostedAt.After(since) {
			continue
		}

		if err := txn.Validate(); err != nil {
			if err := a.skip(r, Anomaly{Kind: AnomalyMalformed, Index: i, Transaction: txn, Reason: err.Error()}); err != nil {
				return nil, err
			}
			continue
		}

		key := txn.PostedAt.Format(KeyLayout)
		pos, ok := grid.Lookup(key)
		if !ok {
			reason := fmt.Sprintf("posting date %s has no bucket", key)
			if err := a.skip(r, Anomaly{Kind: AnomalyOutsideGrid, Index: i, Transaction: txn, Reason: reason}); err != nil {
				return nil, err
			}
			continue
		}

		amount := Normalize(txn.Amount)
		r.Buckets[pos].add(amount, txn.Counterparty)
		r.Total = r.Total.Add(amount)
	}
	return r, nil
}

func (a *Aggregator) skip(r *Report, an Anomaly) error {
	if a.strict {
		return &AnomalyError{Anomaly: an}
	}
	r.Anomalies = append(r.Anomalies, an)
	return nil
}
