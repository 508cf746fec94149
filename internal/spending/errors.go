package spending

import (
	"fmt"

	"github.com/mol3earth/ofx/internal/model"
)

// ValidationError reports a rejected configuration parameter.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// AnomalyKind classifies a transaction that was left out of the totals.
type AnomalyKind string

const (
	// AnomalyMalformed marks a record missing a required field.
	AnomalyMalformed AnomalyKind = "malformed"
	// AnomalyOutsideGrid marks a record whose posting date has no bucket.
	AnomalyOutsideGrid AnomalyKind = "outside-grid"
)

// Anomaly describes one skipped transaction.
type Anomaly struct {
	Kind        AnomalyKind
	Index       int // position in the input slice
	Transaction model.Transaction
	Reason      string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("transaction %d (%s): %s", a.Index, a.Kind, a.Reason)
}

// AnomalyError is returned by a strict Aggregator on the first anomaly.
type AnomalyError struct {
	Anomaly Anomaly
}

func (e *AnomalyError) Error() string {
	return "aggregation aborted: " + e.Anomaly.String()
}
