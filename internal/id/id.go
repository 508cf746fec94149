// Package id assigns transaction IDs to statement rows that lack one.
package id

import (
	"fmt"
	"time"
)

const dateLayout = "20060102"

// Format returns a transaction ID like "20200702-001".
func Format(posted time.Time, seq int) string {
	return fmt.Sprintf("%s-%03d", posted.Format(dateLayout), seq)
}

// Sequencer numbers transactions per posting day, starting at 1.
type Sequencer struct {
	next map[string]int
}

// Next returns the next ID for a transaction posted at t.
func (s *Sequencer) Next(t time.Time) string {
	if s.next == nil {
		s.next = make(map[string]int)
	}
	day := t.Format(dateLayout)
	s.next[day]++
	return Format(t, s.next[day])
}
