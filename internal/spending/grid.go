// Package spending buckets statement transactions into a date grid and
// derives cumulative spending trends from the result.
package spending

import (
	"time"
)

// KeyLayout formats bucket keys as fixed-width YYYYMMDD strings.
const KeyLayout = "20060102"

const day = 24 * time.Hour

// Grid is the ordered, fixed set of bucket keys for one report run.
type Grid struct {
	increment Increment
	keys      []string
	dates     []time.Time
	index     map[string]int
}

// BuildGrid generates one key per increment step from start up to, but not
// including, the current day offset reported by clock.
func BuildGrid(start time.Time, inc Increment, clock Clock) (*Grid, error) {
	if !inc.Valid() {
		return nil, &ValidationError{Field: "increment", Value: inc.String(), Reason: "unknown increment"}
	}

	g := &Grid{
		increment: inc,
		index:     make(map[string]int),
	}

	n := int(clock.Now().Sub(start) / day)
	for d := 0; d < n; d += inc.Days() {
		date := start.AddDate(0, 0, d)
		key := date.Format(KeyLayout)
		g.index[key] = len(g.keys)
		g.keys = append(g.keys, key)
		g.dates = append(g.dates, date)
	}
	return g, nil
}

// Increment returns the step the grid was built with.
func (g *Grid) Increment() Increment { return g.increment }

// Len returns the number of buckets.
func (g *Grid) Len() int { return len(g.keys) }

// Keys returns a copy of the bucket keys in ascending date order.
func (g *Grid) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Date returns the date of the i-th bucket.
func (g *Grid) Date(i int) time.Time { return g.dates[i] }

// Lookup returns the position of key in the grid.
func (g *Grid) Lookup(key string) (int, bool) {
	i, ok := g.index[key]
	return i, ok
}
