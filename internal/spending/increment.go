package spending

import (
	"strings"
)

// Increment is the calendar step between bucket keys.
type Increment int

const (
	Daily Increment = iota + 1
	Weekly
	// Monthly is a fixed 30-day step, not aligned to calendar months.
	Monthly
)

var incrementDays = map[Increment]int{
	Daily:   1,
	Weekly:  7,
	Monthly: 30,
}

var incrementNames = map[Increment]string{
	Daily:   "daily",
	Weekly:  "weekly",
	Monthly: "monthly",
}

// ParseIncrement converts "daily", "weekly" or "monthly" into an Increment.
func ParseIncrement(s string) (Increment, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for inc, n := range incrementNames {
		if n == name {
			return inc, nil
		}
	}
	return 0, &ValidationError{Field: "increment", Value: s, Reason: "must be one of daily, weekly, monthly"}
}

// Valid reports whether inc is one of the known increments.
func (inc Increment) Valid() bool {
	_, ok := incrementDays[inc]
	return ok
}

// Days returns the step size in days, or 0 for an unknown increment.
func (inc Increment) Days() int {
	return incrementDays[inc]
}

func (inc Increment) String() string {
	if n, ok := incrementNames[inc]; ok {
		return n
	}
	return "unknown"
}
