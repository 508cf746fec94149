package spending

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultWeeklyGoal is the spending target used when none is configured.
var DefaultWeeklyGoal = decimal.NewFromInt(500)

var daysPerWeek = decimal.NewFromInt(7)

// TrendPoint is one charted step of cumulative spend against the goal line.
type TrendPoint struct {
	Key             string
	Date            time.Time
	Spent           decimal.Decimal // this bucket's total
	CumulativeSpend decimal.Decimal
	CumulativeGoal  decimal.Decimal
}

// TrendOption configures ComputeTrend.
type TrendOption func(*trendConfig)

type trendConfig struct {
	scaled bool
}

// WithScaledGoal advances the goal by weeklyGoal/7 times the increment's
// day count per bucket. Without it the goal advances by weeklyGoal/7 per
// bucket whatever the increment, so weekly buckets show a daily-rate line.
func WithScaledGoal() TrendOption {
	return func(c *trendConfig) { c.scaled = true }
}

// ComputeTrend returns one point per bucket, in key order, carrying the
// running spend total and the running goal.
func ComputeTrend(r *Report, weeklyGoal decimal.Decimal, opts ...TrendOption) ([]TrendPoint, error) {
	if !weeklyGoal.IsPositive() {
		return nil, &ValidationError{Field: "weekly goal", Value: weeklyGoal.String(), Reason: "must be positive"}
	}

	var cfg trendConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	step := weeklyGoal.Div(daysPerWeek)
	if cfg.scaled && r.Increment.Valid() {
		step = step.Mul(decimal.NewFromInt(int64(r.Increment.Days())))
	}

	points := make([]TrendPoint, 0, len(r.Buckets))
	running := decimal.Zero
	goal := decimal.Zero
	for _, b := range r.Buckets {
		running = running.Add(b.Total)
		goal = goal.Add(step)
		points = append(points, TrendPoint{
			Key:             b.Key,
			Date:            b.Date,
			Spent:           b.Total,
			CumulativeSpend: running,
			CumulativeGoal:  goal,
		})
	}
	return points, nil
}
