package spending

import "time"

// Clock supplies the current time to the grid builder.
type Clock interface {
	Now() time.Time
}

type clockFunc func() time.Time

func (f clockFunc) Now() time.Time { return f() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return clockFunc(time.Now)
}

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return clockFunc(func() time.Time { return t })
}
