package worker

import "time"

// RetryPolicy shapes the backoff between failed export attempts. The zero
// value waits one second and doubles each attempt, unbounded.
type RetryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// NextDelay returns how long to wait before the given attempt, counted from
// one. Growth is geometric and caps at MaxDelay when one is set.
func (p RetryPolicy) NextDelay(attempt int) time.Duration {
	base := p.InitialDelay
	if base <= 0 {
		base = time.Second
	}
	factor := p.Multiplier
	if factor <= 1 {
		factor = 2
	}

	delay := float64(base)
	for i := 1; i < attempt; i++ {
		delay *= factor
		if p.MaxDelay > 0 && time.Duration(delay) >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	return time.Duration(delay)
}
