package worker

import "time"

// RetryPolicy controls redelivery of failed notifications: exponential
// backoff starting at InitialDelay, multiplied by BackoffFactor per attempt
// and capped at MaxDelay. Zero fields fall back to one second and doubling.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// Exhausted reports whether a task at the given attempt count is out of
// retries and should go to the dead letter queue.
func (p RetryPolicy) Exhausted(attempt int) bool {
	return attempt >= p.MaxRetries
}

// NextDelay returns the wait before the given 1-based attempt.
func (p RetryPolicy) NextDelay(attempt int) time.Duration {
	base := p.InitialDelay
	if base <= 0 {
		base = time.Second
	}
	factor := p.BackoffFactor
	if factor <= 0 {
		factor = 2
	}

	d := float64(base)
	for i := 1; i < attempt; i++ {
		d *= factor
		if p.MaxDelay > 0 && time.Duration(d) >= p.MaxDelay {
			return p.MaxDelay
		}
	}

	out := time.Duration(d)
	if out <= 0 {
		out = time.Second
	}
	if p.MaxDelay > 0 && out > p.MaxDelay {
		out = p.MaxDelay
	}
	return out
}
