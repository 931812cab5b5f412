package engine

import "time"

// Backoff describes an exponential polling schedule. Keeping it a plain
// value makes the schedule testable without a real clock.
type Backoff struct {
	Deadline   time.Duration
	Delay      time.Duration
	Multiplier float64
	Cap        time.Duration
}

// Next returns the current delay and advances the schedule.
func (b *Backoff) Next() time.Duration {
	d := b.Delay
	next := time.Duration(float64(b.Delay) * b.Multiplier)
	if b.Cap > 0 && next > b.Cap {
		next = b.Cap
	}
	b.Delay = next
	return d
}

// ValidationBackoff is the schedule the invoice validation handler polls
// with: 200ms initial, x1.6, capped at 1.2s, 12s overall deadline.
func ValidationBackoff() Backoff {
	return Backoff{
		Deadline:   12 * time.Second,
		Delay:      200 * time.Millisecond,
		Multiplier: 1.6,
		Cap:        1200 * time.Millisecond,
	}
}
