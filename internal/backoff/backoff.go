// Package backoff implements a bounded adaptive spin: a short run of
// scheduler-yielding spins with an exponentially growing yield count,
// after which IsCompleted reports true and the caller should fall back
// to a blocking wait instead.
package backoff

import "runtime"

const (
	spinLimit  = 6
	yieldLimit = 10
)

// Backoff tracks one spin/yield/block escalation sequence. It is not safe
// for concurrent use; each goroutine that needs adaptive spinning owns one.
type Backoff struct {
	step int
}

// New returns a fresh Backoff at its least-patient step.
func New() *Backoff {
	return &Backoff{}
}

// Spin executes one step of the backoff, yielding the P an exponentially
// growing number of times before IsCompleted tells the caller to block.
func (b *Backoff) Spin() {
	n := 1 << uint(min(b.step, spinLimit))
	for i := 0; i < n; i++ {
		runtime.Gosched()
	}
	if b.step <= yieldLimit {
		b.step++
	}
}

// IsCompleted reports whether the spin phase has been exhausted and the
// caller should move on to a blocking wait.
func (b *Backoff) IsCompleted() bool {
	return b.step > yieldLimit
}

// Reset returns the Backoff to its initial state, for reuse across
// independent wait cycles.
func (b *Backoff) Reset() {
	b.step = 0
}
