package lelet

import "time"

// config holds the tunables of an Executor. There is no file or
// environment-variable surface for any of this: the only configuration
// path is the functional-options constructor below.
type config struct {
	numProcessors     int
	blockingThreshold time.Duration
	maxRuns           uint64
}

func defaultConfig() config {
	return config{
		numProcessors:     numCPU(),
		blockingThreshold: 100 * time.Millisecond,
		maxRuns:           64,
	}
}

// Option configures an Executor at construction time.
type Option func(*config)

// WithProcessors overrides the number of logical Processors. It floors at
// 1; by default the executor uses one Processor per detected CPU.
func WithProcessors(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.numProcessors = n
	}
}

// WithBlockingThreshold overrides the heartbeat staleness that causes the
// sysmon to consider a Machine blocked and replace it. The default is
// 100ms.
func WithBlockingThreshold(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.blockingThreshold = d
		}
	}
}

// WithMaxRuns overrides the number of consecutive local-queue runs a
// Machine performs before forcing a global-queue poll. The default is 64.
func WithMaxRuns(n uint64) Option {
	return func(c *config) {
		if n > 0 {
			c.maxRuns = n
		}
	}
}
