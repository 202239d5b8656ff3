package lelet

import "sync/atomic"

// execStats are the atomic counters backing Executor.Stats. They are
// diagnostic hints, not synchronization, and make work-stealing and
// blocking-detection behavior observable from outside the package.
type execStats struct {
	pushed          atomic.Uint64
	localRuns       atomic.Uint64
	inheritSteals   atomic.Uint64
	globalPolls     atomic.Uint64
	remoteSteals    atomic.Uint64
	replacements    atomic.Uint64
}

// Stats is a point-in-time snapshot of an Executor's scheduling counters.
type Stats struct {
	// Pushed is the total number of tasks handed to Executor.Spawn/push.
	Pushed uint64
	// LocalRuns is the number of tasks run directly out of a Machine's
	// own local worker, without any steal or global poll.
	LocalRuns uint64
	// InheritSteals is the number of per-iteration steals from a
	// predecessor Machine's stealer that yielded a task; the startup bulk
	// steal is not counted.
	InheritSteals uint64
	// GlobalPolls is the number of tasks obtained via Executor.pop.
	GlobalPolls uint64
	// RemoteSteals is the number of tasks obtained via Executor.steal.
	RemoteSteals uint64
	// Replacements is the number of times sysmon has hot-replaced a
	// Machine bound to a blocked Processor.
	Replacements uint64
	// QueueDepth is the total number of tasks currently sitting in every
	// Processor's injector plus every live Machine's local worker.
	QueueDepth int
}

func (s *execStats) snapshot() Stats {
	return Stats{
		Pushed:        s.pushed.Load(),
		LocalRuns:     s.localRuns.Load(),
		InheritSteals: s.inheritSteals.Load(),
		GlobalPolls:   s.globalPolls.Load(),
		RemoteSteals:  s.remoteSteals.Load(),
		Replacements:  s.replacements.Load(),
	}
}
