package lelet

import (
	"time"

	"github.com/sirupsen/logrus"
)

// sysmonMain is the system monitor loop: after an initial delay to let
// machines start, it wakes every BlockingThreshold/2 and hot-replaces the
// Machine bound to any Processor whose heartbeat has gone stale while it
// wasn't sleeping.
//
// Like every Machine's main loop, this runs inside abortOnPanic: a panic
// here must abort the process rather than silently stranding every
// Processor's blocking detection.
func (e *Executor) sysmonMain() {
	select {
	case <-time.After(e.cfg.blockingThreshold):
	case <-e.closeCh:
		return
	}

	ticker := time.NewTicker(e.cfg.blockingThreshold / 2)
	defer ticker.Stop()

	for {
		select {
		case <-e.closeCh:
			return
		case <-ticker.C:
		}

		mustSeenAt := nowMS() - uint64(e.cfg.blockingThreshold.Milliseconds())

		for _, p := range e.processors {
			if p.isSleeping() || p.getLastSeen() >= mustSeenAt {
				continue
			}
			e.replace(p)
		}
	}
}

// replace constructs a new Machine bound to p, inheriting the stealer of
// the Machine currently bound to it, and atomically swaps it into the
// machines slot. The old Machine's driver goroutine notices the takeover
// the next time it finishes running a task and checks p.machineID against
// its own id (machine.runTask).
func (e *Executor) replace(p *processor) {
	current := e.machines[p.id].Load()

	newID := e.machineIDCounter.Add(1) - 1
	m := newMachine(newID, current.stealer)

	// Storing the new id into the processor's machineID is what causes
	// the old machine's next post-task check to observe the take-over.
	p.machineID.Store(newID)

	e.machines[p.id].Store(m)

	logger.WithFields(logrus.Fields{
		"processor": p.id,
		"old":       current.id,
		"new":       newID,
	}).Warn("processor not responding, replacing machine")
	e.stats.replacements.Add(1)

	e.wg.Add(1)
	spawnThread(func() {
		defer e.wg.Done()
		m.run(e, p)
	})
}
