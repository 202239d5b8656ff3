package lelet

import (
	"github.com/sirupsen/logrus"

	"github.com/across-travel/lelet/internal/deque"
	"github.com/across-travel/lelet/internal/steal"
)

// machine is a single OS-thread-equivalent (goroutine) driver bound to one
// processor. It owns a local FIFO worker deque and exposes a Stealer
// handle onto it so other machines can steal from it; when the sysmon
// hot-replaces it, the replacement inherits this stealer to recover
// whatever work was still queued locally.
type machine struct {
	id uint64

	worker  *deque.Worker[Task]
	stealer deque.Stealer[Task]

	// inherit is the predecessor machine's stealer, bulk-stolen from once
	// at startup and consulted again on every main-loop iteration that
	// finds the local worker empty.
	inherit deque.Stealer[Task]
}

func newMachine(id uint64, inherit deque.Stealer[Task]) *machine {
	w := deque.NewWorker[Task]()
	return &machine{
		id:      id,
		worker:  w,
		stealer: w.Stealer(),
		inherit: inherit,
	}
}

// run is the Machine main loop. It returns when the sysmon has replaced
// this machine (observed via the processor's machineID no longer matching
// self.id) or when the executor is shutting down.
func (m *machine) run(e *Executor, p *processor) {
	logger.WithFields(logrus.Fields{"processor": p.id, "machine": m.id}).
		Trace("machine now running on processor")

	p.tick()
	p.setSleeping(false)

	var runCounter uint64

	// One-shot bulk steal from the predecessor machine's stealer, to
	// recover its in-flight local work immediately.
	m.inherit.StealBatch(m.worker)

	for {
		if e.isClosing() {
			return
		}
		p.tick()

		// Global poll throttle: a hot local queue must not starve
		// recently injected work.
		if runCounter > e.cfg.maxRuns {
			runCounter = 0
			if !m.pollGlobal(e, p, &runCounter) {
				return
			}
			continue
		}

		if t, ok := m.worker.Pop(); ok {
			e.stats.localRuns.Add(1)
			if !m.runTask(e, p, t, &runCounter) {
				return
			}
			continue
		}

		// worker is now empty.

		if r := m.inherit.StealBatchAndPop(m.worker); r.Code == steal.Success {
			e.stats.inheritSteals.Add(1)
			if !m.runTask(e, p, r.Item, &runCounter) {
				return
			}
			continue
		}

		ran, stop := m.tryPollGlobal(e, p, &runCounter)
		if stop {
			return
		}
		if ran {
			continue
		}

		if t, ok := e.steal(m.worker); ok {
			e.stats.remoteSteals.Add(1)
			if !m.runTask(e, p, t, &runCounter) {
				return
			}
			continue
		}

		if e.sleepProcessor(p) {
			return // executor shutting down
		}
		if _, stop := m.tryPollGlobal(e, p, &runCounter); stop {
			return
		}
	}
}

// pollGlobal is the throttle-forced global poll: it runs the obtained
// task (if any) inline, returning false if the machine must exit.
func (m *machine) pollGlobal(e *Executor, p *processor, runCounter *uint64) bool {
	if t, ok := e.pop(p.id, m.worker); ok {
		e.stats.globalPolls.Add(1)
		return m.runTask(e, p, t, runCounter)
	}
	return true
}

// tryPollGlobal polls the global queue, resetting runCounter regardless of
// outcome. It reports whether a task was run, and whether the machine must
// exit.
func (m *machine) tryPollGlobal(e *Executor, p *processor, runCounter *uint64) (ran, stop bool) {
	*runCounter = 0
	t, ok := e.pop(p.id, m.worker)
	if !ok {
		return false, false
	}
	e.stats.globalPolls.Add(1)
	return true, !m.runTask(e, p, t, runCounter)
}

// runTask executes one task to its next suspension point, stamping its
// schedule hint with this processor's id first. It returns false if, after
// the task returned control, this machine discovers it has been replaced
// and must exit.
func (m *machine) runTask(e *Executor, p *processor, t Task, runCounter *uint64) bool {
	t.Tag().setScheduleHint(p.id)
	t.Run()

	if p.machineID.Load() != m.id {
		logger.WithFields(logrus.Fields{"processor": p.id, "machine": m.id}).
			Trace("machine no longer holding processor, exiting")
		return false
	}
	*runCounter++
	return true
}
