package lelet

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/across-travel/lelet/internal/deque"
	"github.com/across-travel/lelet/internal/steal"
)

// Executor is the process-wide scheduler singleton. It owns the
// fixed-length processors vector and a same-length machines vector whose
// slots are hot-swapped, in place, by the sysmon.
type Executor struct {
	cfg config

	processors []*processor

	// machines[i] is an atomically-swappable reference to the Machine
	// currently bound to processors[i].
	machines []atomic.Pointer[machine]

	pushHint  atomic.Uint64
	stealHint atomic.Uint64

	stats execStats

	machineIDCounter atomic.Uint64

	closing atomic.Bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewExecutor constructs and starts an Executor: one Processor and one
// Machine per logical CPU by default (overridable via WithProcessors),
// plus a dedicated sysmon goroutine. The returned Executor is immediately
// live; there is no separate Start call.
func NewExecutor(opts ...Option) *Executor {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Executor{
		cfg:        cfg,
		processors: make([]*processor, cfg.numProcessors),
		machines:   make([]atomic.Pointer[machine], cfg.numProcessors),
		closeCh:    make(chan struct{}),
	}

	emptyWorker := deque.NewWorker[Task]()

	for i := 0; i < cfg.numProcessors; i++ {
		p := newProcessor(uint64(i))
		e.processors[i] = p
		m := e.newMachineFor(p, emptyWorker.Stealer())
		e.machines[i].Store(m)
	}

	e.wg.Add(1)
	go abortOnPanic(func() {
		defer e.wg.Done()
		e.sysmonMain()
	})

	return e
}

// newMachineFor allocates a Machine, binds it to p by storing its id into
// p.machineID, and spawns its driver goroutine.
func (e *Executor) newMachineFor(p *processor, inherit deque.Stealer[Task]) *machine {
	id := e.machineIDCounter.Add(1) - 1
	m := newMachine(id, inherit)
	p.machineID.Store(id)

	e.wg.Add(1)
	spawnThread(func() {
		defer e.wg.Done()
		m.run(e, p)
	})

	return m
}

// Spawn hands t to the executor for scheduling. t.Tag() must have been
// initialized via NewTaskTag or NewTaskTagWithHint.
func (e *Executor) Spawn(t Task) {
	e.push(t)
}

// push routes t by its schedule hint if valid, else round-robins via
// pushHint, then enqueues it onto the chosen Processor and wakes it.
func (e *Executor) push(t Task) {
	e.stats.pushed.Add(1)

	n := uint64(len(e.processors))
	index := t.Tag().ScheduleHint()
	if index >= n {
		index = e.pushHint.Load()
		e.pushHint.Store((index + 1) % n)
	}
	e.processors[index].push(t)
}

// pop drains processors[i]'s own injector first, then rotates through the
// rest, retrying a single injector on contention rather than ever
// advancing past it on retry.
func (e *Executor) pop(i uint64, dest *deque.Worker[Task]) (Task, bool) {
	n := uint64(len(e.processors))
	for off := uint64(0); off < n; off++ {
		idx := (i + off) % n
		inj := e.processors[idx].injector
		t, ok := steal.Until(func() steal.Result[Task] { return inj.StealBatchAndPop(dest) })
		if ok {
			return t, true
		}
	}
	var zero Task
	return zero, false
}

// steal starts at the steal hint and traverses the machines vector,
// absorbing per-machine retries, returning the first success and
// advancing the hint just past the donor.
func (e *Executor) steal(dest *deque.Worker[Task]) (Task, bool) {
	n := uint64(len(e.machines))
	start := e.stealHint.Load()
	for off := uint64(1); off <= n; off++ {
		idx := (start + off - 1) % n
		donor := e.machines[idx].Load()
		if donor == nil {
			continue
		}
		stealer := donor.stealer
		t, ok := steal.Until(func() steal.Result[Task] { return stealer.StealBatchAndPop(dest) })
		if ok {
			e.stealHint.Store((idx + 1) % n)
			return t, true
		}
	}
	var zero Task
	return zero, false
}

// sleepProcessor parks p until woken, then reports whether the executor is
// shutting down (in which case the caller's Machine main loop must exit).
func (e *Executor) sleepProcessor(p *processor) bool {
	p.sleep()
	return e.closing.Load()
}

func (e *Executor) isClosing() bool { return e.closing.Load() }

// Stats returns a point-in-time snapshot of the executor's scheduling
// counters, including the current total queue depth across every
// Processor's injector and every live Machine's local worker.
func (e *Executor) Stats() Stats {
	s := e.stats.snapshot()
	for _, p := range e.processors {
		s.QueueDepth += p.injector.Len()
	}
	for i := range e.machines {
		if m := e.machines[i].Load(); m != nil {
			s.QueueDepth += m.worker.Len()
		}
	}
	return s
}

// NumProcessors returns the fixed number of logical Processors this
// Executor was constructed with.
func (e *Executor) NumProcessors() int { return len(e.processors) }

// Shutdown signals every Machine and the sysmon to stop, wakes any
// sleeping Processor so the signal is observed promptly, and waits for
// their goroutines to return or ctx to be done, whichever comes first.
// It does not cancel in-flight tasks: a task already running completes
// normally.
func (e *Executor) Shutdown(ctx context.Context) error {
	if e.closing.CompareAndSwap(false, true) {
		close(e.closeCh)
	}
	for _, p := range e.processors {
		select {
		case p.wake <- struct{}{}:
		default:
		}
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
