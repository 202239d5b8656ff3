package lelet

import (
	"sync/atomic"

	"github.com/across-travel/lelet/internal/backoff"
	"github.com/across-travel/lelet/internal/injector"
)

// processor is a logical execution context. Its index in
// Executor.processors is stable for the process's lifetime and it is
// never destroyed -- that falls out naturally from the executor owning
// the slice by value for as long as the process runs.
type processor struct {
	id uint64

	// machineID is the id of the Machine currently bound to this
	// Processor; invalidMachineID before the first bind.
	machineID atomic.Uint64

	// lastSeen is the heartbeat: a millisecond timestamp written once per
	// Machine main-loop iteration. Relaxed/hint semantics only -- never
	// read for anything but staleness comparisons.
	lastSeen atomic.Uint64

	// sleeping is true while the bound Machine is inside sleep() (its
	// spin phase and its blocking receive), and from construction until
	// the first Machine starts running. While true, lastSeen is not
	// updated and the sysmon must not consider the Processor blocked.
	sleeping atomic.Bool

	injector *injector.Injector[Task]

	// wake is the single-slot wake channel: non-blocking send, blocking
	// or non-blocking receive, chosen specifically so a flood of pushes
	// coalesces into one notification.
	wake chan struct{}
}

const invalidMachineID = ^uint64(0)

func newProcessor(id uint64) *processor {
	p := &processor{
		id:       id,
		injector: injector.New[Task](),
		wake:     make(chan struct{}, 1),
	}
	p.machineID.Store(invalidMachineID)
	p.sleeping.Store(true)
	return p
}

func (p *processor) tick() {
	p.lastSeen.Store(nowMS())
}

func (p *processor) isSleeping() bool { return p.sleeping.Load() }

func (p *processor) setSleeping(v bool) { p.sleeping.Store(v) }

func (p *processor) getLastSeen() uint64 { return p.lastSeen.Load() }

// push enqueues a task into this Processor's injector and sends a
// non-blocking wake notification; a send to an already-full channel is
// silently dropped because the preceding notification has not yet been
// consumed, giving idempotent-wake semantics.
func (p *processor) push(t Task) {
	p.injector.Push(t)
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// sleep parks the Processor until woken by push or a direct notify, via a
// bounded adaptive spin followed by a blocking receive. sleeping is set
// before the first try-receive and cleared on every exit path (including
// a panic unwind, via defer) so a concurrent push after sleeping=true is
// guaranteed to be observed either by the spin loop or by the blocking
// receive that follows it.
func (p *processor) sleep() {
	p.setSleeping(true)
	defer p.setSleeping(false)

	b := backoff.New()
	for {
		select {
		case <-p.wake:
			return
		default:
		}
		if b.IsCompleted() {
			logger.WithField("processor", p.id).Trace("processor entering sleep")
			<-p.wake
			logger.WithField("processor", p.id).Trace("processor leaving sleep")
			return
		}
		b.Spin()
	}
}
