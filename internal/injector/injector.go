// Package injector implements the unbounded multi-producer/multi-consumer
// FIFO queue backing each Processor's global injection queue: a
// mutex-guarded slice presenting the same Empty/Success/Retry result shape
// the deque package uses, so callers (Executor.pop, Executor.steal) treat
// both sources uniformly.
package injector

import (
	"sync"

	"github.com/across-travel/lelet/internal/deque"
	"github.com/across-travel/lelet/internal/steal"
)

// Injector is an unbounded MPMC FIFO queue.
type Injector[T any] struct {
	mu    sync.Mutex
	items []T
}

// New creates an empty injector.
func New[T any]() *Injector[T] {
	return &Injector[T]{}
}

// Push enqueues a task. Safe for concurrent use by any number of
// producers.
func (q *Injector[T]) Push(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
}

// Len reports the current queue length.
func (q *Injector[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// StealBatchAndPop drains roughly half of the queue into dest and returns
// one task for the caller, matching the worker deque's steal shape. A
// mutex-guarded slice never legitimately returns Retry (there is no lost
// CAS race to recover from), but the Retry arm is kept in the result type
// so callers share one retry-until-terminal loop (internal/steal.Until)
// across both queue kinds.
func (q *Injector[T]) StealBatchAndPop(dest *deque.Worker[T]) steal.Result[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	if n == 0 {
		return steal.Result[T]{Code: steal.Empty}
	}
	take := n/2 + 1
	if take > n {
		take = n
	}
	first := q.items[0]
	for i := 1; i < take; i++ {
		dest.Push(q.items[i])
	}
	q.items = q.items[take:]
	return steal.Result[T]{Code: steal.Success, Item: first}
}
