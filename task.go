package lelet

import "sync/atomic"

// InvalidIndex is the schedule-hint sentinel meaning "no preferred
// processor". A hint is validated with `>=` against the processor count,
// so any unsigned value that isn't a real processor index -- including,
// but not limited to, this sentinel -- is treated as "none".
const InvalidIndex = ^uint64(0)

var taskIDCounter atomic.Uint64

// Task is the opaque, externally-owned unit of work the executor
// schedules. Tasks are lazy computations that run to their next
// suspension point or completion each time Run is called; how a Task
// captures and resumes its own suspended state is outside this package's
// concern.
type Task interface {
	// Run executes the task until its next suspension point or
	// completion. It must not be called concurrently for the same Task,
	// and the executor guarantees it never is.
	Run()

	// Tag returns the task's scheduling metadata.
	Tag() *TaskTag
}

// TaskTag carries the scheduling metadata the executor needs: a stable
// identity and a mutable affinity hint. Embed TaskTag in a concrete Task
// implementation and initialize it with NewTaskTag.
type TaskTag struct {
	id           uint64
	scheduleHint atomic.Uint64
}

// NewTaskTag allocates a TaskTag with a fresh, monotonically increasing
// id and no schedule hint.
func NewTaskTag() *TaskTag {
	t := &TaskTag{id: taskIDCounter.Add(1) - 1}
	t.scheduleHint.Store(InvalidIndex)
	return t
}

// NewTaskTagWithHint allocates a TaskTag pinned to processor index p for
// its first scheduling. This is the explicit-affinity constructor a caller
// uses to route a task to a specific processor instead of round-robin.
func NewTaskTagWithHint(p uint64) *TaskTag {
	t := &TaskTag{id: taskIDCounter.Add(1) - 1}
	t.scheduleHint.Store(p)
	return t
}

// ID returns the task's unique, monotonically increasing identity.
func (t *TaskTag) ID() uint64 { return t.id }

// ScheduleHint returns the processor index this task last ran on; before
// its first run, the hint it was created with (InvalidIndex for
// NewTaskTag, p for NewTaskTagWithHint). Updated by the
// executor just before each run, giving tasks sticky processor affinity.
func (t *TaskTag) ScheduleHint() uint64 { return t.scheduleHint.Load() }

func (t *TaskTag) setScheduleHint(p uint64) { t.scheduleHint.Store(p) }
