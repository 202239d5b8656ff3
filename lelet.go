package lelet

import "sync"

var (
	defaultOnce sync.Once
	defaultExec *Executor
)

// Default returns the process-wide Executor, constructing it with default
// options on first use.
func Default() *Executor {
	defaultOnce.Do(func() {
		defaultExec = NewExecutor()
	})
	return defaultExec
}

// Spawn schedules t on the default Executor. A tag from NewTaskTag carries
// InvalidIndex as its schedule hint, so the first push round-robins; any
// hint that is not a valid processor index is treated the same way.
func Spawn(t Task) {
	Default().Spawn(t)
}
