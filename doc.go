// Package lelet implements a work-stealing M:N task executor: a small,
// fixed number of logical Processors multiplex a large number of
// cooperatively-suspending Tasks onto Machines (OS-thread-driven run
// loops), with a background system monitor that hot-replaces a Machine
// whose Processor has stopped heartbeating because a Task is blocking it.
//
// It is a direct port of the scheduling core of across-travel/lelet
// (itself modeled on the Go runtime's own G/M/P scheduler), reworked onto
// Go's own concurrency primitives: goroutines stand in for OS threads,
// channels stand in for the wake notification, and the task abstraction
// is a plain interface rather than an async/await future.
package lelet
