// Package sched implements the vui update scheduler.
//
// A Scheduler runs zero-argument tasks either immediately or, while a batching
// window is open, defers them into a pending set that is flushed once when the
// outermost window closes:
//
//	s.Batch(func() {
//	    setA(1)
//	    setB(2)
//	}) // the owning component re-renders once
//
// Pending tasks are deduplicated by task identity only: scheduling the same
// *Task twice in one window runs it once, while two distinct tasks that do the
// same logical work both run. Tasks run in insertion order. A panicking task
// is recovered and logged; it never prevents sibling tasks from running and
// never propagates to the caller.
//
// A Scheduler is not safe for concurrent use. All scheduling must happen on
// the goroutine that owns the runtime.
package sched
