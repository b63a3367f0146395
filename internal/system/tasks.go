package system

import (
	"sort"
	"time"

	coresys "github.com/zombierush/sim/internal/core/system"
)

type deferredTask struct {
	due   time.Time
	seq   uint64
	alive func() bool
	run   func(now time.Time)
}

// TaskQueue holds one-shot tasks that fire once the clock reaches their due
// time. A task whose liveness check fails at that point is dropped silently.
// Phase 4 (Deferred).
type TaskQueue struct {
	tasks []deferredTask
	seq   uint64
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{}
}

func (q *TaskQueue) Phase() coresys.Phase { return coresys.PhaseDeferred }

func (q *TaskQueue) Update(f coresys.Frame) {
	q.RunDue(f.Now)
}

// Schedule queues run for due. alive may be nil.
func (q *TaskQueue) Schedule(due time.Time, alive func() bool, run func(now time.Time)) {
	q.seq++
	q.tasks = append(q.tasks, deferredTask{due: due, seq: q.seq, alive: alive, run: run})
}

// RunDue runs every task due at or before now, earliest first, and returns
// how many actually ran. Tasks queued while running wait for the next call.
func (q *TaskQueue) RunDue(now time.Time) int {
	var due, rest []deferredTask
	for _, t := range q.tasks {
		if t.due.After(now) {
			rest = append(rest, t)
		} else {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return 0
	}
	q.tasks = rest
	sort.Slice(due, func(i, j int) bool {
		if !due[i].due.Equal(due[j].due) {
			return due[i].due.Before(due[j].due)
		}
		return due[i].seq < due[j].seq
	})

	ran := 0
	for _, t := range due {
		if t.alive != nil && !t.alive() {
			continue
		}
		t.run(now)
		ran++
	}
	return ran
}

// Len returns the number of pending tasks.
func (q *TaskQueue) Len() int { return len(q.tasks) }

// Clear drops every pending task.
func (q *TaskQueue) Clear() { q.tasks = nil }
