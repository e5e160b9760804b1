// Package schedule runs one-shot deferred actions on the frame loop.
//
// Nothing here spawns goroutines: the owner calls Run once per frame and due
// tasks execute synchronously, in due order, against that frame's scene.
package schedule

import (
	"sort"
	"time"

	"github.com/mj1618/arena-access/internal/clock"
	"github.com/mj1618/arena-access/internal/model"
)

// Func is a deferred action. It receives the scene of the frame it runs on.
type Func func(scene *model.Scene)

// Task is a handle to a scheduled action.
type Task struct {
	name      string
	due       time.Time
	seq       uint64
	fn        Func
	cancelled bool
	done      bool
}

// Name returns the label given at scheduling time.
func (t *Task) Name() string { return t.name }

// Cancel prevents the task from running. Cancelling a finished or nil task is a no-op.
func (t *Task) Cancel() {
	if t != nil {
		t.cancelled = true
	}
}

// Pending reports whether the task will still run.
func (t *Task) Pending() bool {
	return t != nil && !t.cancelled && !t.done
}

// Queue holds deferred tasks.
type Queue struct {
	clock clock.Clock
	tasks []*Task
	seq   uint64
}

// New returns an empty queue driven by c.
func New(c clock.Clock) *Queue {
	return &Queue{clock: c}
}

// After schedules fn to run on the first frame at or after now+d.
func (q *Queue) After(name string, d time.Duration, fn Func) *Task {
	q.seq++
	t := &Task{name: name, due: q.clock.Now().Add(d), seq: q.seq, fn: fn}
	q.tasks = append(q.tasks, t)
	return t
}

// Run executes every due task and drops finished or cancelled ones. Tasks
// scheduled while running wait for a later frame.
func (q *Queue) Run(scene *model.Scene) int {
	if len(q.tasks) == 0 {
		return 0
	}
	now := q.clock.Now()

	var due, keep []*Task
	for _, t := range q.tasks {
		switch {
		case t.cancelled:
		case !t.due.After(now):
			due = append(due, t)
		default:
			keep = append(keep, t)
		}
	}
	q.tasks = keep

	sort.Slice(due, func(i, j int) bool {
		if !due[i].due.Equal(due[j].due) {
			return due[i].due.Before(due[j].due)
		}
		return due[i].seq < due[j].seq
	})

	ran := 0
	for _, t := range due {
		// A task earlier in this batch may cancel a later one.
		if t.cancelled {
			continue
		}
		t.done = true
		t.fn(scene)
		ran++
	}
	return ran
}

// Pending returns the names of tasks still waiting to run.
func (q *Queue) Pending() []string {
	var names []string
	for _, t := range q.tasks {
		if t.Pending() {
			names = append(names, t.name)
		}
	}
	return names
}

// Clear cancels everything.
func (q *Queue) Clear() {
	for _, t := range q.tasks {
		t.cancelled = true
	}
	q.tasks = nil
}
