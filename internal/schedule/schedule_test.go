package schedule

import (
	"testing"
	"time"

	"github.com/mj1618/arena-access/internal/clock"
	"github.com/mj1618/arena-access/internal/model"
)

func newQueue() (*Queue, *clock.FakeClock) {
	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return New(c), c
}

func TestQueue_RunsOnlyWhenDue(t *testing.T) {
	q, c := newQueue()
	scene := model.NewScene("Duel")
	runs := 0
	task := q.After("recount", 200*time.Millisecond, func(s *model.Scene) {
		if s != scene {
			t.Error("task received the wrong scene")
		}
		runs++
	})

	if n := q.Run(scene); n != 0 || runs != 0 {
		t.Fatalf("task ran early: n=%d runs=%d", n, runs)
	}
	c.Advance(199 * time.Millisecond)
	q.Run(scene)
	if runs != 0 {
		t.Fatal("task ran before its delay elapsed")
	}
	c.Advance(time.Millisecond)
	if n := q.Run(scene); n != 1 || runs != 1 {
		t.Fatalf("expected one run, got n=%d runs=%d", n, runs)
	}
	if task.Pending() {
		t.Error("finished task still pending")
	}
	q.Run(scene)
	if runs != 1 {
		t.Error("one-shot task ran twice")
	}
}

func TestQueue_Cancel(t *testing.T) {
	q, c := newQueue()
	ran := false
	task := q.After("recount", 10*time.Millisecond, func(*model.Scene) { ran = true })
	task.Cancel()
	c.Advance(time.Second)
	q.Run(nil)
	if ran {
		t.Error("cancelled task ran")
	}
	if len(q.Pending()) != 0 {
		t.Errorf("pending = %v, want none", q.Pending())
	}

	var nilTask *Task
	nilTask.Cancel()
}

func TestQueue_OrderAndReentrancy(t *testing.T) {
	q, c := newQueue()
	var order []string
	q.After("b", 20*time.Millisecond, func(*model.Scene) { order = append(order, "b") })
	q.After("a", 10*time.Millisecond, func(*model.Scene) {
		order = append(order, "a")
		q.After("c", 0, func(*model.Scene) { order = append(order, "c") })
	})

	c.Advance(50 * time.Millisecond)
	q.Run(nil)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("order = %v, want [a b]", order)
	}
	q.Run(nil)
	if len(order) != 3 || order[2] != "c" {
		t.Errorf("task scheduled during Run should run next frame, got %v", order)
	}
}

func TestQueue_Clear(t *testing.T) {
	q, c := newQueue()
	task := q.After("x", 0, func(*model.Scene) { t.Error("cleared task ran") })
	q.Clear()
	c.Advance(time.Second)
	q.Run(nil)
	if task.Pending() {
		t.Error("cleared task still pending")
	}
}
