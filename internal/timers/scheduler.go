package timers

import (
	"context"
	"sort"
	"time"
)

// Scheduler runs single-shot and repeating callbacks on the simulation
// goroutine. Callbacks only ever fire from Tick (or an explicit Trigger),
// never concurrently with each other or with event handlers.
type Scheduler struct {
	now    func() time.Time
	timers map[int]*Timer
	seq    int
}

type SchedulerOpt func(*Scheduler)

// WithClock replaces the wall clock, used by tests to control firing.
func WithClock(now func() time.Time) SchedulerOpt {
	return func(s *Scheduler) {
		s.now = now
	}
}

func NewScheduler(opts ...SchedulerOpt) *Scheduler {
	s := &Scheduler{
		now:    time.Now,
		timers: map[int]*Timer{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Schedule registers fn to run after delay. A repeating timer reschedules
// itself every delay until killed.
func (s *Scheduler) Schedule(delay time.Duration, repeating bool, fn func()) *Timer {
	t := &Timer{
		sched:     s,
		id:        s.seq,
		fireAt:    s.now().Add(delay),
		interval:  delay,
		repeating: repeating,
		fn:        fn,
	}
	s.seq++
	s.timers[t.id] = t
	return t
}

// Tick fires every due timer. A callback may kill or schedule other timers;
// timers killed by an earlier callback in the same tick do not fire.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := s.now()

	var due []*Timer
	for _, t := range s.timers {
		if !t.fireAt.After(now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].fireAt.Equal(due[j].fireAt) {
			return due[i].id < due[j].id
		}
		return due[i].fireAt.Before(due[j].fireAt)
	})

	for _, t := range due {
		if t.dead {
			continue
		}
		if t.repeating {
			t.fireAt = now.Add(t.interval)
		} else {
			t.kill()
		}
		t.fn()
	}

	return nil
}

// Pending returns the number of live timers.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

// Timer is a handle to a scheduled callback.
type Timer struct {
	sched     *Scheduler
	id        int
	fireAt    time.Time
	interval  time.Duration
	repeating bool
	fn        func()
	dead      bool
}

// Kill cancels the timer. Killing a fired or already killed timer is a no-op.
func (t *Timer) Kill() {
	t.kill()
}

func (t *Timer) kill() {
	if t.dead {
		return
	}
	t.dead = true
	delete(t.sched.timers, t.id)
}

// Trigger runs the callback immediately. A single-shot timer is consumed;
// a repeating timer restarts its interval. Triggering a dead timer is a no-op.
func (t *Timer) Trigger() {
	if t.dead {
		return
	}
	if t.repeating {
		t.fireAt = t.sched.now().Add(t.interval)
	} else {
		t.kill()
	}
	t.fn()
}
