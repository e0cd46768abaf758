package timers

import (
	"context"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestScheduler() (*Scheduler, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	return NewScheduler(WithClock(clock.now)), clock
}

func TestSingleShot(t *testing.T) {
	s, clock := newTestScheduler()

	fired := 0
	s.Schedule(time.Second, false, func() { fired++ })

	s.Tick(context.Background())
	testutil.AssertEqual(t, "fired before delay", fired, 0)

	clock.advance(time.Second)
	s.Tick(context.Background())
	testutil.AssertEqual(t, "fired after delay", fired, 1)
	testutil.AssertEqual(t, "pending", s.Pending(), 0)

	// Consumed timer never fires again.
	clock.advance(time.Hour)
	s.Tick(context.Background())
	testutil.AssertEqual(t, "fired again", fired, 1)
}

func TestRepeating(t *testing.T) {
	s, clock := newTestScheduler()

	fired := 0
	timer := s.Schedule(time.Second, true, func() { fired++ })

	for i := 0; i < 3; i++ {
		clock.advance(time.Second)
		s.Tick(context.Background())
	}
	testutil.AssertEqual(t, "fired", fired, 3)
	testutil.AssertEqual(t, "pending", s.Pending(), 1)

	timer.Kill()
	clock.advance(time.Second)
	s.Tick(context.Background())
	testutil.AssertEqual(t, "fired after kill", fired, 3)
	testutil.AssertEqual(t, "pending after kill", s.Pending(), 0)
}

func TestKillIdempotent(t *testing.T) {
	s, _ := newTestScheduler()

	timer := s.Schedule(time.Second, false, func() {})
	timer.Kill()
	timer.Kill()
	testutil.AssertEqual(t, "pending", s.Pending(), 0)
}

func TestTrigger(t *testing.T) {
	s, clock := newTestScheduler()

	fired := 0
	timer := s.Schedule(time.Minute, false, func() { fired++ })

	timer.Trigger()
	testutil.AssertEqual(t, "fired", fired, 1)
	testutil.AssertEqual(t, "pending", s.Pending(), 0)

	// Trigger after consumption is a no-op.
	timer.Trigger()
	testutil.AssertEqual(t, "fired twice", fired, 1)

	clock.advance(time.Hour)
	s.Tick(context.Background())
	testutil.AssertEqual(t, "fired from tick", fired, 1)
}

func TestTriggerRepeatingRestartsInterval(t *testing.T) {
	s, clock := newTestScheduler()

	fired := 0
	s.Schedule(2*time.Second, true, func() { fired++ }).Trigger()
	testutil.AssertEqual(t, "fired", fired, 1)

	clock.advance(time.Second)
	s.Tick(context.Background())
	testutil.AssertEqual(t, "fired early", fired, 1)

	clock.advance(time.Second)
	s.Tick(context.Background())
	testutil.AssertEqual(t, "fired on restarted interval", fired, 2)
}

// A callback killing another due timer in the same tick prevents it firing.
func TestKillDuringTick(t *testing.T) {
	s, clock := newTestScheduler()

	var second *Timer
	secondFired := false
	s.Schedule(time.Second, false, func() { second.Kill() })
	second = s.Schedule(2*time.Second, false, func() { secondFired = true })

	clock.advance(2 * time.Second)
	s.Tick(context.Background())
	testutil.AssertEqual(t, "second fired", secondFired, false)
	testutil.AssertEqual(t, "pending", s.Pending(), 0)
}

// A callback may schedule new timers without them firing in the same tick.
func TestScheduleDuringTick(t *testing.T) {
	s, clock := newTestScheduler()

	chained := false
	s.Schedule(time.Second, false, func() {
		s.Schedule(0, false, func() { chained = true })
	})

	clock.advance(time.Second)
	s.Tick(context.Background())
	testutil.AssertEqual(t, "chained fired same tick", chained, false)

	s.Tick(context.Background())
	testutil.AssertEqual(t, "chained fired next tick", chained, true)
}
