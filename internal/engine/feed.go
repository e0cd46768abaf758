package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Subscriber creates message bus subscriptions.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Sink consumes decoded engine events on the simulation goroutine.
type Sink interface {
	HandleEvent(Event)
}

// Runner schedules work onto the simulation goroutine.
type Runner interface {
	Do(fn func())
}

// Feed subscribes to the engine event subject and funnels decoded events
// onto the simulation goroutine. It runs as a service worker.
type Feed struct {
	sub  Subscriber
	sink Sink
	run  Runner
}

func NewFeed(sub Subscriber, sink Sink, run Runner) *Feed {
	return &Feed{
		sub:  sub,
		sink: sink,
		run:  run,
	}
}

func (f *Feed) Start(ctx context.Context) error {
	// The bus worker starts concurrently; retry until it accepts
	// subscriptions.
	var unsub func()
	for {
		var err error
		unsub, err = f.sub.Subscribe(EventSubject, f.handle)
		if err == nil {
			break
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(100 * time.Millisecond):
		}
	}
	defer unsub()

	slog.InfoContext(ctx, "engine event feed started", "subject", EventSubject)

	<-ctx.Done()
	return nil
}

func (f *Feed) handle(data []byte) {
	// Player 0 is a real id, so an absent killer must not decode to it.
	ev := Event{Killer: NoPlayer}
	if err := json.Unmarshal(data, &ev); err != nil {
		slog.Warn("dropping malformed engine event", "error", err)
		return
	}

	f.run.Do(func() {
		f.sink.HandleEvent(ev)
	})
}
