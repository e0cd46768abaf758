package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Subscriber creates subscriptions on the bus.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Sink receives mode events on the simulation goroutine. Controllers ignore
// events whose mode tag is not their own.
type Sink interface {
	OnModeEvent(ModeEvent)
}

// Runner schedules work onto the simulation goroutine.
type Runner interface {
	Do(fn func())
}

// FanOut subscribes to the mode event subject once and dispatches each
// event to every registered sink. It runs as a service worker.
type FanOut struct {
	sub   Subscriber
	run   Runner
	sinks []Sink
}

func NewFanOut(sub Subscriber, run Runner, sinks []Sink) *FanOut {
	return &FanOut{
		sub:   sub,
		run:   run,
		sinks: sinks,
	}
}

func (f *FanOut) Start(ctx context.Context) error {
	var unsub func()
	for {
		var err error
		unsub, err = f.sub.Subscribe(ModeEventSubject, f.handle)
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

	slog.InfoContext(ctx, "mode event fan-out started", "sinks", len(f.sinks))

	<-ctx.Done()
	return nil
}

func (f *FanOut) handle(data []byte) {
	var ev ModeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		slog.Warn("dropping malformed mode event", "error", err)
		return
	}

	f.run.Do(func() {
		for _, s := range f.sinks {
			s.OnModeEvent(ev)
		}
	})
}
