// Package driver owns the single simulation goroutine. All game state is
// mutated either from a tick or from a task submitted with Do, so the rest
// of the process never needs locks around mode state.
package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Millisecond * 250
	taskBacklog       = 1024
)

type Ticker interface {
	Tick(context.Context) error
}

type Driver struct {
	tickLength time.Duration
	tickers    []Ticker
	tasks      chan func()
}

func NewDriver(tickers []Ticker, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		tickers:    tickers,
		tasks:      make(chan func(), taskBacklog),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Do schedules fn onto the simulation goroutine. It is safe to call from any
// goroutine; fn runs between ticks. When the backlog is full the task is
// dropped rather than blocking the caller.
func (d *Driver) Do(fn func()) {
	select {
	case d.tasks <- fn:
	default:
		slog.Warn("driver task backlog full, dropping task")
	}
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-d.tasks:
			fn()
		case <-ticker.C:
			if err := d.Tick(ctx); err != nil {
				return err
			}
		}
	}
}

func (d *Driver) Tick(ctx context.Context) error {
	for _, t := range d.tickers {
		if err := t.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
