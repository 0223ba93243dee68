// Package scheduler is the Periodic Scheduler: a pulse generator that
// delivers tagged notifications to the Analyzer at five independent
// cadences, with no catch-up for ticks missed under overload. Each
// cadence is backed by its own time.Ticker — a ticker already drops
// ticks its channel hasn't drained in time, which is exactly the
// dropped-not-accumulated behavior a missed tick should have, and is
// why this implementation prefers stdlib tickers merged with
// channerics over a hand-rolled accumulator.
package scheduler

import (
	"context"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
)

// Cadence names one of the Analyzer's independent periodic tasks.
type Cadence struct {
	Tag    string
	Period time.Duration
}

// The five independent periodic cadences.
const (
	TagViolationCheck = "violation"
	TagOperatorPoll   = "operator"
	TagConsoleGrid    = "grid"
	TagFileLog        = "filelog"
	TagAirspaceLog    = "airspacelog"
)

// Pulse is one tick of one cadence.
type Pulse struct {
	Tag string
	At  time.Time
}

// Scheduler merges a set of independent tickers into a single pulse
// stream. Delivery order among cadences that fire at the same instant
// is unspecified: channerics.Merge interleaves ready sends in whatever
// order the runtime's select scheduling picks.
type Scheduler struct {
	cadences []Cadence
}

func New(cadences ...Cadence) *Scheduler {
	return &Scheduler{cadences: cadences}
}

// Default returns the five named cadences.
func Default(violation, operatorPoll, grid, fileLog, airspaceLog time.Duration) *Scheduler {
	return New(
		Cadence{TagViolationCheck, violation},
		Cadence{TagOperatorPoll, operatorPoll},
		Cadence{TagConsoleGrid, grid},
		Cadence{TagFileLog, fileLog},
		Cadence{TagAirspaceLog, airspaceLog},
	)
}

// Run starts one goroutine per cadence and returns a single merged
// channel of pulses. The returned channel closes once ctx is
// cancelled and every per-cadence goroutine has exited.
func (s *Scheduler) Run(ctx context.Context) <-chan Pulse {
	done := ctx.Done()
	chans := make([]<-chan Pulse, 0, len(s.cadences))

	for _, c := range s.cadences {
		ch := make(chan Pulse)
		chans = append(chans, ch)
		go runCadence(ctx, c, ch)
	}

	return channerics.Merge(done, chans...)
}

func runCadence(ctx context.Context, c Cadence, out chan<- Pulse) {
	defer close(out)
	ticker := time.NewTicker(c.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			select {
			case out <- Pulse{Tag: c.Tag, At: t}:
			case <-ctx.Done():
				return
			}
		}
	}
}
