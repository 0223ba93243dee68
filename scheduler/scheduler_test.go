package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestRunDeliversBothCadences(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(
		Cadence{Tag: "fast", Period: 5 * time.Millisecond},
		Cadence{Tag: "slow", Period: 25 * time.Millisecond},
	)

	pulses := s.Run(ctx)

	seen := map[string]int{}
	timeout := time.After(200 * time.Millisecond)
loop:
	for {
		select {
		case p, ok := <-pulses:
			if !ok {
				break loop
			}
			seen[p.Tag]++
			if seen["fast"] >= 3 && seen["slow"] >= 1 {
				break loop
			}
		case <-timeout:
			break loop
		}
	}

	if seen["fast"] < 3 {
		t.Fatalf("expected several fast pulses, got %d", seen["fast"])
	}
	if seen["slow"] < 1 {
		t.Fatalf("expected at least one slow pulse, got %d", seen["slow"])
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(Cadence{Tag: "t", Period: 2 * time.Millisecond})
	pulses := s.Run(ctx)

	// Drain a pulse to make sure it actually started.
	<-pulses
	cancel()

	select {
	case _, ok := <-pulses:
		if ok {
			// Drain any already-in-flight pulses until the channel closes.
			for ok {
				_, ok = <-pulses
			}
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("pulse channel did not close after cancellation")
	}
}
