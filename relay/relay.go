// Package relay is the Command Bus consumer: it drains the Airspace
// Store's command ring and applies each command to the addressed
// aircraft.
package relay

import (
	"context"
	"time"

	"github.com/atc-sim/atc-sim/airspace"
	"github.com/atc-sim/atc-sim/geometry"
	"github.com/atc-sim/atc-sim/kinematics"
	"github.com/atc-sim/atc-sim/logging"
)

// Fleet looks an aircraft up by planeId. Implemented by
// radar.Publisher; the Relay never keeps its own parallel tracking
// table, so identity is always by planeId, never by pointer.
type Fleet interface {
	Lookup(id int32) (*kinematics.Aircraft, bool)
}

// IdleSleep is how long Run waits between ring polls when it finds the
// queue empty, so the Relay doesn't spin a core waiting on operator
// commands.
const IdleSleep = 100 * time.Millisecond

type Relay struct {
	store *airspace.Store
	fleet Fleet
	lg    *logging.Logger
}

func New(store *airspace.Store, fleet Fleet, lg *logging.Logger) *Relay {
	return &Relay{store: store, fleet: fleet, lg: lg}
}

// Run drains the command ring until ctx is cancelled. An empty queue
// is not busy-polled: Run sleeps IdleSleep (context-aware) before
// checking again.
func (r *Relay) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		cmd, ok := r.store.DequeueCommand()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-time.After(IdleSleep):
			}
			continue
		}
		r.apply(cmd)
	}
}

func (r *Relay) apply(cmd airspace.Command) {
	ac, ok := r.fleet.Lookup(cmd.PlaneID)
	if !ok {
		r.logf("command for untracked plane %d discarded", cmd.PlaneID)
		return
	}
	if ac.Retired() {
		r.logf("command for retired plane %d discarded", cmd.PlaneID)
		return
	}

	v := geometry.Vec3{X: cmd.Value[0], Y: cmd.Value[1], Z: cmd.Value[2]}
	switch cmd.Kind {
	case airspace.SetVelocity:
		ac.SetVelocity(v)
	case airspace.SetPosition:
		ac.SetPosition(v)
		ac.SetVelocity(geometry.Vec3{})
	default:
		r.logf("unknown command kind %d for plane %d discarded", cmd.Kind, cmd.PlaneID)
	}
}

func (r *Relay) logf(format string, args ...interface{}) {
	if r.lg != nil {
		r.lg.Warnf(format, args...)
	}
}
