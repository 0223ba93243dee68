// Package radar periodically collects every tracked aircraft's state
// into a coherent FleetSnapshot and publishes it to the Airspace
// Store.
package radar

import (
	"sync"

	"github.com/atc-sim/atc-sim/airspace"
	"github.com/atc-sim/atc-sim/kinematics"
	"github.com/atc-sim/atc-sim/logging"
)

type pendingEntry struct {
	admitAt float64
	ac      *kinematics.Aircraft
}

// Publisher is the Radar: it owns the tracked-aircraft set and a
// time-indexed admission backlog ("at t=T, inject these aircraft"),
// consumed in simulated-time order, adapted from the scenario-spawn
// scheduling in sim/spawn.go.
type Publisher struct {
	mu      sync.Mutex
	tracked map[int32]*kinematics.Aircraft
	backlog []pendingEntry

	store *airspace.Store
	lg    *logging.Logger
}

func NewPublisher(store *airspace.Store, lg *logging.Logger) *Publisher {
	return &Publisher{
		tracked: make(map[int32]*kinematics.Aircraft),
		store:   store,
		lg:      lg,
	}
}

// Track admits ac immediately if admitAt has already passed, otherwise
// queues it in the backlog until Tick reaches admitAt. Duplicate IDs —
// whether already tracked or already pending — are rejected silently
// and logged at info.
func (p *Publisher) Track(ac *kinematics.Aircraft, admitAt float64, simNow float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, dup := p.tracked[ac.ID()]; dup {
		p.logf("duplicate aircraft id %d rejected", ac.ID())
		return
	}
	for _, pe := range p.backlog {
		if pe.ac.ID() == ac.ID() {
			p.logf("duplicate aircraft id %d rejected (already pending)", ac.ID())
			return
		}
	}

	if admitAt <= simNow {
		p.tracked[ac.ID()] = ac
	} else {
		p.backlog = append(p.backlog, pendingEntry{admitAt: admitAt, ac: ac})
	}
}

// Lookup implements the small Fleet interface the Relay uses to find
// an aircraft by planeId without keeping its own parallel bookkeeping:
// identify by planeId, never by pointer equality across components.
func (p *Publisher) Lookup(id int32) (*kinematics.Aircraft, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ac, ok := p.tracked[id]
	return ac, ok
}

// Tick runs the Radar's 1 Hz cycle: admit any due backlog entries,
// untrack anything retired, assemble and publish a coherent snapshot
// capped at MaxFleet entries.
func (p *Publisher) Tick(tick int64, simNow float64) {
	p.mu.Lock()

	p.admitDueLocked(simNow)

	var snap airspace.FleetSnapshot
	for id, ac := range p.tracked {
		if ac.Retired() {
			delete(p.tracked, id)
			p.store.RecordRetirement(id, tick, "boundary-exit")
			continue
		}
		if snap.NumPlanes >= airspace.MaxFleet {
			p.logf("fleet snapshot capped at %d entries; dropping aircraft %d this tick", airspace.MaxFleet, id)
			continue
		}
		pos, vel, t := ac.Read()
		i := snap.NumPlanes
		snap.Positions[i] = airspace.Position{ID: id, X: pos.X, Y: pos.Y, Z: pos.Z, Timestamp: t}
		snap.Velocities[i] = airspace.Velocity{ID: id, VX: vel.X, VY: vel.Y, VZ: vel.Z, Timestamp: t}
		snap.NumPlanes++
	}

	p.mu.Unlock()

	// WriteFleet replaces an in-memory slot and cannot itself fail
	// transiently the way a cross-process shared-memory write or a
	// network publish could, so it is not retried. The bounded-retry
	// helper (internal/retry) is used by the subsystem registry
	// (registry.Lookup) instead.
	p.store.WriteFleet(snap)
}

func (p *Publisher) admitDueLocked(simNow float64) {
	if len(p.backlog) == 0 {
		return
	}
	remaining := p.backlog[:0]
	for _, pe := range p.backlog {
		if pe.admitAt <= simNow {
			if _, dup := p.tracked[pe.ac.ID()]; dup {
				p.logf("duplicate aircraft id %d rejected at admission", pe.ac.ID())
				continue
			}
			p.tracked[pe.ac.ID()] = pe.ac
		} else {
			remaining = append(remaining, pe)
		}
	}
	p.backlog = remaining
}

func (p *Publisher) logf(format string, args ...interface{}) {
	if p.lg != nil {
		p.lg.Infof(format, args...)
	}
}
