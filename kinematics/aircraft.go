// Package kinematics owns the per-aircraft concurrent object: the
// kinematic point mass that advances by velocity once per simulated
// second and clips/zeroes itself at the airspace boundary.
package kinematics

import (
	"context"
	"sync"
	"time"

	"github.com/atc-sim/atc-sim/airspace"
	"github.com/atc-sim/atc-sim/geometry"
)

// Aircraft is a value type guarded by a single per-instance mutex,
// accessed through a small capability set: advance, read, set_velocity,
// set_position, stop. Identity is by ID, never by pointer equality.
type Aircraft struct {
	mu sync.Mutex

	id             int32
	pos            geometry.Vec3
	vel            geometry.Vec3
	lastUpdateTime float64 // simulated seconds
	retired        bool

	box airspace.Box

	startOnce sync.Once
	cancel    context.CancelFunc
}

// New constructs an aircraft with its initial position clamped into
// box: positions are always clamped into the airspace box, even at
// construction.
func New(id int32, p, v geometry.Vec3, box airspace.Box, now float64) *Aircraft {
	return &Aircraft{
		id:             id,
		pos:            box.Clamp(p),
		vel:            v,
		lastUpdateTime: now,
		box:            box,
	}
}

func (a *Aircraft) ID() int32 { return a.id }

// Read returns (position, velocity, lastUpdateTime) as they were at a
// single instant — a reader needing all six scalars together gets them
// from one critical section rather than racing three separate loads.
func (a *Aircraft) Read() (geometry.Vec3, geometry.Vec3, float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pos, a.vel, a.lastUpdateTime
}

// Retired reports whether the aircraft has exited the airspace box or
// has been clipped to a boundary with zero velocity.
func (a *Aircraft) Retired() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.retired
}

// SetVelocity mutates the velocity atomically with respect to Advance
// and Read.
func (a *Aircraft) SetVelocity(v geometry.Vec3) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.vel = v
}

// SetPosition mutates the position atomically with respect to Advance
// and Read. The Relay always follows a set-position command with a
// zeroed velocity; SetPosition itself only sets position, keeping the
// position setter and velocity setter as two independent capabilities.
func (a *Aircraft) SetPosition(p geometry.Vec3) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pos = a.box.Clamp(p)
}

// Advance integrates position by velocity if at least one simulated
// second has elapsed since the last update: if now - lastUpdateTime >=
// 1.0, position advances by p <- p + v*dt. Using the actual elapsed
// time for dt, rather than a fixed 1.0, means successive updates occur
// at >=1 Hz and never faster, while still integrating the true elapsed
// interval.
func (a *Aircraft) Advance(now float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	dt := now - a.lastUpdateTime
	if dt < 1.0 {
		return
	}

	next := geometry.Add(a.pos, geometry.Scale(a.vel, dt))
	clipped, crossed := a.box.ClipCrossing(next)
	a.pos = clipped
	a.lastUpdateTime = now

	if crossed {
		a.vel = geometry.Vec3{}
		a.retired = true
	}
}

// Run is the per-aircraft integrator task: it sleeps approximately one
// simulated second between integrations and exits
// when ctx is cancelled. Starting is idempotent via startOnce; Stop
// cancels the task's context, which is itself idempotent (calling Stop
// twice, or before Run, is safe).
func (a *Aircraft) Run(ctx context.Context, simNow func() float64) {
	a.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		a.cancel = cancel
		go a.loop(runCtx, simNow)
	})
}

func (a *Aircraft) loop(ctx context.Context, simNow func() float64) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Advance(simNow())
		}
	}
}

// Stop cancels the integrator task, if running. It is safe to call
// multiple times or before Run.
func (a *Aircraft) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
}
