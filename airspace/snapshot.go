package airspace

import "github.com/atc-sim/atc-sim/geometry"

// Position is one entry of a FleetSnapshot's position array.
type Position struct {
	ID        int32
	X, Y, Z   float64
	Timestamp float64 // simulated seconds
}

func (p Position) Vec() geometry.Vec3 { return geometry.Vec3{X: p.X, Y: p.Y, Z: p.Z} }

// Velocity is one entry of a FleetSnapshot's velocity array.
type Velocity struct {
	ID         int32
	VX, VY, VZ float64
	Timestamp  float64
}

func (v Velocity) Vec() geometry.Vec3 { return geometry.Vec3{X: v.VX, Y: v.VY, Z: v.VZ} }

// FleetSnapshot is the coherent, timestamped copy of all tracked
// aircraft. Positions[i].ID must equal Velocities[i].ID for
// i < NumPlanes — the Alignment invariant.
type FleetSnapshot struct {
	NumPlanes  int32
	Positions  [MaxFleet]Position
	Velocities [MaxFleet]Velocity
}

// Aligned reports whether the Alignment invariant holds across the
// whole snapshot.
func (f FleetSnapshot) Aligned() bool {
	for i := int32(0); i < f.NumPlanes && i < MaxFleet; i++ {
		if f.Positions[i].ID != f.Velocities[i].ID {
			return false
		}
	}
	return true
}

// Lookup returns the position/velocity pair for planeId, if tracked.
func (f FleetSnapshot) Lookup(planeID int32) (Position, Velocity, bool) {
	for i := int32(0); i < f.NumPlanes && i < MaxFleet; i++ {
		if f.Positions[i].ID == planeID {
			return f.Positions[i], f.Velocities[i], true
		}
	}
	return Position{}, Velocity{}, false
}

// Pairs calls fn for every unordered pair (i,j), i<j, of tracked
// aircraft — the iteration order violation prediction requires. At
// MaxFleet=10 this is at most 45 calls, comfortably
// within a single 1 Hz tick without any spatial index.
func (f FleetSnapshot) Pairs(fn func(a, b int32, pa, pb Position, va, vb Velocity)) {
	n := f.NumPlanes
	if n > MaxFleet {
		n = MaxFleet
	}
	for i := int32(0); i < n; i++ {
		for j := i + 1; j < n; j++ {
			fn(f.Positions[i].ID, f.Positions[j].ID,
				f.Positions[i], f.Positions[j],
				f.Velocities[i], f.Velocities[j])
		}
	}
}
