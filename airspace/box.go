// Package airspace owns the authoritative fleet snapshot and the
// command ring — the single source of truth that the Radar writes and
// the Analyzer/Relay read from.
package airspace

import "github.com/atc-sim/atc-sim/geometry"

// MaxFleet caps how many aircraft are tracked concurrently.
const MaxFleet = 10

// MaxCommands is the command ring's slot count, of which MaxCommands-1
// are usable at once.
const MaxCommands = 10

// Box is the axis-aligned airspace cuboid: [0,100000] x [0,100000] x
// [0,25000] feet by default.
type Box struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// DefaultBox is the simulator's default airspace volume.
var DefaultBox = Box{
	MinX: 0, MaxX: 100000,
	MinY: 0, MaxY: 100000,
	MinZ: 0, MaxZ: 25000,
}

// Contains reports whether p lies within the box, inclusive of the
// boundary.
func (b Box) Contains(p geometry.Vec3) bool {
	return p.X >= b.MinX && p.X <= b.MaxX &&
		p.Y >= b.MinY && p.Y <= b.MaxY &&
		p.Z >= b.MinZ && p.Z <= b.MaxZ
}

// Clamp restricts p to lie within the box. Positions are always
// clamped into this box at construction.
func (b Box) Clamp(p geometry.Vec3) geometry.Vec3 {
	return geometry.Vec3{
		X: geometry.Clamp(p.X, b.MinX, b.MaxX),
		Y: geometry.Clamp(p.Y, b.MinY, b.MaxY),
		Z: geometry.Clamp(p.Z, b.MinZ, b.MaxZ),
	}
}

// ClipCrossing clips p to the boundary it crosses, for the case where
// an integration step carries an aircraft outside the box: aircraft
// crossing it during integration are clipped to the crossing boundary.
// It returns the clipped position and whether any clipping occurred.
func (b Box) ClipCrossing(p geometry.Vec3) (geometry.Vec3, bool) {
	clipped := b.Clamp(p)
	return clipped, clipped != p
}
