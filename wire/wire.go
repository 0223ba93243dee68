// Package wire holds the fixed-layout structs used across process
// boundaries, and encodes/decodes them with msgpack. The core
// collapses to an in-process design, but these are the structs the
// Airspace Logger persists to disk and that a future out-of-process
// Display/Logger would deserialize, so they are exercised by every
// periodic log emission rather than kept around as unused decoration.
package wire

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/atc-sim/atc-sim/airspace"
)

// CommandKind wire values.
const (
	CommandSetVelocity int32 = 1
	CommandSetPosition int32 = 2
)

type PositionWire struct {
	PlaneID   int32
	X, Y, Z   float64
	Timestamp int64
}

type VelocityWire struct {
	PlaneID    int32
	VX, VY, VZ float64
	Timestamp  int64
}

// FleetSnapshotWire is the wire layout: a fixed int32 count plus two
// MaxFleet-sized arrays.
type FleetSnapshotWire struct {
	NumPlanes  int32
	Positions  [airspace.MaxFleet]PositionWire
	Velocities [airspace.MaxFleet]VelocityWire
}

type CommandWire struct {
	PlaneID   int32
	Kind      int32
	Value     [3]float64
	Timestamp int64
}

// CommandQueueWire is the wire layout for the command ring.
type CommandQueueWire struct {
	Head     int32
	Tail     int32
	Commands [airspace.MaxCommands]CommandWire
}

// RegistryEntryWire is one (channelId, processId) pair of the
// subsystem registry wire layout.
type RegistryEntryWire struct {
	ChannelID string
	ProcessID string
}

type RegistryWire struct {
	Operator RegistryEntryWire
	Display  RegistryEntryWire
	Logger   RegistryEntryWire
	Analyzer RegistryEntryWire
}

// DisplayKind is the tagged-union discriminant of the Display
// protocol.
type DisplayKind int32

const (
	DisplayOnePlane DisplayKind = iota
	DisplayMultiplePlane
	DisplayGrid
	DisplayLog
	DisplayExit
)

// DisplayPlane is one (id, position, velocity) entry used by both the
// ONE_PLANE and MULTIPLE_PLANE/GRID/LOG record kinds.
type DisplayPlane struct {
	ID       int32
	Position [3]float64
	Velocity [3]float64
}

// DisplayRecord is the Analyzer -> Display message. Cell is only
// populated for GRID records and names which of the 25x25 mesh cells
// each plane falls into, keyed "row,col".
type DisplayRecord struct {
	Kind   DisplayKind
	Planes []DisplayPlane
	Cell   map[string][]int32
}

// LogKind distinguishes the two Logger-protocol message kinds.
type LogKind int32

const (
	LogAirspace LogKind = iota
	LogExit
)

// LogRecord is the Analyzer -> Airspace Logger message.
type LogRecord struct {
	Kind       LogKind
	Timestamp  int64
	NumPlanes  int32
	Positions  []PositionWire
	Velocities []VelocityWire
}

// ToWire converts an in-memory FleetSnapshot into its wire form.
// timestampSec is the wall-clock second to stamp every entry with:
// simulated time is a float64 everywhere except inside logging, where
// wall time is an integer number of seconds.
func ToWire(s airspace.FleetSnapshot, timestampSec int64) FleetSnapshotWire {
	var w FleetSnapshotWire
	w.NumPlanes = s.NumPlanes
	for i := int32(0); i < s.NumPlanes && i < airspace.MaxFleet; i++ {
		p, v := s.Positions[i], s.Velocities[i]
		w.Positions[i] = PositionWire{PlaneID: p.ID, X: p.X, Y: p.Y, Z: p.Z, Timestamp: timestampSec}
		w.Velocities[i] = VelocityWire{PlaneID: v.ID, VX: v.VX, VY: v.VY, VZ: v.VZ, Timestamp: timestampSec}
	}
	return w
}

func Marshal(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

func Unmarshal(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}
