package wire

import (
	"testing"

	"github.com/atc-sim/atc-sim/airspace"
)

func TestToWireRoundTrip(t *testing.T) {
	var snap airspace.FleetSnapshot
	snap.NumPlanes = 2
	snap.Positions[0] = airspace.Position{ID: 1, X: 10, Y: 20, Z: 30}
	snap.Velocities[0] = airspace.Velocity{ID: 1, VX: 1, VY: 2, VZ: 3}
	snap.Positions[1] = airspace.Position{ID: 2, X: 40, Y: 50, Z: 60}
	snap.Velocities[1] = airspace.Velocity{ID: 2, VX: 4, VY: 5, VZ: 6}

	w := ToWire(snap, 1000)
	if w.NumPlanes != 2 {
		t.Fatalf("NumPlanes = %d, want 2", w.NumPlanes)
	}
	if w.Positions[0].PlaneID != 1 || w.Positions[0].Timestamp != 1000 {
		t.Fatalf("unexpected position entry: %+v", w.Positions[0])
	}
	if w.Velocities[1].VX != 4 {
		t.Fatalf("unexpected velocity entry: %+v", w.Velocities[1])
	}

	data, err := Marshal(w)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got FleetSnapshotWire
	if err := Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.NumPlanes != w.NumPlanes || got.Positions[0] != w.Positions[0] {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, w)
	}
}

func TestLogRecordRoundTrip(t *testing.T) {
	rec := LogRecord{
		Kind:      LogAirspace,
		Timestamp: 42,
		NumPlanes: 1,
		Positions: []PositionWire{{PlaneID: 9, X: 1, Y: 2, Z: 3, Timestamp: 42}},
	}
	data, err := Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got LogRecord
	if err := Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Kind != LogAirspace || len(got.Positions) != 1 || got.Positions[0].PlaneID != 9 {
		t.Fatalf("unexpected round trip: %+v", got)
	}
}

func TestDisplayRecordGridCells(t *testing.T) {
	rec := DisplayRecord{
		Kind: DisplayGrid,
		Planes: []DisplayPlane{
			{ID: 1, Position: [3]float64{100, 200, 5000}},
		},
		Cell: map[string][]int32{"0,0": {1}},
	}
	data, err := Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got DisplayRecord
	if err := Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got.Cell["0,0"]) != 1 || got.Cell["0,0"][0] != 1 {
		t.Fatalf("unexpected cell contents: %+v", got.Cell)
	}
}
