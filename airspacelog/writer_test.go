package airspacelog

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/atc-sim/atc-sim/airspace"
	"github.com/atc-sim/atc-sim/wire"
)

func TestWriteSnapshotAndExitRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "airspace.log"), 1, 1, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	var snap airspace.FleetSnapshot
	snap.NumPlanes = 1
	snap.Positions[0] = airspace.Position{ID: 1, X: 10, Y: 20, Z: 30}
	snap.Velocities[0] = airspace.Velocity{ID: 1, VX: 1, VY: 2, VZ: 3}

	if err := w.WriteSnapshot(snap, 100); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if err := w.WriteExit(200); err != nil {
		t.Fatalf("WriteExit: %v", err)
	}
}

func TestReaderDecodesWrittenFrames(t *testing.T) {
	var buf bytes.Buffer
	enc := mustEncoder(t)
	rec := wire.LogRecord{Kind: wire.LogAirspace, Timestamp: 42, NumPlanes: 1,
		Positions: []wire.PositionWire{{PlaneID: 1, X: 1, Y: 2, Z: 3, Timestamp: 42}}}
	payload, err := wire.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	compressed := enc.EncodeAll(payload, nil)
	var lenBuf [4]byte
	putUint32(lenBuf[:], uint32(len(compressed)))
	buf.Write(lenBuf[:])
	buf.Write(compressed)

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	got, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.Kind != wire.LogAirspace || got.Timestamp != 42 || len(got.Positions) != 1 {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after last record, got %v", err)
	}
}

func mustEncoder(t *testing.T) interface {
	EncodeAll([]byte, []byte) []byte
} {
	t.Helper()
	w, err := New(filepath.Join(t.TempDir(), "tmp.log"), 1, 1, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w.enc
}
