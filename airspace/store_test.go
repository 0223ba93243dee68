package airspace

import "testing"

func TestCommandRingBoundedness(t *testing.T) {
	s := NewStore(nil)

	// The ring has MaxCommands slots but only MaxCommands-1 usable.
	for i := 0; i < MaxCommands-1; i++ {
		if err := s.EnqueueCommand(Command{PlaneID: int32(i)}); err != nil {
			t.Fatalf("enqueue %d: unexpected error %v", i, err)
		}
	}
	if err := s.EnqueueCommand(Command{PlaneID: 99}); err != ErrQueueFull {
		t.Fatalf("enqueue over capacity: got %v, want ErrQueueFull", err)
	}
	if d := s.QueueDepth(); d != MaxCommands-1 {
		t.Fatalf("QueueDepth = %d, want %d", d, MaxCommands-1)
	}
}

func TestCommandFIFOOrder(t *testing.T) {
	s := NewStore(nil)
	for i := 0; i < 5; i++ {
		if err := s.EnqueueCommand(Command{PlaneID: int32(i)}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	for i := 0; i < 5; i++ {
		c, ok := s.DequeueCommand()
		if !ok {
			t.Fatalf("dequeue %d: queue unexpectedly empty", i)
		}
		if c.PlaneID != int32(i) {
			t.Fatalf("dequeue %d: got plane %d, want %d (FIFO order)", i, c.PlaneID, i)
		}
	}
	if _, ok := s.DequeueCommand(); ok {
		t.Fatalf("dequeue on empty ring returned ok=true")
	}
}

func TestReadFleetIsIndependentCopy(t *testing.T) {
	s := NewStore(nil)

	var snap FleetSnapshot
	snap.NumPlanes = 1
	snap.Positions[0] = Position{ID: 1, X: 10, Y: 20, Z: 30}
	snap.Velocities[0] = Velocity{ID: 1, VX: 1, VY: 0, VZ: 0}
	s.WriteFleet(snap)

	read := s.ReadFleet()
	read.Positions[0].X = 999999

	again := s.ReadFleet()
	if again.Positions[0].X != 10 {
		t.Fatalf("mutating a returned snapshot perturbed the Store: got %v, want 10", again.Positions[0].X)
	}
}

func TestFleetSnapshotAlignmentAndPairs(t *testing.T) {
	var snap FleetSnapshot
	snap.NumPlanes = 3
	for i := 0; i < 3; i++ {
		snap.Positions[i] = Position{ID: int32(i + 1)}
		snap.Velocities[i] = Velocity{ID: int32(i + 1)}
	}
	if !snap.Aligned() {
		t.Fatalf("expected aligned snapshot")
	}

	var pairs [][2]int32
	snap.Pairs(func(a, b int32, _ Position, _ Position, _ Velocity, _ Velocity) {
		pairs = append(pairs, [2]int32{a, b})
	})
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs for 3 aircraft, want 3 (n*(n-1)/2)", len(pairs))
	}
}

func TestRetirementLedger(t *testing.T) {
	s := NewStore(nil)
	s.RecordRetirement(5, 100, "boundary-exit")

	if !s.RetiredAtOrBefore(5, 100) {
		t.Fatalf("expected retirement at tick 100 to satisfy RetiredAtOrBefore(5,100)")
	}
	if !s.RetiredAtOrBefore(5, 150) {
		t.Fatalf("expected retirement at tick 100 to satisfy RetiredAtOrBefore(5,150)")
	}
	if s.RetiredAtOrBefore(5, 50) {
		t.Fatalf("retirement at tick 100 should not satisfy RetiredAtOrBefore(5,50)")
	}
	if s.RetiredAtOrBefore(6, 100) {
		t.Fatalf("plane 6 was never retired")
	}
}
