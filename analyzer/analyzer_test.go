package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/atc-sim/atc-sim/airspace"
	"github.com/atc-sim/atc-sim/geometry"
	"github.com/atc-sim/atc-sim/kinematics"
	"github.com/atc-sim/atc-sim/operator"
	"github.com/atc-sim/atc-sim/wire"
)

type fakeFleet struct{}

func (fakeFleet) Lookup(id int32) (*kinematics.Aircraft, bool) { return nil, false }

func TestCheckViolationsEmitsAlert(t *testing.T) {
	store := airspace.NewStore(nil)
	var snap airspace.FleetSnapshot
	snap.NumPlanes = 2
	snap.Positions[0] = airspace.Position{ID: 1, X: 0, Y: 50000, Z: 20000}
	snap.Velocities[0] = airspace.Velocity{ID: 1, VX: 100}
	snap.Positions[1] = airspace.Position{ID: 2, X: 100000, Y: 50000, Z: 20000}
	snap.Velocities[1] = airspace.Velocity{ID: 2, VX: -100}
	store.WriteFleet(snap)

	op := operator.New(4)
	alerts := op.Subscribe(4)

	a := New(store, fakeFleet{}, op, nil, nil, nil, 600, 3000, 1000, airspace.DefaultBox)
	a.CheckViolations(context.Background())

	select {
	case got := <-alerts:
		if got.Plane1ID != 1 || got.Plane2ID != 2 {
			t.Fatalf("unexpected alert: %+v", got)
		}
	default:
		t.Fatalf("expected an alert to be emitted")
	}
}

func TestCheckViolationsSkipsReentrantCall(t *testing.T) {
	store := airspace.NewStore(nil)
	op := operator.New(1)
	a := New(store, fakeFleet{}, op, nil, nil, nil, 120, 3000, 1000, airspace.DefaultBox)

	a.violationBusy.Store(true)
	a.CheckViolations(context.Background()) // should return immediately, not deadlock
}

func TestPollOperatorDispatchesSetVelocity(t *testing.T) {
	store := airspace.NewStore(nil)
	op := operator.New(1)
	a := New(store, fakeFleet{}, op, nil, nil, nil, 120, 3000, 1000, airspace.DefaultBox)

	ctx := context.Background()
	if err := op.PushCommand(ctx, operator.Request{Kind: operator.RequestSetVelocity, PlaneID: 7, NewVelocity: geometry.Vec3{X: 5}}); err != nil {
		t.Fatalf("PushCommand: %v", err)
	}
	a.PollOperator(ctx)

	cmd, ok := store.DequeueCommand()
	if !ok {
		t.Fatalf("expected a command to be enqueued")
	}
	if cmd.PlaneID != 7 || cmd.Kind != airspace.SetVelocity || cmd.Value[0] != 5 {
		t.Fatalf("unexpected enqueued command: %+v", cmd)
	}
}

func TestPollOperatorDispatchesCongestionHorizon(t *testing.T) {
	store := airspace.NewStore(nil)
	op := operator.New(1)
	a := New(store, fakeFleet{}, op, nil, nil, nil, 120, 3000, 1000, airspace.DefaultBox)

	ctx := context.Background()
	if err := op.PushCommand(ctx, operator.Request{Kind: operator.RequestSetCongestionHorizon, NewCongestionSeconds: 300}); err != nil {
		t.Fatalf("PushCommand: %v", err)
	}
	a.PollOperator(ctx)

	if a.Horizon() != 300 {
		t.Fatalf("Horizon() = %v, want 300", a.Horizon())
	}
}

func TestPollOperatorReturnsImmediatelyWhenQueueEmpty(t *testing.T) {
	store := airspace.NewStore(nil)
	op := operator.New(1)
	a := New(store, fakeFleet{}, op, nil, nil, nil, 120, 3000, 1000, airspace.DefaultBox)

	done := make(chan struct{})
	go func() {
		a.PollOperator(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(50 * time.Millisecond):
		t.Fatalf("PollOperator blocked on an empty operator queue")
	}
}

func TestEmitGridSendsDisplayRecord(t *testing.T) {
	store := airspace.NewStore(nil)
	var snap airspace.FleetSnapshot
	snap.NumPlanes = 1
	snap.Positions[0] = airspace.Position{ID: 1, X: 100, Y: 100}
	store.WriteFleet(snap)

	display := make(chan wire.DisplayRecord, 1)
	op := operator.New(1)
	a := New(store, fakeFleet{}, op, display, nil, nil, 120, 3000, 1000, airspace.DefaultBox)

	a.EmitGrid(context.Background())

	select {
	case rec := <-display:
		if rec.Kind != wire.DisplayGrid {
			t.Fatalf("unexpected record kind: %d", rec.Kind)
		}
	default:
		t.Fatalf("expected a grid record to be sent")
	}
}

func TestTriggerEmergencyCoalescesAndWakesHandler(t *testing.T) {
	store := airspace.NewStore(nil)
	op := operator.New(1)
	alerts := op.Subscribe(4)
	a := New(store, fakeFleet{}, op, nil, nil, nil, 120, 3000, 1000, airspace.DefaultBox)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.HandleEmergency(ctx)

	a.TriggerEmergency()
	a.TriggerEmergency()
	a.TriggerEmergency()

	select {
	case got := <-alerts:
		if got.Plane1ID != -1 || got.Plane2ID != -1 {
			t.Fatalf("unexpected emergency alert: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected an emergency alert to arrive")
	}
}
