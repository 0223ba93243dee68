package relay

import (
	"context"
	"testing"
	"time"

	"github.com/atc-sim/atc-sim/airspace"
	"github.com/atc-sim/atc-sim/geometry"
	"github.com/atc-sim/atc-sim/kinematics"
)

type fakeFleet struct {
	planes map[int32]*kinematics.Aircraft
}

func (f fakeFleet) Lookup(id int32) (*kinematics.Aircraft, bool) {
	ac, ok := f.planes[id]
	return ac, ok
}

func TestApplySetVelocity(t *testing.T) {
	store := airspace.NewStore(nil)
	ac := kinematics.New(1, geometry.Vec3{X: 1000, Y: 1000, Z: 1000}, geometry.Vec3{}, airspace.DefaultBox, 0)
	r := New(store, fakeFleet{planes: map[int32]*kinematics.Aircraft{1: ac}}, nil)

	store.EnqueueCommand(airspace.Command{PlaneID: 1, Kind: airspace.SetVelocity, Value: [3]float64{10, 20, 30}})
	cmd, _ := store.DequeueCommand()
	r.apply(cmd)

	_, vel, _ := ac.Read()
	if vel.X != 10 || vel.Y != 20 || vel.Z != 30 {
		t.Fatalf("unexpected velocity after apply: %+v", vel)
	}
}

func TestApplySetPositionZeroesVelocity(t *testing.T) {
	store := airspace.NewStore(nil)
	ac := kinematics.New(1, geometry.Vec3{X: 1000, Y: 1000, Z: 1000}, geometry.Vec3{X: 50}, airspace.DefaultBox, 0)
	r := New(store, fakeFleet{planes: map[int32]*kinematics.Aircraft{1: ac}}, nil)

	r.apply(airspace.Command{PlaneID: 1, Kind: airspace.SetPosition, Value: [3]float64{500, 600, 700}})

	pos, vel, _ := ac.Read()
	if pos.X != 500 || pos.Y != 600 || pos.Z != 700 {
		t.Fatalf("unexpected position after apply: %+v", pos)
	}
	if vel != (geometry.Vec3{}) {
		t.Fatalf("expected velocity to be zeroed, got %+v", vel)
	}
}

func TestApplyDiscardsCommandForUntrackedPlane(t *testing.T) {
	store := airspace.NewStore(nil)
	r := New(store, fakeFleet{planes: map[int32]*kinematics.Aircraft{}}, nil)
	r.apply(airspace.Command{PlaneID: 99, Kind: airspace.SetVelocity})
}

func TestApplyDiscardsCommandForRetiredPlane(t *testing.T) {
	store := airspace.NewStore(nil)
	box := airspace.DefaultBox
	ac := kinematics.New(1, geometry.Vec3{X: box.MaxX - 50, Y: 1000, Z: 1000}, geometry.Vec3{X: 100}, box, 0)
	ac.Advance(1.0)
	if !ac.Retired() {
		t.Fatalf("expected aircraft to be retired")
	}
	r := New(store, fakeFleet{planes: map[int32]*kinematics.Aircraft{1: ac}}, nil)

	r.apply(airspace.Command{PlaneID: 1, Kind: airspace.SetVelocity, Value: [3]float64{999, 999, 999}})

	_, vel, _ := ac.Read()
	if vel.X == 999 {
		t.Fatalf("expected command to a retired aircraft to be discarded")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	store := airspace.NewStore(nil)
	r := New(store, fakeFleet{planes: map[int32]*kinematics.Aircraft{}}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancellation")
	}
}
