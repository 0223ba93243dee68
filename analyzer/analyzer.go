package analyzer

import (
	"context"
	"sync/atomic"

	"github.com/atc-sim/atc-sim/airspace"
	"github.com/atc-sim/atc-sim/display"
	"github.com/atc-sim/atc-sim/kinematics"
	"github.com/atc-sim/atc-sim/logging"
	"github.com/atc-sim/atc-sim/operator"
	"github.com/atc-sim/atc-sim/wire"
)

// Fleet is a lookup of tracked aircraft by planeId, implemented by
// radar.Publisher. New stores it, but no Analyzer method calls it:
// operator commands reach aircraft through the Airspace Store's command
// ring and the Relay.
type Fleet interface {
	Lookup(id int32) (*kinematics.Aircraft, bool)
}

// Analyzer ties the Airspace Store, Operator Channel, and
// Display/Logger fan-outs together. Every emission method is guarded
// by its own atomic.Bool so that a cadence whose previous run is still
// executing is skipped rather than queued or run concurrently with
// itself.
type Analyzer struct {
	store   *airspace.Store
	fleet   Fleet
	op      *operator.Channel
	display chan<- wire.DisplayRecord
	logger  chan<- wire.LogRecord
	lg      *logging.Logger

	horizon       atomic.Value // float64
	minHorizontal float64
	minVertical   float64
	box           airspace.Box

	violationBusy   atomic.Bool
	gridBusy        atomic.Bool
	fileLogBusy     atomic.Bool
	airspaceLogBusy atomic.Bool

	emergency chan struct{}
}

func New(store *airspace.Store, fleet Fleet, op *operator.Channel, display chan<- wire.DisplayRecord, logger chan<- wire.LogRecord, lg *logging.Logger, horizon, minHorizontal, minVertical float64, box airspace.Box) *Analyzer {
	a := &Analyzer{
		store:         store,
		fleet:         fleet,
		op:            op,
		display:       display,
		logger:        logger,
		lg:            lg,
		minHorizontal: minHorizontal,
		minVertical:   minVertical,
		box:           box,
		emergency:     make(chan struct{}, 1),
	}
	a.horizon.Store(horizon)
	return a
}

func (a *Analyzer) Horizon() float64 {
	return a.horizon.Load().(float64)
}

func (a *Analyzer) SetHorizon(seconds float64) {
	a.horizon.Store(seconds)
}

// CheckViolations runs one separation-violation pass over the current
// fleet snapshot and forwards every alert raised to the Operator
// Channel's subscriber fan-out.
func (a *Analyzer) CheckViolations(ctx context.Context) {
	if !a.violationBusy.CompareAndSwap(false, true) {
		return
	}
	defer a.violationBusy.Store(false)

	snap := a.store.ReadFleet()
	alerts := violationsForSnapshot(snap, a.Horizon(), a.minHorizontal, a.minVertical)
	for _, alert := range alerts {
		a.op.SendAlert(ctx, alert)
	}
}

// PollOperator drains at most one pending Request and dispatches it:
// SET_VELOCITY enqueues a command onto the Airspace Store's ring for
// the Relay to apply; SET_CONGESTION_HORIZON updates the Analyzer's
// own tunable directly. It never blocks: this cadence shares a single
// consumer goroutine with four others, and an empty queue must
// dispatch immediately so those cadences keep running.
func (a *Analyzer) PollOperator(ctx context.Context) {
	req := a.op.PollCommand()

	switch req.Kind {
	case operator.RequestNone:
	case operator.RequestSetVelocity:
		a.enqueueCommand(airspace.Command{PlaneID: req.PlaneID, Kind: airspace.SetVelocity,
			Value: [3]float64{req.NewVelocity.X, req.NewVelocity.Y, req.NewVelocity.Z}})
	case operator.RequestSetCongestionHorizon:
		a.SetHorizon(req.NewCongestionSeconds)
	case operator.RequestShowPlane:
		a.showPlane(ctx, req.PlaneID)
	}
}

func (a *Analyzer) showPlane(ctx context.Context, id int32) {
	snap := a.store.ReadFleet()
	pos, vel, ok := snap.Lookup(id)
	if !ok {
		a.logf("show_plane: plane %d not tracked", id)
		return
	}
	a.send(ctx, a.display, display.BuildOnePlane(id, pos, vel))
}

func (a *Analyzer) enqueueCommand(c airspace.Command) {
	if err := a.store.EnqueueCommand(c); err != nil {
		a.logf("command queue full, dropping command for plane %d", c.PlaneID)
	}
}

// EmitGrid builds and forwards the 25x25 console grid record on the
// grid cadence.
func (a *Analyzer) EmitGrid(ctx context.Context) {
	if !a.gridBusy.CompareAndSwap(false, true) {
		return
	}
	defer a.gridBusy.Store(false)

	snap := a.store.ReadFleet()
	rec, _ := display.BuildGrid(snap, a.box)
	a.send(ctx, a.display, rec)
}

// EmitFileLog builds and forwards a full fleet listing on the file-log
// cadence.
func (a *Analyzer) EmitFileLog(ctx context.Context) {
	if !a.fileLogBusy.CompareAndSwap(false, true) {
		return
	}
	defer a.fileLogBusy.Store(false)

	snap := a.store.ReadFleet()
	a.send(ctx, a.display, display.BuildLog(snap))
}

// EmitAirspaceLog forwards a LOG_AIRSPACE wire record to the Airspace
// Logger on the airspace-log cadence.
func (a *Analyzer) EmitAirspaceLog(ctx context.Context, timestampSec int64) {
	if !a.airspaceLogBusy.CompareAndSwap(false, true) {
		return
	}
	defer a.airspaceLogBusy.Store(false)

	snap := a.store.ReadFleet()
	fw := wire.ToWire(snap, timestampSec)
	rec := wire.LogRecord{Kind: wire.LogAirspace, Timestamp: timestampSec, NumPlanes: fw.NumPlanes}
	for i := int32(0); i < fw.NumPlanes; i++ {
		rec.Positions = append(rec.Positions, fw.Positions[i])
		rec.Velocities = append(rec.Velocities, fw.Velocities[i])
	}
	a.sendLog(ctx, rec)
}

// TriggerEmergency signals the emergency handler. A non-blocking send
// into the size-1 buffered channel is the coalescing primitive: any
// number of calls before the handler wakes collapse into exactly one
// immediate violation check.
func (a *Analyzer) TriggerEmergency() {
	select {
	case a.emergency <- struct{}{}:
	default:
	}
}

// HandleEmergency blocks on the emergency signal and, on each wakeup,
// runs an immediate out-of-cadence violation check followed by the
// sentinel Alert{-1,-1,0} that marks an emergency.
func (a *Analyzer) HandleEmergency(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.emergency:
			a.CheckViolations(ctx)
			a.op.SendAlert(ctx, operator.Alert{Plane1ID: -1, Plane2ID: -1, TimeToClosestApproach: 0})
		}
	}
}

func (a *Analyzer) send(ctx context.Context, out chan<- wire.DisplayRecord, rec wire.DisplayRecord) {
	if out == nil {
		return
	}
	select {
	case out <- rec:
	case <-ctx.Done():
	default:
		a.logf("display channel full, dropping record kind %d", rec.Kind)
	}
}

func (a *Analyzer) sendLog(ctx context.Context, rec wire.LogRecord) {
	if a.logger == nil {
		return
	}
	select {
	case a.logger <- rec:
	case <-ctx.Done():
	default:
		a.logf("logger channel full, dropping record kind %d", rec.Kind)
	}
}

func (a *Analyzer) logf(format string, args ...interface{}) {
	if a.lg != nil {
		a.lg.Warnf(format, args...)
	}
}
