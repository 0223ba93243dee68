// Package analyzer is the Separation Analyzer: the algorithmic core
// that predicts conflicts, dispatches operator commands, and drives
// the Display/Logger/emergency cadences.
package analyzer

import (
	"github.com/atc-sim/atc-sim/airspace"
	"github.com/atc-sim/atc-sim/geometry"
	"github.com/atc-sim/atc-sim/operator"
)

// Violation implements the four-step conjunctive predicate: two
// aircraft are in violation only if, at their predicted time of
// closest approach within horizon, BOTH the horizontal and vertical
// separation minima are breached. A disjunctive variant (either minimum
// breached) is deliberately not implemented here — see DESIGN.md's
// Open Question decision.
func Violation(idI, idJ int32, pi, pj, vi, vj geometry.Vec3, horizon, minHorizontal, minVertical float64) (operator.Alert, bool) {
	tStar := geometry.ClosestApproach(pi, pj, vi, vj)
	if tStar > horizon {
		return operator.Alert{}, false
	}

	atI := geometry.Add(pi, geometry.Scale(vi, tStar))
	atJ := geometry.Add(pj, geometry.Scale(vj, tStar))

	dH := geometry.HorizontalDistance(atI, atJ)
	dV := geometry.VerticalDistance(atI, atJ)

	if dH < minHorizontal && dV < minVertical {
		return operator.Alert{Plane1ID: idI, Plane2ID: idJ, TimeToClosestApproach: tStar}, true
	}
	return operator.Alert{}, false
}

// violationsForSnapshot walks every unordered pair in snap and returns
// the alerts the conjunctive predicate raises, in deterministic (i<j)
// iteration order.
func violationsForSnapshot(snap airspace.FleetSnapshot, horizon, minHorizontal, minVertical float64) []operator.Alert {
	var alerts []operator.Alert
	snap.Pairs(func(a, b int32, pa, pb airspace.Position, va, vb airspace.Velocity) {
		if alert, ok := Violation(a, b, pa.Vec(), pb.Vec(), va.Vec(), vb.Vec(), horizon, minHorizontal, minVertical); ok {
			alerts = append(alerts, alert)
		}
	})
	return alerts
}
