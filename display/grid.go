// Package display builds the Console Display records: a single-plane
// readout, a full fleet listing, and a coarse 25x25 ground-track mesh
// over a 4000ft cell size used to spot clustering at a glance. BuildGrid
// also returns the cells in an insertion-ordered map, filled in sorted
// (row, col) order, so walking that map is deterministic run to run; the
// record's own Cell field is a plain Go map and has no defined order.
package display

import (
	"fmt"
	"sort"

	"github.com/iancoleman/orderedmap"

	"github.com/atc-sim/atc-sim/airspace"
	"github.com/atc-sim/atc-sim/wire"
)

// GridCellSize is the ground-track mesh cell size, in feet.
const GridCellSize = 4000.0

// GridDimension is the mesh's side length in cells.
const GridDimension = 25

// BuildOnePlane renders the ONE_PLANE record for a single aircraft.
func BuildOnePlane(id int32, p airspace.Position, v airspace.Velocity) wire.DisplayRecord {
	return wire.DisplayRecord{
		Kind: wire.DisplayOnePlane,
		Planes: []wire.DisplayPlane{
			{ID: id, Position: [3]float64{p.X, p.Y, p.Z}, Velocity: [3]float64{v.VX, v.VY, v.VZ}},
		},
	}
}

// BuildMultiplePlane renders the MULTIPLE_PLANE record for the whole
// tracked fleet.
func BuildMultiplePlane(snap airspace.FleetSnapshot) wire.DisplayRecord {
	rec := wire.DisplayRecord{Kind: wire.DisplayMultiplePlane}
	for i := int32(0); i < snap.NumPlanes; i++ {
		p, v := snap.Positions[i], snap.Velocities[i]
		rec.Planes = append(rec.Planes, wire.DisplayPlane{
			ID:       p.ID,
			Position: [3]float64{p.X, p.Y, p.Z},
			Velocity: [3]float64{v.VX, v.VY, v.VZ},
		})
	}
	return rec
}

// BuildLog renders the LOG tagged-union kind: the same full fleet
// listing as BuildMultiplePlane, tagged for the file-log cadence
// instead of the live console.
func BuildLog(snap airspace.FleetSnapshot) wire.DisplayRecord {
	rec := BuildMultiplePlane(snap)
	rec.Kind = wire.DisplayLog
	return rec
}

// BuildGrid buckets every tracked aircraft into its 25x25/4000ft mesh
// cell, relative to box's horizontal origin, and returns both the
// wire record and the backing ordered map (for callers that want to
// walk cells in insertion order directly).
func BuildGrid(snap airspace.FleetSnapshot, box airspace.Box) (wire.DisplayRecord, *orderedmap.OrderedMap) {
	om := orderedmap.New()
	rec := wire.DisplayRecord{Kind: wire.DisplayGrid, Cell: make(map[string][]int32)}

	type entry struct {
		row, col int
		id       int32
	}
	var entries []entry
	for i := int32(0); i < snap.NumPlanes; i++ {
		p := snap.Positions[i]
		row := cellIndex(p.Y, box.MinY)
		col := cellIndex(p.X, box.MinX)
		entries = append(entries, entry{row: row, col: col, id: p.ID})
		rec.Planes = append(rec.Planes, wire.DisplayPlane{ID: p.ID, Position: [3]float64{p.X, p.Y, p.Z}})
	}

	// Sort by (row, col, id) so cell insertion order, and therefore
	// iteration over om, is reproducible across runs regardless of the
	// snapshot's internal slot ordering.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].row != entries[j].row {
			return entries[i].row < entries[j].row
		}
		if entries[i].col != entries[j].col {
			return entries[i].col < entries[j].col
		}
		return entries[i].id < entries[j].id
	})

	for _, e := range entries {
		key := fmt.Sprintf("%d,%d", e.row, e.col)
		rec.Cell[key] = append(rec.Cell[key], e.id)

		if existing, ok := om.Get(key); ok {
			om.Set(key, append(existing.([]int32), e.id))
		} else {
			om.Set(key, []int32{e.id})
		}
	}

	return rec, om
}

func cellIndex(coord, origin float64) int {
	idx := int((coord - origin) / GridCellSize)
	if idx < 0 {
		idx = 0
	}
	if idx >= GridDimension {
		idx = GridDimension - 1
	}
	return idx
}
