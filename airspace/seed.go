package airspace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atc-sim/atc-sim/geometry"
)

// SeedEntry is one parsed line of the fleet-seed input file format:
// "enterTimeSec id x y z vx vy vz". An aircraft with EnterTimeSec==0
// is admitted immediately; otherwise it is held until simulated time
// reaches EnterTimeSec.
type SeedEntry struct {
	EnterTimeSec float64
	ID           int32
	Position     geometry.Vec3
	Velocity     geometry.Vec3
}

// ParseSeedFile reads whitespace-separated fleet-seeding lines from r.
// A malformed line (wrong field count, unparseable number) is logged
// by the caller via the returned warnings slice and skipped: log at
// warning, skip, continue reading. This function itself stays
// side-effect free so callers can choose how to surface the warnings.
func ParseSeedFile(r io.Reader) (entries []SeedEntry, warnings []string) {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if lineNo == 1 && looksLikeHeader(fields) {
			continue
		}
		if len(fields) != 8 {
			warnings = append(warnings, fmt.Sprintf("line %d: expected 8 fields, got %d", lineNo, len(fields)))
			continue
		}

		vals := make([]float64, 0, 7)
		var id int64
		ok := true
		for i, f := range fields {
			if i == 1 {
				var err error
				id, err = strconv.ParseInt(f, 10, 32)
				if err != nil {
					ok = false
					break
				}
				continue
			}
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				ok = false
				break
			}
			vals = append(vals, v)
		}
		if !ok || len(vals) != 7 {
			warnings = append(warnings, fmt.Sprintf("line %d: unparseable numeric field", lineNo))
			continue
		}

		entries = append(entries, SeedEntry{
			EnterTimeSec: vals[0],
			ID:           int32(id),
			Position:     geometry.Vec3{X: vals[1], Y: vals[2], Z: vals[3]},
			Velocity:     geometry.Vec3{X: vals[4], Y: vals[5], Z: vals[6]},
		})
	}
	return entries, warnings
}

// looksLikeHeader reports whether fields look like the file's optional
// human-readable header row rather than a malformed data line.
func looksLikeHeader(fields []string) bool {
	if len(fields) == 0 {
		return true
	}
	_, err := strconv.ParseFloat(fields[0], 64)
	return err != nil
}
