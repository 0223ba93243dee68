package operator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atc-sim/atc-sim/geometry"
)

// ParseCommandLine parses one line of the stdin operator grammar:
//
//	show_plane <id>
//	set_velocity <id> <vx> <vy> <vz>
//	update_congestion <seconds>
//
// A malformed line returns an error; the caller logs at warning and
// keeps reading.
func ParseCommandLine(line string) (Request, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Request{}, fmt.Errorf("operator: empty command line")
	}

	switch fields[0] {
	case "show_plane":
		if len(fields) != 2 {
			return Request{}, fmt.Errorf("operator: show_plane wants 1 argument, got %d", len(fields)-1)
		}
		id, err := parseInt32(fields[1])
		if err != nil {
			return Request{}, fmt.Errorf("operator: show_plane: %w", err)
		}
		return Request{Kind: RequestShowPlane, PlaneID: id}, nil

	case "set_velocity":
		if len(fields) != 5 {
			return Request{}, fmt.Errorf("operator: set_velocity wants 4 arguments, got %d", len(fields)-1)
		}
		id, err := parseInt32(fields[1])
		if err != nil {
			return Request{}, fmt.Errorf("operator: set_velocity: %w", err)
		}
		vx, err1 := strconv.ParseFloat(fields[2], 64)
		vy, err2 := strconv.ParseFloat(fields[3], 64)
		vz, err3 := strconv.ParseFloat(fields[4], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return Request{}, fmt.Errorf("operator: set_velocity: unparseable velocity component")
		}
		return Request{Kind: RequestSetVelocity, PlaneID: id, NewVelocity: geometry.Vec3{X: vx, Y: vy, Z: vz}}, nil

	case "update_congestion":
		if len(fields) != 2 {
			return Request{}, fmt.Errorf("operator: update_congestion wants 1 argument, got %d", len(fields)-1)
		}
		secs, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return Request{}, fmt.Errorf("operator: update_congestion: %w", err)
		}
		return Request{Kind: RequestSetCongestionHorizon, NewCongestionSeconds: secs}, nil

	default:
		return Request{}, fmt.Errorf("operator: unrecognized command %q", fields[0])
	}
}

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}
