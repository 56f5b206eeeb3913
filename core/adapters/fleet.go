package adapters

import (
	"sort"

	"github.com/amrops/fleetconsole/core/model"
)

// Robots derives the canonical state of every robot in the aggregate,
// sorted by id ascending.
func Robots(data *model.FleetData) []model.RobotState {
	robots := make([]model.RobotState, 0, len(data.LocusPayloads)+len(data.VendorBPayloads))
	for _, raw := range data.LocusPayloads {
		robots = append(robots, LocusToCanonical(raw))
	}
	for _, raw := range data.VendorBPayloads {
		robots = append(robots, VendorBToCanonical(raw))
	}
	sort.Slice(robots, func(i, j int) bool { return robots[i].ID < robots[j].ID })
	return robots
}

// Robot derives the canonical state of one robot together with its raw
// vendor payload. The second return is false when the id is unknown.
func Robot(data *model.FleetData, robotID string) (model.RobotState, any, bool) {
	if raw, ok := data.LocusPayloads[robotID]; ok {
		return LocusToCanonical(raw), raw, true
	}
	if raw, ok := data.VendorBPayloads[robotID]; ok {
		return VendorBToCanonical(raw), raw, true
	}
	return model.RobotState{}, nil, false
}

// WriteRobot converts the canonical state back through the owning
// vendor's adapter and stores the payload in the aggregate.
func WriteRobot(data *model.FleetData, robot model.RobotState) {
	switch robot.Vendor {
	case model.VendorLocus:
		data.LocusPayloads[robot.ID] = CanonicalToLocus(robot)
	case model.VendorB:
		data.VendorBPayloads[robot.ID] = CanonicalToVendorB(robot)
	}
}
