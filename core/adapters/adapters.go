// Package adapters converts between vendor-native robot payloads and the
// canonical RobotState. Conversions are pure, keep task references
// untouched and clamp numeric telemetry to the facility bounds so vendor
// drift never leaks into the core.
package adapters

import (
	"math"
	"time"

	"github.com/amrops/fleetconsole/core/model"
)

// Numeric precision applied when writing canonical state back to a
// vendor payload: positions keep two decimals, battery one.
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }

var locusToCanonicalStatus = map[model.LocusStatusCode]model.RobotStatus{
	model.LocusIdle:     model.StatusIdle,
	model.LocusWorking:  model.StatusWorking,
	model.LocusCharging: model.StatusCharging,
	model.LocusError:    model.StatusError,
	model.LocusPaused:   model.StatusPaused,
}

var canonicalToLocusStatus = map[model.RobotStatus]model.LocusStatusCode{
	model.StatusIdle:     model.LocusIdle,
	model.StatusWorking:  model.LocusWorking,
	model.StatusCharging: model.LocusCharging,
	model.StatusError:    model.LocusError,
	model.StatusPaused:   model.LocusPaused,
}

var vendorBToCanonicalStatus = map[model.VendorBStatusCode]model.RobotStatus{
	model.VendorBIdle:     model.StatusIdle,
	model.VendorBWorking:  model.StatusWorking,
	model.VendorBCharging: model.StatusCharging,
	model.VendorBError:    model.StatusError,
	model.VendorBPaused:   model.StatusPaused,
}

var canonicalToVendorBStatus = map[model.RobotStatus]model.VendorBStatusCode{
	model.StatusIdle:     model.VendorBIdle,
	model.StatusWorking:  model.VendorBWorking,
	model.StatusCharging: model.VendorBCharging,
	model.StatusError:    model.VendorBError,
	model.StatusPaused:   model.VendorBPaused,
}

// LocusToCanonical maps a Locus report to canonical state.
func LocusToCanonical(raw model.LocusPayload) model.RobotState {
	lastSeen, _ := time.Parse(time.RFC3339Nano, raw.Telemetry.LastSeenISO)
	return model.RobotState{
		ID:     raw.UnitID,
		Vendor: model.VendorLocus,
		Zone:   raw.Telemetry.Zone,
		Position: model.Position{
			X: model.Clamp(raw.Telemetry.Coord.X, 0, 100),
			Y: model.Clamp(raw.Telemetry.Coord.Y, 0, 100),
		},
		Battery:       model.Clamp(raw.Telemetry.BatteryPct, 0, 100),
		Status:        locusToCanonicalStatus[raw.Telemetry.StatusCode],
		CurrentTaskID: raw.Mission.CurrentTaskID,
		TaskQueue:     append([]string(nil), raw.Mission.Queue...),
		LastSeen:      lastSeen,
	}
}

// CanonicalToLocus maps canonical state to the Locus wire shape.
func CanonicalToLocus(robot model.RobotState) model.LocusPayload {
	return model.LocusPayload{
		UnitID: robot.ID,
		Telemetry: model.LocusTelemetry{
			Zone: robot.Zone,
			Coord: model.Position{
				X: round2(model.Clamp(robot.Position.X, 0, 100)),
				Y: round2(model.Clamp(robot.Position.Y, 0, 100)),
			},
			BatteryPct:  round1(model.Clamp(robot.Battery, 0, 100)),
			StatusCode:  canonicalToLocusStatus[robot.Status],
			LastSeenISO: robot.LastSeen.UTC().Format(time.RFC3339Nano),
		},
		Mission: model.LocusMission{
			CurrentTaskID: robot.CurrentTaskID,
			Queue:         append([]string(nil), robot.TaskQueue...),
		},
	}
}

// VendorBToCanonical maps a vendor_b report to canonical state.
func VendorBToCanonical(raw model.VendorBPayload) model.RobotState {
	return model.RobotState{
		ID:     raw.RobotID,
		Vendor: model.VendorB,
		Zone:   raw.Area,
		Position: model.Position{
			X: model.Clamp(raw.Pose[0], 0, 100),
			Y: model.Clamp(raw.Pose[1], 0, 100),
		},
		Battery:       model.Clamp(raw.BatteryLevel, 0, 100),
		Status:        vendorBToCanonicalStatus[raw.State],
		CurrentTaskID: raw.Tasks.Active,
		TaskQueue:     append([]string(nil), raw.Tasks.Queued...),
		LastSeen:      time.UnixMilli(raw.Heartbeat).UTC(),
	}
}

// CanonicalToVendorB maps canonical state to the vendor_b wire shape.
func CanonicalToVendorB(robot model.RobotState) model.VendorBPayload {
	return model.VendorBPayload{
		RobotID: robot.ID,
		Area:    robot.Zone,
		Pose: [2]float64{
			round2(model.Clamp(robot.Position.X, 0, 100)),
			round2(model.Clamp(robot.Position.Y, 0, 100)),
		},
		BatteryLevel: round1(model.Clamp(robot.Battery, 0, 100)),
		State:        canonicalToVendorBStatus[robot.Status],
		Tasks: model.VendorBTasks{
			Active: robot.CurrentTaskID,
			Queued: append([]string(nil), robot.TaskQueue...),
		},
		Heartbeat: robot.LastSeen.UnixMilli(),
	}
}
