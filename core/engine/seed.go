package engine

import (
	"fmt"
	"time"

	"github.com/amrops/fleetconsole/core/adapters"
	"github.com/amrops/fleetconsole/core/model"
)

// Seed dimensions for a fresh aggregate.
const (
	seedRobots = 30
	seedTasks  = 5
)

var (
	seedZones     = []string{"zone_a", "zone_b", "zone_c"}
	seedStatuses  = []model.RobotStatus{model.StatusIdle, model.StatusWorking, model.StatusCharging, model.StatusIdle, model.StatusIdle, model.StatusError}
	seedTaskTypes = []string{"pick", "dropoff", "cycle_count", "tow"}
)

func (e *Engine) randInt(min, max int) int {
	return e.rng.Intn(max-min+1) + min
}

func (e *Engine) randFloat(min, max float64) float64 {
	return e.rng.Float64()*(max-min) + min
}

// seedFleet builds the initial aggregate used when the store holds no
// data yet: a mixed-vendor fleet plus a handful of queued tasks spread
// over it.
func (e *Engine) seedFleet() *model.FleetData {
	now := e.now()
	robots := make([]model.RobotState, seedRobots)
	for i := range robots {
		vendor := model.VendorLocus
		if i%2 == 1 {
			vendor = model.VendorB
		}
		status := seedStatuses[e.randInt(0, len(seedStatuses)-1)]
		battery := float64(e.randInt(35, 100))
		if status == model.StatusCharging {
			battery = float64(e.randInt(10, 70))
		}
		robots[i] = model.RobotState{
			ID:     fmt.Sprintf("amr-%03d", i+1),
			Vendor: vendor,
			Zone:   seedZones[e.randInt(0, len(seedZones)-1)],
			Position: model.Position{
				X: e.randFloat(4, 96),
				Y: e.randFloat(4, 96),
			},
			Battery:   battery,
			Status:    status,
			TaskQueue: []string{},
			LastSeen:  now.Add(-time.Duration(e.randInt(0, 25_000)) * time.Millisecond),
		}
	}

	tasks := make([]*model.Task, seedTasks)
	for i := range tasks {
		task := &model.Task{
			ID:              fmt.Sprintf("task-%03d", i+1),
			Type:            seedTaskTypes[i%len(seedTaskTypes)],
			Priority:        e.randInt(1, 5),
			DestinationZone: seedZones[e.randInt(0, len(seedZones)-1)],
			Status:          model.TaskQueued,
			CreatedAt:       now.Add(-time.Duration(e.randInt(0, 100_000)) * time.Millisecond),
		}
		if e.rng.Float64() < 0.45 {
			task.Notes = "Seeded demo task"
		}
		tasks[i] = task

		robot := &robots[e.randInt(0, len(robots)-1)]
		task.AssignedRobotID = robot.ID
		if robot.CurrentTaskID == "" && robot.Status != model.StatusCharging && robot.Status != model.StatusError {
			robot.CurrentTaskID = task.ID
			robot.Status = model.StatusWorking
			task.Status = model.TaskInProgress
		} else {
			robot.TaskQueue = append(robot.TaskQueue, task.ID)
			task.Status = model.TaskAssigned
		}
	}

	data := &model.FleetData{
		LocusPayloads:   map[string]model.LocusPayload{},
		VendorBPayloads: map[string]model.VendorBPayload{},
		Tasks:           tasks,
		Commands:        []model.Command{},
		LastTick:        now.UnixMilli(),
		InitializedAt:   now,
	}
	for _, robot := range robots {
		adapters.WriteRobot(data, robot)
	}
	data.PushAudit(model.AuditEvent{
		ID:        e.newID("audit"),
		TS:        now,
		ActorRole: model.RoleAdmin,
		Action:    "system_seed",
		Result:    model.CommandResult{Status: model.ResultSuccess},
		Vendor:    model.VendorSystem,
		Payload:   map[string]any{"message": "Initial fleet state generated"},
	})
	data.PushAudit(model.AuditEvent{
		ID:        e.newID("audit"),
		TS:        now,
		ActorRole: model.RoleOperator,
		Action:    "task_seed",
		Result:    model.CommandResult{Status: model.ResultSuccess},
		Vendor:    model.VendorSystem,
		Payload:   map[string]any{"seededTasks": len(tasks)},
	})
	return data
}

// SeedFleet exposes seeding for the seed CLI command.
func (e *Engine) SeedFleet() *model.FleetData {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seedFleet()
}
