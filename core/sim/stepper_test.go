package sim

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/amrops/fleetconsole/core/adapters"
	"github.com/amrops/fleetconsole/core/logger"
	"github.com/amrops/fleetconsole/core/model"
)

var stepClock = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

type quietLogger struct{}

func (quietLogger) Debugf(string, ...any)         {}
func (quietLogger) Debugw(string, map[string]any) {}
func (quietLogger) Infof(string, ...any)          {}
func (quietLogger) Warnf(string, ...any)          {}
func (quietLogger) Errorf(string, ...any)         {}

var _ logger.Logger = quietLogger{}

func testIDs() func(string) string {
	n := 0
	return func(prefix string) string {
		n++
		return prefix + "-" + string(rune('a'+n%26)) + "-test"
	}
}

func fleetOf(robots ...model.RobotState) *model.FleetData {
	data := &model.FleetData{
		LocusPayloads:   map[string]model.LocusPayload{},
		VendorBPayloads: map[string]model.VendorBPayload{},
		LastTick:        stepClock.UnixMilli(),
	}
	for _, r := range robots {
		adapters.WriteRobot(data, r)
	}
	return data
}

func robot(id string, status model.RobotStatus, battery float64) model.RobotState {
	return model.RobotState{
		ID: id, Vendor: model.VendorLocus, Zone: "zone_a",
		Position: model.Position{X: 50, Y: 50},
		Battery:  battery, Status: status, TaskQueue: []string{},
		LastSeen: stepClock,
	}
}

func TestStepDeterministicForSeed(t *testing.T) {
	build := func() *model.FleetData {
		return fleetOf(
			robot("amr-001", model.StatusIdle, 80),
			robot("amr-002", model.StatusWorking, 60),
			robot("amr-003", model.StatusCharging, 40),
		)
	}
	now := stepClock.Add(10 * time.Second)

	a := build()
	b := build()
	NewStepper(99, quietLogger{}, testIDs()).Step(a, now)
	NewStepper(99, quietLogger{}, testIDs()).Step(b, now)

	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	if string(aj) != string(bj) {
		t.Fatal("same seed produced different aggregates")
	}

	c := build()
	NewStepper(7, quietLogger{}, testIDs()).Step(c, now)
	cj, _ := json.Marshal(c)
	if string(aj) == string(cj) {
		t.Fatal("different seeds produced identical aggregates")
	}
}

func TestStepStampsTickAndLastSeen(t *testing.T) {
	data := fleetOf(robot("amr-001", model.StatusIdle, 80))
	now := stepClock.Add(7 * time.Second)
	stats := NewStepper(1, quietLogger{}, testIDs()).Step(data, now)

	if stats.Robots != 1 {
		t.Fatalf("stats robots: %d", stats.Robots)
	}
	if data.LastTick != now.UnixMilli() {
		t.Fatalf("lastTick: %d", data.LastTick)
	}
	updated, _, _ := adapters.Robot(data, "amr-001")
	if !updated.LastSeen.Equal(now) {
		t.Fatalf("lastSeen: %v", updated.LastSeen)
	}
}

func TestPausedRobotHoldsPositionButDrains(t *testing.T) {
	data := fleetOf(robot("amr-001", model.StatusPaused, 80))
	NewStepper(1, quietLogger{}, testIDs()).Step(data, stepClock.Add(5*time.Second))

	updated, _, _ := adapters.Robot(data, "amr-001")
	if updated.Position.X != 50 || updated.Position.Y != 50 {
		t.Fatalf("paused robot moved: %+v", updated.Position)
	}
	if updated.Battery >= 80 {
		t.Fatalf("paused robot did not drain: %v", updated.Battery)
	}
	if updated.Status != model.StatusPaused {
		t.Fatalf("paused robot changed status: %s", updated.Status)
	}
}

func TestLowBatteryForcesCharging(t *testing.T) {
	data := fleetOf(robot("amr-001", model.StatusIdle, 12.1))
	NewStepper(1, quietLogger{}, testIDs()).Step(data, stepClock.Add(5*time.Second))

	updated, _, _ := adapters.Robot(data, "amr-001")
	if updated.Status != model.StatusCharging {
		t.Fatalf("low battery robot status: %s", updated.Status)
	}
}

func TestBatteryClampedAtZero(t *testing.T) {
	data := fleetOf(robot("amr-001", model.StatusIdle, 0.05))
	NewStepper(1, quietLogger{}, testIDs()).Step(data, stepClock.Add(5*time.Second))

	updated, _, _ := adapters.Robot(data, "amr-001")
	if updated.Battery < 0 {
		t.Fatalf("battery below zero: %v", updated.Battery)
	}
}

func TestChargingRobotGainsBattery(t *testing.T) {
	data := fleetOf(robot("amr-001", model.StatusCharging, 40))
	NewStepper(1, quietLogger{}, testIDs()).Step(data, stepClock.Add(5*time.Second))

	updated, _, _ := adapters.Robot(data, "amr-001")
	if updated.Battery <= 40 {
		t.Fatalf("charging robot did not gain: %v", updated.Battery)
	}
}

func TestReconcileRequeuesOrphanedTask(t *testing.T) {
	data := fleetOf(robot("amr-001", model.StatusIdle, 80))
	data.Tasks = []*model.Task{
		{ID: "task-001", Status: model.TaskInProgress, AssignedRobotID: "amr-gone"},
	}
	NewStepper(1, quietLogger{}, testIDs()).Step(data, stepClock.Add(5*time.Second))

	task := data.FindTask("task-001")
	if task.AssignedRobotID != "" || task.Status != model.TaskQueued {
		t.Fatalf("orphan task not requeued: %+v", task)
	}
}

func TestReconcileAlignsTaskWithQueuePosition(t *testing.T) {
	worker := robot("amr-001", model.StatusWorking, 80)
	worker.CurrentTaskID = "task-001"
	worker.TaskQueue = []string{"task-002"}
	data := fleetOf(worker)
	data.Tasks = []*model.Task{
		{ID: "task-001", Status: model.TaskQueued, AssignedRobotID: "amr-001"},
		{ID: "task-002", Status: model.TaskQueued, AssignedRobotID: "amr-001"},
	}

	// Seed 1 fires no completion on the first draw, so the robot keeps
	// both references and reconciliation fixes the statuses.
	NewStepper(1, quietLogger{}, testIDs()).Step(data, stepClock.Add(5*time.Second))

	updated, _, _ := adapters.Robot(data, "amr-001")
	if updated.CurrentTaskID == "task-001" {
		if data.FindTask("task-001").Status != model.TaskInProgress {
			t.Fatalf("active task status: %s", data.FindTask("task-001").Status)
		}
	}
	for _, task := range data.Tasks {
		if task.Status == model.TaskQueued && task.AssignedRobotID != "" {
			queued := containsTask(updated.TaskQueue, task.ID) || updated.CurrentTaskID == task.ID
			if queued {
				t.Fatalf("referenced task left queued: %+v", task)
			}
		}
	}
}

func containsTask(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
