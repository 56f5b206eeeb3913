package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/amrops/fleetconsole/core/adapters"
	"github.com/amrops/fleetconsole/core/model"
	"github.com/amrops/fleetconsole/core/sim"
	"github.com/amrops/fleetconsole/store"
)

var testClock = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	stepper := sim.NewStepper(1, nopLogger{}, NewID)
	e, err := New(store.NewMemoryStore(), stepper, time.Hour, 3, nopLogger{}, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.SetClock(func() time.Time { return testClock })
	var n int
	e.SetIDGen(func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%04d", prefix, n)
	})
	return e
}

func fleetWith(robots ...model.RobotState) *model.FleetData {
	data := &model.FleetData{
		LocusPayloads:   map[string]model.LocusPayload{},
		VendorBPayloads: map[string]model.VendorBPayload{},
		LastTick:        testClock.UnixMilli(),
		InitializedAt:   testClock,
	}
	for _, r := range robots {
		adapters.WriteRobot(data, r)
	}
	return data
}

func idleRobot(id string) model.RobotState {
	return model.RobotState{
		ID: id, Vendor: model.VendorLocus, Zone: "zone_a",
		Battery: 80, Status: model.StatusIdle, TaskQueue: []string{},
		LastSeen: testClock,
	}
}

func TestViewerDeniedOnEveryCommand(t *testing.T) {
	e := testEngine(t)
	data := fleetWith(idleRobot("amr-001"))
	data.Tasks = append(data.Tasks, &model.Task{ID: "task-001", Status: model.TaskQueued})

	outcomes := []Outcome{
		e.pauseRobot(data, model.RoleViewer, "amr-001", ""),
		e.resumeRobot(data, model.RoleViewer, "amr-001"),
		e.assignTask(data, AssignTaskInput{Role: model.RoleViewer, Type: "pick", Priority: 1, DestinationZone: "zone_a"}),
		e.rerouteTask(data, model.RoleViewer, "task-001", "amr-001"),
		e.cancelTask(data, model.RoleViewer, "task-001", ""),
	}
	for i, out := range outcomes {
		if out.OK || out.Status != 403 {
			t.Fatalf("outcome %d: %+v", i, out)
		}
		if out.Message != "Viewer role cannot execute mutating actions" {
			t.Fatalf("outcome %d message: %s", i, out.Message)
		}
		if out.Result.Reason != "viewer role is read-only" {
			t.Fatalf("outcome %d reason: %s", i, out.Result.Reason)
		}
	}

	// Every denial is audited; command records need a robot context, so
	// the assign (no robot requested) and cancel denials write none.
	if len(data.Audit) != 5 {
		t.Fatalf("audit entries: %d", len(data.Audit))
	}
	if len(data.Commands) != 3 {
		t.Fatalf("command entries: %d", len(data.Commands))
	}
	for _, ev := range data.Audit {
		if ev.Result.Status != model.ResultFail {
			t.Fatalf("audit not failed: %+v", ev)
		}
		if ev.Payload["reason"] != "viewer role is read-only" {
			t.Fatalf("audit payload: %+v", ev.Payload)
		}
	}
}

func TestPauseRobot(t *testing.T) {
	e := testEngine(t)
	data := fleetWith(idleRobot("amr-001"))

	out := e.pauseRobot(data, model.RoleOperator, "amr-001", "")
	if !out.OK || out.Status != 200 || out.Message != "Robot paused" {
		t.Fatalf("outcome: %+v", out)
	}
	robot, _, _ := adapters.Robot(data, "amr-001")
	if robot.Status != model.StatusPaused {
		t.Fatalf("status: %s", robot.Status)
	}
	if len(data.Commands) != 1 || data.Commands[0].Type != model.CommandPause {
		t.Fatalf("command ledger: %+v", data.Commands)
	}
	if data.Audit[len(data.Audit)-1].Payload["reason"] != "manual_pause" {
		t.Fatalf("default pause reason missing: %+v", data.Audit)
	}

	out = e.pauseRobot(data, model.RoleOperator, "amr-001", "")
	if out.OK || out.Status != 409 || out.Message != "Robot already paused" {
		t.Fatalf("double pause: %+v", out)
	}
	if data.Commands[len(data.Commands)-1].Result.Reason != "robot already paused" {
		t.Fatalf("conflict command reason: %+v", data.Commands)
	}
}

func TestPauseUnknownRobot(t *testing.T) {
	e := testEngine(t)
	data := fleetWith()
	out := e.pauseRobot(data, model.RoleAdmin, "amr-404", "")
	if out.OK || out.Status != 404 || out.Message != "Robot not found" {
		t.Fatalf("outcome: %+v", out)
	}
	if len(data.Commands) != 0 {
		t.Fatal("unknown robot must not produce a command record")
	}
	if len(data.Audit) != 1 || data.Audit[0].Result.Reason != "robot not found" {
		t.Fatalf("audit: %+v", data.Audit)
	}
}

func TestResumeRobot(t *testing.T) {
	e := testEngine(t)
	busy := idleRobot("amr-001")
	busy.Status = model.StatusPaused
	busy.CurrentTaskID = "task-001"
	free := idleRobot("amr-002")
	free.Status = model.StatusPaused
	data := fleetWith(busy, free)

	out := e.resumeRobot(data, model.RoleOperator, "amr-001")
	if !out.OK {
		t.Fatalf("outcome: %+v", out)
	}
	robot, _, _ := adapters.Robot(data, "amr-001")
	if robot.Status != model.StatusWorking {
		t.Fatalf("robot with task resumed to %s", robot.Status)
	}

	out = e.resumeRobot(data, model.RoleOperator, "amr-002")
	if !out.OK {
		t.Fatalf("outcome: %+v", out)
	}
	robot, _, _ = adapters.Robot(data, "amr-002")
	if robot.Status != model.StatusIdle {
		t.Fatalf("idle robot resumed to %s", robot.Status)
	}

	out = e.resumeRobot(data, model.RoleOperator, "amr-002")
	if out.OK || out.Status != 409 || out.Message != "Robot is not paused" {
		t.Fatalf("resume of unpaused robot: %+v", out)
	}
}

func TestAssignTaskToRequestedRobot(t *testing.T) {
	e := testEngine(t)
	data := fleetWith(idleRobot("amr-001"), idleRobot("amr-002"))

	out := e.assignTask(data, AssignTaskInput{
		Role: model.RoleAdmin, Type: "pick", Priority: 2,
		DestinationZone: "zone_b", AssignedRobotID: "amr-002",
	})
	if !out.OK || out.Status != 201 {
		t.Fatalf("outcome: %+v", out)
	}
	assign := out.Data.(AssignData)
	if assign.Robot.ID != "amr-002" || assign.Robot.Status != model.StatusWorking {
		t.Fatalf("robot: %+v", assign.Robot)
	}
	if assign.Task.Status != model.TaskInProgress || assign.Task.AssignedRobotID != "amr-002" {
		t.Fatalf("task: %+v", assign.Task)
	}
	if len(data.Tasks) != 1 {
		t.Fatalf("task backlog: %d", len(data.Tasks))
	}
}

func TestAssignTaskQueuesOnBusyRobot(t *testing.T) {
	e := testEngine(t)
	busy := idleRobot("amr-001")
	busy.Status = model.StatusWorking
	busy.CurrentTaskID = "task-000"
	data := fleetWith(busy)

	out := e.assignTask(data, AssignTaskInput{
		Role: model.RoleOperator, Type: "tow", Priority: 1,
		DestinationZone: "zone_a", AssignedRobotID: "amr-001",
	})
	if !out.OK {
		t.Fatalf("outcome: %+v", out)
	}
	assign := out.Data.(AssignData)
	if assign.Task.Status != model.TaskAssigned {
		t.Fatalf("busy robot task status: %s", assign.Task.Status)
	}
	if len(assign.Robot.TaskQueue) != 1 || assign.Robot.TaskQueue[0] != assign.Task.ID {
		t.Fatalf("queue: %+v", assign.Robot.TaskQueue)
	}
}

func TestAssignTaskKeepsChargingStatus(t *testing.T) {
	e := testEngine(t)
	charging := idleRobot("amr-001")
	charging.Status = model.StatusCharging
	data := fleetWith(charging)

	out := e.assignTask(data, AssignTaskInput{
		Role: model.RoleOperator, Type: "pick", Priority: 3,
		DestinationZone: "zone_a", AssignedRobotID: "amr-001",
	})
	assign := out.Data.(AssignData)
	if assign.Robot.Status != model.StatusCharging {
		t.Fatalf("charging robot flipped to %s", assign.Robot.Status)
	}
	if assign.Task.Status != model.TaskInProgress {
		t.Fatalf("task status: %s", assign.Task.Status)
	}
}

func TestAssignTaskAutoSelection(t *testing.T) {
	e := testEngine(t)
	a := idleRobot("amr-001")
	a.Battery = 50 // zone match +2, idle +1 -> 53
	b := idleRobot("amr-002")
	b.Battery = 90
	b.Zone = "zone_b"
	b.Status = model.StatusWorking
	b.CurrentTaskID = "task-000" // score 90
	c := idleRobot("amr-003")
	c.Battery = 91
	c.Zone = "zone_b" // idle +1 -> 92
	data := fleetWith(a, b, c)

	out := e.assignTask(data, AssignTaskInput{
		Role: model.RoleAdmin, Type: "pick", Priority: 1, DestinationZone: "zone_a",
	})
	assign := out.Data.(AssignData)
	if assign.Robot.ID != "amr-003" {
		t.Fatalf("selected %s", assign.Robot.ID)
	}
}

func TestAssignTaskTieBreaksById(t *testing.T) {
	e := testEngine(t)
	a := idleRobot("amr-001")
	b := idleRobot("amr-002")
	data := fleetWith(b, a)

	out := e.assignTask(data, AssignTaskInput{
		Role: model.RoleAdmin, Type: "pick", Priority: 1, DestinationZone: "zone_a",
	})
	assign := out.Data.(AssignData)
	if assign.Robot.ID != "amr-001" {
		t.Fatalf("tie break selected %s", assign.Robot.ID)
	}
}

func TestAssignTaskNoRobots(t *testing.T) {
	e := testEngine(t)
	data := fleetWith()
	out := e.assignTask(data, AssignTaskInput{
		Role: model.RoleAdmin, Type: "pick", Priority: 1, DestinationZone: "zone_a",
	})
	if out.OK || out.Status != 404 || out.Message != "No robot available" {
		t.Fatalf("outcome: %+v", out)
	}
	if out.Result.Reason != "no eligible robot found" {
		t.Fatalf("reason: %s", out.Result.Reason)
	}
}

func TestRerouteTaskMovesWork(t *testing.T) {
	e := testEngine(t)
	source := idleRobot("amr-001")
	source.Status = model.StatusWorking
	source.CurrentTaskID = "task-001"
	source.TaskQueue = []string{"task-002"}
	target := idleRobot("amr-002")
	data := fleetWith(source, target)
	data.Tasks = []*model.Task{
		{ID: "task-001", Status: model.TaskInProgress, AssignedRobotID: "amr-001"},
		{ID: "task-002", Status: model.TaskAssigned, AssignedRobotID: "amr-001"},
	}

	out := e.rerouteTask(data, model.RoleOperator, "task-001", "amr-002")
	if !out.OK || out.Status != 200 {
		t.Fatalf("outcome: %+v", out)
	}
	reroute := out.Data.(RerouteData)
	if reroute.FromRobotID != "amr-001" || reroute.ToRobotID != "amr-002" {
		t.Fatalf("endpoints: %+v", reroute)
	}

	// Source advances its queue, target picks the task up immediately.
	src, _, _ := adapters.Robot(data, "amr-001")
	if src.CurrentTaskID != "task-002" || len(src.TaskQueue) != 0 {
		t.Fatalf("source after reroute: %+v", src)
	}
	if data.FindTask("task-002").Status != model.TaskInProgress {
		t.Fatalf("queue advance did not promote task-002")
	}
	dst, _, _ := adapters.Robot(data, "amr-002")
	if dst.CurrentTaskID != "task-001" || dst.Status != model.StatusWorking {
		t.Fatalf("target after reroute: %+v", dst)
	}
	if data.FindTask("task-001").AssignedRobotID != "amr-002" {
		t.Fatal("task not reassigned")
	}
}

func TestRerouteTaskConflicts(t *testing.T) {
	e := testEngine(t)
	robot := idleRobot("amr-001")
	robot.CurrentTaskID = "task-001"
	robot.Status = model.StatusWorking
	data := fleetWith(robot)
	data.Tasks = []*model.Task{
		{ID: "task-001", Status: model.TaskInProgress, AssignedRobotID: "amr-001"},
		{ID: "task-002", Status: model.TaskCompleted},
	}

	out := e.rerouteTask(data, model.RoleAdmin, "task-404", "amr-001")
	if out.Status != 404 || out.Message != "Task not found" {
		t.Fatalf("unknown task: %+v", out)
	}

	out = e.rerouteTask(data, model.RoleAdmin, "task-002", "amr-001")
	if out.Status != 409 || out.Message != "Task cannot be rerouted" {
		t.Fatalf("terminal task: %+v", out)
	}
	if out.Result.Reason != "task is already completed" {
		t.Fatalf("terminal reason: %s", out.Result.Reason)
	}

	out = e.rerouteTask(data, model.RoleAdmin, "task-001", "amr-404")
	if out.Status != 404 || out.Message != "Target robot not found" {
		t.Fatalf("unknown target: %+v", out)
	}

	out = e.rerouteTask(data, model.RoleAdmin, "task-001", "amr-001")
	if out.Status != 409 || out.Message != "Task already assigned to target" {
		t.Fatalf("same target: %+v", out)
	}
}

func TestCancelTask(t *testing.T) {
	e := testEngine(t)
	robot := idleRobot("amr-001")
	robot.Status = model.StatusWorking
	robot.CurrentTaskID = "task-001"
	robot.TaskQueue = []string{"task-002"}
	data := fleetWith(robot)
	data.Tasks = []*model.Task{
		{ID: "task-001", Status: model.TaskInProgress, AssignedRobotID: "amr-001"},
		{ID: "task-002", Status: model.TaskAssigned, AssignedRobotID: "amr-001"},
	}

	out := e.cancelTask(data, model.RoleOperator, "task-001", "")
	if !out.OK || out.Status != 200 {
		t.Fatalf("outcome: %+v", out)
	}
	task := data.FindTask("task-001")
	if task.Status != model.TaskCancelled || task.AssignedRobotID != "" {
		t.Fatalf("task after cancel: %+v", task)
	}
	updated, _, _ := adapters.Robot(data, "amr-001")
	if updated.CurrentTaskID != "task-002" {
		t.Fatalf("queue advance after cancel: %+v", updated)
	}
	if data.Audit[len(data.Audit)-1].Payload["reason"] != "manual_cancel" {
		t.Fatalf("default cancel reason missing")
	}
}

func TestCancelUnassignedTaskRecordsPlaceholderRobot(t *testing.T) {
	e := testEngine(t)
	data := fleetWith()
	data.Tasks = []*model.Task{{ID: "task-001", Status: model.TaskQueued}}

	out := e.cancelTask(data, model.RoleAdmin, "task-001", "shift change")
	if !out.OK {
		t.Fatalf("outcome: %+v", out)
	}
	cmd := data.Commands[len(data.Commands)-1]
	if cmd.RobotID != "n/a" {
		t.Fatalf("command robot id: %s", cmd.RobotID)
	}
	if data.Audit[len(data.Audit)-1].Payload["reason"] != "shift change" {
		t.Fatalf("cancel reason not recorded")
	}
}

func TestCancelTerminalTaskConflicts(t *testing.T) {
	e := testEngine(t)
	data := fleetWith()
	data.Tasks = []*model.Task{
		{ID: "task-001", Status: model.TaskCancelled},
		{ID: "task-002", Status: model.TaskCompleted},
	}

	out := e.cancelTask(data, model.RoleAdmin, "task-001", "")
	if out.Status != 409 || out.Message != "Task is already cancelled" {
		t.Fatalf("cancelled task: %+v", out)
	}
	out = e.cancelTask(data, model.RoleAdmin, "task-002", "")
	if out.Status != 409 || out.Message != "Completed task cannot be cancelled" {
		t.Fatalf("completed task: %+v", out)
	}
}
