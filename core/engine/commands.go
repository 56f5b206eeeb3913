package engine

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/amrops/fleetconsole/core/adapters"
	"github.com/amrops/fleetconsole/core/model"
)

// PauseRobot halts a robot. Pausing an already paused robot is a
// conflict, not a no-op.
func (e *Engine) PauseRobot(ctx context.Context, role model.Role, robotID, reason string) (Outcome, error) {
	var out Outcome
	err := e.WithFleet(ctx, func(data *model.FleetData) error {
		out = e.pauseRobot(data, role, robotID, reason)
		return nil
	})
	return out, err
}

func (e *Engine) pauseRobot(data *model.FleetData, role model.Role, robotID, reason string) Outcome {
	if !role.CanMutate() {
		return e.denyMutation(data, role, "pause_robot", model.CommandPause, robotID, "")
	}

	robot, _, ok := adapters.Robot(data, robotID)
	if !ok {
		result := failed("robot not found")
		e.audit(data, auditEntry{role: role, action: "pause_robot", robotID: robotID, result: result})
		return notFound("Robot not found", result)
	}

	if robot.Status == model.StatusPaused {
		result := failed("robot already paused")
		e.command(data, model.CommandPause, role, robot.ID, "", result)
		e.audit(data, auditEntry{role: role, action: "pause_robot", robotID: robot.ID, result: result})
		return conflict("Robot already paused", result)
	}

	robot.Status = model.StatusPaused
	robot.LastSeen = e.now()
	adapters.WriteRobot(data, robot)

	if reason == "" {
		reason = "manual_pause"
	}
	result := succeeded()
	e.command(data, model.CommandPause, role, robot.ID, "", result)
	e.audit(data, auditEntry{
		role: role, action: "pause_robot", robotID: robot.ID, result: result,
		payload: map[string]any{"reason": reason},
	})
	return success(http.StatusOK, "Robot paused", RobotData{Robot: robot})
}

// ResumeRobot returns a paused robot to service: working when it holds a
// task, idle otherwise.
func (e *Engine) ResumeRobot(ctx context.Context, role model.Role, robotID string) (Outcome, error) {
	var out Outcome
	err := e.WithFleet(ctx, func(data *model.FleetData) error {
		out = e.resumeRobot(data, role, robotID)
		return nil
	})
	return out, err
}

func (e *Engine) resumeRobot(data *model.FleetData, role model.Role, robotID string) Outcome {
	if !role.CanMutate() {
		return e.denyMutation(data, role, "resume_robot", model.CommandResume, robotID, "")
	}

	robot, _, ok := adapters.Robot(data, robotID)
	if !ok {
		result := failed("robot not found")
		e.audit(data, auditEntry{role: role, action: "resume_robot", robotID: robotID, result: result})
		return notFound("Robot not found", result)
	}

	if robot.Status != model.StatusPaused {
		result := failed("robot is not paused")
		e.command(data, model.CommandResume, role, robot.ID, "", result)
		e.audit(data, auditEntry{role: role, action: "resume_robot", robotID: robot.ID, result: result})
		return conflict("Robot is not paused", result)
	}

	if robot.CurrentTaskID != "" {
		robot.Status = model.StatusWorking
	} else {
		robot.Status = model.StatusIdle
	}
	robot.LastSeen = e.now()
	adapters.WriteRobot(data, robot)

	result := succeeded()
	e.command(data, model.CommandResume, role, robot.ID, "", result)
	e.audit(data, auditEntry{role: role, action: "resume_robot", robotID: robot.ID, result: result})
	return success(http.StatusOK, "Robot resumed", RobotData{Robot: robot})
}

// AssignTaskInput are the parameters of one task assignment.
type AssignTaskInput struct {
	Role            model.Role
	Type            string
	Priority        int
	DestinationZone string
	Notes           string
	AssignedRobotID string
}

// AssignTask creates a task and binds it to the requested robot, or to
// the best-scoring robot when none is named. Scoring favors robots in
// the destination zone, idle robots and high battery; ties keep the
// pre-existing id ordering.
func (e *Engine) AssignTask(ctx context.Context, in AssignTaskInput) (Outcome, error) {
	var out Outcome
	err := e.WithFleet(ctx, func(data *model.FleetData) error {
		out = e.assignTask(data, in)
		return nil
	})
	return out, err
}

func (e *Engine) assignTask(data *model.FleetData, in AssignTaskInput) Outcome {
	if !in.Role.CanMutate() {
		return e.denyMutation(data, in.Role, "assign_task", model.CommandAssignTask, in.AssignedRobotID, "")
	}

	robots := adapters.Robots(data)
	var selected *model.RobotState
	if in.AssignedRobotID != "" {
		for i := range robots {
			if robots[i].ID == in.AssignedRobotID {
				selected = &robots[i]
				break
			}
		}
	} else if len(robots) > 0 {
		score := func(r model.RobotState) float64 {
			s := r.Battery
			if r.Zone == in.DestinationZone {
				s += 2
			}
			if r.Status == model.StatusIdle {
				s++
			}
			return s
		}
		sort.SliceStable(robots, func(i, j int) bool { return score(robots[i]) > score(robots[j]) })
		selected = &robots[0]
	}

	if selected == nil {
		result := failed("no eligible robot found")
		e.audit(data, auditEntry{
			role: in.Role, action: "assign_task", result: result,
			payload: map[string]any{"requestedRobotId": in.AssignedRobotID},
		})
		return notFound("No robot available", result)
	}

	robot := *selected
	task := &model.Task{
		ID:              e.newID("task"),
		Type:            in.Type,
		Priority:        in.Priority,
		DestinationZone: in.DestinationZone,
		Status:          model.TaskQueued,
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       e.now(),
	}

	attachTask(&robot, task)
	adapters.WriteRobot(data, robot)
	data.Tasks = append(data.Tasks, task)

	result := succeeded()
	e.command(data, model.CommandAssignTask, in.Role, robot.ID, task.ID, result)
	e.audit(data, auditEntry{
		role: in.Role, action: "assign_task", robotID: robot.ID, taskID: task.ID, result: result,
		payload: map[string]any{
			"destinationZone": task.DestinationZone,
			"priority":        task.Priority,
			"taskType":        task.Type,
		},
	})
	return success(http.StatusCreated, "Task assigned", AssignData{Task: *task, Robot: robot})
}

// RerouteTask moves a task to another robot. The task is detached from
// its current robot via the queue-advance rule, reset to queued and
// re-attached under the regular attachment rule.
func (e *Engine) RerouteTask(ctx context.Context, role model.Role, taskID, targetRobotID string) (Outcome, error) {
	var out Outcome
	err := e.WithFleet(ctx, func(data *model.FleetData) error {
		out = e.rerouteTask(data, role, taskID, targetRobotID)
		return nil
	})
	return out, err
}

func (e *Engine) rerouteTask(data *model.FleetData, role model.Role, taskID, targetRobotID string) Outcome {
	if !role.CanMutate() {
		return e.denyMutation(data, role, "reroute_task", model.CommandReroute, targetRobotID, taskID)
	}

	task := data.FindTask(taskID)
	if task == nil {
		result := failed("task not found")
		e.audit(data, auditEntry{role: role, action: "reroute_task", taskID: taskID, result: result})
		return notFound("Task not found", result)
	}

	if task.Terminal() {
		result := failed("task is already " + string(task.Status))
		e.audit(data, auditEntry{role: role, action: "reroute_task", taskID: task.ID, result: result})
		return conflict("Task cannot be rerouted", result)
	}

	target, _, ok := adapters.Robot(data, targetRobotID)
	if !ok {
		result := failed("target robot not found")
		e.audit(data, auditEntry{role: role, action: "reroute_task", taskID: task.ID, robotID: targetRobotID, result: result})
		return notFound("Target robot not found", result)
	}

	fromRobotID := task.AssignedRobotID
	if fromRobotID != "" && fromRobotID == target.ID {
		result := failed("task is already on target robot")
		e.audit(data, auditEntry{role: role, action: "reroute_task", taskID: task.ID, robotID: fromRobotID, result: result})
		return conflict("Task already assigned to target", result)
	}

	if fromRobotID != "" {
		if source, _, ok := adapters.Robot(data, fromRobotID); ok {
			detachTask(data, &source, task.ID)
			adapters.WriteRobot(data, source)
		}
	}

	task.Status = model.TaskQueued
	attachTask(&target, task)
	adapters.WriteRobot(data, target)

	result := succeeded()
	e.command(data, model.CommandReroute, role, target.ID, task.ID, result)
	e.audit(data, auditEntry{
		role: role, action: "reroute_task", robotID: target.ID, taskID: task.ID, result: result,
		payload: map[string]any{"fromRobotId": fromRobotID, "toRobotId": target.ID},
	})
	return success(http.StatusOK, "Task rerouted", RerouteData{
		Task:        *task,
		FromRobotID: fromRobotID,
		ToRobotID:   target.ID,
	})
}

// CancelTask cancels a task. Terminal tasks are immutable: cancelling a
// completed or already cancelled task is a conflict.
func (e *Engine) CancelTask(ctx context.Context, role model.Role, taskID, reason string) (Outcome, error) {
	var out Outcome
	err := e.WithFleet(ctx, func(data *model.FleetData) error {
		out = e.cancelTask(data, role, taskID, reason)
		return nil
	})
	return out, err
}

func (e *Engine) cancelTask(data *model.FleetData, role model.Role, taskID, reason string) Outcome {
	if !role.CanMutate() {
		return e.denyMutation(data, role, "cancel_task", model.CommandCancelTask, "", taskID)
	}

	task := data.FindTask(taskID)
	if task == nil {
		result := failed("task not found")
		e.audit(data, auditEntry{role: role, action: "cancel_task", taskID: taskID, result: result})
		return notFound("Task not found", result)
	}

	if task.Status == model.TaskCancelled {
		result := failed("task is already cancelled")
		e.audit(data, auditEntry{role: role, action: "cancel_task", taskID: task.ID, robotID: task.AssignedRobotID, result: result})
		return conflict("Task is already cancelled", result)
	}

	if task.Status == model.TaskCompleted {
		result := failed("completed task cannot be cancelled")
		e.audit(data, auditEntry{role: role, action: "cancel_task", taskID: task.ID, robotID: task.AssignedRobotID, result: result})
		return conflict("Completed task cannot be cancelled", result)
	}

	robotID := task.AssignedRobotID
	if robotID != "" {
		if robot, _, ok := adapters.Robot(data, robotID); ok {
			detachTask(data, &robot, task.ID)
			adapters.WriteRobot(data, robot)
		}
	}

	task.Status = model.TaskCancelled
	task.AssignedRobotID = ""

	if reason == "" {
		reason = "manual_cancel"
	}
	commandRobotID := robotID
	if commandRobotID == "" {
		commandRobotID = "n/a"
	}
	result := succeeded()
	e.command(data, model.CommandCancelTask, role, commandRobotID, task.ID, result)
	e.audit(data, auditEntry{
		role: role, action: "cancel_task", taskID: task.ID, robotID: robotID, result: result,
		payload: map[string]any{"reason": reason},
	})
	return success(http.StatusOK, "Task cancelled", TaskData{Task: *task})
}
