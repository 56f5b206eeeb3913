package engine

import "github.com/amrops/fleetconsole/core/model"

// attachTask binds a task to a robot: it becomes the active task when
// the robot is free and able to work, otherwise it joins the queue. A
// charging robot keeps charging while accepting the active task.
func attachTask(robot *model.RobotState, task *model.Task) {
	task.AssignedRobotID = robot.ID
	if robot.CurrentTaskID == "" && robot.Status != model.StatusPaused && robot.Status != model.StatusError {
		robot.CurrentTaskID = task.ID
		task.Status = model.TaskInProgress
		if robot.Status != model.StatusCharging {
			robot.Status = model.StatusWorking
		}
		return
	}
	if !containsID(robot.TaskQueue, task.ID) {
		robot.TaskQueue = append(robot.TaskQueue, task.ID)
	}
	if task.Status == model.TaskQueued {
		task.Status = model.TaskAssigned
	}
}

// advanceQueue pops the queue head into the active slot when the robot
// has no current task. An emptied working robot demotes to idle.
func advanceQueue(data *model.FleetData, robot *model.RobotState) {
	if robot.CurrentTaskID != "" {
		return
	}
	if len(robot.TaskQueue) == 0 {
		if robot.Status == model.StatusWorking {
			robot.Status = model.StatusIdle
		}
		return
	}
	next := robot.TaskQueue[0]
	robot.TaskQueue = robot.TaskQueue[1:]
	robot.CurrentTaskID = next
	if t := data.FindTask(next); t != nil {
		t.Status = model.TaskInProgress
		t.AssignedRobotID = robot.ID
	}
	if robot.Status != model.StatusPaused && robot.Status != model.StatusCharging && robot.Status != model.StatusError {
		robot.Status = model.StatusWorking
	}
}

// detachTask removes the task from the robot's active slot and queue,
// then advances the queue.
func detachTask(data *model.FleetData, robot *model.RobotState, taskID string) {
	if robot.CurrentTaskID == taskID {
		robot.CurrentTaskID = ""
	}
	queue := robot.TaskQueue[:0]
	for _, id := range robot.TaskQueue {
		if id != taskID {
			queue = append(queue, id)
		}
	}
	robot.TaskQueue = queue
	advanceQueue(data, robot)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
