package engine

import (
	"net/http"

	"github.com/amrops/fleetconsole/core/model"
)

// Outcome is the uniform result of every engine operation. Status is a
// transport hint the boundary layer may translate; domain failures are
// outcomes, never Go errors.
type Outcome struct {
	OK      bool                `json:"ok"`
	Status  int                 `json:"-"`
	Message string              `json:"message"`
	Result  model.CommandResult `json:"result"`
	Data    any                 `json:"data,omitempty"`
}

// RobotData carries the updated robot after pause/resume.
type RobotData struct {
	Robot model.RobotState `json:"robot"`
}

// AssignData carries the created task and its target robot.
type AssignData struct {
	Task  model.Task       `json:"task"`
	Robot model.RobotState `json:"robot"`
}

// RerouteData reports which robots a task moved between. FromRobotID is
// empty when the task was unassigned.
type RerouteData struct {
	Task        model.Task `json:"task"`
	FromRobotID string     `json:"fromRobotId,omitempty"`
	ToRobotID   string     `json:"toRobotId"`
}

// TaskData carries the mutated task after cancellation.
type TaskData struct {
	Task model.Task `json:"task"`
}

func succeeded() model.CommandResult {
	return model.CommandResult{Status: model.ResultSuccess}
}

func failed(reason string) model.CommandResult {
	return model.CommandResult{Status: model.ResultFail, Reason: reason}
}

func success(status int, message string, data any) Outcome {
	return Outcome{OK: true, Status: status, Message: message, Result: succeeded(), Data: data}
}

func notFound(message string, result model.CommandResult) Outcome {
	return Outcome{Status: http.StatusNotFound, Message: message, Result: result}
}

func conflict(message string, result model.CommandResult) Outcome {
	return Outcome{Status: http.StatusConflict, Message: message, Result: result}
}

func forbidden(message string, result model.CommandResult) Outcome {
	return Outcome{Status: http.StatusForbidden, Message: message, Result: result}
}
