package model

import "time"

// TaskStatus tracks a task through its lifecycle. Completed and cancelled
// are terminal.
type TaskStatus string

const (
	TaskQueued     TaskStatus = "queued"
	TaskAssigned   TaskStatus = "assigned"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// ValidTaskStatus reports whether s is one of the known status values.
func ValidTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case TaskQueued, TaskAssigned, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

// Task is a unit of work dispatched to the fleet.
type Task struct {
	ID              string     `json:"id"`
	Type            string     `json:"type"`
	Priority        int        `json:"priority"`
	DestinationZone string     `json:"destinationZone"`
	Status          TaskStatus `json:"status"`
	AssignedRobotID string     `json:"assignedRobotId,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Terminal reports whether the task reached a final state.
func (t Task) Terminal() bool {
	return t.Status == TaskCompleted || t.Status == TaskCancelled
}
