package model

import "time"

// Ledger capacities. Both logs are trimmed from the oldest end in the
// same write that appended the newest entry.
const (
	AuditCapacity   = 2000
	CommandCapacity = 1000
)

// ResultStatus is the binary outcome of a mutation attempt.
type ResultStatus string

const (
	ResultSuccess ResultStatus = "success"
	ResultFail    ResultStatus = "fail"
)

// CommandResult records whether an attempt succeeded and why it failed.
type CommandResult struct {
	Status ResultStatus `json:"status"`
	Reason string       `json:"reason,omitempty"`
}

// CommandType enumerates the mutation operations.
type CommandType string

const (
	CommandPause      CommandType = "pause"
	CommandResume     CommandType = "resume"
	CommandAssignTask CommandType = "assign_task"
	CommandReroute    CommandType = "reroute"
	CommandCancelTask CommandType = "cancel_task"
)

// Command is the record of one mutation attempt against a robot, written
// once per attempt regardless of outcome.
type Command struct {
	ID           string        `json:"id"`
	Type         CommandType   `json:"type"`
	RobotID      string        `json:"robotId"`
	TaskID       string        `json:"taskId,omitempty"`
	IssuedByRole Role          `json:"issuedByRole"`
	CreatedAt    time.Time     `json:"createdAt"`
	Result       CommandResult `json:"result"`
}

// AuditEvent is the broader append-only record covering command attempts
// and simulation-originated events alike. Events are never mutated; the
// ledger only drops from the oldest end past capacity.
type AuditEvent struct {
	ID        string         `json:"id"`
	TS        time.Time      `json:"ts"`
	ActorRole Role           `json:"actorRole"`
	Action    string         `json:"action"`
	RobotID   string         `json:"robotId,omitempty"`
	TaskID    string         `json:"taskId,omitempty"`
	Result    CommandResult  `json:"result"`
	Vendor    Vendor         `json:"vendor"`
	Payload   map[string]any `json:"payload"`
}
