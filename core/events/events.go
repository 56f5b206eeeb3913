// Package events defines the notifications published on the internal
// event bus while the engine processes commands and simulation ticks.
package events

import (
	"time"

	"github.com/amrops/fleetconsole/core/model"
)

// CommandEvent is published after every mutation attempt, successful or
// not.
type CommandEvent struct {
	Command model.Command
}

// AuditEvent is published for every ledger entry the engine records.
type AuditEvent struct {
	Event model.AuditEvent
}

// TickEvent summarizes one simulation advance.
type TickEvent struct {
	At             time.Time
	Robots         int
	CompletedTasks int
	Faults         int
}
