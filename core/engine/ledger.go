package engine

import (
	"github.com/amrops/fleetconsole/core/events"
	"github.com/amrops/fleetconsole/core/metrics"
	"github.com/amrops/fleetconsole/core/model"
)

// auditEntry collects the fields of one audit ledger write.
type auditEntry struct {
	role    model.Role
	action  string
	robotID string
	taskID  string
	result  model.CommandResult
	payload map[string]any
}

// audit appends an event to the audit ledger and mirrors it on the bus.
// Vendor attribution is derived from the robot id when one is present.
func (e *Engine) audit(data *model.FleetData, in auditEntry) {
	payload := in.payload
	if payload == nil {
		payload = map[string]any{}
	}
	ev := model.AuditEvent{
		ID:        e.newID("audit"),
		TS:        e.now(),
		ActorRole: in.role,
		Action:    in.action,
		RobotID:   in.robotID,
		TaskID:    in.taskID,
		Result:    in.result,
		Vendor:    data.VendorOf(in.robotID),
		Payload:   payload,
	}
	data.PushAudit(ev)
	if e.bus != nil {
		e.bus.Publish(events.AuditEvent{Event: ev})
	}
}

// command appends a command record and records it on the metrics sink.
func (e *Engine) command(data *model.FleetData, typ model.CommandType, role model.Role, robotID, taskID string, result model.CommandResult) {
	cmd := model.Command{
		ID:           e.newID("cmd"),
		Type:         typ,
		RobotID:      robotID,
		TaskID:       taskID,
		IssuedByRole: role,
		CreatedAt:    e.now(),
		Result:       result,
	}
	data.PushCommand(cmd)
	if e.bus != nil {
		e.bus.Publish(events.CommandEvent{Command: cmd})
	}
	if err := e.metrics.RecordCommand(metrics.CommandRecord{
		Type:   typ,
		Role:   role,
		Result: result.Status,
		Reason: result.Reason,
		Time:   cmd.CreatedAt,
	}); err != nil {
		e.log.Errorf("command metrics error: %v", err)
	}
}

// denyMutation is the shared viewer rejection path. The attempt is
// always audited; a command record is written only when a robot context
// exists.
func (e *Engine) denyMutation(data *model.FleetData, role model.Role, action string, typ model.CommandType, robotID, taskID string) Outcome {
	result := failed("viewer role is read-only")
	e.audit(data, auditEntry{
		role:    role,
		action:  action,
		robotID: robotID,
		taskID:  taskID,
		result:  result,
		payload: map[string]any{"reason": result.Reason},
	})
	if robotID != "" {
		e.command(data, typ, role, robotID, taskID, result)
	}
	return forbidden("Viewer role cannot execute mutating actions", result)
}
