package engine

import (
	"sort"

	"github.com/amrops/fleetconsole/core/adapters"
	"github.com/amrops/fleetconsole/core/model"
)

// Audit query bounds.
const (
	DefaultAuditLimit = 200
	MaxAuditLimit     = 500
)

// DefaultCommandLimit bounds the recent-commands listing.
const DefaultCommandLimit = 10

// RobotWithRaw pairs the canonical robot state with the vendor payload
// it was derived from.
type RobotWithRaw struct {
	model.RobotState
	Raw any `json:"rawPayload"`
}

// ListRobots returns every robot, canonical plus raw payload, sorted by
// id ascending.
func ListRobots(data *model.FleetData) []RobotWithRaw {
	robots := make([]RobotWithRaw, 0, len(data.LocusPayloads)+len(data.VendorBPayloads))
	for _, raw := range data.LocusPayloads {
		robots = append(robots, RobotWithRaw{RobotState: adapters.LocusToCanonical(raw), Raw: raw})
	}
	for _, raw := range data.VendorBPayloads {
		robots = append(robots, RobotWithRaw{RobotState: adapters.VendorBToCanonical(raw), Raw: raw})
	}
	sort.Slice(robots, func(i, j int) bool { return robots[i].ID < robots[j].ID })
	return robots
}

// FindRobot returns one robot by id.
func FindRobot(data *model.FleetData, robotID string) (RobotWithRaw, bool) {
	robot, raw, ok := adapters.Robot(data, robotID)
	if !ok {
		return RobotWithRaw{}, false
	}
	return RobotWithRaw{RobotState: robot, Raw: raw}, true
}

// ListTasks returns the task backlog, newest first.
func ListTasks(data *model.FleetData) []model.Task {
	tasks := make([]model.Task, 0, len(data.Tasks))
	for _, t := range data.Tasks {
		tasks = append(tasks, *t)
	}
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	return tasks
}

// AuditQuery filters the audit ledger. Zero values match everything.
type AuditQuery struct {
	RobotID string
	Action  string
	Result  model.ResultStatus
	Limit   int
}

// ListAudit returns matching audit events, newest first, bounded by the
// query limit (default 200, capped at 500).
func ListAudit(data *model.FleetData, q AuditQuery) []model.AuditEvent {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	if limit > MaxAuditLimit {
		limit = MaxAuditLimit
	}

	matched := make([]model.AuditEvent, 0, limit)
	for _, ev := range data.Audit {
		if q.RobotID != "" && ev.RobotID != q.RobotID {
			continue
		}
		if q.Action != "" && ev.Action != q.Action {
			continue
		}
		if q.Result != "" && ev.Result.Status != q.Result {
			continue
		}
		matched = append(matched, ev)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].TS.After(matched[j].TS) })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// RecentCommands returns the latest command attempts against one robot,
// newest first.
func RecentCommands(data *model.FleetData, robotID string, limit int) []model.Command {
	if limit <= 0 {
		limit = DefaultCommandLimit
	}
	matched := make([]model.Command, 0, limit)
	for _, cmd := range data.Commands {
		if cmd.RobotID == robotID {
			matched = append(matched, cmd)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// QueueSnapshots summarizes every robot's backlog, sorted by robot id.
func QueueSnapshots(data *model.FleetData) []model.QueueSnapshot {
	robots := adapters.Robots(data)
	snaps := make([]model.QueueSnapshot, 0, len(robots))
	for _, r := range robots {
		snaps = append(snaps, model.QueueSnapshot{
			RobotID:       r.ID,
			Vendor:        r.Vendor,
			Status:        r.Status,
			CurrentTaskID: r.CurrentTaskID,
			Queue:         append([]string(nil), r.TaskQueue...),
		})
	}
	return snaps
}
