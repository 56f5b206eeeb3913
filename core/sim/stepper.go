// Package sim advances robot and task state by one time increment. The
// stepper is driven lazily by the engine whenever enough wall-clock time
// has elapsed since the last tick; there is no background timer. All
// randomness flows from a single seedable source so a run is fully
// reproducible under test.
package sim

import (
	"time"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/amrops/fleetconsole/core/adapters"
	"github.com/amrops/fleetconsole/core/logger"
	"github.com/amrops/fleetconsole/core/model"
)

// DefaultTickInterval is the minimum wall-clock gap between two ticks.
const DefaultTickInterval = 5 * time.Second

// Behavior constants for one tick.
const (
	driftMax         = 1.8  // per-axis position drift bound
	drainMin         = 0.15 // battery drain per tick, lower bound
	drainMax         = 1.6  // battery drain per tick, upper bound
	chargeMin        = 0.25 // battery gain while charging, lower bound
	chargeMax        = 1.6  // battery gain while charging, upper bound
	lowBatteryPct    = 12   // forced-charging threshold
	chargedPct       = 95   // eligible to leave the charger
	leaveChargerProb = 0.35
	faultProb        = 0.008
	recoverProb      = 0.2
	completeTaskProb = 0.14
	pullQueuedProb   = 0.45
)

// Stats summarizes what happened during one tick.
type Stats struct {
	Robots         int
	CompletedTasks int
	Faults         int
}

// Stepper mutates the aggregate in place, one tick at a time.
type Stepper struct {
	src   exprand.Source
	log   logger.Logger
	newID func(prefix string) string
}

// NewStepper creates a stepper drawing randomness from the given seed.
func NewStepper(seed uint64, log logger.Logger, newID func(prefix string) string) *Stepper {
	return &Stepper{src: exprand.NewSource(seed), log: log, newID: newID}
}

func (s *Stepper) uniform(min, max float64) float64 {
	return distuv.Uniform{Min: min, Max: max, Src: s.src}.Rand()
}

func (s *Stepper) chance(p float64) bool {
	return distuv.Bernoulli{P: p, Src: s.src}.Rand() == 1
}

// Step advances every robot and task by one increment and stamps the
// aggregate's tick clock. It is idempotent with respect to lastTick:
// the clock advances even when no event fired.
func (s *Stepper) Step(data *model.FleetData, now time.Time) Stats {
	robots := adapters.Robots(data)
	tasks := data.TaskIndex()
	stats := Stats{Robots: len(robots)}

	for i := range robots {
		robot := &robots[i]
		s.moveAndDrain(robot)
		stats.Faults += s.injectFaults(data, robot, now)
		stats.CompletedTasks += s.advanceWork(data, robot, tasks, now)

		// Keep status and current task coherent before writing back.
		if robot.CurrentTaskID == "" && robot.Status == model.StatusWorking {
			robot.Status = model.StatusIdle
		}
		if robot.CurrentTaskID != "" && robot.Status == model.StatusIdle {
			robot.Status = model.StatusWorking
		}

		robot.LastSeen = now
		adapters.WriteRobot(data, *robot)
	}

	s.reconcileTasks(data, robots)
	data.LastTick = now.UnixMilli()
	return stats
}

// moveAndDrain applies position drift and the battery delta, then forces
// low-battery robots onto a charger and releases full ones.
func (s *Stepper) moveAndDrain(robot *model.RobotState) {
	if robot.Status != model.StatusPaused {
		robot.Position.X = model.Clamp(robot.Position.X+s.uniform(-driftMax, driftMax), 0, 100)
		robot.Position.Y = model.Clamp(robot.Position.Y+s.uniform(-driftMax, driftMax), 0, 100)
	}

	delta := s.uniform(-drainMax, -drainMin)
	if robot.Status == model.StatusCharging {
		delta = s.uniform(chargeMin, chargeMax)
	}
	robot.Battery = model.Clamp(robot.Battery+delta, 0, 100)

	if robot.Status != model.StatusPaused && robot.Status != model.StatusError && robot.Battery <= lowBatteryPct {
		robot.Status = model.StatusCharging
	} else if robot.Status == model.StatusCharging && robot.Battery >= chargedPct && s.chance(leaveChargerProb) {
		robot.Status = model.StatusIdle
	}
}

// injectFaults occasionally trips a transient error or recovers from one.
// Faults are recorded on the audit ledger but never block commands.
func (s *Stepper) injectFaults(data *model.FleetData, robot *model.RobotState, now time.Time) int {
	if robot.Status != model.StatusPaused && robot.Status != model.StatusError && s.chance(faultProb) {
		robot.Status = model.StatusError
		data.PushAudit(model.AuditEvent{
			ID:        s.newID("audit"),
			TS:        now,
			ActorRole: model.RoleAdmin,
			Action:    "sim_error",
			RobotID:   robot.ID,
			Result:    model.CommandResult{Status: model.ResultFail, Reason: "transient navigation fault"},
			Vendor:    robot.Vendor,
			Payload: map[string]any{
				"code":    "NAV_FAULT",
				"battery": float64(int(robot.Battery*10)) / 10,
			},
		})
		s.log.Warnf("robot %s: transient navigation fault", robot.ID)
		return 1
	}
	if robot.Status == model.StatusError && s.chance(recoverProb) {
		robot.Status = model.StatusIdle
	}
	return 0
}

// advanceWork probabilistically finishes the active task and pulls the
// next one from the queue, or starts queued work on an idle robot.
func (s *Stepper) advanceWork(data *model.FleetData, robot *model.RobotState, tasks map[string]*model.Task, now time.Time) int {
	completed := 0
	if robot.CurrentTaskID != "" && robot.Status == model.StatusWorking && s.chance(completeTaskProb) {
		completedID := robot.CurrentTaskID
		if t := tasks[completedID]; t != nil {
			t.Status = model.TaskCompleted
			completed++
		}

		nextID := popFront(&robot.TaskQueue)
		robot.CurrentTaskID = nextID
		if nextID != "" {
			if next := tasks[nextID]; next != nil {
				next.Status = model.TaskInProgress
				next.AssignedRobotID = robot.ID
			}
			robot.Status = model.StatusWorking
		} else if robot.Status != model.StatusCharging && robot.Status != model.StatusPaused {
			robot.Status = model.StatusIdle
		}

		payload := map[string]any{}
		if nextID != "" {
			payload["nextTaskId"] = nextID
		}
		data.PushAudit(model.AuditEvent{
			ID:        s.newID("audit"),
			TS:        now,
			ActorRole: model.RoleAdmin,
			Action:    "task_completed",
			RobotID:   robot.ID,
			TaskID:    completedID,
			Result:    model.CommandResult{Status: model.ResultSuccess},
			Vendor:    robot.Vendor,
			Payload:   payload,
		})
	}

	if robot.CurrentTaskID == "" && len(robot.TaskQueue) > 0 && robot.Status == model.StatusIdle && s.chance(pullQueuedProb) {
		nextID := popFront(&robot.TaskQueue)
		robot.CurrentTaskID = nextID
		if next := tasks[nextID]; next != nil {
			next.Status = model.TaskInProgress
			next.AssignedRobotID = robot.ID
		}
		robot.Status = model.StatusWorking
	}
	return completed
}

// reconcileTasks re-queues tasks whose robot vanished and aligns task
// status with whichever robot field references the task.
func (s *Stepper) reconcileTasks(data *model.FleetData, robots []model.RobotState) {
	byID := make(map[string]*model.RobotState, len(robots))
	for i := range robots {
		byID[robots[i].ID] = &robots[i]
	}
	for _, task := range data.Tasks {
		if task.AssignedRobotID == "" || task.Terminal() {
			continue
		}
		robot, ok := byID[task.AssignedRobotID]
		if !ok {
			task.AssignedRobotID = ""
			task.Status = model.TaskQueued
			continue
		}
		if robot.CurrentTaskID == task.ID {
			task.Status = model.TaskInProgress
		} else if contains(robot.TaskQueue, task.ID) {
			task.Status = model.TaskAssigned
		}
	}
}

func popFront(queue *[]string) string {
	if len(*queue) == 0 {
		return ""
	}
	head := (*queue)[0]
	*queue = (*queue)[1:]
	return head
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
