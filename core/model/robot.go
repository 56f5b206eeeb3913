package model

import "time"

// Role identifies the authority level attached to an incoming request.
type Role string

const (
	RoleViewer   Role = "viewer"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// ParseRole normalizes an arbitrary role string. Unknown or empty values
// degrade to viewer, the read-only role.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleOperator:
		return RoleOperator
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleViewer
	}
}

// CanMutate reports whether the role is allowed to execute commands.
func (r Role) CanMutate() bool { return r != RoleViewer }

// Vendor tags which adapter owns a robot's native payload.
type Vendor string

const (
	VendorLocus  Vendor = "locus"
	VendorB      Vendor = "vendor_b"
	VendorSystem Vendor = "system"
)

// RobotStatus is the canonical operational state of a robot.
type RobotStatus string

const (
	StatusIdle     RobotStatus = "idle"
	StatusWorking  RobotStatus = "working"
	StatusCharging RobotStatus = "charging"
	StatusError    RobotStatus = "error"
	StatusPaused   RobotStatus = "paused"
)

// ValidRobotStatus reports whether s is one of the known status values.
func ValidRobotStatus(s string) bool {
	switch RobotStatus(s) {
	case StatusIdle, StatusWorking, StatusCharging, StatusError, StatusPaused:
		return true
	}
	return false
}

// Position is a point on the facility grid. Both axes are clamped to
// [0,100] by the adapters on every conversion.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RobotState is the canonical, vendor-independent representation of one
// robot. It is always derived from the vendor payload on demand; the
// payload remains the persisted source of truth.
type RobotState struct {
	ID            string      `json:"id"`
	Vendor        Vendor      `json:"vendor"`
	Zone          string      `json:"zone"`
	Position      Position    `json:"position"`
	Battery       float64     `json:"battery"`
	Status        RobotStatus `json:"status"`
	CurrentTaskID string      `json:"currentTaskId,omitempty"`
	TaskQueue     []string    `json:"taskQueue"`
	LastSeen      time.Time   `json:"lastSeen"`
}

// QueueSnapshot summarizes the task backlog of a single robot.
type QueueSnapshot struct {
	RobotID       string      `json:"robotId"`
	Vendor        Vendor      `json:"vendor"`
	Status        RobotStatus `json:"status"`
	CurrentTaskID string      `json:"currentTaskId,omitempty"`
	Queue         []string    `json:"queue"`
}

// Clamp bounds v to [min,max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
