package model

// LocusStatusCode is the Locus-native status enumeration.
type LocusStatusCode string

const (
	LocusIdle     LocusStatusCode = "IDLE"
	LocusWorking  LocusStatusCode = "WORKING"
	LocusCharging LocusStatusCode = "CHARGING"
	LocusError    LocusStatusCode = "ERROR"
	LocusPaused   LocusStatusCode = "PAUSED"
)

// LocusTelemetry is the nested telemetry block of a Locus report.
type LocusTelemetry struct {
	Zone        string          `json:"zone"`
	Coord       Position        `json:"coord"`
	BatteryPct  float64         `json:"battery_pct"`
	StatusCode  LocusStatusCode `json:"status_code"`
	LastSeenISO string          `json:"last_seen_iso"`
}

// LocusMission carries the Locus view of the robot's work backlog.
type LocusMission struct {
	CurrentTaskID string   `json:"current_task_id"`
	Queue         []string `json:"queue"`
}

// LocusPayload is the Locus-native wire shape for one robot.
type LocusPayload struct {
	UnitID    string         `json:"unit_id"`
	Telemetry LocusTelemetry `json:"telemetry"`
	Mission   LocusMission   `json:"mission"`
}

// VendorBStatusCode is the vendor_b-native status enumeration.
type VendorBStatusCode string

const (
	VendorBIdle     VendorBStatusCode = "idle"
	VendorBWorking  VendorBStatusCode = "working"
	VendorBCharging VendorBStatusCode = "charging"
	VendorBError    VendorBStatusCode = "error"
	VendorBPaused   VendorBStatusCode = "paused"
)

// VendorBTasks carries the vendor_b view of the robot's work backlog.
type VendorBTasks struct {
	Active string   `json:"active"`
	Queued []string `json:"queued"`
}

// VendorBPayload is the vendor_b-native wire shape for one robot. The
// pose is a flat [x, y] pair and the heartbeat is epoch milliseconds.
type VendorBPayload struct {
	RobotID      string            `json:"robotId"`
	Area         string            `json:"area"`
	Pose         [2]float64        `json:"pose"`
	BatteryLevel float64           `json:"batteryLevel"`
	State        VendorBStatusCode `json:"state"`
	Tasks        VendorBTasks      `json:"tasks"`
	Heartbeat    int64             `json:"heartbeat"`
}
