package model

import "time"

// FleetData is the aggregate holding the whole fleet state: the
// per-vendor payload maps, the task backlog and both ledgers. It is
// loaded, possibly mutated and stored back as one unit per operation;
// callers must serialize concurrent read-modify-write cycles.
type FleetData struct {
	LocusPayloads   map[string]LocusPayload   `json:"locusPayloads"`
	VendorBPayloads map[string]VendorBPayload `json:"vendorBPayloads"`
	Tasks           []*Task                   `json:"tasks"`
	Audit           []AuditEvent              `json:"audit"`
	Commands        []Command                 `json:"commands"`
	LastTick        int64                     `json:"lastTick"`
	InitializedAt   time.Time                 `json:"initializedAt"`
}

// PushAudit appends an audit event, trimming the oldest entries past
// capacity.
func (d *FleetData) PushAudit(ev AuditEvent) {
	d.Audit = append(d.Audit, ev)
	if len(d.Audit) > AuditCapacity {
		d.Audit = d.Audit[len(d.Audit)-AuditCapacity:]
	}
}

// PushCommand appends a command record, trimming the oldest entries past
// capacity.
func (d *FleetData) PushCommand(cmd Command) {
	d.Commands = append(d.Commands, cmd)
	if len(d.Commands) > CommandCapacity {
		d.Commands = d.Commands[len(d.Commands)-CommandCapacity:]
	}
}

// FindTask returns the task with the given id, or nil.
func (d *FleetData) FindTask(id string) *Task {
	for _, t := range d.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// TaskIndex builds an id -> task lookup over the current backlog.
func (d *FleetData) TaskIndex() map[string]*Task {
	idx := make(map[string]*Task, len(d.Tasks))
	for _, t := range d.Tasks {
		idx[t.ID] = t
	}
	return idx
}

// VendorOf reports which vendor owns the robot id, or VendorSystem when
// the id is unknown or empty.
func (d *FleetData) VendorOf(robotID string) Vendor {
	if robotID == "" {
		return VendorSystem
	}
	if _, ok := d.LocusPayloads[robotID]; ok {
		return VendorLocus
	}
	if _, ok := d.VendorBPayloads[robotID]; ok {
		return VendorB
	}
	return VendorSystem
}
