package metrics

import (
	"time"

	"github.com/amrops/fleetconsole/core/model"
)

// CommandRecord is a per-attempt command event to be recorded.
type CommandRecord struct {
	Type   model.CommandType
	Role   model.Role
	Result model.ResultStatus
	Reason string
	Time   time.Time
}

// TickRecord captures one simulation advance over the whole fleet.
type TickRecord struct {
	Robots         int
	CompletedTasks int
	Faults         int
	Duration       time.Duration
	Time           time.Time
}

// MetricsSink records engine activity for observability purposes.
type MetricsSink interface {
	RecordCommand(rec CommandRecord) error
	RecordTick(rec TickRecord) error
}

// FleetSizeRecorder is implemented by sinks that track fleet size.
type FleetSizeRecorder interface {
	RecordFleetSize(n int) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordCommand(CommandRecord) error { return nil }
func (NopSink) RecordTick(TickRecord) error       { return nil }

// Config selects which metric backends are active.
type Config struct {
	PrometheusEnabled bool   `json:"prometheusEnabled"`
	PrometheusPort    int    `json:"prometheusPort"`
	InfluxEnabled     bool   `json:"influxEnabled"`
	InfluxURL         string `json:"influxUrl"`
	InfluxToken       string `json:"influxToken"`
	InfluxOrg         string `json:"influxOrg"`
	InfluxBucket      string `json:"influxBucket"`
}

// SetDefaults fills in unset values.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == 0 {
		c.PrometheusPort = 9090
	}
}
