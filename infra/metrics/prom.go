package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/amrops/fleetconsole/core/metrics"
)

// PromSink records engine activity in Prometheus metrics.
type PromSink struct {
	commands     *prometheus.CounterVec
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
	completed    prometheus.Counter
	faults       prometheus.Counter
	fleet        prometheus.Gauge
}

// NewPromSink registers fleet metrics on the default Prometheus
// registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_commands_total",
			Help: "Total number of command attempts by type and result",
		}, []string{"type", "result"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_simulation_ticks_total",
			Help: "Total number of simulation ticks",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleet_tick_duration_seconds",
			Help:    "Time spent advancing one simulation tick",
			Buckets: prometheus.DefBuckets,
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_tasks_completed_total",
			Help: "Tasks completed by the simulation",
		}),
		faults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_robot_faults_total",
			Help: "Transient robot faults injected by the simulation",
		}),
		fleet: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_robots",
			Help: "Number of robots seen during the last tick",
		}),
	}

	for _, c := range []prometheus.Collector{s.commands, s.ticks, s.tickDuration, s.completed, s.faults, s.fleet} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordCommand increments the command counter.
func (s *PromSink) RecordCommand(rec coremetrics.CommandRecord) error {
	s.commands.WithLabelValues(string(rec.Type), string(rec.Result)).Inc()
	return nil
}

// RecordTick records one simulation advance.
func (s *PromSink) RecordTick(rec coremetrics.TickRecord) error {
	s.ticks.Inc()
	s.tickDuration.Observe(rec.Duration.Seconds())
	s.completed.Add(float64(rec.CompletedTasks))
	s.faults.Add(float64(rec.Faults))
	return nil
}

// RecordFleetSize updates the fleet size gauge.
func (s *PromSink) RecordFleetSize(n int) error {
	s.fleet.Set(float64(n))
	return nil
}
