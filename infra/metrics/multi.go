package metrics

import coremetrics "github.com/amrops/fleetconsole/core/metrics"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCommand forwards the record to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordCommand(rec coremetrics.CommandRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordCommand(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordTick forwards the record to all sinks.
func (m *MultiSink) RecordTick(rec coremetrics.TickRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordTick(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordFleetSize forwards the fleet size to sinks that track it.
func (m *MultiSink) RecordFleetSize(n int) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.FleetSizeRecorder); ok {
			if err := rec.RecordFleetSize(n); err != nil {
				return err
			}
		}
	}
	return nil
}
