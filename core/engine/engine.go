// Package engine implements the fleet command engine: the mutation
// operations, the read helpers and the read-modify-write cycle around
// the fleet store. Every external call loads the aggregate, lazily runs
// the simulation stepper, applies at most one operation and persists the
// aggregate back.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	exprand "golang.org/x/exp/rand"

	"github.com/amrops/fleetconsole/core/events"
	"github.com/amrops/fleetconsole/core/logger"
	"github.com/amrops/fleetconsole/core/metrics"
	"github.com/amrops/fleetconsole/core/model"
	"github.com/amrops/fleetconsole/core/sim"
	"github.com/amrops/fleetconsole/internal/eventbus"
	"github.com/amrops/fleetconsole/store"
)

// NewID generates ledger and task identifiers: a short prefix followed
// by the first eight characters of a UUID.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// Engine owns no fleet state itself; it is a set of operations over the
// aggregate held by the store. A process-local mutex serializes the
// read-modify-write cycles of this instance.
type Engine struct {
	store        store.Store
	stepper      *sim.Stepper
	tickInterval time.Duration
	log          logger.Logger
	metrics      metrics.MetricsSink
	bus          eventbus.EventBus

	now   func() time.Time
	newID func(prefix string) string
	rng   *exprand.Rand

	mu sync.Mutex
}

// New creates an engine. The seed feeds the aggregate seeding only; the
// stepper carries its own source. A nil sink or logger falls back to
// no-op implementations, a nil bus disables event publication.
func New(st store.Store, stepper *sim.Stepper, tickInterval time.Duration, seed uint64, log logger.Logger, sink metrics.MetricsSink, bus eventbus.EventBus) (*Engine, error) {
	if st == nil || stepper == nil {
		return nil, fmt.Errorf("engine: nil store or stepper")
	}
	if tickInterval <= 0 {
		tickInterval = sim.DefaultTickInterval
	}
	if log == nil {
		log = nopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{
		store:        st,
		stepper:      stepper,
		tickInterval: tickInterval,
		log:          log,
		metrics:      sink,
		bus:          bus,
		now:          time.Now,
		newID:        NewID,
		rng:          exprand.New(exprand.NewSource(seed)),
	}, nil
}

// SetClock overrides the engine's time source.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	e.now = now
	e.mu.Unlock()
}

// SetIDGen overrides the identifier generator.
func (e *Engine) SetIDGen(gen func(prefix string) string) {
	e.mu.Lock()
	e.newID = gen
	e.mu.Unlock()
}

// WithFleet runs fn inside one read-modify-write cycle: load or seed the
// aggregate, advance the simulation if the tick interval elapsed, apply
// fn and persist. The aggregate is saved even when fn reports a domain
// failure, so ledger writes always survive.
func (e *Engine) WithFleet(ctx context.Context, fn func(data *model.FleetData) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := e.store.Load(ctx)
	if errors.Is(err, store.ErrNoData) {
		data = e.seedFleet()
		e.log.Infof("seeded fleet aggregate: %d robots, %d tasks",
			len(data.LocusPayloads)+len(data.VendorBPayloads), len(data.Tasks))
	} else if err != nil {
		return fmt.Errorf("load fleet data: %w", err)
	}

	e.tickIfNeeded(data)
	fnErr := fn(data)
	if err := e.store.Save(ctx, data); err != nil {
		return fmt.Errorf("save fleet data: %w", err)
	}
	return fnErr
}

// tickIfNeeded advances the simulation when enough wall-clock time has
// elapsed since the last tick. The check is not atomic across processes;
// callers accept an occasional double fire under true concurrency.
func (e *Engine) tickIfNeeded(data *model.FleetData) {
	now := e.now()
	if now.UnixMilli()-data.LastTick < e.tickInterval.Milliseconds() {
		return
	}
	start := time.Now()
	stats := e.stepper.Step(data, now)
	if err := e.metrics.RecordTick(metrics.TickRecord{
		Robots:         stats.Robots,
		CompletedTasks: stats.CompletedTasks,
		Faults:         stats.Faults,
		Duration:       time.Since(start),
		Time:           now,
	}); err != nil {
		e.log.Errorf("tick metrics error: %v", err)
	}
	if fr, ok := e.metrics.(metrics.FleetSizeRecorder); ok {
		if err := fr.RecordFleetSize(stats.Robots); err != nil {
			e.log.Errorf("fleet size metrics error: %v", err)
		}
	}
	if e.bus != nil {
		e.bus.Publish(events.TickEvent{
			At:             now,
			Robots:         stats.Robots,
			CompletedTasks: stats.CompletedTasks,
			Faults:         stats.Faults,
		})
	}
	e.log.Debugw("simulation tick", map[string]any{
		"robots":    stats.Robots,
		"completed": stats.CompletedTasks,
		"faults":    stats.Faults,
	})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
