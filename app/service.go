// Package app wires configuration, store, engine and transports into a
// runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/amrops/fleetconsole/api"
	"github.com/amrops/fleetconsole/config"
	"github.com/amrops/fleetconsole/core/engine"
	coremetrics "github.com/amrops/fleetconsole/core/metrics"
	"github.com/amrops/fleetconsole/core/sim"
	"github.com/amrops/fleetconsole/infra/logger"
	"github.com/amrops/fleetconsole/infra/metrics"
	"github.com/amrops/fleetconsole/infra/mqtt"
	"github.com/amrops/fleetconsole/internal/eventbus"
	"github.com/amrops/fleetconsole/store"
)

// Service orchestrates the engine, the HTTP API and the side channels.
type Service struct {
	Engine *engine.Engine

	store       store.Store
	bus         *eventbus.Bus
	mirror      *mqtt.Mirror
	router      http.Handler
	httpAddr    string
	promEnabled bool
	promPort    int
	log         logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	logg := logger.New("service")

	st, err := store.Open(cfg.Store, logger.New("store"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics, logger.New("influx")))
	}
	var sink coremetrics.MetricsSink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	stepper := sim.NewStepper(cfg.Sim.Seed, logger.New("sim"), engine.NewID)
	tickInterval := time.Duration(cfg.Sim.TickIntervalSeconds) * time.Second
	eng, err := engine.New(st, stepper, tickInterval, cfg.Sim.Seed, logg, sink, bus)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	var mode func() string
	if fb, ok := st.(*store.FallbackStore); ok {
		mode = fb.Mode
	} else {
		mode = func() string { return "memory" }
	}
	srv := api.New(eng, logger.New("api"), mode)

	svc := &Service{
		Engine:      eng,
		store:       st,
		bus:         bus,
		router:      srv.Router(),
		httpAddr:    cfg.HTTP.Addr,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
		log:         logg,
	}

	if cfg.MQTT.Enabled {
		mirror, err := mqtt.NewMirror(cfg.MQTT, logger.New("mqtt"))
		if err != nil {
			return nil, fmt.Errorf("mqtt mirror: %w", err)
		}
		svc.mirror = mirror
		go mirror.Run(bus.Subscribe())
	}
	return svc, nil
}

// Run serves the API and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			addr := fmt.Sprintf(":%d", s.promPort)
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.httpAddr, Handler: s.router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("serving fleet API on %s", s.httpAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Seed replaces the stored aggregate with a freshly generated fleet.
func (s *Service) Seed(ctx context.Context) error {
	return s.store.Save(ctx, s.Engine.SeedFleet())
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.mirror != nil {
		s.mirror.Close()
	}
	return s.store.Close()
}
