// Package telemetry exports simulation state as Prometheus metrics.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marvinvr/rockets/pkg/engine"
	"github.com/marvinvr/rockets/pkg/event"
)

// Collector owns the simulation metrics and the registry they live in. Each
// collector registers into its own registry so independent simulations never
// collide.
type Collector struct {
	registry *prometheus.Registry

	altitude     prometheus.Gauge
	speed        prometheus.Gauge
	fuelFraction prometheus.Gauge
	score        prometheus.Gauge
	ticks        prometheus.Counter
	landings     *prometheus.CounterVec
	phaseChanges *prometheus.CounterVec
	collisions   prometheus.Counter
}

// NewCollector builds and registers the simulation metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		altitude: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rocket_altitude",
			Help: "Craft altitude above the nearest body surface",
		}),
		speed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rocket_speed",
			Help: "Craft speed in game units per second",
		}),
		fuelFraction: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rocket_fuel_fraction",
			Help: "Remaining fuel as a fraction of tank capacity",
		}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mission_score",
			Help: "Accumulated landing score",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simulation_ticks_total",
			Help: "Total simulation ticks advanced",
		}),
		landings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landings_total",
				Help: "Resolved landing contacts by outcome",
			},
			[]string{"body", "outcome"},
		),
		phaseChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phase_transitions_total",
				Help: "Mission phase transitions by destination phase",
			},
			[]string{"to"},
		),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hazard_collisions_total",
			Help: "Craft collisions with hazard bodies",
		}),
	}

	c.registry.MustRegister(
		c.altitude, c.speed, c.fuelFraction, c.score, c.ticks,
		c.landings, c.phaseChanges, c.collisions,
	)
	return c
}

// RecordTick updates the per-tick gauges from a telemetry snapshot.
func (c *Collector) RecordTick(t engine.Telemetry) {
	c.altitude.Set(t.Altitude)
	c.speed.Set(t.Speed)
	c.fuelFraction.Set(t.FuelFraction)
	c.score.Set(float64(t.Score))
	c.ticks.Inc()
}

// Attach subscribes the event-driven counters to the given bus.
func (c *Collector) Attach(bus *event.Bus) {
	bus.Subscribe(event.LandingResolved, func(e event.Event) {
		if le, ok := e.(*event.LandingEvent); ok {
			c.landings.WithLabelValues(le.BodyName, le.Outcome).Inc()
		}
	})
	bus.Subscribe(event.PhaseChanged, func(e event.Event) {
		if pe, ok := e.(*event.PhaseEvent); ok {
			c.phaseChanges.WithLabelValues(pe.To).Inc()
		}
	})
	bus.Subscribe(event.HazardCollision, func(event.Event) {
		c.collisions.Inc()
	})
}

// Handler serves the collector's registry over HTTP.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
