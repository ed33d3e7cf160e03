package statistics

import (
	"github.com/clusterhack/argononed/internal/events"
	"github.com/clusterhack/argononed/internal/state"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemPower = "power"

type PowerCollector struct {
	state          *state.State
	controlEnabled *prometheus.Desc
	pulses         *prometheus.CounterVec
}

// NewPowerCollector tracks the power control flag and counts classified
// button pulses by subscribing to the event bus.
func NewPowerCollector(sharedState *state.State, bus *events.Bus) *PowerCollector {
	collector := &PowerCollector{
		state: sharedState,
		controlEnabled: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemPower, "control_enabled"),
			"Whether power button actions are executed",
			nil, nil,
		),
		pulses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemPower,
			Name:      "button_pulses_total",
			Help:      "Number of classified power button pulses",
		}, []string{"action"}),
	}

	bus.Subscribe(func(e events.ActionRequestedEvent) {
		collector.pulses.WithLabelValues(e.Name).Inc()
	})

	return collector
}

func (collector *PowerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.controlEnabled
	collector.pulses.Describe(ch)
}

func (collector *PowerCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(collector.controlEnabled, prometheus.GaugeValue, boolToGauge(collector.state.PowerControlEnabled()))
	collector.pulses.Collect(ch)
}
