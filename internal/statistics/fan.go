package statistics

import (
	"github.com/clusterhack/argononed/internal/state"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemFan = "fan"

type FanCollector struct {
	state          *state.State
	speed          *prometheus.Desc
	controlEnabled *prometheus.Desc
}

func NewFanCollector(sharedState *state.State) *FanCollector {
	return &FanCollector{
		state: sharedState,
		speed: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemFan, "speed_percent"),
			"Current fan speed in percent",
			nil, nil,
		),
		controlEnabled: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemFan, "control_enabled"),
			"Whether automatic fan control is active",
			nil, nil,
		),
	}
}

func (collector *FanCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.speed
	ch <- collector.controlEnabled
}

func (collector *FanCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(collector.speed, prometheus.GaugeValue, float64(collector.state.FanSpeed()))
	ch <- prometheus.MustNewConstMetric(collector.controlEnabled, prometheus.GaugeValue, boolToGauge(collector.state.FanControlEnabled()))
}

func boolToGauge(value bool) float64 {
	if value {
		return 1
	}
	return 0
}
