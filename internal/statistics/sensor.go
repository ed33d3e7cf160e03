package statistics

import (
	"github.com/clusterhack/argononed/internal/state"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemSensor = "sensor"

type SensorCollector struct {
	state       *state.State
	temperature *prometheus.Desc
}

func NewSensorCollector(sharedState *state.State) *SensorCollector {
	return &SensorCollector{
		state: sharedState,
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "temperature_celsius"),
			"Last sampled SoC temperature",
			nil, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.temperature
}

func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, collector.state.Temperature())
}
