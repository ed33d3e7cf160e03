package hardware

import "time"

// FanActuator writes fan speeds to the case's fan controller.
type FanActuator interface {
	// SetSpeed applies the given fan speed in percent [0..100].
	SetSpeed(percent int) error
	Close() error
}

// TemperatureSensor reads the SoC temperature in °C.
type TemperatureSensor interface {
	Read() (float64, error)
}

// ButtonEvent is a single edge observed on the power button line.
// Timestamp is a monotonic kernel timestamp, only differences between
// events are meaningful.
type ButtonEvent struct {
	Pressed   bool
	Timestamp time.Duration
}

// Button delivers edge events of the power button line. The channel is
// closed when the line is released.
type Button interface {
	Events() <-chan ButtonEvent
	Close() error
}
