package state

import (
	"sync"

	"github.com/clusterhack/argononed/internal/events"
)

// State is the single authoritative record of the daemon's run-time values:
// last measured temperature, current fan speed and the two control-enabled
// flags. All access is serialized through one mutex; each setter publishes
// its change notification while still holding it, so no reader can observe
// a field mid-write and every visible change produces exactly one event.
//
// State is never persisted, a restart starts over from the configured
// defaults.
type State struct {
	mu  sync.Mutex
	bus *events.Bus

	temperature         float64
	fanSpeed            int
	fanControlEnabled   bool
	powerControlEnabled bool
}

func New(bus *events.Bus, fanControlEnabled bool, powerControlEnabled bool) *State {
	return &State{
		bus:                 bus,
		fanControlEnabled:   fanControlEnabled,
		powerControlEnabled: powerControlEnabled,
	}
}

func (s *State) Temperature() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.temperature
}

// SetTemperature stores the latest sample. Temperature is treated as
// continuously varying, so this always counts as a change.
func (s *State) SetTemperature(value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temperature = value
	s.bus.Publish(events.ValueChangedEvent{Name: events.ValueTemperature, Value: value})
}

func (s *State) FanSpeed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fanSpeed
}

// SetFanSpeed updates the fan speed field and reports whether the value
// actually changed. A notification is published only on change.
func (s *State) SetFanSpeed(value int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fanSpeed == value {
		return false
	}
	s.fanSpeed = value
	s.bus.Publish(events.ValueChangedEvent{Name: events.ValueFanSpeed, Value: value})
	return true
}

func (s *State) FanControlEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fanControlEnabled
}

func (s *State) SetFanControlEnabled(enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fanControlEnabled == enabled {
		return false
	}
	s.fanControlEnabled = enabled
	s.bus.Publish(events.ValueChangedEvent{Name: events.ValueFanControlEnabled, Value: enabled})
	return true
}

func (s *State) PowerControlEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.powerControlEnabled
}

func (s *State) SetPowerControlEnabled(enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.powerControlEnabled == enabled {
		return false
	}
	s.powerControlEnabled = enabled
	s.bus.Publish(events.ValueChangedEvent{Name: events.ValuePowerControlEnabled, Value: enabled})
	return true
}
