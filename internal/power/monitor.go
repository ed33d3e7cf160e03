package power

import (
	"context"
	"time"

	"github.com/clusterhack/argononed/internal/configuration"
	"github.com/clusterhack/argononed/internal/events"
	"github.com/clusterhack/argononed/internal/hardware"
	"github.com/clusterhack/argononed/internal/state"
	"github.com/clusterhack/argononed/internal/ui"
)

type PowerMonitor interface {
	Run(ctx context.Context) error
}

// powerMonitor classifies power button pulses into actions. The Argon ONE
// MCU signals a requested action by pulsing the button line for a
// configured amount of time; the width between the rising and the falling
// edge selects the action.
type powerMonitor struct {
	button  hardware.Button
	actions Actions
	state   *state.State
	bus     *events.Bus
	pulses  []configuration.PulseRange

	pressed   bool
	pressedAt time.Duration
}

func NewPowerMonitor(
	button hardware.Button,
	actions Actions,
	sharedState *state.State,
	bus *events.Bus,
	pulses []configuration.PulseRange,
) PowerMonitor {
	return &powerMonitor{
		button:  button,
		actions: actions,
		state:   sharedState,
		bus:     bus,
		pulses:  pulses,
	}
}

func (m *powerMonitor) Run(ctx context.Context) error {
	ui.Info("Starting power button monitor")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-m.button.Events():
			if !ok {
				ui.Warning("Power button line closed, monitor exiting")
				return nil
			}
			m.handleEdge(ctx, event)
		}
	}
}

func (m *powerMonitor) handleEdge(ctx context.Context, event hardware.ButtonEvent) {
	if event.Pressed {
		m.pressed = true
		m.pressedAt = event.Timestamp
		return
	}
	if !m.pressed {
		// falling edge without a preceding rising edge, e.g. an edge
		// dropped under load
		return
	}
	m.pressed = false

	width := event.Timestamp - m.pressedAt
	action := m.classify(width)
	if action == "" {
		ui.Debug("Ignoring button pulse of %s, no matching range", width)
		return
	}

	ui.Info("Power button %s detected (pulse width %s)", action, width)
	m.notify(action)

	if !m.state.PowerControlEnabled() {
		ui.Info("Power button control disabled, not executing %s", action)
		return
	}
	m.execute(ctx, action)
}

// classify matches the pulse width against the configured ranges in order,
// [min, max) semantics; the first match wins.
func (m *powerMonitor) classify(width time.Duration) string {
	for _, pulse := range m.pulses {
		if width >= pulse.MinDuration && width < pulse.MaxDuration {
			return pulse.Action
		}
	}
	return ""
}

func (m *powerMonitor) notify(action string) {
	switch action {
	case configuration.ActionShutdown:
		m.bus.Publish(events.ActionRequestedEvent{Name: events.EventShutdownRequest})
	case configuration.ActionReboot:
		m.bus.Publish(events.ActionRequestedEvent{Name: events.EventRebootRequest})
	}
}

func (m *powerMonitor) execute(ctx context.Context, action string) {
	var err error
	switch action {
	case configuration.ActionShutdown:
		ui.Info("Issuing system shutdown")
		err = m.actions.Shutdown(ctx)
	case configuration.ActionReboot:
		ui.Info("Issuing system reboot")
		err = m.actions.Reboot(ctx)
	}
	if err != nil {
		// the system refusing to power off is not a reason for the
		// daemon itself to stop
		ui.Error("Failed to execute %s: %v", action, err)
	}
}
