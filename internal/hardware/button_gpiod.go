package hardware

import (
	"fmt"

	"github.com/warthog618/gpiod"
	"github.com/warthog618/gpiod/device/rpi"
)

const (
	// DefaultGpioChip is the Raspberry Pi's main GPIO controller.
	DefaultGpioChip = "gpiochip0"
	// DefaultButtonLine is BCM pin 4, the line the Argon ONE MCU pulses
	// when the power button is used.
	DefaultButtonLine = rpi.GPIO4
)

// GpiodButton watches the power button line via the GPIO character device
// and converts edges into ButtonEvents.
type GpiodButton struct {
	chip   *gpiod.Chip
	line   *gpiod.Line
	events chan ButtonEvent
}

func NewGpiodButton(chipName string, offset int) (*GpiodButton, error) {
	button := &GpiodButton{
		events: make(chan ButtonEvent, 16),
	}

	chip, err := gpiod.NewChip(chipName, gpiod.WithConsumer("argononed"))
	if err != nil {
		return nil, fmt.Errorf("opening gpio chip %s: %w", chipName, err)
	}
	button.chip = chip

	line, err := chip.RequestLine(offset,
		gpiod.AsInput,
		gpiod.WithPullDown,
		gpiod.WithBothEdges,
		gpiod.WithEventHandler(button.handleEvent))
	if err != nil {
		_ = chip.Close()
		return nil, fmt.Errorf("requesting gpio line %d: %w", offset, err)
	}
	button.line = line

	return button, nil
}

func (b *GpiodButton) handleEvent(evt gpiod.LineEvent) {
	event := ButtonEvent{
		Pressed:   evt.Type == gpiod.LineEventRisingEdge,
		Timestamp: evt.Timestamp,
	}
	select {
	case b.events <- event:
	default:
		// consumer is not keeping up, drop the edge instead of blocking
		// the event handler
	}
}

func (b *GpiodButton) Events() <-chan ButtonEvent {
	return b.events
}

func (b *GpiodButton) Close() error {
	err := b.line.Close()
	if chipErr := b.chip.Close(); err == nil {
		err = chipErr
	}
	close(b.events)
	return err
}
