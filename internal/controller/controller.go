package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/clusterhack/argononed/internal/curve"
	"github.com/clusterhack/argononed/internal/hardware"
	"github.com/clusterhack/argononed/internal/state"
	"github.com/clusterhack/argononed/internal/ui"
)

type FanController interface {
	Run(ctx context.Context) error
	// UpdateFanSpeed runs one controller tick: sample the temperature and,
	// if automatic control is enabled, adjust the fan to match the curve.
	UpdateFanSpeed() error
	// SetFanSpeed applies a manual fan speed immediately, independent of
	// the tick schedule. The caller must pass a value in [0..100].
	SetFanSpeed(percent int) error
}

type fanController struct {
	fan          hardware.FanActuator
	sensor       hardware.TemperatureSensor
	curve        *curve.StepCurve
	state        *state.State
	pollInterval time.Duration
	hysteresis   float64
}

func NewFanController(
	fan hardware.FanActuator,
	sensor hardware.TemperatureSensor,
	speedCurve *curve.StepCurve,
	sharedState *state.State,
	pollInterval time.Duration,
	hysteresis float64,
) FanController {
	return &fanController{
		fan:          fan,
		sensor:       sensor,
		curve:        speedCurve,
		state:        sharedState,
		pollInterval: pollInterval,
		hysteresis:   hysteresis,
	}
}

func (f *fanController) Run(ctx context.Context) error {
	ui.Info("Starting fan controller loop, poll interval %s", f.pollInterval)

	tick := time.Tick(f.pollInterval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			err := f.UpdateFanSpeed()
			if err != nil {
				// transient hardware problem, skip this tick and keep
				// the previous values
				ui.Warning("Fan controller tick skipped: %v", err)
			}
		}
	}
}

func (f *fanController) UpdateFanSpeed() error {
	temperature, err := f.sensor.Read()
	if err != nil {
		return fmt.Errorf("reading temperature: %w", err)
	}
	f.state.SetTemperature(temperature)

	if !f.state.FanControlEnabled() {
		// manual value holds
		return nil
	}

	current := f.state.FanSpeed()
	target := f.curve.Lookup(temperature)
	if target < current && f.curve.Lookup(temperature+f.hysteresis) >= current {
		// not yet below the threshold by the configured margin, hold the
		// higher speed
		return nil
	}
	if target == current {
		return nil
	}

	ui.Debug("Adjusting fan speed to %d for temperature %.1f", target, temperature)
	if err := f.fan.SetSpeed(target); err != nil {
		return err
	}
	f.state.SetFanSpeed(target)
	return nil
}

func (f *fanController) SetFanSpeed(percent int) error {
	if err := f.fan.SetSpeed(percent); err != nil {
		return err
	}
	f.state.SetFanSpeed(percent)
	return nil
}
