package configuration

import (
	"fmt"
	"sort"

	"golang.org/x/exp/slices"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	err := validateFanControl(&config.FanControl)
	if err != nil {
		return err
	}
	err = validatePowerButton(&config.PowerButton)
	if err != nil {
		return err
	}

	if len(config.AuthorizedGroup) <= 0 {
		return fmt.Errorf("authorizedGroup must not be empty")
	}

	if config.Statistics.Enabled {
		if config.Statistics.Port <= 0 || config.Statistics.Port >= 65535 {
			return fmt.Errorf("statistics: invalid port %d", config.Statistics.Port)
		}
	}

	return nil
}

func validateFanControl(config *FanControlConfig) error {
	if config.PollInterval <= 0 {
		return fmt.Errorf("fanControl: pollInterval must be > 0")
	}
	if config.Hysteresis < 0 {
		return fmt.Errorf("fanControl: hysteresis must be >= 0")
	}
	if len(config.SpeedLut) <= 0 {
		return fmt.Errorf("fanControl: speedLut must not be empty")
	}

	for i, step := range config.SpeedLut {
		if step.Speed < 0 || step.Speed > 100 {
			return fmt.Errorf("fanControl: speedLut[%d]: speed %d is outside [0..100]", i, step.Speed)
		}
		if i <= 0 {
			continue
		}
		prev := config.SpeedLut[i-1]
		if step.Threshold <= prev.Threshold {
			return fmt.Errorf("fanControl: speedLut thresholds must be strictly increasing, %.1f follows %.1f", step.Threshold, prev.Threshold)
		}
		if step.Speed < prev.Speed {
			return fmt.Errorf("fanControl: speedLut speeds must be non-decreasing, %d follows %d", step.Speed, prev.Speed)
		}
	}

	return nil
}

func validatePowerButton(config *PowerButtonConfig) error {
	supportedActions := []string{ActionShutdown, ActionReboot}

	for i, pulse := range config.Pulses {
		if !slices.Contains(supportedActions, pulse.Action) {
			return fmt.Errorf("powerButton: pulses[%d]: unsupported action '%s', use one of: shutdown | reboot", i, pulse.Action)
		}
		if pulse.MinDuration < 0 {
			return fmt.Errorf("powerButton: pulses[%d]: minDuration must be >= 0", i)
		}
		if pulse.MaxDuration <= pulse.MinDuration {
			return fmt.Errorf("powerButton: pulses[%d]: maxDuration must be greater than minDuration", i)
		}
	}

	// ranges must not overlap, [min, max) intervals
	sorted := make([]PulseRange, len(config.Pulses))
	copy(sorted, config.Pulses)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinDuration < sorted[j].MinDuration
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].MinDuration < sorted[i-1].MaxDuration {
			return fmt.Errorf("powerButton: pulse ranges %s and %s overlap", sorted[i-1].Action, sorted[i].Action)
		}
	}

	return nil
}
