package curve

import (
	"fmt"

	"github.com/clusterhack/argononed/internal/configuration"
)

// Step is a single point of the fan speed lookup table.
type Step struct {
	Threshold float64
	Speed     int
}

// StepCurve maps a temperature to a fan speed percentage as a right-continuous
// step function: the speed of the greatest threshold <= temperature, 0 below
// the lowest threshold, and the highest step's speed above the highest one.
type StepCurve struct {
	steps []Step
}

func NewStepCurve(steps []Step) (*StepCurve, error) {
	if len(steps) <= 0 {
		return nil, fmt.Errorf("fan curve must contain at least one step")
	}
	for i, step := range steps {
		if step.Speed < 0 || step.Speed > 100 {
			return nil, fmt.Errorf("fan curve speed %d is outside [0..100]", step.Speed)
		}
		if i <= 0 {
			continue
		}
		if step.Threshold <= steps[i-1].Threshold {
			return nil, fmt.Errorf("fan curve thresholds are not sorted and/or not distinct")
		}
		if step.Speed < steps[i-1].Speed {
			return nil, fmt.Errorf("fan curve speeds must be non-decreasing")
		}
	}
	return &StepCurve{steps: steps}, nil
}

func FromConfig(lut []configuration.FanCurveStep) (*StepCurve, error) {
	steps := make([]Step, 0, len(lut))
	for _, entry := range lut {
		steps = append(steps, Step{Threshold: entry.Threshold, Speed: entry.Speed})
	}
	return NewStepCurve(steps)
}

// Lookup returns the speed of the greatest threshold <= temperature,
// or 0 if the temperature is below every threshold.
func (c *StepCurve) Lookup(temperature float64) int {
	for i := len(c.steps) - 1; i >= 0; i-- {
		if temperature >= c.steps[i].Threshold {
			return c.steps[i].Speed
		}
	}
	return 0
}

// Steps returns the lookup table in threshold order.
func (c *StepCurve) Steps() []Step {
	steps := make([]Step, len(c.steps))
	copy(steps, c.steps)
	return steps
}
