package controller

import (
	"testing"
	"time"

	"github.com/clusterhack/argononed/internal/curve"
	"github.com/clusterhack/argononed/internal/events"
	"github.com/clusterhack/argononed/internal/state"
	"github.com/clusterhack/argononed/internal/testingutils"
	"github.com/stretchr/testify/assert"
)

func createTestController(t *testing.T, fanControlEnabled bool, hysteresis float64) (
	*fanController, *testingutils.FakeFan, *testingutils.FakeSensor, *state.State,
) {
	bus := events.New()
	t.Cleanup(func() { _ = bus.Close() })

	fan := &testingutils.FakeFan{}
	sensor := &testingutils.FakeSensor{}
	sharedState := state.New(bus, fanControlEnabled, true)

	speedCurve, err := curve.NewStepCurve([]curve.Step{
		{Threshold: 40, Speed: 0},
		{Threshold: 50, Speed: 25},
		{Threshold: 60, Speed: 50},
		{Threshold: 70, Speed: 75},
		{Threshold: 80, Speed: 100},
	})
	assert.NoError(t, err)

	c := NewFanController(fan, sensor, speedCurve, sharedState, 10*time.Second, hysteresis)
	return c.(*fanController), fan, sensor, sharedState
}

func TestTickAdjustsSpeedToCurve(t *testing.T) {
	// GIVEN
	c, fan, sensor, sharedState := createTestController(t, true, 0)
	sensor.Set(65)

	// WHEN
	err := c.UpdateFanSpeed()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 50, sharedState.FanSpeed())
	assert.Equal(t, 65.0, sharedState.Temperature())
	last, ok := fan.LastWrite()
	assert.True(t, ok)
	assert.Equal(t, 50, last)
}

func TestTickBelowCurveTurnsFanOff(t *testing.T) {
	c, _, sensor, sharedState := createTestController(t, true, 0)
	sensor.Set(65)
	assert.NoError(t, c.UpdateFanSpeed())

	sensor.Set(35)
	assert.NoError(t, c.UpdateFanSpeed())

	assert.Equal(t, 0, sharedState.FanSpeed())
}

func TestTickAboveCurveCapsAtHighestStep(t *testing.T) {
	c, _, sensor, sharedState := createTestController(t, true, 0)
	sensor.Set(85)

	assert.NoError(t, c.UpdateFanSpeed())

	assert.Equal(t, 100, sharedState.FanSpeed())
}

func TestTickInclusiveThresholdBoundary(t *testing.T) {
	c, _, sensor, sharedState := createTestController(t, true, 0)
	sensor.Set(60)

	assert.NoError(t, c.UpdateFanSpeed())

	assert.Equal(t, 50, sharedState.FanSpeed())
}

func TestTickSkipsHardwareWriteWhenUnchanged(t *testing.T) {
	c, fan, sensor, _ := createTestController(t, true, 0)
	sensor.Set(65)
	assert.NoError(t, c.UpdateFanSpeed())

	sensor.Set(66)
	assert.NoError(t, c.UpdateFanSpeed())

	assert.Equal(t, 1, fan.WriteCount())
}

func TestTickDisabledNeverChangesSpeed(t *testing.T) {
	c, fan, sensor, sharedState := createTestController(t, false, 0)

	for _, temperature := range []float64{35, 55, 65, 85, 30} {
		sensor.Set(temperature)
		assert.NoError(t, c.UpdateFanSpeed())
	}

	assert.Equal(t, 0, sharedState.FanSpeed())
	assert.Equal(t, 0, fan.WriteCount())
}

func TestTickDisabledStillSamplesTemperature(t *testing.T) {
	c, _, sensor, sharedState := createTestController(t, false, 0)
	sensor.Set(72.5)

	assert.NoError(t, c.UpdateFanSpeed())

	assert.Equal(t, 72.5, sharedState.Temperature())
}

func TestTickSensorFailureRetainsState(t *testing.T) {
	c, _, sensor, sharedState := createTestController(t, true, 0)
	sensor.Set(65)
	assert.NoError(t, c.UpdateFanSpeed())

	sensor.SetFail(true)
	err := c.UpdateFanSpeed()

	assert.Error(t, err)
	assert.Equal(t, 65.0, sharedState.Temperature())
	assert.Equal(t, 50, sharedState.FanSpeed())
}

func TestTickActuatorFailureRetainsState(t *testing.T) {
	c, fan, sensor, sharedState := createTestController(t, true, 0)
	sensor.Set(65)
	fan.Fail = true

	err := c.UpdateFanSpeed()

	assert.Error(t, err)
	assert.Equal(t, 0, sharedState.FanSpeed())
}

func TestManualOverrideHoldsUntilReenabled(t *testing.T) {
	c, _, sensor, sharedState := createTestController(t, true, 0)
	sensor.Set(65)
	assert.NoError(t, c.UpdateFanSpeed())

	sharedState.SetFanControlEnabled(false)
	assert.NoError(t, c.SetFanSpeed(80))
	sensor.Set(45)
	assert.NoError(t, c.UpdateFanSpeed())
	assert.Equal(t, 80, sharedState.FanSpeed())

	// re-enabling re-arms automatic control on the next tick
	sharedState.SetFanControlEnabled(true)
	assert.NoError(t, c.UpdateFanSpeed())
	assert.Equal(t, 0, sharedState.FanSpeed())
}

func TestHysteresisSuppressesSpeedDrop(t *testing.T) {
	c, _, sensor, sharedState := createTestController(t, true, 5)
	sensor.Set(65)
	assert.NoError(t, c.UpdateFanSpeed())
	assert.Equal(t, 50, sharedState.FanSpeed())

	// 58 + 5 margin still maps to the current speed, hold it
	sensor.Set(58)
	assert.NoError(t, c.UpdateFanSpeed())
	assert.Equal(t, 50, sharedState.FanSpeed())

	// 52 + 5 is below the 60° step, drop is applied
	sensor.Set(52)
	assert.NoError(t, c.UpdateFanSpeed())
	assert.Equal(t, 25, sharedState.FanSpeed())
}

func TestSpeedIncreaseIgnoresHysteresis(t *testing.T) {
	c, _, sensor, sharedState := createTestController(t, true, 5)
	sensor.Set(55)
	assert.NoError(t, c.UpdateFanSpeed())
	assert.Equal(t, 25, sharedState.FanSpeed())

	sensor.Set(71)
	assert.NoError(t, c.UpdateFanSpeed())
	assert.Equal(t, 75, sharedState.FanSpeed())
}
