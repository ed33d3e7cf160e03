package api

import (
	"errors"
	"testing"

	"github.com/clusterhack/argononed/internal/controller"
	"github.com/clusterhack/argononed/internal/curve"
	"github.com/clusterhack/argononed/internal/events"
	"github.com/clusterhack/argononed/internal/state"
	"github.com/clusterhack/argononed/internal/testingutils"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
)

type allowAllGate struct{}

func (allowAllGate) Authorize(sender dbus.Sender) error { return nil }

type denyAllGate struct{}

func (denyAllGate) Authorize(sender dbus.Sender) error {
	return errors.New("denied")
}

func createTestObject(t *testing.T, gate Authorizer) (*ArgonOne, *testingutils.FakeFan, *state.State, *bool) {
	bus := events.New()
	t.Cleanup(func() { _ = bus.Close() })

	fan := &testingutils.FakeFan{}
	sensor := &testingutils.FakeSensor{}
	sharedState := state.New(bus, true, true)

	speedCurve, err := curve.NewStepCurve([]curve.Step{
		{Threshold: 55, Speed: 10},
		{Threshold: 65, Speed: 100},
	})
	assert.NoError(t, err)

	fanController := controller.NewFanController(fan, sensor, speedCurve, sharedState, 0, 0)

	stopped := false
	object := &ArgonOne{
		state:      sharedState,
		controller: fanController,
		curve:      speedCurve,
		gate:       gate,
		stop:       func() { stopped = true },
	}
	return object, fan, sharedState, &stopped
}

func TestGettersReflectState(t *testing.T) {
	object, _, sharedState, _ := createTestObject(t, denyAllGate{})
	sharedState.SetTemperature(61.5)
	sharedState.SetFanSpeed(55)

	speed, dbusErr := object.GetFanSpeed()
	assert.Nil(t, dbusErr)
	assert.Equal(t, int32(55), speed)

	temperature, dbusErr := object.GetTemperature()
	assert.Nil(t, dbusErr)
	assert.Equal(t, 61.5, temperature)

	fanEnabled, dbusErr := object.GetFanControlEnabled()
	assert.Nil(t, dbusErr)
	assert.True(t, fanEnabled)

	powerEnabled, dbusErr := object.GetPowerControlEnabled()
	assert.Nil(t, dbusErr)
	assert.True(t, powerEnabled)
}

func TestGetFanCurve(t *testing.T) {
	object, _, _, _ := createTestObject(t, denyAllGate{})

	points, dbusErr := object.GetFanCurve()

	assert.Nil(t, dbusErr)
	assert.Equal(t, []CurvePoint{
		{Threshold: 55, Speed: 10},
		{Threshold: 65, Speed: 100},
	}, points)
}

func TestSetFanSpeed(t *testing.T) {
	object, fan, sharedState, _ := createTestObject(t, allowAllGate{})

	dbusErr := object.SetFanSpeed("test.sender", 42)

	assert.Nil(t, dbusErr)
	assert.Equal(t, 42, sharedState.FanSpeed())
	last, ok := fan.LastWrite()
	assert.True(t, ok)
	assert.Equal(t, 42, last)
}

func TestSetFanSpeedOutOfRange(t *testing.T) {
	object, fan, sharedState, _ := createTestObject(t, allowAllGate{})
	assert.Nil(t, object.SetFanSpeed("test.sender", 42))

	for _, speed := range []int32{-1, 101, 1000} {
		dbusErr := object.SetFanSpeed("test.sender", speed)

		assert.NotNil(t, dbusErr)
		assert.Equal(t, InterfaceName+".Error.InvalidArgument", dbusErr.Name)
	}
	assert.Equal(t, 42, sharedState.FanSpeed())
	assert.Equal(t, 1, fan.WriteCount())
}

func TestMutatingCallsDeniedWithoutAuthorization(t *testing.T) {
	object, fan, sharedState, stopped := createTestObject(t, denyAllGate{})

	assertDenied := func(dbusErr *dbus.Error) {
		t.Helper()
		assert.NotNil(t, dbusErr)
		assert.Equal(t, InterfaceName+".Error.AuthorizationDenied", dbusErr.Name)
	}

	assertDenied(object.SetFanSpeed("test.sender", 42))
	assertDenied(object.SetFanControlEnabled("test.sender", false))
	assertDenied(object.SetPowerControlEnabled("test.sender", false))
	assertDenied(object.Shutdown("test.sender"))

	assert.Equal(t, 0, sharedState.FanSpeed())
	assert.True(t, sharedState.FanControlEnabled())
	assert.True(t, sharedState.PowerControlEnabled())
	assert.Equal(t, 0, fan.WriteCount())
	assert.False(t, *stopped)
}

func TestQueriesAllowedWithoutAuthorization(t *testing.T) {
	object, _, _, _ := createTestObject(t, denyAllGate{})

	_, dbusErr := object.GetFanSpeed()
	assert.Nil(t, dbusErr)
	_, dbusErr = object.GetTemperature()
	assert.Nil(t, dbusErr)
	_, dbusErr = object.GetFanCurve()
	assert.Nil(t, dbusErr)
}

func TestSetFlags(t *testing.T) {
	object, _, sharedState, _ := createTestObject(t, allowAllGate{})

	assert.Nil(t, object.SetFanControlEnabled("test.sender", false))
	assert.False(t, sharedState.FanControlEnabled())

	assert.Nil(t, object.SetPowerControlEnabled("test.sender", false))
	assert.False(t, sharedState.PowerControlEnabled())
}

func TestSetFanSpeedHardwareFailureIsNotAProtocolError(t *testing.T) {
	object, fan, sharedState, _ := createTestObject(t, allowAllGate{})
	fan.Fail = true

	dbusErr := object.SetFanSpeed("test.sender", 42)

	assert.Nil(t, dbusErr)
	assert.Equal(t, 0, sharedState.FanSpeed())
}

func TestShutdownStopsDaemon(t *testing.T) {
	object, _, _, stopped := createTestObject(t, allowAllGate{})

	dbusErr := object.Shutdown("test.sender")

	assert.Nil(t, dbusErr)
	assert.True(t, *stopped)
}

func TestSignalValueMapsIntToInt32(t *testing.T) {
	assert.Equal(t, int32(42), signalValue(42))
	assert.Equal(t, 55.5, signalValue(55.5))
	assert.Equal(t, true, signalValue(true))
}
