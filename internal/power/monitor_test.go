package power

import (
	"context"
	"testing"
	"time"

	"github.com/clusterhack/argononed/internal/configuration"
	"github.com/clusterhack/argononed/internal/events"
	"github.com/clusterhack/argononed/internal/hardware"
	"github.com/clusterhack/argononed/internal/state"
	"github.com/clusterhack/argononed/internal/testingutils"
	"github.com/stretchr/testify/assert"
)

func testPulseRanges() []configuration.PulseRange {
	return []configuration.PulseRange{
		{MinDuration: 10 * time.Millisecond, MaxDuration: 30 * time.Millisecond, Action: configuration.ActionReboot},
		{MinDuration: 30 * time.Millisecond, MaxDuration: 50 * time.Millisecond, Action: configuration.ActionShutdown},
	}
}

func createTestMonitor(t *testing.T, powerControlEnabled bool) (*powerMonitor, *testingutils.FakeActions, *state.State, *events.Bus) {
	bus := events.New()
	t.Cleanup(func() { _ = bus.Close() })

	actions := &testingutils.FakeActions{}
	sharedState := state.New(bus, true, powerControlEnabled)
	m := NewPowerMonitor(testingutils.NewFakeButton(), actions, sharedState, bus, testPulseRanges())
	return m.(*powerMonitor), actions, sharedState, bus
}

// pulse feeds a rising and a falling edge with the given width between them.
func pulse(m *powerMonitor, start time.Duration, width time.Duration) {
	ctx := context.Background()
	m.handleEdge(ctx, hardware.ButtonEvent{Pressed: true, Timestamp: start})
	m.handleEdge(ctx, hardware.ButtonEvent{Pressed: false, Timestamp: start + width})
}

func TestClassify(t *testing.T) {
	m, _, _, _ := createTestMonitor(t, true)

	cases := []struct {
		width    time.Duration
		expected string
	}{
		{5 * time.Millisecond, ""},
		{10 * time.Millisecond, configuration.ActionReboot},
		{20 * time.Millisecond, configuration.ActionReboot},
		{30 * time.Millisecond, configuration.ActionShutdown},
		{49 * time.Millisecond, configuration.ActionShutdown},
		{50 * time.Millisecond, ""},
		{500 * time.Millisecond, ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, m.classify(c.width), "width %s", c.width)
	}
}

func TestShutdownPulseInvokesActionOnce(t *testing.T) {
	m, actions, _, _ := createTestMonitor(t, true)

	pulse(m, time.Second, 40*time.Millisecond)

	shutdowns, reboots := actions.Counts()
	assert.Equal(t, 1, shutdowns)
	assert.Equal(t, 0, reboots)
}

func TestRebootPulseInvokesActionOnce(t *testing.T) {
	m, actions, _, _ := createTestMonitor(t, true)

	pulse(m, time.Second, 15*time.Millisecond)

	shutdowns, reboots := actions.Counts()
	assert.Equal(t, 0, shutdowns)
	assert.Equal(t, 1, reboots)
}

func TestDisabledControlClassifiesButDoesNotExecute(t *testing.T) {
	m, actions, _, bus := createTestMonitor(t, false)

	notified := make(chan events.ActionRequestedEvent, 1)
	unsubscribe := bus.Subscribe(func(e events.ActionRequestedEvent) {
		notified <- e
	})
	defer unsubscribe()

	pulse(m, time.Second, 40*time.Millisecond)

	select {
	case e := <-notified:
		assert.Equal(t, events.EventShutdownRequest, e.Name)
	case <-time.After(time.Second):
		t.Fatal("expected a shutdown_request notification")
	}
	shutdowns, reboots := actions.Counts()
	assert.Equal(t, 0, shutdowns)
	assert.Equal(t, 0, reboots)
}

func TestUnmatchedPulseDoesNothing(t *testing.T) {
	m, actions, _, _ := createTestMonitor(t, true)

	pulse(m, time.Second, 5*time.Millisecond)
	pulse(m, 2*time.Second, 200*time.Millisecond)

	shutdowns, reboots := actions.Counts()
	assert.Equal(t, 0, shutdowns)
	assert.Equal(t, 0, reboots)
}

func TestQualifyingReleaseEdgePerAction(t *testing.T) {
	m, actions, _, _ := createTestMonitor(t, true)

	pulse(m, time.Second, 40*time.Millisecond)
	pulse(m, 2*time.Second, 40*time.Millisecond)
	pulse(m, 3*time.Second, 15*time.Millisecond)

	shutdowns, reboots := actions.Counts()
	assert.Equal(t, 2, shutdowns)
	assert.Equal(t, 1, reboots)
}

func TestStrayFallingEdgeIsIgnored(t *testing.T) {
	m, actions, _, _ := createTestMonitor(t, true)

	m.handleEdge(context.Background(), hardware.ButtonEvent{Pressed: false, Timestamp: time.Second})

	shutdowns, reboots := actions.Counts()
	assert.Equal(t, 0, shutdowns)
	assert.Equal(t, 0, reboots)
}

func TestActionFailureDoesNotStopMonitor(t *testing.T) {
	m, actions, _, _ := createTestMonitor(t, true)
	actions.Fail = true

	pulse(m, time.Second, 40*time.Millisecond)
	actions.Fail = false
	pulse(m, 2*time.Second, 40*time.Millisecond)

	shutdowns, _ := actions.Counts()
	assert.Equal(t, 1, shutdowns)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	bus := events.New()
	defer bus.Close()
	button := testingutils.NewFakeButton()
	m := NewPowerMonitor(button, &testingutils.FakeActions{}, state.New(bus, true, true), bus, testPulseRanges())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx)
	}()

	button.Ch <- hardware.ButtonEvent{Pressed: true, Timestamp: time.Second}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop on context cancel")
	}
}
