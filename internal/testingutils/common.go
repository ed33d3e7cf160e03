package testingutils

import (
	"context"
	"errors"
	"sync"

	"github.com/clusterhack/argononed/internal/hardware"
)

var ErrHardware = errors.New("hardware failure")

// FakeFan records every speed written to it and can be switched into a
// failing mode.
type FakeFan struct {
	mu     sync.Mutex
	Writes []int
	Fail   bool
}

func (f *FakeFan) SetSpeed(percent int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return ErrHardware
	}
	f.Writes = append(f.Writes, percent)
	return nil
}

func (f *FakeFan) Close() error {
	return nil
}

func (f *FakeFan) LastWrite() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Writes) <= 0 {
		return 0, false
	}
	return f.Writes[len(f.Writes)-1], true
}

func (f *FakeFan) WriteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Writes)
}

// FakeSensor returns a settable temperature or a failure.
type FakeSensor struct {
	mu          sync.Mutex
	Temperature float64
	Fail        bool
}

func (s *FakeSensor) Read() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return 0, ErrHardware
	}
	return s.Temperature, nil
}

func (s *FakeSensor) Set(temperature float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Temperature = temperature
}

func (s *FakeSensor) SetFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fail = fail
}

// FakeButton feeds scripted edge events to a power monitor.
type FakeButton struct {
	Ch chan hardware.ButtonEvent
}

func NewFakeButton() *FakeButton {
	return &FakeButton{Ch: make(chan hardware.ButtonEvent, 16)}
}

func (b *FakeButton) Events() <-chan hardware.ButtonEvent {
	return b.Ch
}

func (b *FakeButton) Close() error {
	close(b.Ch)
	return nil
}

// FakeActions counts invoked system actions and can simulate failures.
type FakeActions struct {
	mu        sync.Mutex
	Shutdowns int
	Reboots   int
	Fail      bool
}

func (a *FakeActions) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Fail {
		return ErrHardware
	}
	a.Shutdowns++
	return nil
}

func (a *FakeActions) Reboot(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Fail {
		return ErrHardware
	}
	a.Reboots++
	return nil
}

func (a *FakeActions) Counts() (shutdowns int, reboots int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Shutdowns, a.Reboots
}
