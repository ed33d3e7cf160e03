package hardware

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const (
	// DefaultI2CBus is the Raspberry Pi bus the Argon ONE MCU is attached to.
	DefaultI2CBus = "1"

	fanControllerAddr = 0x1a
	fanSpeedRegister  = 0x00
)

// I2CFan drives the Argon ONE fan controller over I2C.
type I2CFan struct {
	bus i2c.BusCloser
	dev *i2c.Dev
}

func NewI2CFan(busName string) (*I2CFan, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initializing host drivers: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("opening i2c bus %s: %w", busName, err)
	}
	return &I2CFan{
		bus: bus,
		dev: &i2c.Dev{Bus: bus, Addr: fanControllerAddr},
	}, nil
}

func (f *I2CFan) SetSpeed(percent int) error {
	if err := f.dev.Tx([]byte{fanSpeedRegister, byte(percent)}, nil); err != nil {
		return fmt.Errorf("writing fan speed %d: %w", percent, err)
	}
	return nil
}

func (f *I2CFan) Close() error {
	return f.bus.Close()
}
