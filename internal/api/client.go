package api

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Client is a thin proxy for the daemon's D-Bus interface, used by the CLI
// subcommands.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

func NewClient() (*Client, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to system bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(BusName, ObjectPath),
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) call(method string, args ...interface{}) *dbus.Call {
	return c.obj.Call(InterfaceName+"."+method, 0, args...)
}

func (c *Client) FanSpeed() (int, error) {
	var speed int32
	if err := c.call("GetFanSpeed").Store(&speed); err != nil {
		return 0, err
	}
	return int(speed), nil
}

func (c *Client) SetFanSpeed(speed int) error {
	return c.call("SetFanSpeed", int32(speed)).Err
}

func (c *Client) Temperature() (float64, error) {
	var temperature float64
	if err := c.call("GetTemperature").Store(&temperature); err != nil {
		return 0, err
	}
	return temperature, nil
}

func (c *Client) FanControlEnabled() (bool, error) {
	var enabled bool
	if err := c.call("GetFanControlEnabled").Store(&enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

func (c *Client) SetFanControlEnabled(enabled bool) error {
	return c.call("SetFanControlEnabled", enabled).Err
}

func (c *Client) PowerControlEnabled() (bool, error) {
	var enabled bool
	if err := c.call("GetPowerControlEnabled").Store(&enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

func (c *Client) SetPowerControlEnabled(enabled bool) error {
	return c.call("SetPowerControlEnabled", enabled).Err
}

func (c *Client) FanCurve() ([]CurvePoint, error) {
	var points []CurvePoint
	if err := c.call("GetFanCurve").Store(&points); err != nil {
		return nil, err
	}
	return points, nil
}

// Shutdown stops the daemon process.
func (c *Client) Shutdown() error {
	return c.call("Shutdown").Err
}
