package events

// Event type constants for kelindar/event.
const (
	TypeValueChanged uint32 = iota + 1
	TypeActionRequested
)

// Names of the externally visible values, as used in the NotifyValue
// D-Bus signal.
const (
	ValueTemperature         = "temperature"
	ValueFanSpeed            = "fan_speed"
	ValueFanControlEnabled   = "fan_control_enabled"
	ValuePowerControlEnabled = "power_control_enabled"
)

// Names of button-classified actions, as used in the NotifyEvent D-Bus signal.
const (
	EventShutdownRequest = "shutdown_request"
	EventRebootRequest   = "reboot_request"
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// ValueChangedEvent announces a change of one externally visible state field.
type ValueChangedEvent struct {
	Name  string
	Value interface{}
}

func (e ValueChangedEvent) Type() uint32 { return TypeValueChanged }

// ActionRequestedEvent announces a classified power button pulse,
// regardless of whether the action was executed.
type ActionRequestedEvent struct {
	Name string
}

func (e ActionRequestedEvent) Type() uint32 { return TypeActionRequested }
