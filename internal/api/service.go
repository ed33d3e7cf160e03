package api

import (
	"context"
	"fmt"

	"github.com/clusterhack/argononed/internal/controller"
	"github.com/clusterhack/argononed/internal/curve"
	"github.com/clusterhack/argononed/internal/events"
	"github.com/clusterhack/argononed/internal/state"
	"github.com/clusterhack/argononed/internal/ui"
	sddaemon "github.com/coreos/go-systemd/v22/daemon"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// D-Bus naming is a compatibility contract with the argonctl CLI and the
// lxpanel plugin, do not change.
const (
	BusName       = "net.clusterhack.ArgonOne"
	ObjectPath    = dbus.ObjectPath("/net/clusterhack/ArgonOne")
	InterfaceName = "net.clusterhack.ArgonOne"
)

// CurvePoint is one fan curve step as transferred over the bus, type (di).
type CurvePoint struct {
	Threshold float64
	Speed     int32
}

func invalidArgument(format string, a ...interface{}) *dbus.Error {
	return dbus.NewError(InterfaceName+".Error.InvalidArgument", []interface{}{fmt.Sprintf(format, a...)})
}

func authorizationDenied(err error) *dbus.Error {
	return dbus.NewError(InterfaceName+".Error.AuthorizationDenied", []interface{}{err.Error()})
}

// ArgonOne is the object exported under ObjectPath. Query methods are open
// to everyone; mutating methods pass the permission gate first and perform
// no state change and no hardware write when it denies.
type ArgonOne struct {
	state      *state.State
	controller controller.FanController
	curve      *curve.StepCurve
	gate       Authorizer
	stop       func()
}

func (o *ArgonOne) GetFanSpeed() (int32, *dbus.Error) {
	return int32(o.state.FanSpeed()), nil
}

func (o *ArgonOne) GetTemperature() (float64, *dbus.Error) {
	return o.state.Temperature(), nil
}

func (o *ArgonOne) GetFanControlEnabled() (bool, *dbus.Error) {
	return o.state.FanControlEnabled(), nil
}

func (o *ArgonOne) GetPowerControlEnabled() (bool, *dbus.Error) {
	return o.state.PowerControlEnabled(), nil
}

func (o *ArgonOne) GetFanCurve() ([]CurvePoint, *dbus.Error) {
	steps := o.curve.Steps()
	points := make([]CurvePoint, 0, len(steps))
	for _, step := range steps {
		points = append(points, CurvePoint{Threshold: step.Threshold, Speed: int32(step.Speed)})
	}
	return points, nil
}

func (o *ArgonOne) SetFanSpeed(sender dbus.Sender, speed int32) *dbus.Error {
	if err := o.gate.Authorize(sender); err != nil {
		return authorizationDenied(err)
	}
	if speed < 0 || speed > 100 {
		return invalidArgument("fan speed %d is outside [0..100]", speed)
	}
	if err := o.controller.SetFanSpeed(int(speed)); err != nil {
		// transient hardware problem, not a protocol error
		ui.Warning("Failed to apply fan speed %d: %v", speed, err)
	}
	return nil
}

func (o *ArgonOne) SetFanControlEnabled(sender dbus.Sender, enabled bool) *dbus.Error {
	if err := o.gate.Authorize(sender); err != nil {
		return authorizationDenied(err)
	}
	if o.state.SetFanControlEnabled(enabled) {
		ui.Info("Fan control enabled: %t", enabled)
	}
	return nil
}

func (o *ArgonOne) SetPowerControlEnabled(sender dbus.Sender, enabled bool) *dbus.Error {
	if err := o.gate.Authorize(sender); err != nil {
		return authorizationDenied(err)
	}
	if o.state.SetPowerControlEnabled(enabled) {
		ui.Info("Power button control enabled: %t", enabled)
	}
	return nil
}

// Shutdown terminates the daemon process, not the system.
func (o *ArgonOne) Shutdown(sender dbus.Sender) *dbus.Error {
	if err := o.gate.Authorize(sender); err != nil {
		return authorizationDenied(err)
	}
	ui.Info("Shutdown requested via D-Bus")
	o.stop()
	return nil
}

// Service owns the daemon's presence on the system bus: the well-known
// name, the exported ArgonOne object and the signal forwarding from the
// internal event bus.
type Service struct {
	state      *state.State
	controller controller.FanController
	curve      *curve.StepCurve
	bus        *events.Bus
	group      string
	stop       func()
}

func NewService(
	sharedState *state.State,
	fanController controller.FanController,
	speedCurve *curve.StepCurve,
	bus *events.Bus,
	authorizedGroup string,
	stop func(),
) *Service {
	return &Service{
		state:      sharedState,
		controller: fanController,
		curve:      speedCurve,
		bus:        bus,
		group:      authorizedGroup,
		stop:       stop,
	}
}

func (s *Service) Run(ctx context.Context) error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("connecting to system bus: %w", err)
	}
	defer conn.Close()

	object := &ArgonOne{
		state:      s.state,
		controller: s.controller,
		curve:      s.curve,
		gate:       NewPermissionGate(conn, s.group),
		stop:       s.stop,
	}
	if err = conn.Export(object, ObjectPath, InterfaceName); err != nil {
		return fmt.Errorf("exporting %s: %w", InterfaceName, err)
	}
	if err = conn.Export(introspect.NewIntrospectable(introspectionNode()), ObjectPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("exporting introspection data: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("requesting bus name %s: %w", BusName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s is already taken, is another instance running?", BusName)
	}

	unsubscribeValues := s.bus.Subscribe(func(e events.ValueChangedEvent) {
		if emitErr := conn.Emit(ObjectPath, InterfaceName+".NotifyValue", e.Name, dbus.MakeVariant(signalValue(e.Value))); emitErr != nil {
			ui.Debug("Failed to emit NotifyValue(%s): %v", e.Name, emitErr)
		}
	})
	defer unsubscribeValues()
	unsubscribeEvents := s.bus.Subscribe(func(e events.ActionRequestedEvent) {
		if emitErr := conn.Emit(ObjectPath, InterfaceName+".NotifyEvent", e.Name); emitErr != nil {
			ui.Debug("Failed to emit NotifyEvent(%s): %v", e.Name, emitErr)
		}
	})
	defer unsubscribeEvents()

	ui.Info("D-Bus service ready on %s", BusName)
	_, _ = sddaemon.SdNotify(false, sddaemon.SdNotifyReady)

	<-ctx.Done()
	_, _ = sddaemon.SdNotify(false, sddaemon.SdNotifyStopping)
	_, err = conn.ReleaseName(BusName)
	return err
}

// signalValue maps internal values onto the wire types the original
// clients expect, in particular 'i' for the fan speed.
func signalValue(value interface{}) interface{} {
	switch v := value.(type) {
	case int:
		return int32(v)
	default:
		return value
	}
}

func introspectionNode() *introspect.Node {
	return &introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name: InterfaceName,
				Methods: []introspect.Method{
					{Name: "GetFanSpeed", Args: []introspect.Arg{{Name: "speed", Type: "i", Direction: "out"}}},
					{Name: "SetFanSpeed", Args: []introspect.Arg{{Name: "speed", Type: "i", Direction: "in"}}},
					{Name: "GetTemperature", Args: []introspect.Arg{{Name: "temperature", Type: "d", Direction: "out"}}},
					{Name: "GetFanControlEnabled", Args: []introspect.Arg{{Name: "enabled", Type: "b", Direction: "out"}}},
					{Name: "SetFanControlEnabled", Args: []introspect.Arg{{Name: "enabled", Type: "b", Direction: "in"}}},
					{Name: "GetPowerControlEnabled", Args: []introspect.Arg{{Name: "enabled", Type: "b", Direction: "out"}}},
					{Name: "SetPowerControlEnabled", Args: []introspect.Arg{{Name: "enabled", Type: "b", Direction: "in"}}},
					{Name: "GetFanCurve", Args: []introspect.Arg{{Name: "curve", Type: "a(di)", Direction: "out"}}},
					{Name: "Shutdown"},
				},
				Signals: []introspect.Signal{
					{Name: "NotifyValue", Args: []introspect.Arg{{Name: "name", Type: "s"}, {Name: "value", Type: "v"}}},
					{Name: "NotifyEvent", Args: []introspect.Arg{{Name: "name", Type: "s"}}},
				},
			},
		},
	}
}
