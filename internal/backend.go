package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clusterhack/argononed/internal/api"
	"github.com/clusterhack/argononed/internal/configuration"
	"github.com/clusterhack/argononed/internal/controller"
	"github.com/clusterhack/argononed/internal/curve"
	"github.com/clusterhack/argononed/internal/events"
	"github.com/clusterhack/argononed/internal/hardware"
	"github.com/clusterhack/argononed/internal/power"
	"github.com/clusterhack/argononed/internal/state"
	"github.com/clusterhack/argononed/internal/statistics"
	"github.com/clusterhack/argononed/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RunDaemon() {
	if os.Geteuid() != 0 {
		ui.Fatal("argononed needs access to I2C, GPIO and logind, please run it as root")
	}

	config := configuration.CurrentConfig

	speedCurve, err := curve.FromConfig(config.FanControl.SpeedLut)
	if err != nil {
		ui.Fatal("Invalid fan curve: %v", err)
	}

	fan, err := hardware.NewI2CFan(hardware.DefaultI2CBus)
	if err != nil {
		ui.Fatal("Cannot open fan controller: %v", err)
	}
	defer func() { _ = fan.Close() }()

	button, err := hardware.NewGpiodButton(hardware.DefaultGpioChip, hardware.DefaultButtonLine)
	if err != nil {
		ui.Fatal("Cannot open power button line: %v", err)
	}
	defer func() { _ = button.Close() }()

	sensor := hardware.NewSysfsTemperatureSensor(hardware.DefaultThermalZonePath)

	bus := events.New()
	defer func() { _ = bus.Close() }()
	sharedState := state.New(bus, config.FanControl.Enabled, config.PowerButton.Enabled)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fanController := controller.NewFanController(
		fan, sensor, speedCurve, sharedState,
		config.FanControl.PollInterval, config.FanControl.Hysteresis)
	powerMonitor := power.NewPowerMonitor(
		button, power.NewLogindActions(), sharedState, bus, config.PowerButton.Pulses)
	service := api.NewService(sharedState, fanController, speedCurve, bus, config.AuthorizedGroup, cancel)

	statistics.Register(statistics.NewSensorCollector(sharedState))
	statistics.Register(statistics.NewFanCollector(sharedState))
	statistics.Register(statistics.NewPowerCollector(sharedState, bus))

	var g run.Group
	{
		if config.Statistics.Enabled {
			// === Prometheus Exporter
			addr := fmt.Sprintf(":%d", config.Statistics.Port)
			server := &http.Server{Addr: addr, Handler: promhttp.Handler()}
			g.Add(func() error {
				ui.Info("Starting statistics endpoint on %s", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					ui.Error("Cannot start statistics endpoint (%s)", err.Error())
				}
				<-ctx.Done()
				return nil
			}, func(err error) {
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				_ = server.Shutdown(timeoutCtx)
			})
		}
	}
	{
		// === fan controller
		g.Add(func() error {
			err := fanController.Run(ctx)
			ui.Info("Fan controller stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Error running fan controller: %v", err)
			}
			cancel()
		})
	}
	{
		// === power button monitor
		g.Add(func() error {
			err := powerMonitor.Run(ctx)
			ui.Info("Power button monitor stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Error running power button monitor: %v", err)
			}
			cancel()
		})
	}
	{
		// === D-Bus service
		g.Add(func() error {
			err := service.Run(ctx)
			ui.Info("D-Bus service stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Error running D-Bus service: %v", err)
			}
			cancel()
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received termination signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			defer signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}
