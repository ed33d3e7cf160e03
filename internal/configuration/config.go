package configuration

import (
	"os"
	"time"

	"github.com/clusterhack/argononed/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// ActionShutdown powers the system off via logind.
	ActionShutdown = "shutdown"
	// ActionReboot restarts the system via logind.
	ActionReboot = "reboot"
)

// FanCurveStep maps a temperature threshold (°C) to a fan speed (percent).
type FanCurveStep struct {
	Threshold float64 `json:"threshold"`
	Speed     int     `json:"speed"`
}

type FanControlConfig struct {
	Enabled      bool           `json:"enabled"`
	PollInterval time.Duration  `json:"pollInterval"`
	Hysteresis   float64        `json:"hysteresis"`
	SpeedLut     []FanCurveStep `json:"speedLut"`
}

// PulseRange classifies a button pulse width d with MinDuration <= d < MaxDuration
// into an action.
type PulseRange struct {
	MinDuration time.Duration `json:"minDuration"`
	MaxDuration time.Duration `json:"maxDuration"`
	Action      string        `json:"action"`
}

type PowerButtonConfig struct {
	Enabled bool         `json:"enabled"`
	Pulses  []PulseRange `json:"pulses"`
}

type StatisticsConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

type Configuration struct {
	FanControl      FanControlConfig  `json:"fanControl"`
	PowerButton     PowerButtonConfig `json:"powerButton"`
	AuthorizedGroup string            `json:"authorizedGroup"`
	Statistics      StatisticsConfig  `json:"statistics"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("argonone")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/argonone/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("FanControl.Enabled", true)
	viper.SetDefault("FanControl.PollInterval", 10*time.Second)
	viper.SetDefault("FanControl.Hysteresis", 0.0)
	viper.SetDefault("FanControl.SpeedLut", []FanCurveStep{
		{Threshold: 55, Speed: 10},
		{Threshold: 60, Speed: 55},
		{Threshold: 65, Speed: 100},
	})

	viper.SetDefault("PowerButton.Enabled", true)
	// pulse timings used by the stock Argon ONE firmware scripts
	viper.SetDefault("PowerButton.Pulses", []PulseRange{
		{MinDuration: 10 * time.Millisecond, MaxDuration: 30 * time.Millisecond, Action: ActionReboot},
		{MinDuration: 30 * time.Millisecond, MaxDuration: 50 * time.Millisecond, Action: ActionShutdown},
	})

	viper.SetDefault("AuthorizedGroup", "argonone")

	viper.SetDefault("Statistics.Enabled", false)
	viper.SetDefault("Statistics.Port", 9791)
}

// DetectAndReadConfigFile reads the config file detected by viper and returns
// its path, or "" when no file exists on the search path. A file that exists
// but cannot be read is fatal, the daemon must not start from a partial
// configuration.
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			ui.Fatal("Error reading config file: %s", err)
		}
		// no file anywhere on the search path, defaults apply
	}
	return viper.ConfigFileUsed()
}

func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig)
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}
