package hardware

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultThermalZonePath is the sysfs node of the SoC thermal zone,
// reporting millidegrees Celsius.
const DefaultThermalZonePath = "/sys/class/thermal/thermal_zone0/temp"

// SysfsTemperatureSensor reads the SoC temperature from a sysfs thermal zone.
type SysfsTemperatureSensor struct {
	Path string
}

func NewSysfsTemperatureSensor(path string) *SysfsTemperatureSensor {
	return &SysfsTemperatureSensor{Path: path}
}

func (s *SysfsTemperatureSensor) Read() (float64, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	milliDegrees, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("parsing temperature from %s: %w", s.Path, err)
	}
	return float64(milliDegrees) / 1000.0, nil
}
