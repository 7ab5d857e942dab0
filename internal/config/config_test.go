package config

import (
	"testing"

	"github.com/thatsimonsguy/ntc-thermostat/internal/model"
)

func validConfig() Config {
	return Config{
		Sensor: SensorConfig{
			SeriesResistanceOhms:  10000,
			NominalResistanceOhms: 10000,
			BetaCoefficient:       2800,
			Topology:              model.NTCToGround,
		},
		ADC: ADCConfig{
			Device:     "/sys/bus/iio/devices/iio:device0",
			MaxReading: 4095,
		},
		Thermostat: ThermostatConfig{
			LimitLowCelsius:  18,
			LimitHighCelsius: 21,
			IntervalMillis:   5000,
		},
		HeaterPin: model.GPIOPin{Number: 17, ActiveHigh: true},
	}
}

func expectPanic(t *testing.T, reason string) {
	t.Helper()
	if r := recover(); r == nil {
		t.Fatalf("expected panic due to %s, but got none", reason)
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	cfg.validate() // should not panic
}

func TestValidate_InvertedLimits(t *testing.T) {
	cfg := validConfig()
	cfg.Thermostat.LimitLowCelsius = 25
	cfg.Thermostat.LimitHighCelsius = 20

	defer expectPanic(t, "inverted thermostat limits")
	cfg.validate()
}

func TestValidate_MissingSensorParams(t *testing.T) {
	cfg := validConfig()
	cfg.Sensor.BetaCoefficient = 0

	defer expectPanic(t, "missing beta coefficient")
	cfg.validate()
}

func TestValidate_BadTopology(t *testing.T) {
	cfg := validConfig()
	cfg.Sensor.Topology = "diagonal"

	defer expectPanic(t, "invalid topology")
	cfg.validate()
}

func TestValidate_VoltageDomain(t *testing.T) {
	cfg := validConfig()
	cfg.ADC.SupplyMillivolts = 3300
	cfg.ADC.ReferenceMillivolts = 5000 // above supply

	defer expectPanic(t, "reference above supply")
	cfg.validate()
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Thermostat = ThermostatConfig{}
	cfg.applyDefaults()

	if cfg.Thermostat.IntervalMillis != 5000 {
		t.Errorf("expected default interval 5000ms, got %d", cfg.Thermostat.IntervalMillis)
	}
	if cfg.Thermostat.LimitLowCelsius != 18.0 || cfg.Thermostat.LimitHighCelsius != 21.0 {
		t.Errorf("expected default limits 18/21, got %.1f/%.1f",
			cfg.Thermostat.LimitLowCelsius, cfg.Thermostat.LimitHighCelsius)
	}
	if cfg.DatabasePath == "" {
		t.Error("expected default database path")
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.Thermostat.LimitLowCelsius = 5
	cfg.Thermostat.LimitHighCelsius = 0 // explicit zero high limit stays
	cfg.applyDefaults()

	if cfg.Thermostat.LimitLowCelsius != 5 || cfg.Thermostat.LimitHighCelsius != 0 {
		t.Errorf("defaults must not override explicit limits, got %.1f/%.1f",
			cfg.Thermostat.LimitLowCelsius, cfg.Thermostat.LimitHighCelsius)
	}
}
