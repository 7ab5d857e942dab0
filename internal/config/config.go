package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/thatsimonsguy/ntc-thermostat/internal/model"
)

type SensorConfig struct {
	SeriesResistanceOhms  float64        `json:"series_resistance_ohms"`
	NominalResistanceOhms float64        `json:"nominal_resistance_ohms"`
	BetaCoefficient       float64        `json:"beta_coefficient"`
	Topology              model.Topology `json:"topology"`
}

type ADCConfig struct {
	Device     string `json:"device"`  // IIO device dir, e.g. /sys/bus/iio/devices/iio:device0
	Channel    int    `json:"channel"` // voltage channel index
	MaxReading int    `json:"max_reading"`

	// Voltage-domain calibration, millivolts. Leave supply at zero to use the
	// raw code ratio directly.
	SupplyMillivolts    float64 `json:"supply_millivolts"`
	ReferenceMillivolts float64 `json:"reference_millivolts"`
	OffsetMillivolts    float64 `json:"offset_millivolts"`
}

type ThermostatConfig struct {
	LimitLowCelsius  float64 `json:"limit_low_celsius"`
	LimitHighCelsius float64 `json:"limit_high_celsius"`
	IntervalMillis   uint32  `json:"interval_millis"`
}

type Config struct {
	ConfigFile   string
	SettingsFile string
	LogLevel     zerolog.Level

	Sensor     SensorConfig     `json:"sensor"`
	ADC        ADCConfig        `json:"adc"`
	Thermostat ThermostatConfig `json:"thermostat"`

	HeaterPin model.GPIOPin `json:"heater_pin"`
	SafeMode  bool          `json:"safe_mode"`
	LogFile   string        `json:"log_file"`

	DatabasePath string `json:"database_path"`

	EnableDatadog bool     `json:"enable_datadog"`
	DDAgentAddr   string   `json:"dd_agent_addr"`
	DDNamespace   string   `json:"dd_namespace"`
	DDTags        []string `json:"dd_tags"`

	NtfyTopic string `json:"ntfy_topic"`
}

func Load() Config {
	var cfg Config
	var logLevel string

	flag.StringVar(&cfg.ConfigFile, "config-file", "config.json", "Path to thermostat config file")
	flag.StringVar(&cfg.SettingsFile, "settings-file", "data/settings.json", "Path to persisted thermostat settings")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg.LogLevel = parseLogLevel(logLevel)

	file, err := os.Open(cfg.ConfigFile)
	if err != nil {
		panic("Failed to load config file: " + err.Error())
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		panic("Failed to parse config file: " + err.Error())
	}

	cfg.applyDefaults()
	cfg.validate()
	return cfg
}

func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// applyDefaults fills in the original module defaults for fields the config
// file omits: 18/21 degree limits and a 5 second check interval.
func (cfg *Config) applyDefaults() {
	if cfg.Thermostat.IntervalMillis == 0 {
		cfg.Thermostat.IntervalMillis = 5000
	}
	if cfg.Thermostat.LimitLowCelsius == 0 && cfg.Thermostat.LimitHighCelsius == 0 {
		cfg.Thermostat.LimitLowCelsius = 18.0
		cfg.Thermostat.LimitHighCelsius = 21.0
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "data/readings.db"
	}
}

func (cfg *Config) validate() {
	var problems []string

	if cfg.Sensor.SeriesResistanceOhms <= 0 {
		problems = append(problems, "sensor.series_resistance_ohms must be > 0")
	}
	if cfg.Sensor.NominalResistanceOhms <= 0 {
		problems = append(problems, "sensor.nominal_resistance_ohms must be > 0")
	}
	if cfg.Sensor.BetaCoefficient <= 0 {
		problems = append(problems, "sensor.beta_coefficient must be > 0")
	}
	if !cfg.Sensor.Topology.Valid() {
		problems = append(problems, fmt.Sprintf("sensor.topology must be %q or %q", model.NTCToGround, model.NTCToSupply))
	}

	if cfg.ADC.MaxReading <= 0 {
		problems = append(problems, "adc.max_reading must be > 0 (1023 for 10-bit, 4095 for 12-bit)")
	}
	if cfg.ADC.SupplyMillivolts != 0 {
		if cfg.ADC.ReferenceMillivolts <= 0 {
			problems = append(problems, "adc.reference_millivolts must be > 0 when supply_millivolts is set")
		}
		if cfg.ADC.ReferenceMillivolts > cfg.ADC.SupplyMillivolts {
			problems = append(problems, "adc.reference_millivolts must not exceed adc.supply_millivolts")
		}
		if cfg.ADC.OffsetMillivolts >= cfg.ADC.ReferenceMillivolts {
			problems = append(problems, "adc.offset_millivolts must be below adc.reference_millivolts")
		}
	}

	if cfg.Thermostat.LimitLowCelsius > cfg.Thermostat.LimitHighCelsius {
		problems = append(problems, fmt.Sprintf(
			"thermostat.limit_low_celsius (%.1f) must not exceed thermostat.limit_high_celsius (%.1f)",
			cfg.Thermostat.LimitLowCelsius, cfg.Thermostat.LimitHighCelsius))
	}

	if cfg.HeaterPin.Number < 0 {
		problems = append(problems, "heater_pin.number must be a valid GPIO number")
	}

	if len(problems) > 0 {
		panic("Invalid config: " + strings.Join(problems, "; "))
	}
}
