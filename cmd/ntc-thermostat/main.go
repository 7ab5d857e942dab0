package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/ntc-thermostat/db"
	"github.com/thatsimonsguy/ntc-thermostat/internal/adc"
	"github.com/thatsimonsguy/ntc-thermostat/internal/config"
	"github.com/thatsimonsguy/ntc-thermostat/internal/datadog"
	"github.com/thatsimonsguy/ntc-thermostat/internal/env"
	"github.com/thatsimonsguy/ntc-thermostat/internal/gpio"
	"github.com/thatsimonsguy/ntc-thermostat/internal/heater"
	"github.com/thatsimonsguy/ntc-thermostat/internal/logging"
	"github.com/thatsimonsguy/ntc-thermostat/internal/notifications"
	"github.com/thatsimonsguy/ntc-thermostat/internal/sensor"
	"github.com/thatsimonsguy/ntc-thermostat/internal/store"
	"github.com/thatsimonsguy/ntc-thermostat/internal/thermostat"
)

// pollTick is how often the cooperative loop hands the thermostat a chance to
// run. The thermostat itself decides when an interval has elapsed.
const pollTick = 100 * time.Millisecond

func main() {
	cfg := config.Load()
	env.Cfg = &cfg
	logging.Init(cfg.LogLevel, cfg.LogFile)

	log.Info().
		Str("config_file", cfg.ConfigFile).
		Str("settings_file", cfg.SettingsFile).
		Msg("Starting NTC thermostat")

	gpio.SetSafeMode(cfg.SafeMode)
	if cfg.SafeMode {
		log.Warn().Msg("SAFE MODE ENABLED — GPIO writes are disabled system-wide")
	}

	if cfg.EnableDatadog {
		datadog.InitMetrics()
	}
	notifications.Init()

	dbConn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("Failed to open readings database")
	}
	defer dbConn.Close()

	reader := adc.NewSysfsReader(cfg.ADC.Device, cfg.ADC.Channel)
	ntc, err := sensor.New(
		sensor.CalibrationParams{
			SeriesResistanceOhms:  cfg.Sensor.SeriesResistanceOhms,
			NominalResistanceOhms: cfg.Sensor.NominalResistanceOhms,
			BetaCoefficient:       cfg.Sensor.BetaCoefficient,
			Topology:              cfg.Sensor.Topology,
		},
		sensor.ADCReadoutModel{
			MaxReading:          cfg.ADC.MaxReading,
			SupplyMillivolts:    cfg.ADC.SupplyMillivolts,
			ReferenceMillivolts: cfg.ADC.ReferenceMillivolts,
			OffsetMillivolts:    cfg.ADC.OffsetMillivolts,
		},
		reader,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to construct sensor")
	}

	log.Info().Msg(ntc.DescribeParams())

	relay := heater.New("heater", cfg.HeaterPin)

	callbacks := thermostat.Callbacks{
		OnLowTemp: func(celsius float64) {
			if relay.TurnOn() {
				notify("Heating on", fmt.Sprintf("Temperature %.1f C dropped below limit", celsius))
			}
		},
		OnHighTemp: func(celsius float64) {
			if relay.TurnOff() {
				notify("Heating off", fmt.Sprintf("Temperature %.1f C exceeded limit", celsius))
			}
		},
		OnDataReady: func(r sensor.Reading) {
			datadog.Gauge("sensor.temperature", r.TemperatureCelsius, "component:sensor")
			datadog.Gauge("sensor.resistance", r.ResistanceOhms, "component:sensor")
			datadog.Gauge("sensor.raw_code", float64(r.RawCode), "component:sensor")
			datadog.Gauge("thermostat.heating", boolToGauge(relay.IsOn()), "component:heater")

			if err := db.InsertReading(dbConn, r, time.Now()); err != nil {
				log.Error().Err(err).Msg("Failed to record reading")
			}

			log.Debug().Msg(r.Describe())
		},
	}

	tstat, err := thermostat.New(ntc, thermostat.Config{
		LimitLowCelsius:  cfg.Thermostat.LimitLowCelsius,
		LimitHighCelsius: cfg.Thermostat.LimitHighCelsius,
		Interval:         time.Duration(cfg.Thermostat.IntervalMillis) * time.Millisecond,
	}, callbacks)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to construct thermostat")
	}

	st := store.New(cfg.SettingsFile)
	if settings, err := st.Load(); err != nil {
		log.Warn().Err(err).Msg("No persisted thermostat settings, using config values")
		tstat.Enable()
	} else if err := tstat.ApplySettings(*settings); err != nil {
		log.Warn().Err(err).Msg("Persisted thermostat settings invalid, using config values")
		tstat.Enable()
	} else {
		log.Info().
			Float64("limit_low", settings.LimitLowCelsius).
			Float64("limit_high", settings.LimitHighCelsius).
			Uint32("interval_ms", settings.IntervalMillis).
			Bool("enabled", settings.Enabled).
			Msg("Restored persisted thermostat settings")
	}

	settings := tstat.Settings()
	if err := st.Save(&settings); err != nil {
		log.Warn().Err(err).Msg("Failed to persist thermostat settings")
	}

	log.Info().
		Float64("limit_low", tstat.LimitLow()).
		Float64("limit_high", tstat.LimitHigh()).
		Dur("interval", tstat.Interval()).
		Msg("Entering poll loop")

	for {
		tstat.Poll(time.Now())
		time.Sleep(pollTick)
	}
}

func boolToGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func notify(title, message string) {
	if err := notifications.Send(title, message); err != nil {
		log.Debug().Err(err).Str("title", title).Msg("Notification not sent")
	}
}
