// Package thermostat drives periodic sampling of an NTC sensor and dispatches
// low/high threshold callbacks, bang-bang style. It owns no timer: the caller
// polls cooperatively and the thermostat decides when an interval has elapsed.
package thermostat

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/ntc-thermostat/internal/model"
	"github.com/thatsimonsguy/ntc-thermostat/internal/sensor"
)

// SensorSource is the sampling collaborator. The thermostat reads it exactly
// once per triggered poll.
type SensorSource interface {
	Sample() (sensor.Reading, error)
}

// Callbacks are the owner-supplied handlers. Low and high receive the
// triggering temperature; data-ready receives the whole reading and fires on
// every triggered poll, before the threshold checks. Nil handlers are
// skipped.
type Callbacks struct {
	OnLowTemp   func(celsius float64)
	OnHighTemp  func(celsius float64)
	OnDataReady func(reading sensor.Reading)
}

type Config struct {
	LimitLowCelsius  float64
	LimitHighCelsius float64
	Interval         time.Duration
}

type Thermostat struct {
	source    SensorSource
	callbacks Callbacks

	limitLow  float64
	limitHigh float64
	interval  time.Duration
	enabled   bool
	lastFired time.Time
}

func New(source SensorSource, cfg Config, callbacks Callbacks) (*Thermostat, error) {
	if source == nil {
		return nil, fmt.Errorf("sensor source is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("check interval must be > 0, got %v", cfg.Interval)
	}
	if cfg.LimitLowCelsius > cfg.LimitHighCelsius {
		return nil, fmt.Errorf("limit low %.2f exceeds limit high %.2f", cfg.LimitLowCelsius, cfg.LimitHighCelsius)
	}

	return &Thermostat{
		source:    source,
		callbacks: callbacks,
		limitLow:  cfg.LimitLowCelsius,
		limitHigh: cfg.LimitHighCelsius,
		interval:  cfg.Interval,
	}, nil
}

// Poll runs the check-and-dispatch step if at least one interval has elapsed
// since the last triggered poll. It fires the sampling logic no more often
// than once per interval and never skips a due check, however irregularly the
// caller polls. A disabled thermostat no-ops.
func (t *Thermostat) Poll(now time.Time) {
	if !t.enabled {
		return
	}
	if !t.lastFired.IsZero() && now.Sub(t.lastFired) < t.interval {
		return
	}
	t.lastFired = now

	reading, err := t.source.Sample()
	if err != nil {
		// A missed sample is transient; the next triggered poll re-reads.
		log.Error().Err(err).Msg("Sensor sample failed, skipping dispatch")
		return
	}

	temp := reading.TemperatureCelsius

	log.Debug().
		Float64("temp", temp).
		Float64("limit_low", t.limitLow).
		Float64("limit_high", t.limitHigh).
		Msg("Thermostat check")

	if t.callbacks.OnDataReady != nil {
		t.callbacks.OnDataReady(reading)
	}

	fire := evaluateThresholds(temp, t.limitLow, t.limitHigh)
	if fire.low && t.callbacks.OnLowTemp != nil {
		t.callbacks.OnLowTemp(temp)
	}
	if fire.high && t.callbacks.OnHighTemp != nil {
		t.callbacks.OnHighTemp(temp)
	}
}

type dispatch struct {
	low  bool
	high bool
}

// evaluateThresholds compares independently: with inverted limits both sides
// would fire on the same poll, which is why New and SetLimits reject that
// configuration.
func evaluateThresholds(temp, limitLow, limitHigh float64) dispatch {
	return dispatch{
		low:  temp < limitLow,
		high: temp > limitHigh,
	}
}

func (t *Thermostat) Enable() {
	t.enabled = true
	log.Info().Msg("Thermostat enabled")
}

func (t *Thermostat) Disable() {
	t.enabled = false
	log.Info().Msg("Thermostat disabled")
}

func (t *Thermostat) IsEnabled() bool {
	return t.enabled
}

func (t *Thermostat) SetLimits(low, high float64) error {
	if low > high {
		return fmt.Errorf("limit low %.2f exceeds limit high %.2f", low, high)
	}
	t.limitLow = low
	t.limitHigh = high
	return nil
}

func (t *Thermostat) LimitLow() float64 {
	return t.limitLow
}

func (t *Thermostat) LimitHigh() float64 {
	return t.limitHigh
}

func (t *Thermostat) SetInterval(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("check interval must be > 0, got %v", interval)
	}
	t.interval = interval
	return nil
}

func (t *Thermostat) Interval() time.Duration {
	return t.interval
}

// Settings snapshots the operator-adjustable state for persistence.
func (t *Thermostat) Settings() model.ThermostatSettings {
	return model.ThermostatSettings{
		LimitLowCelsius:  t.limitLow,
		LimitHighCelsius: t.limitHigh,
		IntervalMillis:   uint32(t.interval / time.Millisecond),
		Enabled:          t.enabled,
	}
}

// ApplySettings restores persisted state, with the same validation as the
// setters.
func (t *Thermostat) ApplySettings(s model.ThermostatSettings) error {
	if err := t.SetLimits(s.LimitLowCelsius, s.LimitHighCelsius); err != nil {
		return err
	}
	if err := t.SetInterval(time.Duration(s.IntervalMillis) * time.Millisecond); err != nil {
		return err
	}
	t.enabled = s.Enabled
	return nil
}
