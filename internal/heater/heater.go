// Package heater drives the demo actuator relay. State transitions write the
// pin exactly once; redundant turn-on/turn-off calls are absorbed here so the
// thermostat callbacks can fire on every poll below the limit without
// re-toggling hardware.
package heater

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/ntc-thermostat/internal/gpio"
	"github.com/thatsimonsguy/ntc-thermostat/internal/model"
)

type Heater struct {
	name        string
	pin         model.GPIOPin
	on          bool
	lastChanged time.Time
}

// New syncs initial state from the pin so a restart does not fight the relay.
func New(name string, pin model.GPIOPin) *Heater {
	return &Heater{
		name: name,
		pin:  pin,
		on:   gpio.CurrentlyActive(pin),
	}
}

// TurnOn activates the relay. Returns true if the state actually changed.
func (h *Heater) TurnOn() bool {
	if h.on {
		return false
	}
	log.Info().Str("device", h.name).Msg("Turning heater on")
	gpio.Activate(h.pin)
	h.on = true
	h.lastChanged = time.Now()
	return true
}

// TurnOff deactivates the relay. Returns true if the state actually changed.
func (h *Heater) TurnOff() bool {
	if !h.on {
		return false
	}
	log.Info().Str("device", h.name).Msg("Turning heater off")
	gpio.Deactivate(h.pin)
	h.on = false
	h.lastChanged = time.Now()
	return true
}

func (h *Heater) IsOn() bool {
	return h.on
}

func (h *Heater) LastChanged() time.Time {
	return h.lastChanged
}
