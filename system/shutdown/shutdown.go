package shutdown

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/ntc-thermostat/internal/env"
	"github.com/thatsimonsguy/ntc-thermostat/internal/pinctrl"
)

// Shutdown drops the heater relay to its inactive level and exits. Last
// resort for unrecoverable hardware faults.
func Shutdown() {
	if env.Cfg != nil && !env.Cfg.SafeMode {
		drive := "dl"
		if !env.Cfg.HeaterPin.ActiveHigh {
			drive = "dh"
		}
		if err := pinctrl.SetPin(env.Cfg.HeaterPin.Number, "op", "pn", drive); err != nil {
			log.Error().Err(err).Msg("Failed to deactivate heater relay during shutdown")
		} else {
			log.Info().Msg("Heater relay deactivated")
		}
	}
	os.Exit(1)
}

func ShutdownWithError(err error, msg string) {
	log.Error().Err(err).Msg(msg)
	Shutdown()
}
