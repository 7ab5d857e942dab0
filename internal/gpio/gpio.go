package gpio

import (
	"fmt"

	"github.com/thatsimonsguy/ntc-thermostat/internal/model"
	"github.com/thatsimonsguy/ntc-thermostat/internal/pinctrl"
	"github.com/thatsimonsguy/ntc-thermostat/system/shutdown"
)

var safeMode bool

// SetSafeMode disables all pin writes system-wide. Reads still work.
func SetSafeMode(enabled bool) {
	safeMode = enabled
}

func Read(pin model.GPIOPin) bool {
	level, err := pinctrl.ReadLevel(pin.Number)
	if err != nil {
		shutdown.ShutdownWithError(err, fmt.Sprintf("Failed to read pin level for pin %d", pin.Number))
	}
	return level
}

var Activate = func(pin model.GPIOPin) {
	if safeMode {
		return
	}

	drive := "dh"
	if !pin.ActiveHigh {
		drive = "dl"
	}
	if err := pinctrl.SetPin(pin.Number, "op", "pn", drive); err != nil {
		shutdown.ShutdownWithError(err, fmt.Sprintf("Failed to activate pin %d", pin.Number))
	}
}

var Deactivate = func(pin model.GPIOPin) {
	if safeMode {
		return
	}

	drive := "dl"
	if !pin.ActiveHigh {
		drive = "dh"
	}
	if err := pinctrl.SetPin(pin.Number, "op", "pn", drive); err != nil {
		shutdown.ShutdownWithError(err, fmt.Sprintf("Failed to deactivate pin %d", pin.Number))
	}
}

var CurrentlyActive = func(pin model.GPIOPin) bool {
	level := Read(pin)
	return pin.ActiveHigh == level
}
