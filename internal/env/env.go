package env

import (
	"github.com/thatsimonsguy/ntc-thermostat/internal/config"
)

var Cfg *config.Config
