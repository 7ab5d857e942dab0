package model

// Topology says which arm of the voltage divider holds the NTC.
type Topology string

const (
	// NTCToGround: series resistor to Vcc, NTC between the divider tap and ground.
	NTCToGround Topology = "ntc_to_ground"
	// NTCToSupply: NTC between Vcc and the divider tap, series resistor to ground.
	NTCToSupply Topology = "ntc_to_supply"
)

func (t Topology) Valid() bool {
	return t == NTCToGround || t == NTCToSupply
}

type GPIOPin struct {
	Number     int  `json:"number"`
	ActiveHigh bool `json:"active_high"`
}

// ThermostatSettings is the operator-adjustable slice of thermostat state,
// persisted across restarts by the store package.
type ThermostatSettings struct {
	LimitLowCelsius  float64 `json:"limit_low_celsius"`
	LimitHighCelsius float64 `json:"limit_high_celsius"`
	IntervalMillis   uint32  `json:"interval_millis"`
	Enabled          bool    `json:"enabled"`
}
