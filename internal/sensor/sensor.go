// Package sensor converts raw ADC readings from an NTC voltage divider into
// resistance and temperature using the beta form of the Steinhart-Hart
// equation:
//
//	Roo  = Ro * exp(-beta / To)     resistance as T -> oo
//	T    = beta / ln(Rt / Roo)      temperature from measured resistance
//
// with To the nominal temperature (25 C) in Kelvin.
package sensor

import (
	"fmt"
	"math"

	"github.com/thatsimonsguy/ntc-thermostat/internal/adc"
	"github.com/thatsimonsguy/ntc-thermostat/internal/model"
)

const (
	nominalTempCelsius  = 25.0
	absoluteZeroCelsius = -273.15
)

// CalibrationParams are the fixed circuit constants. Immutable after New.
type CalibrationParams struct {
	SeriesResistanceOhms  float64
	NominalResistanceOhms float64 // NTC resistance at 25 C
	BetaCoefficient       float64 // material constant, Kelvin
	Topology              model.Topology
}

// ADCReadoutModel describes the converter. When SupplyMillivolts is zero the
// raw code ratio is used directly; otherwise readings are first mapped into
// the voltage domain (the calibrated model, needed on converters whose
// reference does not span the supply rail).
type ADCReadoutModel struct {
	MaxReading          int // full-scale code: 1023 for 10-bit, 4095 for 12-bit
	SupplyMillivolts    float64
	ReferenceMillivolts float64
	OffsetMillivolts    float64
}

func (m ADCReadoutModel) voltageCalibrated() bool {
	return m.SupplyMillivolts > 0
}

// Reading is one converted sample. Produced fresh on every read, never cached.
type Reading struct {
	RawCode               int
	VoltageInMillivolts   float64 // only set under the voltage-calibrated model
	FactorK               float64
	ResistanceOhms        float64
	TemperatureKelvin     float64
	TemperatureCelsius    float64
	TemperatureFahrenheit float64
}

type Sensor struct {
	params               CalibrationParams
	readout              ADCReadoutModel
	reader               adc.Reader
	resistanceAtInfinity float64
}

func New(params CalibrationParams, readout ADCReadoutModel, reader adc.Reader) (*Sensor, error) {
	if params.SeriesResistanceOhms <= 0 {
		return nil, fmt.Errorf("series resistance must be > 0, got %g", params.SeriesResistanceOhms)
	}
	if params.NominalResistanceOhms <= 0 {
		return nil, fmt.Errorf("nominal resistance must be > 0, got %g", params.NominalResistanceOhms)
	}
	if params.BetaCoefficient <= 0 {
		return nil, fmt.Errorf("beta coefficient must be > 0, got %g", params.BetaCoefficient)
	}
	if !params.Topology.Valid() {
		return nil, fmt.Errorf("invalid divider topology %q", params.Topology)
	}
	if readout.MaxReading <= 0 {
		return nil, fmt.Errorf("ADC full-scale code must be > 0, got %d", readout.MaxReading)
	}
	if readout.voltageCalibrated() {
		if readout.ReferenceMillivolts <= 0 || readout.ReferenceMillivolts > readout.SupplyMillivolts {
			return nil, fmt.Errorf("reference voltage %gmV must be in (0, %gmV]",
				readout.ReferenceMillivolts, readout.SupplyMillivolts)
		}
		if readout.OffsetMillivolts >= readout.ReferenceMillivolts {
			return nil, fmt.Errorf("offset voltage %gmV must be below reference %gmV",
				readout.OffsetMillivolts, readout.ReferenceMillivolts)
		}
	}
	if reader == nil {
		return nil, fmt.Errorf("ADC reader is required")
	}

	nominalKelvin := nominalTempCelsius - absoluteZeroCelsius
	return &Sensor{
		params:               params,
		readout:              readout,
		reader:               reader,
		resistanceAtInfinity: params.NominalResistanceOhms * math.Exp(-params.BetaCoefficient/nominalKelvin),
	}, nil
}

// Sample performs exactly one hardware read and converts it. The only error
// source is the ADC collaborator; conversion itself never fails — floor and
// saturated codes come back as infinite-temperature sentinels.
func (s *Sensor) Sample() (Reading, error) {
	raw, err := s.reader.ReadRaw()
	if err != nil {
		return Reading{}, fmt.Errorf("adc read: %w", err)
	}
	return s.convert(raw), nil
}

func (s *Sensor) convert(raw int) Reading {
	r := Reading{RawCode: raw}

	// Under the ground-referenced topology a floor code means the divider
	// tap is shorted to ground or the sensor is disconnected: resistance is
	// unknowable, temperature reads as +oo.
	if raw < 1 && s.params.Topology == model.NTCToGround {
		r.ResistanceOhms = s.resistanceAtInfinity
		r.TemperatureKelvin = math.Inf(1)
	} else {
		if s.readout.voltageCalibrated() {
			v := (s.readout.ReferenceMillivolts - s.readout.OffsetMillivolts) / float64(s.readout.MaxReading)
			vin := float64(raw)*v + s.readout.OffsetMillivolts
			r.VoltageInMillivolts = vin
			// k in the voltage domain is tap voltage over drop across the
			// other arm, so the topology roles invert relative to code ratio
			r.FactorK = vin / (s.readout.SupplyMillivolts - vin)
			if s.params.Topology == model.NTCToGround {
				r.ResistanceOhms = s.params.SeriesResistanceOhms * r.FactorK
			} else {
				r.ResistanceOhms = s.params.SeriesResistanceOhms / r.FactorK
			}
		} else {
			r.FactorK = float64(s.readout.MaxReading)/float64(raw) - 1.0
			if s.params.Topology == model.NTCToGround {
				r.ResistanceOhms = s.params.SeriesResistanceOhms / r.FactorK
			} else {
				r.ResistanceOhms = s.params.SeriesResistanceOhms * r.FactorK
			}
		}
		r.TemperatureKelvin = s.params.BetaCoefficient / math.Log(r.ResistanceOhms/s.resistanceAtInfinity)
	}

	r.TemperatureCelsius = r.TemperatureKelvin + absoluteZeroCelsius
	r.TemperatureFahrenheit = r.TemperatureCelsius*9.0/5.0 + 32.0
	return r
}

// RawCodeFor inverts the conversion: the ADC code that would produce the
// given temperature. Used for calibration checks and synthetic test inputs.
func (s *Sensor) RawCodeFor(celsius float64) int {
	kelvin := celsius - absoluteZeroCelsius
	resistance := s.resistanceAtInfinity * math.Exp(s.params.BetaCoefficient/kelvin)

	var k float64
	if s.readout.voltageCalibrated() {
		if s.params.Topology == model.NTCToGround {
			k = resistance / s.params.SeriesResistanceOhms
		} else {
			k = s.params.SeriesResistanceOhms / resistance
		}
		vin := s.readout.SupplyMillivolts * k / (1.0 + k)
		v := (s.readout.ReferenceMillivolts - s.readout.OffsetMillivolts) / float64(s.readout.MaxReading)
		return int(math.Round((vin - s.readout.OffsetMillivolts) / v))
	}

	if s.params.Topology == model.NTCToGround {
		k = s.params.SeriesResistanceOhms / resistance
	} else {
		k = resistance / s.params.SeriesResistanceOhms
	}
	return int(math.Round(float64(s.readout.MaxReading) / (k + 1.0)))
}

// Every accessor performs a fresh hardware read; values are never cached
// across calls.

func (s *Sensor) Celsius() (float64, error) {
	r, err := s.Sample()
	return r.TemperatureCelsius, err
}

func (s *Sensor) Kelvin() (float64, error) {
	r, err := s.Sample()
	return r.TemperatureKelvin, err
}

func (s *Sensor) Fahrenheit() (float64, error) {
	r, err := s.Sample()
	return r.TemperatureFahrenheit, err
}

func (s *Sensor) Resistance() (float64, error) {
	r, err := s.Sample()
	return r.ResistanceOhms, err
}

func (s *Sensor) RawCode() (int, error) {
	r, err := s.Sample()
	return r.RawCode, err
}

// ResistanceAtInfinity returns the derived calibration constant Roo. No
// hardware read.
func (s *Sensor) ResistanceAtInfinity() float64 {
	return s.resistanceAtInfinity
}

func (s *Sensor) Params() CalibrationParams {
	return s.params
}

func (s *Sensor) ReadoutModel() ADCReadoutModel {
	return s.readout
}

// DescribeParams formats the calibration block for diagnostic logging.
func (s *Sensor) DescribeParams() string {
	return fmt.Sprintf(`--- NTC parameters ---
beta         %8.0f K
Ro           %8.0f ohm
Rs           %8.0f ohm
Roo          %10.5f ohm
To           %8.2f C
topology     %s
--- ADC parameters ---
full scale   %8d
Vcc          %8.0f mV
Vref         %8.0f mV
Voff         %8.0f mV`,
		s.params.BetaCoefficient, s.params.NominalResistanceOhms, s.params.SeriesResistanceOhms,
		s.resistanceAtInfinity, nominalTempCelsius, s.params.Topology,
		s.readout.MaxReading, s.readout.SupplyMillivolts, s.readout.ReferenceMillivolts,
		s.readout.OffsetMillivolts)
}

// DescribeReading samples the sensor and formats the result.
func (s *Sensor) DescribeReading() (string, error) {
	r, err := s.Sample()
	if err != nil {
		return "", err
	}
	return r.Describe(), nil
}

// Describe formats an already-taken reading for diagnostic logging.
func (r Reading) Describe() string {
	return fmt.Sprintf(`--- sensor reading ---
raw code     %8d
Vin          %10.1f mV
k            %10.5f
Rt           %10.1f ohm
Tc           %10.2f C
Tf           %10.2f F
Tk           %10.2f K`,
		r.RawCode, r.VoltageInMillivolts, r.FactorK, r.ResistanceOhms,
		r.TemperatureCelsius, r.TemperatureFahrenheit, r.TemperatureKelvin)
}
