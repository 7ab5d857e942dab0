package sensor

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/ntc-thermostat/internal/model"
)

type fakeADC struct {
	code  int
	err   error
	reads int
}

func (f *fakeADC) ReadRaw() (int, error) {
	f.reads++
	return f.code, f.err
}

// Elegoo analog temp module: 10k NTC, 10k series, beta 2800
func elegooParams(topology model.Topology) CalibrationParams {
	return CalibrationParams{
		SeriesResistanceOhms:  10000,
		NominalResistanceOhms: 10000,
		BetaCoefficient:       2800,
		Topology:              topology,
	}
}

func tenBit() ADCReadoutModel {
	return ADCReadoutModel{MaxReading: 1023}
}

// Wemos D1 voltage calibration from the board bring-up notes
func wemosReadout() ADCReadoutModel {
	return ADCReadoutModel{
		MaxReading:          1023,
		SupplyMillivolts:    3300,
		ReferenceMillivolts: 3200,
		OffsetMillivolts:    -41,
	}
}

func TestResistanceAtInfinity(t *testing.T) {
	adc := &fakeADC{code: 512}
	s, err := New(elegooParams(model.NTCToGround), tenBit(), adc)
	require.NoError(t, err)

	want := 10000 * math.Exp(-2800/298.15)
	assert.InDelta(t, want, s.ResistanceAtInfinity(), 1e-9)
}

func TestScaleConsistency(t *testing.T) {
	adc := &fakeADC{}
	s, err := New(elegooParams(model.NTCToGround), tenBit(), adc)
	require.NoError(t, err)

	for code := 1; code < 1023; code++ {
		adc.code = code
		r, err := s.Sample()
		require.NoError(t, err)

		assert.False(t, math.IsInf(r.ResistanceOhms, 0), "code %d: resistance should be finite", code)
		assert.Greater(t, r.ResistanceOhms, 0.0, "code %d", code)
		assert.InDelta(t, r.TemperatureKelvin+(-273.15), r.TemperatureCelsius, 1e-9, "code %d", code)
		assert.InDelta(t, r.TemperatureCelsius*9.0/5.0+32.0, r.TemperatureFahrenheit, 1e-9, "code %d", code)
	}
}

func TestZeroCodeSentinel(t *testing.T) {
	adc := &fakeADC{code: 0}
	s, err := New(elegooParams(model.NTCToGround), tenBit(), adc)
	require.NoError(t, err)

	r, err := s.Sample()
	require.NoError(t, err)

	assert.Equal(t, s.ResistanceAtInfinity(), r.ResistanceOhms)
	assert.True(t, math.IsInf(r.TemperatureKelvin, 1))
	assert.True(t, math.IsInf(r.TemperatureCelsius, 1))
	assert.True(t, math.IsInf(r.TemperatureFahrenheit, 1))
}

func TestZeroCodeSupplyTopologyNoSentinel(t *testing.T) {
	// With the NTC in the upper arm a floor code means a huge NTC resistance,
	// not a short; the conversion runs through and must not produce NaN.
	adc := &fakeADC{code: 0}
	s, err := New(elegooParams(model.NTCToSupply), tenBit(), adc)
	require.NoError(t, err)

	r, err := s.Sample()
	require.NoError(t, err)

	assert.True(t, math.IsInf(r.ResistanceOhms, 1))
	assert.False(t, math.IsNaN(r.TemperatureKelvin))
	assert.False(t, math.IsNaN(r.TemperatureCelsius))
}

func TestResistanceMonotonicity(t *testing.T) {
	// Rising code means a rising divider tap. With the NTC in the lower arm
	// (to ground) its resistance grows with the code; with the NTC in the
	// upper arm it shrinks.
	cases := []struct {
		name       string
		topology   model.Topology
		increasing bool
	}{
		{"ntc to ground", model.NTCToGround, true},
		{"ntc to supply", model.NTCToSupply, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adc := &fakeADC{}
			s, err := New(elegooParams(tc.topology), tenBit(), adc)
			require.NoError(t, err)

			prev := math.NaN()
			for code := 1; code < 1023; code++ {
				adc.code = code
				r, err := s.Sample()
				require.NoError(t, err)

				if !math.IsNaN(prev) {
					if tc.increasing {
						assert.Greater(t, r.ResistanceOhms, prev, "code %d", code)
					} else {
						assert.Less(t, r.ResistanceOhms, prev, "code %d", code)
					}
				}
				prev = r.ResistanceOhms
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	targets := []float64{0, 5, 10, 18, 21, 25, 30, 40, 60}

	cases := []struct {
		name     string
		params   CalibrationParams
		readout  ADCReadoutModel
		topology model.Topology
	}{
		{"simple model, ntc to ground", elegooParams(model.NTCToGround), ADCReadoutModel{MaxReading: 4095}, model.NTCToGround},
		{"simple model, ntc to supply", elegooParams(model.NTCToSupply), ADCReadoutModel{MaxReading: 4095}, model.NTCToSupply},
		{"voltage model, ntc to ground", elegooParams(model.NTCToGround), wemosReadout(), model.NTCToGround},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adc := &fakeADC{}
			s, err := New(tc.params, tc.readout, adc)
			require.NoError(t, err)

			for _, target := range targets {
				adc.code = s.RawCodeFor(target)
				r, err := s.Sample()
				require.NoError(t, err)

				assert.InDelta(t, target, r.TemperatureCelsius, 0.1, "target %.1f C", target)
			}
		})
	}
}

func TestModelsAgreeWhenReferenceSpansSupply(t *testing.T) {
	// With Vref == Vcc and no offset, the voltage-calibrated model must
	// reduce to the plain code-ratio model.
	simpleADC := &fakeADC{}
	simple, err := New(elegooParams(model.NTCToGround), tenBit(), simpleADC)
	require.NoError(t, err)

	calibratedADC := &fakeADC{}
	calibrated, err := New(elegooParams(model.NTCToGround), ADCReadoutModel{
		MaxReading:          1023,
		SupplyMillivolts:    5000,
		ReferenceMillivolts: 5000,
		OffsetMillivolts:    0,
	}, calibratedADC)
	require.NoError(t, err)

	for code := 1; code < 1023; code += 7 {
		simpleADC.code = code
		calibratedADC.code = code

		rs, err := simple.Sample()
		require.NoError(t, err)
		rc, err := calibrated.Sample()
		require.NoError(t, err)

		assert.InEpsilon(t, rs.ResistanceOhms, rc.ResistanceOhms, 1e-9, "code %d", code)
		assert.InDelta(t, rs.TemperatureCelsius, rc.TemperatureCelsius, 1e-6, "code %d", code)
	}
}

func TestEveryAccessorReadsFresh(t *testing.T) {
	adc := &fakeADC{code: 512}
	s, err := New(elegooParams(model.NTCToGround), tenBit(), adc)
	require.NoError(t, err)

	_, _ = s.Celsius()
	_, _ = s.Kelvin()
	_, _ = s.Fahrenheit()
	_, _ = s.Resistance()
	_, _ = s.RawCode()
	_, _ = s.Sample()

	assert.Equal(t, 6, adc.reads, "every accessor must perform exactly one hardware read")

	s.ResistanceAtInfinity()
	s.DescribeParams()
	assert.Equal(t, 6, adc.reads, "calibration accessors must not touch hardware")
}

func TestSampleErrorPropagates(t *testing.T) {
	readErr := errors.New("bus fault")
	adc := &fakeADC{err: readErr}
	s, err := New(elegooParams(model.NTCToGround), tenBit(), adc)
	require.NoError(t, err)

	_, err = s.Sample()
	require.Error(t, err)
	assert.ErrorIs(t, err, readErr)
}

func TestNewValidation(t *testing.T) {
	adc := &fakeADC{}
	good := elegooParams(model.NTCToGround)

	cases := []struct {
		name    string
		params  CalibrationParams
		readout ADCReadoutModel
	}{
		{"zero series resistance", CalibrationParams{NominalResistanceOhms: 10000, BetaCoefficient: 2800, Topology: model.NTCToGround}, tenBit()},
		{"zero nominal resistance", CalibrationParams{SeriesResistanceOhms: 10000, BetaCoefficient: 2800, Topology: model.NTCToGround}, tenBit()},
		{"zero beta", CalibrationParams{SeriesResistanceOhms: 10000, NominalResistanceOhms: 10000, Topology: model.NTCToGround}, tenBit()},
		{"bad topology", CalibrationParams{SeriesResistanceOhms: 10000, NominalResistanceOhms: 10000, BetaCoefficient: 2800, Topology: "sideways"}, tenBit()},
		{"zero full scale", good, ADCReadoutModel{}},
		{"reference above supply", good, ADCReadoutModel{MaxReading: 1023, SupplyMillivolts: 3300, ReferenceMillivolts: 5000}},
		{"offset above reference", good, ADCReadoutModel{MaxReading: 1023, SupplyMillivolts: 3300, ReferenceMillivolts: 3200, OffsetMillivolts: 3300}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.params, tc.readout, adc)
			assert.Error(t, err)
		})
	}

	_, err := New(good, tenBit(), nil)
	assert.Error(t, err, "nil reader must be rejected")
}

func TestDescribeOutputs(t *testing.T) {
	adc := &fakeADC{code: 512}
	s, err := New(elegooParams(model.NTCToGround), wemosReadout(), adc)
	require.NoError(t, err)

	params := s.DescribeParams()
	assert.Contains(t, params, "beta")
	assert.Contains(t, params, "Roo")
	assert.Contains(t, params, string(model.NTCToGround))

	dump, err := s.DescribeReading()
	require.NoError(t, err)
	assert.Contains(t, dump, "raw code")
	assert.Contains(t, dump, "512")
	assert.Equal(t, 2, adc.reads, "DescribeReading samples once, DescribeParams not at all")

	adc.err = errors.New("bus fault")
	_, err = s.DescribeReading()
	assert.Error(t, err)
}

func TestDescribeReadingLineCount(t *testing.T) {
	adc := &fakeADC{code: 512}
	s, err := New(elegooParams(model.NTCToGround), tenBit(), adc)
	require.NoError(t, err)

	r, err := s.Sample()
	require.NoError(t, err)
	lines := strings.Split(r.Describe(), "\n")
	assert.Len(t, lines, 8)
}
