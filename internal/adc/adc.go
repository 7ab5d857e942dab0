package adc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Reader is the single hardware input collaborator: one integer-valued
// analog read per call, in [0, full-scale]. A reading of 0 is a valid floor
// condition, not an error.
type Reader interface {
	ReadRaw() (int, error)
}

// ReaderFunc adapts a plain function to Reader.
type ReaderFunc func() (int, error)

func (f ReaderFunc) ReadRaw() (int, error) {
	return f()
}

// SysfsReader reads a raw voltage channel exposed by the Linux IIO subsystem,
// e.g. /sys/bus/iio/devices/iio:device0/in_voltage0_raw.
type SysfsReader struct {
	path string
}

func NewSysfsReader(device string, channel int) *SysfsReader {
	return &SysfsReader{
		path: filepath.Join(device, fmt.Sprintf("in_voltage%d_raw", channel)),
	}
}

func (r *SysfsReader) ReadRaw() (int, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		log.Error().Err(err).Str("path", r.path).Msg("failed to read ADC channel")
		return 0, err
	}

	raw, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		log.Error().Err(err).Str("path", r.path).Msg("failed to parse ADC value")
		return 0, fmt.Errorf("malformed ADC value %q: %w", strings.TrimSpace(string(data)), err)
	}
	if raw < 0 {
		return 0, fmt.Errorf("ADC value %d out of range", raw)
	}

	return raw, nil
}
