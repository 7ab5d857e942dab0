package adc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChannel(t *testing.T, dir string, channel int, contents string) {
	t.Helper()
	path := filepath.Join(dir, "in_voltage"+string(rune('0'+channel))+"_raw")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestSysfsReader(t *testing.T) {
	dir := t.TempDir()
	writeChannel(t, dir, 0, "512\n")

	r := NewSysfsReader(dir, 0)
	raw, err := r.ReadRaw()
	require.NoError(t, err)
	assert.Equal(t, 512, raw)
}

func TestSysfsReaderFloorValue(t *testing.T) {
	dir := t.TempDir()
	writeChannel(t, dir, 0, "0\n")

	r := NewSysfsReader(dir, 0)
	raw, err := r.ReadRaw()
	require.NoError(t, err, "a floor reading is valid, not an error")
	assert.Equal(t, 0, raw)
}

func TestSysfsReaderMalformed(t *testing.T) {
	dir := t.TempDir()
	writeChannel(t, dir, 0, "not-a-number\n")

	r := NewSysfsReader(dir, 0)
	_, err := r.ReadRaw()
	assert.Error(t, err)
}

func TestSysfsReaderNegative(t *testing.T) {
	dir := t.TempDir()
	writeChannel(t, dir, 0, "-3\n")

	r := NewSysfsReader(dir, 0)
	_, err := r.ReadRaw()
	assert.Error(t, err)
}

func TestSysfsReaderMissingChannel(t *testing.T) {
	r := NewSysfsReader(t.TempDir(), 1)
	_, err := r.ReadRaw()
	assert.Error(t, err)
}

func TestReaderFunc(t *testing.T) {
	calls := 0
	r := ReaderFunc(func() (int, error) {
		calls++
		return 42, nil
	})

	raw, err := r.ReadRaw()
	require.NoError(t, err)
	assert.Equal(t, 42, raw)
	assert.Equal(t, 1, calls)

	busFault := errors.New("bus fault")
	r = ReaderFunc(func() (int, error) { return 0, busFault })
	_, err = r.ReadRaw()
	assert.ErrorIs(t, err, busFault)
}
