package store

import (
	"encoding/json"
	"os"

	"github.com/thatsimonsguy/ntc-thermostat/internal/model"
)

// Store persists thermostat settings as JSON so operator-set limits survive
// restarts.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load() (*model.ThermostatSettings, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var settings model.ThermostatSettings
	if err := json.NewDecoder(file).Decode(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Store) Save(settings *model.ThermostatSettings) error {
	tmpPath := s.path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(settings); err != nil {
		file.Close()
		return err
	}
	file.Sync()
	file.Close()

	return os.Rename(tmpPath, s.path)
}
