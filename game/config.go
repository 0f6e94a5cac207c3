package game

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// TableSettings are the fixed stakes applied to every room. At most
// MaxSeats players may sit so a full hand (2 hole cards each plus 5
// board cards) can never exhaust the 52 card deck.
type TableSettings struct {
	SmallBlind    int `yaml:"smallBlind"`
	BigBlind      int `yaml:"bigBlind"`
	StartingChips int `yaml:"startingChips"`
	MaxSeats      int `yaml:"maxSeats"`
}

func DefaultTableSettings() TableSettings {
	return TableSettings{
		SmallBlind:    5,
		BigBlind:      10,
		StartingChips: 1000,
		MaxSeats:      9,
	}
}

func ParseTableSettings(settingsFile string) (TableSettings, error) {
	bytes, err := ioutil.ReadFile(settingsFile)
	if err != nil {
		return TableSettings{}, errors.Wrap(err, fmt.Sprintf("Error reading table settings file [%s]", settingsFile))
	}

	settings := DefaultTableSettings()
	err = yaml.Unmarshal(bytes, &settings)
	if err != nil {
		return TableSettings{}, errors.Wrap(err, fmt.Sprintf("Error parsing table settings YAML file [%s]", settingsFile))
	}

	if settings.MaxSeats < 2 || settings.MaxSeats > 23 {
		return TableSettings{}, fmt.Errorf("maxSeats must be between 2 and 23, got %d", settings.MaxSeats)
	}
	if settings.SmallBlind <= 0 || settings.BigBlind < settings.SmallBlind {
		return TableSettings{}, fmt.Errorf("invalid blinds %d/%d", settings.SmallBlind, settings.BigBlind)
	}
	return settings, nil
}
