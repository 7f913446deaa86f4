package models

import (
	"time"
)

// Coordinates is the first geocoding match for a city query
type Coordinates struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country,omitempty"`
	Admin1    string  `json:"admin1,omitempty"`   // first-level administrative area
	Timezone  string  `json:"timezone,omitempty"` // IANA timezone
}

// TemperatureReading is the current temperature at a coordinate
type TemperatureReading struct {
	Celsius    float64   `json:"celsius"`
	Unit       string    `json:"unit,omitempty"`       // unit label reported by the service
	ObservedAt time.Time `json:"observedAt,omitempty"` // time of the reading, zero when unknown
}

// VisualState is the discrete display state derived from a temperature
type VisualState int

const (
	Neutral VisualState = iota
	Hot
	Cold
)

func (s VisualState) String() string {
	switch s {
	case Hot:
		return "hot"
	case Cold:
		return "cold"
	default:
		return "neutral"
	}
}

// MarshalText encodes the state by name
func (s VisualState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Tone is the background colour shown for a visual state
type Tone string

const (
	HotTone     Tone = "#ffddaa"
	ColdTone    Tone = "#cfe7ff"
	NeutralTone Tone = "#f2f2f2"
)

// Rendering is the display text and state for a successful lookup
type Rendering struct {
	Text  string      `json:"text"`
	State VisualState `json:"state"`
	Tone  Tone        `json:"tone"`
}
