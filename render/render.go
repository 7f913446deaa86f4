// Package render turns a temperature into display text and a visual state.
package render

import (
	"fmt"
	"math"
	"strconv"

	"city-weather/models"
)

// Thresholds are exclusive: a value equal to either one is Neutral.
const (
	HotAbove  = 25.0
	ColdBelow = 10.0
)

const MsgInvalidTemperature = "Temperatura non valida"

// Classify maps a temperature in Celsius to its visual state
func Classify(celsius float64) models.VisualState {
	switch {
	case celsius > HotAbove:
		return models.Hot
	case celsius < ColdBelow:
		return models.Cold
	default:
		return models.Neutral
	}
}

// ToneFor returns the background tone for a visual state
func ToneFor(state models.VisualState) models.Tone {
	switch state {
	case models.Hot:
		return models.HotTone
	case models.Cold:
		return models.ColdTone
	default:
		return models.NeutralTone
	}
}

// FormatTemperature prints t with the fewest digits that round-trip, e.g. 30, 12.5
func FormatTemperature(celsius float64) string {
	if celsius == 0 {
		celsius = 0 // -0 prints as "0"
	}
	return strconv.FormatFloat(celsius, 'f', -1, 64)
}

// ClassifyAndRender builds the display text for cityName and classifies the temperature
func ClassifyAndRender(cityName string, celsius float64) (models.Rendering, error) {
	if math.IsNaN(celsius) || math.IsInf(celsius, 0) {
		return models.Rendering{}, models.InvalidTemperatureError(MsgInvalidTemperature)
	}

	state := Classify(celsius)
	return models.Rendering{
		Text:  fmt.Sprintf("Città: %s — Temperatura: %s°C", cityName, FormatTemperature(celsius)),
		State: state,
		Tone:  ToneFor(state),
	}, nil
}
