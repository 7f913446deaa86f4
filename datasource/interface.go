package datasource

import (
	"context"

	"city-weather/models"
)

// Geocoder resolves a free-text city name to coordinates
type Geocoder interface {
	// GeocodeCity returns the first match for query
	GeocodeCity(ctx context.Context, query string) (models.Coordinates, error)

	// Name returns the geocoder's name
	Name() string
}

// TemperatureSource fetches the current temperature at a coordinate
type TemperatureSource interface {
	// FetchCurrentTemperature returns the current reading for lat/lon in Celsius
	FetchCurrentTemperature(ctx context.Context, lat, lon float64) (models.TemperatureReading, error)

	// Name returns the source's name
	Name() string
}
