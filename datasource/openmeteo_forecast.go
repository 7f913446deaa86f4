package datasource

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"city-weather/models"
)

const (
	MsgInvalidCoordinates = "Coordinate non valide"
	MsgDataUnavailable    = "Dati meteo non disponibili"
)

// Open-Meteo reports current.time in ISO 8601 without seconds, in GMT by default
const openMeteoTimeLayout = "2006-01-02T15:04"

// OpenMeteoForecast implements TemperatureSource against the Open-Meteo forecast API
type OpenMeteoForecast struct {
	baseURL    string
	httpClient *http.Client
}

// NewOpenMeteoForecast creates a forecast client for baseURL, e.g. https://api.open-meteo.com
func NewOpenMeteoForecast(baseURL string, timeout time.Duration) *OpenMeteoForecast {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &OpenMeteoForecast{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the source name
func (f *OpenMeteoForecast) Name() string {
	return "Open-Meteo Forecast"
}

// ValidCoordinates reports whether lat/lon are finite and in range. Zero is valid.
func ValidCoordinates(lat, lon float64) bool {
	return finite(lat) && finite(lon) &&
		lat >= -90 && lat <= 90 &&
		lon >= -180 && lon <= 180
}

// FetchCurrentTemperature fetches the current 2m temperature for lat/lon
func (f *OpenMeteoForecast) FetchCurrentTemperature(ctx context.Context, lat, lon float64) (models.TemperatureReading, error) {
	if !ValidCoordinates(lat, lon) {
		return models.TemperatureReading{}, models.InvalidCoordinatesError(MsgInvalidCoordinates, lat, lon)
	}

	params := url.Values{}
	params.Add("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Add("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Add("current", "temperature_2m")

	var response struct {
		CurrentUnits struct {
			Temperature2m string `json:"temperature_2m"`
		} `json:"current_units"`
		Current *struct {
			Time          string   `json:"time"`
			Temperature2m *float64 `json:"temperature_2m"`
		} `json:"current"`
	}

	if err := getJSON(ctx, f.httpClient, f.baseURL+"/v1/forecast", params, &response); err != nil {
		return models.TemperatureReading{}, err
	}

	if response.Current == nil || response.Current.Temperature2m == nil {
		return models.TemperatureReading{}, models.DataUnavailableError(MsgDataUnavailable)
	}

	reading := models.TemperatureReading{
		Celsius: *response.Current.Temperature2m,
		Unit:    response.CurrentUnits.Temperature2m,
	}
	if t, err := time.Parse(openMeteoTimeLayout, response.Current.Time); err == nil {
		reading.ObservedAt = t
	}

	return reading, nil
}

var _ TemperatureSource = (*OpenMeteoForecast)(nil)
