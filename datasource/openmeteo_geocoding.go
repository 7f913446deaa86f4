package datasource

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"city-weather/models"
)

// MsgCityNotFound is shown when the geocoder has no match for a query
const MsgCityNotFound = "Città non trovata."

// OpenMeteoGeocoder implements Geocoder against the Open-Meteo geocoding API
type OpenMeteoGeocoder struct {
	baseURL    string
	language   string
	count      int
	httpClient *http.Client
}

// GeocoderOption customizes an OpenMeteoGeocoder
type GeocoderOption func(*OpenMeteoGeocoder)

// WithLanguage asks the geocoder to translate result names
func WithLanguage(lang string) GeocoderOption {
	return func(g *OpenMeteoGeocoder) { g.language = lang }
}

// WithResultCount limits how many matches the service returns. Only the first is used.
func WithResultCount(n int) GeocoderOption {
	return func(g *OpenMeteoGeocoder) { g.count = n }
}

// WithGeocoderHTTPClient replaces the default HTTP client
func WithGeocoderHTTPClient(c *http.Client) GeocoderOption {
	return func(g *OpenMeteoGeocoder) { g.httpClient = c }
}

// NewOpenMeteoGeocoder creates a geocoder for baseURL, e.g. https://geocoding-api.open-meteo.com
func NewOpenMeteoGeocoder(baseURL string, timeout time.Duration, opts ...GeocoderOption) *OpenMeteoGeocoder {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	g := &OpenMeteoGeocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the geocoder name
func (g *OpenMeteoGeocoder) Name() string {
	return "Open-Meteo Geocoding"
}

// GeocodeCity looks up query and returns the first result
func (g *OpenMeteoGeocoder) GeocodeCity(ctx context.Context, query string) (models.Coordinates, error) {
	params := url.Values{}
	params.Add("name", query)
	if g.language != "" {
		params.Add("language", g.language)
	}
	if g.count > 0 {
		params.Add("count", strconv.Itoa(g.count))
	}

	// Latitude and longitude are pointers so an absent field is not read as 0
	var response struct {
		Results []struct {
			Name      string   `json:"name"`
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
			Country   string   `json:"country"`
			Admin1    string   `json:"admin1"`
			Timezone  string   `json:"timezone"`
		} `json:"results"`
	}

	if err := getJSON(ctx, g.httpClient, g.baseURL+"/v1/search", params, &response); err != nil {
		return models.Coordinates{}, err
	}

	if len(response.Results) == 0 {
		return models.Coordinates{}, models.NotFoundError(MsgCityNotFound)
	}

	first := response.Results[0]
	if first.Latitude == nil || first.Longitude == nil || !finite(*first.Latitude) || !finite(*first.Longitude) {
		return models.Coordinates{}, models.NetworkError(fmt.Errorf("malformed geocoding result for %q: missing coordinates", query))
	}

	name := first.Name
	if name == "" {
		name = query
	}

	return models.Coordinates{
		Name:      name,
		Latitude:  *first.Latitude,
		Longitude: *first.Longitude,
		Country:   first.Country,
		Admin1:    first.Admin1,
		Timezone:  first.Timezone,
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

var _ Geocoder = (*OpenMeteoGeocoder)(nil)
