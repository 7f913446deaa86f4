package datasource

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"city-weather/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGeocodeCityReturnsFirstResult(t *testing.T) {
	var gotName, gotPath string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotName = r.URL.Query().Get("name")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"name":"Rome","latitude":41.9,"longitude":12.5,"country":"Italy","timezone":"Europe/Rome"},
			{"name":"Rome","latitude":34.25,"longitude":-85.16,"country":"United States"}
		]}`))
	})

	g := NewOpenMeteoGeocoder(srv.URL, time.Second)
	coords, err := g.GeocodeCity(context.Background(), "Rome")
	if err != nil {
		t.Fatalf("GeocodeCity failed: %v", err)
	}

	if gotPath != "/v1/search" {
		t.Errorf("path = %q, want /v1/search", gotPath)
	}
	if gotName != "Rome" {
		t.Errorf("name param = %q, want Rome", gotName)
	}
	if coords.Name != "Rome" || coords.Latitude != 41.9 || coords.Longitude != 12.5 || coords.Country != "Italy" {
		t.Errorf("unexpected coordinates: %+v", coords)
	}
}

func TestGeocodeCityEncodesQuery(t *testing.T) {
	var rawQuery, decoded string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		decoded = r.URL.Query().Get("name")
		w.Write([]byte(`{"results":[{"name":"São Paulo","latitude":-23.5,"longitude":-46.6}]}`))
	})

	g := NewOpenMeteoGeocoder(srv.URL, time.Second, WithLanguage("it"), WithResultCount(1))
	if _, err := g.GeocodeCity(context.Background(), "São Paulo & co"); err != nil {
		t.Fatalf("GeocodeCity failed: %v", err)
	}
	if decoded != "São Paulo & co" {
		t.Errorf("decoded name = %q", decoded)
	}
	want := "count=1&language=it&name=S%C3%A3o+Paulo+%26+co"
	if rawQuery != want {
		t.Errorf("raw query = %q, want %q", rawQuery, want)
	}
}

func TestGeocodeCityNotFound(t *testing.T) {
	for name, body := range map[string]string{
		"empty":  `{"results":[]}`,
		"absent": `{"generationtime_ms":0.5}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			_, err := NewOpenMeteoGeocoder(srv.URL, time.Second).GeocodeCity(context.Background(), "Nowhere123")
			if !errors.Is(err, models.ErrNotFound) {
				t.Fatalf("error = %v, want not found", err)
			}
			if msg := models.UserMessage(err, ""); msg != MsgCityNotFound {
				t.Errorf("message = %q, want %q", msg, MsgCityNotFound)
			}
		})
	}
}

func TestGeocodeCityNetworkErrors(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"status 500": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"status 400": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":true,"reason":"bad"}`))
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[`))
		},
		"missing latitude": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[{"name":"X","longitude":1}]}`))
		},
	}

	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			srv := newTestServer(t, handler)
			_, err := NewOpenMeteoGeocoder(srv.URL, time.Second).GeocodeCity(context.Background(), "Rome")
			if !errors.Is(err, models.ErrNetwork) {
				t.Fatalf("error = %v, want network error", err)
			}
		})
	}
}

func TestGeocodeCityTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	_, err := NewOpenMeteoGeocoder(srv.URL, 50*time.Millisecond).GeocodeCity(context.Background(), "Rome")
	if !errors.Is(err, models.ErrNetwork) {
		t.Fatalf("error = %v, want network error on timeout", err)
	}
}

func TestGeocodeCityConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewOpenMeteoGeocoder(url, time.Second).GeocodeCity(context.Background(), "Rome")
	if !errors.Is(err, models.ErrNetwork) {
		t.Fatalf("error = %v, want network error", err)
	}
}

func TestFetchCurrentTemperature(t *testing.T) {
	var query map[string]string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/forecast" {
			t.Errorf("path = %q", r.URL.Path)
		}
		query = map[string]string{
			"latitude":  r.URL.Query().Get("latitude"),
			"longitude": r.URL.Query().Get("longitude"),
			"current":   r.URL.Query().Get("current"),
		}
		w.Write([]byte(`{"current_units":{"temperature_2m":"°C"},"current":{"time":"2025-07-01T14:00","temperature_2m":30}}`))
	})

	reading, err := NewOpenMeteoForecast(srv.URL, time.Second).FetchCurrentTemperature(context.Background(), 41.9, 12.5)
	if err != nil {
		t.Fatalf("FetchCurrentTemperature failed: %v", err)
	}
	if reading.Celsius != 30 {
		t.Errorf("celsius = %v, want 30", reading.Celsius)
	}
	if reading.Unit != "°C" {
		t.Errorf("unit = %q", reading.Unit)
	}
	if want := time.Date(2025, 7, 1, 14, 0, 0, 0, time.UTC); !reading.ObservedAt.Equal(want) {
		t.Errorf("observedAt = %v, want %v", reading.ObservedAt, want)
	}
	if query["latitude"] != "41.9" || query["longitude"] != "12.5" || query["current"] != "temperature_2m" {
		t.Errorf("unexpected query: %v", query)
	}
}

func TestFetchCurrentTemperatureAcceptsZeroCoordinates(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current":{"temperature_2m":27.1}}`))
	})

	reading, err := NewOpenMeteoForecast(srv.URL, time.Second).FetchCurrentTemperature(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("zero coordinates rejected: %v", err)
	}
	if reading.Celsius != 27.1 {
		t.Errorf("celsius = %v", reading.Celsius)
	}
}

func TestFetchCurrentTemperatureInvalidCoordinates(t *testing.T) {
	var calls int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	f := NewOpenMeteoForecast(srv.URL, time.Second)

	for _, c := range [][2]float64{
		{math.NaN(), 1},
		{1, math.NaN()},
		{math.Inf(1), 0},
		{91, 0},
		{0, -180.5},
	} {
		_, err := f.FetchCurrentTemperature(context.Background(), c[0], c[1])
		if !errors.Is(err, models.ErrInvalidCoordinates) {
			t.Errorf("(%v, %v): error = %v, want invalid coordinates", c[0], c[1], err)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("made %d requests for invalid coordinates", n)
	}
}

func TestFetchCurrentTemperatureDataUnavailable(t *testing.T) {
	for name, body := range map[string]string{
		"no current":       `{"latitude":41.9}`,
		"no temperature":   `{"current":{"time":"2025-07-01T14:00"}}`,
		"null temperature": `{"current":{"temperature_2m":null}}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			_, err := NewOpenMeteoForecast(srv.URL, time.Second).FetchCurrentTemperature(context.Background(), 41.9, 12.5)
			if !errors.Is(err, models.ErrDataUnavailable) {
				t.Fatalf("error = %v, want data unavailable", err)
			}
		})
	}
}

func TestFetchCurrentTemperatureNetworkError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := NewOpenMeteoForecast(srv.URL, time.Second).FetchCurrentTemperature(context.Background(), 41.9, 12.5)
	if !errors.Is(err, models.ErrNetwork) {
		t.Fatalf("error = %v, want network error", err)
	}
}
