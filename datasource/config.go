package datasource

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultGeocodingURL   = "https://geocoding-api.open-meteo.com"
	DefaultForecastURL    = "https://api.open-meteo.com"
	DefaultRequestTimeout = 10 * time.Second
)

// Duration is a time.Duration that reads from JSON strings like "10s"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Config represents the application configuration
type Config struct {
	Geocoding struct {
		BaseURL  string `json:"baseURL"`
		Language string `json:"language"`
		Count    int    `json:"count"`
	} `json:"geocoding"`

	Forecast struct {
		BaseURL string `json:"baseURL"`
	} `json:"forecast"`

	// Upper bound for each outbound call
	RequestTimeout Duration `json:"requestTimeout"`

	// Client-side pacing of outbound calls to the public API
	RateLimit struct {
		Enabled bool    `json:"enabled"`
		RPS     float64 `json:"rps"`
		Burst   int     `json:"burst"`
	} `json:"rateLimit"`

	Cache struct {
		GeocodeTTL     Duration `json:"geocodeTTL"`
		TemperatureTTL Duration `json:"temperatureTTL"` // 0 disables
		RedisURL       string   `json:"redisURL"`       // empty disables
	} `json:"cache"`

	Kafka struct {
		Brokers []string `json:"brokers"` // empty disables
		Topic   string   `json:"topic"`
	} `json:"kafka"`

	Port     int    `json:"port"`
	LogLevel string `json:"logLevel"`
}

// LoadConfig loads configuration from a JSON file on top of the defaults
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	return config, nil
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.Geocoding.BaseURL = DefaultGeocodingURL
	config.Forecast.BaseURL = DefaultForecastURL
	config.RequestTimeout = Duration{DefaultRequestTimeout}
	config.RateLimit.RPS = 5
	config.RateLimit.Burst = 5
	config.Cache.GeocodeTTL = Duration{24 * time.Hour}
	config.Kafka.Topic = "weather-lookups"
	config.Port = 8080
	config.LogLevel = "info"
	return config
}

// ApplyEnv overrides configuration values with environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("GEOCODING_URL"); v != "" {
		c.Geocoding.BaseURL = v
	}
	if v := os.Getenv("GEOCODING_LANGUAGE"); v != "" {
		c.Geocoding.Language = v
	}
	if v := os.Getenv("FORECAST_URL"); v != "" {
		c.Forecast.BaseURL = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		c.RequestTimeout = Duration{d}
	}
	if v := os.Getenv("GEOCODE_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GEOCODE_CACHE_TTL: %w", err)
		}
		c.Cache.GeocodeTTL = Duration{d}
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
