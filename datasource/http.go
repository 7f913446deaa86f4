package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"city-weather/models"
)

// Responses from Open-Meteo are small; anything past this is not a valid payload.
const maxBodySize = 1 << 20

// getJSON performs a GET request and decodes a 2xx JSON body into out.
// Every failure is reported as a network error.
func getJSON(ctx context.Context, client *http.Client, endpoint string, params url.Values, out any) error {
	// Create request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return models.NetworkError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	// Execute request
	resp, err := client.Do(req)
	if err != nil {
		return models.NetworkError(fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return models.NetworkError(fmt.Errorf("failed to read response body: %w", err))
	}

	// Check for error status code
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.NetworkError(fmt.Errorf("API error (status %d): %s", resp.StatusCode, snippet(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return models.NetworkError(fmt.Errorf("failed to parse response: %w", err))
	}
	return nil
}

func snippet(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
