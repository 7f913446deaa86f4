package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

func main() {
	fmt.Println("Weather API Client Example")
	fmt.Println("=========================")

	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the weather service")
	flag.Parse()

	cities := flag.Args()
	if len(cities) == 0 {
		cities = []string{"Rome", "Oslo", "Nowhere123", ""}
	}

	client := &http.Client{Timeout: 30 * time.Second}

	// Lookups run one at a time; the service refuses overlapping ones with 409
	for _, city := range cities {
		fmt.Printf("\nLooking up %q...\n", city)

		weatherURL := fmt.Sprintf("%s/api/weather?city=%s", *baseURL, url.QueryEscape(city))
		status, body, err := getJSON(client, weatherURL)
		if err != nil {
			fmt.Printf("Error fetching weather: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Status: %d\n", status)
		fmt.Printf("  text: %v\n", body["text"])
		fmt.Printf("  state: %v\n", body["state"])
		if tone, ok := body["tone"]; ok && tone != "" {
			fmt.Printf("  tone: %v\n", tone)
		}
	}

	// What the web page shows after the last lookup
	fmt.Println("\nFetching display state...")
	_, display, err := getJSON(client, *baseURL+"/api/display")
	if err != nil {
		fmt.Printf("Error fetching display: %v\n", err)
		os.Exit(1)
	}
	prettyJSON, _ := json.MarshalIndent(display, "", "  ")
	fmt.Printf("%s\n", prettyJSON)
}

func getJSON(client *http.Client, target string) (int, map[string]interface{}, error) {
	resp, err := client.Get(target)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return resp.StatusCode, body, nil
}
