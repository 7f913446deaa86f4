package events

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"city-weather/models"
)

func TestNewLookupEventSuccess(t *testing.T) {
	hot := models.Hot
	outcome := models.Outcome{
		RequestID:   7,
		Query:       "Rome",
		State:       models.StateSuccess,
		Text:        "Città: Rome — Temperatura: 30°C",
		Tone:        models.HotTone,
		Visual:      &hot,
		Coordinates: &models.Coordinates{Name: "Rome", Latitude: 41.9, Longitude: 12.5},
		Reading:     &models.TemperatureReading{Celsius: 30},
	}

	ev := NewLookupEvent(outcome, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["state"] != "success" || decoded["visualState"] != "hot" {
		t.Errorf("state = %v, visual = %v", decoded["state"], decoded["visualState"])
	}
	if decoded["celsius"] != 30.0 || decoded["latitude"] != 41.9 || decoded["city"] != "Rome" {
		t.Errorf("event = %s", data)
	}
}

func TestNewLookupEventFailureOmitsReading(t *testing.T) {
	outcome := models.Outcome{
		RequestID: 3,
		Query:     "Nowhere123",
		State:     models.StateNotFoundError,
		Text:      "Città non trovata.",
		ErrorKind: models.KindNotFound,
	}

	data, err := json.Marshal(NewLookupEvent(outcome, time.Now()))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for _, field := range []string{"celsius", "latitude", "visualState"} {
		if strings.Contains(string(data), `"`+field+`"`) {
			t.Errorf("failed lookup event carries %s: %s", field, data)
		}
	}
	if !strings.Contains(string(data), `"errorKind":"not_found"`) {
		t.Errorf("event = %s", data)
	}
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	if _, err := NewProducer(context.Background(), nil, "weather-lookups", nil); err == nil {
		t.Fatal("expected an error without brokers")
	}
}

func TestProducerPublish(t *testing.T) {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		t.Skip("KAFKA_BROKERS not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p, err := NewProducer(ctx, strings.Split(brokers, ","), "weather-lookups-test", nil)
	if err != nil {
		t.Skipf("Kafka unavailable: %v", err)
	}
	p.Publish(models.Outcome{RequestID: 1, Query: "Rome", State: models.StateSuccess})
	p.Close(ctx)
}
