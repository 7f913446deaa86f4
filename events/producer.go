// Package events publishes finished lookups to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"city-weather/models"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// LookupEvent is the record value written for every finished lookup
type LookupEvent struct {
	RequestID   uint64              `json:"requestId"`
	Query       string              `json:"query"`
	State       models.FlowState    `json:"state"`
	Text        string              `json:"text"`
	Visual      *models.VisualState `json:"visualState,omitempty"`
	City        string              `json:"city,omitempty"`
	Latitude    *float64            `json:"latitude,omitempty"`
	Longitude   *float64            `json:"longitude,omitempty"`
	Celsius     *float64            `json:"celsius,omitempty"`
	ErrorKind   models.ErrorKind    `json:"errorKind,omitempty"`
	PublishedAt time.Time           `json:"publishedAt"`
}

// NewLookupEvent flattens an outcome into an event
func NewLookupEvent(o models.Outcome, now time.Time) LookupEvent {
	ev := LookupEvent{
		RequestID:   o.RequestID,
		Query:       o.Query,
		State:       o.State,
		Text:        o.Text,
		Visual:      o.Visual,
		ErrorKind:   o.ErrorKind,
		PublishedAt: now.UTC(),
	}
	if o.Coordinates != nil {
		lat, lon := o.Coordinates.Latitude, o.Coordinates.Longitude
		ev.City = o.Coordinates.Name
		ev.Latitude = &lat
		ev.Longitude = &lon
	}
	if o.Reading != nil {
		celsius := o.Reading.Celsius
		ev.Celsius = &celsius
	}
	return ev
}

// Producer writes lookup events to a single topic
type Producer struct {
	topic  string
	client *kgo.Client
	logger *zap.Logger
}

// NewProducer connects to the given brokers and checks that at least one answers
func NewProducer(ctx context.Context, brokers []string, topic string, logger *zap.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no Kafka brokers configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}

	logger.Info("kafka producer initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &Producer{topic: topic, client: client, logger: logger}, nil
}

// Publish sends the outcome without waiting for the broker
func (p *Producer) Publish(outcome models.Outcome) {
	value, err := json.Marshal(NewLookupEvent(outcome, time.Now()))
	if err != nil {
		p.logger.Error("failed to marshal lookup event", zap.Error(err))
		return
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(strconv.FormatUint(outcome.RequestID, 10)),
		Value: value,
	}
	p.client.Produce(context.Background(), record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("kafka publish failed", zap.String("key", string(r.Key)), zap.Error(err))
			return
		}
		p.logger.Debug("published lookup event",
			zap.String("topic", r.Topic),
			zap.String("key", string(r.Key)),
			zap.Int64("offset", r.Offset))
	})
}

// Close flushes buffered records and closes the client
func (p *Producer) Close(ctx context.Context) {
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("kafka flush failed", zap.Error(err))
	}
	p.client.Close()
}
