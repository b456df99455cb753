package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"cabbook/internal/domain"
)

// EventType identifies a booking lifecycle event.
type EventType string

const (
	EventBookingCreated       EventType = "booking_created"
	EventBookingCancelled     EventType = "booking_cancelled"
	EventBookingStatusChanged EventType = "booking_status_changed"
)

// BookingEvent is the payload published for each lifecycle change.
type BookingEvent struct {
	Type      EventType `json:"type"`
	BookingID string    `json:"booking_id"`
	UserID    string    `json:"user_id"`
	DriverID  string    `json:"driver_id,omitempty"`
	Status    string    `json:"status"`
	Fare      float64   `json:"fare,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher delivers booking lifecycle events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
	Close() error
}

// NewEvent builds a BookingEvent from the booking's current state.
func NewEvent(t EventType, b *domain.Booking) BookingEvent {
	return BookingEvent{
		Type:      t,
		BookingID: b.ID,
		UserID:    b.UserID,
		DriverID:  b.DriverID,
		Status:    string(b.Status),
		Fare:      b.Fare,
		At:        time.Now(),
	}
}

// KafkaPublisher publishes events to a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &KafkaPublisher{writer: w}
}

// Publish writes the event keyed by booking id so per-booking ordering holds.
func (p *KafkaPublisher) Publish(ctx context.Context, event BookingEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.BookingID),
		Value: value,
	})
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// NoopPublisher discards events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event BookingEvent) error { return nil }
func (NoopPublisher) Close() error                                          { return nil }
