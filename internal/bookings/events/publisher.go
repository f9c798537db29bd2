package events

import (
	"context"

	"roomly/pkg/kafka"
	"roomly/pkg/model"
)

const (
	TypeBookingCreated  = "booking.created"
	TypeBookingApproved = "booking.approved"
	TypeBookingRejected = "booking.rejected"
	TypeBookingUnbound  = "booking.unbound"
)

// Publisher emits booking lifecycle events for downstream systems.
// Delivery (reminders, notifications) is theirs; roomly only publishes.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, booking *model.Booking) error
}

type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		source:   source,
	}
}

func (p *KafkaPublisher) PublishBookingEvent(ctx context.Context, eventType string, booking *model.Booking) error {
	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(booking).
		WithEventType(eventType).
		WithSource(p.source).
		Build()

	return p.producer.Publish(ctx, msg)
}
