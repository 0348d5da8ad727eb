package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/mailer/pkg/kafka"
	"github.com/utafrali/mailer/pkg/logger"
)

// Kafka topics for mailer domain events.
var (
	TopicGoogleConnected    = kafka.Topic("google", "connected")
	TopicGoogleDisconnected = kafka.Topic("google", "disconnected")
	TopicEmailSent          = kafka.Topic("email", "sent")
)

// AggregateTypeUser is the aggregate every mailer event belongs to.
const AggregateTypeUser = "user"

// SourceMailer identifies events originating from this service.
const SourceMailer = "mailer"

// GoogleConnectionData is the payload of the google.connected and
// google.disconnected events.
type GoogleConnectionData struct {
	UserID string `json:"user_id"`
}

// EmailSentData is the payload of the email.sent event. Addresses, subject
// and body are never published.
type EmailSentData struct {
	UserID         string `json:"user_id"`
	MessageID      string `json:"message_id"`
	RecipientCount int    `json:"recipient_count"`
}

// Publisher is the part of *kafka.Producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Producer publishes mailer domain events to Kafka.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(p Publisher, logger *slog.Logger) *Producer {
	return &Producer{kafka: p, logger: logger}
}

// PublishGoogleConnected publishes a google.connected event.
func (p *Producer) PublishGoogleConnected(ctx context.Context, userID string) error {
	return p.publish(ctx, TopicGoogleConnected, userID, GoogleConnectionData{UserID: userID})
}

// PublishGoogleDisconnected publishes a google.disconnected event.
func (p *Producer) PublishGoogleDisconnected(ctx context.Context, userID string) error {
	return p.publish(ctx, TopicGoogleDisconnected, userID, GoogleConnectionData{UserID: userID})
}

// PublishEmailSent publishes an email.sent event.
func (p *Producer) PublishEmailSent(ctx context.Context, userID, messageID string, recipients int) error {
	return p.publish(ctx, TopicEmailSent, userID, EmailSentData{
		UserID:         userID,
		MessageID:      messageID,
		RecipientCount: recipients,
	})
}

func (p *Producer) publish(ctx context.Context, topic, userID string, data any) error {
	evt, err := kafka.NewEvent(topic, userID, AggregateTypeUser, SourceMailer, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if rid := logger.RequestIDFromContext(ctx); rid != "" {
		evt.WithRequestID(rid)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("user_id", userID),
	)
	return nil
}

// NopProducer discards every event. It is used when Kafka is disabled.
type NopProducer struct{}

func (NopProducer) PublishGoogleConnected(context.Context, string) error    { return nil }
func (NopProducer) PublishGoogleDisconnected(context.Context, string) error { return nil }
func (NopProducer) PublishEmailSent(context.Context, string, string, int) error {
	return nil
}
