// Package kafka provides the notification gateway adapter. Events are
// fire-and-forget: a broker outage is logged and dropped so a failed emit
// never fails the business operation that triggered it.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// Topics names the one-topic-per-audience layout.
type Topics struct {
	Users   string
	Sellers string
	Agents  string
}

// DefaultTopics returns the standard audience topic names.
func DefaultTopics() Topics {
	return Topics{
		Users:   "notifications.users",
		Sellers: "notifications.sellers",
		Agents:  "notifications.agents",
	}
}

// envelope is the wire shape of one notification message.
type envelope struct {
	RecipientID string            `json:"recipientId"`
	Event       string            `json:"event"`
	Data        map[string]string `json:"data,omitempty"`
	EmittedAt   time.Time         `json:"emittedAt"`
}

// NotificationGateway emits notifications to kafka, one topic per audience,
// keyed by recipient id so one recipient's events stay ordered within a
// partition.
type NotificationGateway struct {
	users   *kafka.Writer
	sellers *kafka.Writer
	agents  *kafka.Writer
	log     *slog.Logger
}

// NewNotificationGateway creates a gateway writing to the given brokers.
func NewNotificationGateway(brokers []string, topics Topics, log *slog.Logger) *NotificationGateway {
	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
			Async:        false,
		}
	}

	return &NotificationGateway{
		users:   newWriter(topics.Users),
		sellers: newWriter(topics.Sellers),
		agents:  newWriter(topics.Agents),
		log:     log.With("component", "notification-gateway"),
	}
}

// EmitToUser emits an event to the buyer audience.
func (g *NotificationGateway) EmitToUser(ctx context.Context, userID kernel.UUID, notification ports.Notification) error {
	return g.emit(ctx, g.users, userID, notification)
}

// EmitToSeller emits an event to the seller audience.
func (g *NotificationGateway) EmitToSeller(ctx context.Context, sellerID kernel.UUID, notification ports.Notification) error {
	return g.emit(ctx, g.sellers, sellerID, notification)
}

// EmitToAgent emits an event to the delivery agent audience.
func (g *NotificationGateway) EmitToAgent(ctx context.Context, agentID kernel.UUID, notification ports.Notification) error {
	return g.emit(ctx, g.agents, agentID, notification)
}

func (g *NotificationGateway) emit(
	ctx context.Context,
	writer *kafka.Writer,
	recipientID kernel.UUID,
	notification ports.Notification,
) error {
	value, err := json.Marshal(envelope{
		RecipientID: recipientID.String(),
		Event:       notification.Event,
		Data:        notification.Data,
		EmittedAt:   time.Now(),
	})
	if err != nil {
		g.log.Error("failed to encode notification", "event", notification.Event, "error", err)
		return nil
	}

	err = writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(recipientID.String()),
		Value: value,
	})
	if err != nil {
		g.log.Error("failed to emit notification",
			"topic", writer.Topic, "event", notification.Event, "recipient", recipientID.String(), "error", err)
	}
	return nil
}

// Close flushes and closes the underlying writers.
func (g *NotificationGateway) Close() error {
	for _, writer := range []*kafka.Writer{g.users, g.sellers, g.agents} {
		if err := writer.Close(); err != nil {
			return err
		}
	}
	return nil
}
