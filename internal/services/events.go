package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"storefront_back_end/internal/models"
)

const EventOrderPaid = "order.paid"

// OrderEvents publie les événements de commande vers les autres systèmes
type OrderEvents interface {
	OrderPaid(ctx context.Context, order *models.Order) error
	OrderStatusChanged(ctx context.Context, order *models.Order, from string) error
	Close() error
}

type OrderEventMessage struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	Reference  string    `json:"reference"`
	UserID     string    `json:"userId"`
	Status     string    `json:"status"`
	FromStatus string    `json:"fromStatus,omitempty"`
	Total      float64   `json:"total"`
	Currency   string    `json:"currency"`
	Items      int       `json:"items"`
	OccurredAt time.Time `json:"occurredAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaOrderEvents struct {
	writer messageWriter
}

func NewKafkaOrderEvents(brokers []string, topic string) *KafkaOrderEvents {
	return &KafkaOrderEvents{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           5 * time.Second,
	}}
}

func (k *KafkaOrderEvents) publish(ctx context.Context, eventType string, order *models.Order, from string) error {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	data, err := json.Marshal(OrderEventMessage{
		Type:       eventType,
		OrderID:    order.ID.Hex(),
		Reference:  order.PaymentReference,
		UserID:     order.UserID,
		Status:     order.Status,
		FromStatus: from,
		Total:      order.Total,
		Currency:   order.Currency,
		Items:      count,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	// la clé par commande garde les événements d'une commande dans la même partition
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID.Hex()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	})
}

func (k *KafkaOrderEvents) OrderPaid(ctx context.Context, order *models.Order) error {
	return k.publish(ctx, EventOrderPaid, order, "")
}

func (k *KafkaOrderEvents) OrderStatusChanged(ctx context.Context, order *models.Order, from string) error {
	return k.publish(ctx, "order."+order.Status, order, from)
}

func (k *KafkaOrderEvents) Close() error {
	return k.writer.Close()
}

// NoopOrderEvents est utilisé quand KAFKA_BROKERS est vide
type NoopOrderEvents struct{}

func (NoopOrderEvents) OrderPaid(context.Context, *models.Order) error { return nil }

func (NoopOrderEvents) OrderStatusChanged(context.Context, *models.Order, string) error { return nil }

func (NoopOrderEvents) Close() error { return nil }
