package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront_back_end/internal/models"
)

const (
	CartEventUpdated = "cart.updated"
	CartEventCleared = "cart.cleared"
)

// CartEvent est diffusé sur cart_events:<owner> après chaque écriture du panier
type CartEvent struct {
	Type      string       `json:"type"`
	Owner     string       `json:"owner"`
	Cart      *models.Cart `json:"cart,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

type CartEvents struct {
	rdb *redis.Client
}

func NewCartEvents(rdb *redis.Client) *CartEvents {
	return &CartEvents{rdb: rdb}
}

// Publish n'échoue jamais : la diffusion temps réel est secondaire
func (e *CartEvents) Publish(ctx context.Context, eventType string, cart *models.Cart) {
	event := CartEvent{Type: eventType, Owner: cart.UserID, Timestamp: time.Now()}
	if eventType != CartEventCleared {
		event.Cart = cart
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := e.rdb.Publish(ctx, CartChannel(cart.UserID), data).Err(); err != nil {
		log.Printf("⚠️ Erreur publication événement panier: %v", err)
	}
}

// Subscribe renvoie les événements du propriétaire jusqu'à l'annulation de ctx
func (e *CartEvents) Subscribe(ctx context.Context, owner string) (<-chan CartEvent, func(), error) {
	sub := e.rdb.Subscribe(ctx, CartChannel(owner))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}
	out := make(chan CartEvent, 8)

	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event CartEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, func() { _ = sub.Close() }, nil
}
