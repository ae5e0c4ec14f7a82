package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/handlers"
)

const (
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// CartSubscriber est implémenté par cache.CartEvents
type CartSubscriber interface {
	Subscribe(ctx context.Context, owner string) (<-chan cache.CartEvent, func(), error)
}

type CartSocket struct {
	events   CartSubscriber
	carts    CartService
	upgrader websocket.Upgrader
}

// NewCartSocket ; allowed liste les origines acceptées, vide = toutes
func NewCartSocket(events CartSubscriber, carts CartService, allowed []string) *CartSocket {
	origins := map[string]bool{}
	for _, o := range allowed {
		origins[o] = true
	}
	return &CartSocket{
		events: events,
		carts:  carts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins[origin]
			},
		},
	}
}

// Serve pousse le panier à chaque modification, sur tous les onglets du même propriétaire
func (h *CartSocket) Serve(c *gin.Context) {
	owner := handlers.Owner(c)
	if owner.ID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, closeSub, err := h.events.Subscribe(ctx, owner.ID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	defer closeSub()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	// le client n'envoie rien ; la lecture détecte la fermeture
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	cart, _, err := h.carts.Current(ctx, owner)
	if err != nil {
		log.Printf("❌ Erreur lecture panier WebSocket: %v", err)
		return
	}
	if err := h.write(conn, cache.CartEvent{Type: "cart.snapshot", Owner: owner.ID, Cart: cart, Timestamp: time.Now()}); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := h.write(conn, event); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}

func (h *CartSocket) write(conn *websocket.Conn, event cache.CartEvent) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(event)
}
