package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/freight-auction-service/internal/domain"
	"github.com/LavaJover/freight-auction-service/internal/infrastructure/notifier"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Максимальное время ожидания сообщения (ping) от клиента.
const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub      *notifier.Hub
	resolver domain.IdentityResolver
}

func NewWebSocketHandler(hub *notifier.Hub, resolver domain.IdentityResolver) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, resolver: resolver}
}

// ServeWs: GET /ws?token=... Browsers cannot set headers on websocket
// upgrades, so the token comes in the query string.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
		return
	}
	actor, err := h.resolver.ResolveActor(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if actor.Role != domain.RoleCarrier {
		c.JSON(http.StatusForbidden, gin.H{"error": "only carriers receive load alerts"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("failed to upgrade connection", "error", err)
		return
	}

	h.hub.Register(actor.ID, conn)
	defer func() {
		h.hub.Unregister(actor.ID, conn)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket closed unexpectedly", "carrier_id", actor.ID, "error", err)
			}
			return
		}
	}
}
