// internal/handlers/realtime/websocket.go
package realtime

import (
	"net/http"
	"time"

	"kynix-service/internal/pkg/token"
	"kynix-service/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict origins once the frontend domains are settled
		return true
	},
}

type WebSocketHandler struct {
	registry *realtime.Registry
	verifier *token.Verifier
	logger   *zap.Logger
}

func NewWebSocketHandler(registry *realtime.Registry, verifier *token.Verifier, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		registry: registry,
		verifier: verifier,
		logger:   logger,
	}
}

// HandleConnection handles GET /ws. The handshake credential is the token
// query parameter; the websocket handshake has no generic header channel for
// browser clients. Failures close the upgraded channel with a policy
// violation code and a short reason, never registering it.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	raw := c.Query("token")
	if raw == "" {
		rejectHandshake(conn, "Token required")
		return
	}

	claims, err := h.verifier.Verify(raw)
	if err != nil {
		h.logger.Info("websocket handshake rejected",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		rejectHandshake(conn, "Invalid token")
		return
	}

	client := realtime.NewClient(conn, claims.UserID, h.registry, h.logger)

	// Register before the pumps start: ReadPump unregisters on exit, so the
	// entry must exist before the socket can die. The connected ack sits in
	// the buffered send queue until WritePump drains it.
	h.registry.Register(claims.UserID, client)

	go client.WritePump()
	go client.ReadPump()
}

// Stats handles GET /api/admin/ws/stats
func (h *WebSocketHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"total_connections": h.registry.Count(),
		"connections":       h.registry.Connections(),
		"timestamp":         time.Now(),
	})
}

func rejectHandshake(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(5*time.Second))
	conn.Close()
}
