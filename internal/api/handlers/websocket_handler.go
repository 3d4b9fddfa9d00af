// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"net/http"
	"time"

	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/auth"
	"workforce-ops-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Thời gian chờ tối đa cho một tin nhắn từ client.
const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Responder
	Hub    *socket.Hub
	Tokens *auth.Manager
}

// ServeWs nâng cấp kết nối sau khi kiểm tra token trong query (?token=).
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		h.Error(c, apperr.Unauthorized("Token is required"))
		return
	}
	claims, err := h.Tokens.Parse(tokenString)
	if err != nil {
		h.Error(c, apperr.Unauthorized("Invalid or expired token"))
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn("failed to upgrade websocket connection", "userId", userID, "error", err)
		return
	}

	h.Hub.Register(userID, conn)
	defer func() {
		h.Hub.Unregister(userID, conn)
		_ = conn.Close()
	}()

	// Client gửi PING định kỳ; mỗi PING gia hạn deadline đọc.
	// gorilla/websocket tự động trả PONG.
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	// Vòng lặp đọc chỉ để phát hiện client ngắt kết nối.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.Log.Debug("websocket closed unexpectedly", "userId", userID, "error", err)
			}
			return
		}
	}
}
