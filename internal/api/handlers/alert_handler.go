// server/internal/api/handlers/alert_handler.go
package handlers

import (
	"workforce-ops-api-server/internal/services"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	Responder
	Service *services.AlertService
}

type acknowledgePayload struct {
	User string `json:"user"`
}

func (h *AlertHandler) List(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	alerts, page, err := h.Service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Paged(c, alerts, page)
}

func (h *AlertHandler) Get(c *gin.Context) {
	a, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, a)
}

// Create lưu alert; service sẽ broadcast qua websocket.
func (h *AlertHandler) Create(c *gin.Context) {
	var in services.AlertInput
	if !h.bind(c, &in) {
		return
	}
	a, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, a)
}

func (h *AlertHandler) Acknowledge(c *gin.Context) {
	var p acknowledgePayload
	// body không bắt buộc
	_ = c.ShouldBindJSON(&p)
	a, err := h.Service.Acknowledge(c.Request.Context(), c.Param("id"), actor(c, p.User))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, a)
}

func (h *AlertHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Alert deleted successfully")
}
