// server/internal/api/handlers/inventory_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"workforce-ops-api-server/internal/api/middleware"
	"workforce-ops-api-server/internal/export"
	"workforce-ops-api-server/internal/services"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	Responder
	Service *services.InventoryService
}

type adjustQuantityPayload struct {
	Delta  int    `json:"delta" binding:"required"`
	User   string `json:"user"`
	Reason string `json:"reason"`
}

func actor(c *gin.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return middleware.UserEmail(c)
}

func (h *InventoryHandler) List(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	items, page, err := h.Service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Paged(c, items, page)
}

func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var in services.InventoryInput
	if !h.bind(c, &in) {
		return
	}
	item, err := h.Service.Create(c.Request.Context(), in, middleware.UserEmail(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, item)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	body, ok := h.rawBody(c)
	if !ok {
		return
	}
	item, err := h.Service.Update(c.Request.Context(), c.Param("id"), body, middleware.UserEmail(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Inventory item deleted successfully")
}

// AdjustQuantity cộng/trừ tồn kho; số lượng không bao giờ âm.
func (h *InventoryHandler) AdjustQuantity(c *gin.Context) {
	var p adjustQuantityPayload
	if !h.bind(c, &p) {
		return
	}
	item, err := h.Service.AdjustQuantity(c.Request.Context(), c.Param("id"), p.Delta, actor(c, p.User), p.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	items, err := h.Service.LowStock(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, items)
}

func (h *InventoryHandler) Export(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	items, err := h.Service.All(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	data, err := export.InventoryXLSX(items)
	if err != nil {
		h.Error(c, err)
		return
	}
	name := fmt.Sprintf("inventory-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, export.XLSXContentType, data)
}

func (h *InventoryHandler) Stats(c *gin.Context) {
	st, err := h.Service.Stats(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, st)
}
