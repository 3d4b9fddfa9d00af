// server/internal/api/handlers/briefing_handler.go
package handlers

import (
	"workforce-ops-api-server/internal/services"

	"github.com/gin-gonic/gin"
)

type BriefingHandler struct {
	Responder
	Uploads
	Service *services.BriefingService
}

func (h *BriefingHandler) List(c *gin.Context) {
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

func (h *BriefingHandler) Get(c *gin.Context) {
	b, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b)
}

// Create nhận multipart (data + attachments) hoặc JSON thuần.
func (h *BriefingHandler) Create(c *gin.Context) {
	var in services.BriefingInput
	_, files, err := h.readPayload(c, &in)
	if err != nil {
		h.Error(c, err)
		return
	}
	b, err := h.Service.Create(c.Request.Context(), in, files)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, b)
}

func (h *BriefingHandler) Update(c *gin.Context) {
	raw, files, err := h.readPayload(c, nil)
	if err != nil {
		h.Error(c, err)
		return
	}
	b, err := h.Service.Update(c.Request.Context(), c.Param("id"), raw, files)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b)
}

func (h *BriefingHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Briefing deleted successfully")
}

func (h *BriefingHandler) UpdateActionItemStatus(c *gin.Context) {
	index, err := paramInt(c, "index")
	if err != nil {
		h.Error(c, err)
		return
	}
	var p statusPayload
	if !h.bind(c, &p) {
		return
	}
	b, err := h.Service.UpdateActionItemStatus(c.Request.Context(), c.Param("id"), index, p.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b)
}

func (h *BriefingHandler) Stats(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	st, err := h.Service.Stats(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, st)
}
