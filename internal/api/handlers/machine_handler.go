// server/internal/api/handlers/machine_handler.go
package handlers

import (
	"workforce-ops-api-server/internal/services"

	"github.com/gin-gonic/gin"
)

type MachineHandler struct {
	Responder
	Service *services.MachineService
}

func (h *MachineHandler) List(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	machines, page, err := h.Service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Paged(c, machines, page)
}

func (h *MachineHandler) Get(c *gin.Context) {
	m, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, m)
}

// Create tạo một máy mới; machineCode trùng trả về 400.
func (h *MachineHandler) Create(c *gin.Context) {
	var in services.MachineInput
	if !h.bind(c, &in) {
		return
	}
	m, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, m)
}

func (h *MachineHandler) Update(c *gin.Context) {
	body, ok := h.rawBody(c)
	if !ok {
		return
	}
	m, err := h.Service.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, m)
}

func (h *MachineHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Machine deleted successfully")
}

func (h *MachineHandler) UpdateStatus(c *gin.Context) {
	var p statusPayload
	if !h.bind(c, &p) {
		return
	}
	m, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), p.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, m)
}

func (h *MachineHandler) Stats(c *gin.Context) {
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
