// server/internal/api/handlers/shift_handler.go
package handlers

import (
	"workforce-ops-api-server/internal/services"

	"github.com/gin-gonic/gin"
)

type ShiftHandler struct {
	Responder
	Service *services.ShiftService
}

func (h *ShiftHandler) List(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	shifts, page, err := h.Service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Paged(c, shifts, page)
}

func (h *ShiftHandler) Get(c *gin.Context) {
	s, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

func (h *ShiftHandler) Create(c *gin.Context) {
	var in services.ShiftInput
	if !h.bind(c, &in) {
		return
	}
	s, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, s)
}

func (h *ShiftHandler) Update(c *gin.Context) {
	body, ok := h.rawBody(c)
	if !ok {
		return
	}
	s, err := h.Service.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

func (h *ShiftHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Shift deleted successfully")
}

func (h *ShiftHandler) AssignEmployees(c *gin.Context) {
	var p employeesPayload
	if !h.bind(c, &p) {
		return
	}
	s, err := h.Service.AssignEmployees(c.Request.Context(), c.Param("id"), p.EmployeeIDs)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

func (h *ShiftHandler) RemoveEmployee(c *gin.Context) {
	s, err := h.Service.RemoveEmployee(c.Request.Context(), c.Param("id"), c.Param("employeeId"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

func (h *ShiftHandler) Stats(c *gin.Context) {
	st, err := h.Service.Stats(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, st)
}
