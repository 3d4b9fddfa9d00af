// server/internal/api/handlers/staff_handler.go
package handlers

import (
	"workforce-ops-api-server/internal/services"

	"github.com/gin-gonic/gin"
)

type RosterHandler struct {
	Responder
	Service *services.RosterService
}

func (h *RosterHandler) List(c *gin.Context) {
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

func (h *RosterHandler) Get(c *gin.Context) {
	r, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

func (h *RosterHandler) Create(c *gin.Context) {
	var in services.RosterInput
	if !h.bind(c, &in) {
		return
	}
	r, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, r)
}

func (h *RosterHandler) Update(c *gin.Context) {
	body, ok := h.rawBody(c)
	if !ok {
		return
	}
	r, err := h.Service.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

func (h *RosterHandler) UpdateStatus(c *gin.Context) {
	var p statusPayload
	if !h.bind(c, &p) {
		return
	}
	r, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), p.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

func (h *RosterHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Roster entry deleted successfully")
}

type SupervisorHandler struct {
	Responder
	Service *services.SupervisorService
}

func (h *SupervisorHandler) List(c *gin.Context) {
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

func (h *SupervisorHandler) Get(c *gin.Context) {
	sv, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sv)
}

func (h *SupervisorHandler) Create(c *gin.Context) {
	var in services.SupervisorInput
	if !h.bind(c, &in) {
		return
	}
	sv, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, sv)
}

func (h *SupervisorHandler) Update(c *gin.Context) {
	body, ok := h.rawBody(c)
	if !ok {
		return
	}
	sv, err := h.Service.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sv)
}

func (h *SupervisorHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Supervisor deleted successfully")
}

func (h *SupervisorHandler) AssignEmployees(c *gin.Context) {
	var p employeesPayload
	if !h.bind(c, &p) {
		return
	}
	sv, err := h.Service.AssignEmployees(c.Request.Context(), c.Param("id"), p.EmployeeIDs)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sv)
}

func (h *SupervisorHandler) RemoveEmployee(c *gin.Context) {
	sv, err := h.Service.RemoveEmployee(c.Request.Context(), c.Param("id"), c.Param("employeeId"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sv)
}
