// server/internal/api/handlers/training_handler.go
package handlers

import (
	"workforce-ops-api-server/internal/services"

	"github.com/gin-gonic/gin"
)

type TrainingHandler struct {
	Responder
	Uploads
	Service *services.TrainingService
}

type attendeePayload struct {
	EmployeeID string `json:"employeeId" binding:"required"`
}

func (h *TrainingHandler) List(c *gin.Context) {
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

func (h *TrainingHandler) Get(c *gin.Context) {
	t, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

func (h *TrainingHandler) Create(c *gin.Context) {
	var in services.TrainingInput
	_, files, err := h.readPayload(c, &in)
	if err != nil {
		h.Error(c, err)
		return
	}
	t, err := h.Service.Create(c.Request.Context(), in, files)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, t)
}

func (h *TrainingHandler) Update(c *gin.Context) {
	raw, files, err := h.readPayload(c, nil)
	if err != nil {
		h.Error(c, err)
		return
	}
	t, err := h.Service.Update(c.Request.Context(), c.Param("id"), raw, files)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

func (h *TrainingHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Training session deleted successfully")
}

func (h *TrainingHandler) UpdateStatus(c *gin.Context) {
	var p statusPayload
	if !h.bind(c, &p) {
		return
	}
	t, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), p.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

func (h *TrainingHandler) AddFeedback(c *gin.Context) {
	var in services.FeedbackInput
	if !h.bind(c, &in) {
		return
	}
	t, err := h.Service.AddFeedback(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

func (h *TrainingHandler) RegisterAttendee(c *gin.Context) {
	var p attendeePayload
	if !h.bind(c, &p) {
		return
	}
	t, err := h.Service.RegisterAttendee(c.Request.Context(), c.Param("id"), p.EmployeeID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

func (h *TrainingHandler) Stats(c *gin.Context) {
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
