// server/internal/api/handlers/finance_handler.go
package handlers

import (
	"workforce-ops-api-server/internal/services"

	"github.com/gin-gonic/gin"
)

// --- Invoices ---

type InvoiceHandler struct {
	Responder
	Service *services.InvoiceService
}

func (h *InvoiceHandler) List(c *gin.Context) {
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

func (h *InvoiceHandler) Get(c *gin.Context) {
	inv, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	var in services.InvoiceInput
	if !h.bind(c, &in) {
		return
	}
	inv, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, inv)
}

func (h *InvoiceHandler) Update(c *gin.Context) {
	body, ok := h.rawBody(c)
	if !ok {
		return
	}
	inv, err := h.Service.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	var p statusPayload
	if !h.bind(c, &p) {
		return
	}
	inv, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), p.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Invoice deleted successfully")
}

func (h *InvoiceHandler) Stats(c *gin.Context) {
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

// --- Payments ---

type PaymentHandler struct {
	Responder
	Service *services.PaymentService
}

func (h *PaymentHandler) List(c *gin.Context) {
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

func (h *PaymentHandler) Get(c *gin.Context) {
	p, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var in services.PaymentInput
	if !h.bind(c, &in) {
		return
	}
	p, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}

func (h *PaymentHandler) Update(c *gin.Context) {
	body, ok := h.rawBody(c)
	if !ok {
		return
	}
	p, err := h.Service.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	var body statusPayload
	if !h.bind(c, &body) {
		return
	}
	p, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Payment deleted successfully")
}

func (h *PaymentHandler) Stats(c *gin.Context) {
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

// --- Expenses ---

type ExpenseHandler struct {
	Responder
	Service *services.ExpenseService
}

func (h *ExpenseHandler) List(c *gin.Context) {
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

func (h *ExpenseHandler) Get(c *gin.Context) {
	e, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	var in services.ExpenseInput
	if !h.bind(c, &in) {
		return
	}
	if in.SubmittedBy == "" {
		in.SubmittedBy = actor(c, "")
	}
	e, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, e)
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	body, ok := h.rawBody(c)
	if !ok {
		return
	}
	e, err := h.Service.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

// UpdateStatus duyệt hoặc từ chối chi phí; người duyệt lấy từ body hoặc từ token.
func (h *ExpenseHandler) UpdateStatus(c *gin.Context) {
	var p statusPayload
	if !h.bind(c, &p) {
		return
	}
	e, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), p.Status, actor(c, p.User))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Expense deleted successfully")
}

func (h *ExpenseHandler) Stats(c *gin.Context) {
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
