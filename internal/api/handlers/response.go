// server/internal/api/handlers/response.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/query"

	"github.com/gin-gonic/gin"
)

// Envelope là khung JSON chung của mọi response.
type Envelope struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message,omitempty"`
	Total      *int64 `json:"total,omitempty"`
	Page       *int   `json:"page,omitempty"`
	TotalPages *int   `json:"totalPages,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Responder writes envelopes and maps typed errors to status codes.
type Responder struct {
	Log        *slog.Logger
	Production bool
}

func (r Responder) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func (r Responder) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

func (r Responder) Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: msg})
}

// Paged trả về một trang dữ liệu kèm thông tin phân trang.
func (r Responder) Paged(c *gin.Context, data any, p query.Page) {
	total, page, pages := p.Total, p.Page, p.TotalPages
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Total: &total, Page: &page, TotalPages: &pages})
}

// Error logs err and writes the matching status. Internal details are echoed only outside
// production.
func (r Responder) Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindDuplicate:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	}

	attrs := []any{"method", c.Request.Method, "path", c.Request.URL.Path, "status", status, "error", err}
	if status == http.StatusInternalServerError {
		r.Log.Error("request failed", attrs...)
		body := Envelope{Success: false, Message: "Internal server error"}
		if !r.Production {
			body.Error = err.Error()
		}
		c.AbortWithStatusJSON(status, body)
		return
	}
	r.Log.Warn("request rejected", attrs...)
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: apperr.MessageOf(err)})
}

// filter parses the list query string.
func (r Responder) filter(c *gin.Context) (query.Filter, bool) {
	f, err := query.FromValues(c.Request.URL.Query())
	if err != nil {
		r.Error(c, err)
		return f, false
	}
	return f, true
}

// bind decodes a JSON body into v, reporting a validation error on failure.
func (r Responder) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		r.Error(c, apperr.Validation("invalid request body: %v", err))
		return false
	}
	return true
}

// rawBody returns the request body for partial updates.
func (r Responder) rawBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		r.Error(c, apperr.Validation("failed to read request body"))
		return nil, false
	}
	return body, true
}

func paramInt(c *gin.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, apperr.Validation("%s must be an integer", name)
	}
	return n, nil
}

type statusPayload struct {
	Status string `json:"status" binding:"required"`
	User   string `json:"user"`
}

type employeesPayload struct {
	EmployeeIDs []string `json:"employeeIds" binding:"required"`
}
