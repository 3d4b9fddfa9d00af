// server/internal/api/handlers/user_handler.go
package handlers

import (
	"workforce-ops-api-server/internal/api/middleware"
	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Responder
	Service *services.UserService
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if !h.bind(c, &req) {
		return
	}
	// route công khai: luôn tạo staff, admin đổi role qua PUT /users/:id
	req.Role = ""
	u, err := h.Service.Register(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, u)
}

// Login trả về JWT và thông tin user.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, &req) {
		return
	}
	res, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

func (h *UserHandler) Me(c *gin.Context) {
	id := middleware.UserID(c)
	if id == "" {
		h.Error(c, apperr.Unauthorized("Authentication required"))
		return
	}
	u, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, u)
}

func (h *UserHandler) List(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	users, page, err := h.Service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Paged(c, users, page)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, u)
}

func (h *UserHandler) Update(c *gin.Context) {
	body, ok := h.rawBody(c)
	if !ok {
		return
	}
	u, err := h.Service.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "User deleted successfully")
}
