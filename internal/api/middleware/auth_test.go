package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"workforce-ops-api-server/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*gin.Engine, *auth.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := auth.NewManager("middleware-secret", "1h")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", Authenticate(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c)+"|"+UserEmail(c))
	})
	r.GET("/admin", Authenticate(tokens), Authorize("admin"), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/anon-admin", Authorize("admin"), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r, tokens
}

func get(r *gin.Engine, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	r, tokens := newRouter(t)
	tok, err := tokens.GenerateJWT("u1", "lan@ops.local", "staff")
	require.NoError(t, err)

	w := get(r, "/me", "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1|lan@ops.local", w.Body.String())

	tests := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing header", "", "Authorization header is required"},
		{"no bearer prefix", tok, "Invalid token format"},
		{"garbage token", "Bearer abc.def.ghi", "Invalid or expired token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/me", tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.msg)
		})
	}
}

func TestAuthorize(t *testing.T) {
	r, tokens := newRouter(t)
	staff, err := tokens.GenerateJWT("u1", "lan@ops.local", "staff")
	require.NoError(t, err)
	admin, err := tokens.GenerateJWT("u2", "root@ops.local", "admin")
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", "Bearer "+staff).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", "Bearer "+admin).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/anon-admin", "").Code)
}
