package middleware_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"agility/internal/identity"
	"agility/internal/middleware"
	"agility/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// stubResolver maps raw tokens to users, without real verification.
type stubResolver struct {
	users map[string]*model.User
}

func (s *stubResolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	user, ok := s.users[token]
	if !ok {
		return nil, fmt.Errorf("%w: unknown token", identity.ErrInvalidToken)
	}
	return user, nil
}

func setupRouter(resolver middleware.IdentityResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	protected := r.Group("/protected")
	protected.Use(middleware.AuthMiddleware(resolver))

	protected.GET("/resource", func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found in context"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Access granted",
			"user_id": user.ID,
		})
	})

	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	// Arrange
	resolver := &stubResolver{users: map[string]*model.User{
		"good-token": {ID: "108234567890", Name: "Ada Lovelace"},
	}}
	router := setupRouter(resolver)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Access granted")
	assert.Contains(t, resp.Body.String(), "108234567890")
}

func TestAuthMiddleware_NoAuthHeader(t *testing.T) {
	// Arrange
	router := setupRouter(&stubResolver{})

	req, _ := http.NewRequest("GET", "/protected/resource", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authorization header is required")
}

func TestAuthMiddleware_InvalidAuthFormat(t *testing.T) {
	// Arrange
	router := setupRouter(&stubResolver{})

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "InvalidFormat token123")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authorization header format must be Bearer {token}")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	// Arrange
	router := setupRouter(&stubResolver{})

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid or expired token")
}
