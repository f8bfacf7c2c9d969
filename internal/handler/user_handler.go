package handler

import (
	"errors"
	"net/http"

	"agility/internal/identity"
	"agility/internal/middleware"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	resolver middleware.IdentityResolver
}

func NewUserHandler(resolver middleware.IdentityResolver) *UserHandler {
	return &UserHandler{resolver: resolver}
}

type SignInRequest struct {
	Token string `json:"token" binding:"required"`
}

type UserResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profile_image_url"`
}

// SignIn validates an identity-provider token and returns the persisted
// profile, creating or refreshing it as needed.
// @Summary  Sign in with an identity token
// @Tags     Users
// @Accept   json
// @Produce  json
// @Param    request body SignInRequest true "Identity token"
// @Success  200 {object} UserResponse
// @Router   /users [post]
func (h *UserHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.resolver.Resolve(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user"})
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		ProfileImageURL: user.ProfileImageURL,
	})
}

// Me returns the authenticated caller's profile.
// @Summary  Current user profile
// @Tags     Users
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} UserResponse
// @Router   /me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, UserResponse{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		ProfileImageURL: user.ProfileImageURL,
	})
}
