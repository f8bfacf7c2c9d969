package handler

import (
	"context"
	"errors"
	"net/http"

	"agility/internal/authz"
	"agility/internal/middleware"
	"agility/internal/model"
	"agility/internal/repository"

	"github.com/gin-gonic/gin"
)

// principal returns the authenticated user, writing a 401 when the auth
// middleware did not run or stored nothing.
func principal(c *gin.Context) (*model.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}
	return user, true
}

// authorize runs the engine and writes the response for anything other than
// a grant: 401/403 for denials, 404 for missing resources on the ownership
// chain, 500 for store failures. Handlers must return without mutating when
// it reports false.
func authorize(c *gin.Context, engine *authz.Engine, userID string, action authz.Action, ref authz.ResourceRef) bool {
	decision, err := engine.Authorize(c.Request.Context(), userID, action, ref)
	if err != nil {
		respondRepositoryError(c, err)
		return false
	}
	if !decision.Granted {
		respondDenied(c, decision)
		return false
	}
	return true
}

func respondDenied(c *gin.Context, decision authz.Decision) {
	switch decision.Reason {
	case authz.ReasonNotSignedIn:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated", "reason": decision.Reason})
	case authz.ReasonNoMembership:
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this project", "reason": decision.Reason})
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Your role does not permit this action", "reason": decision.Reason})
	}
}

// respondRepositoryError maps repository sentinels onto HTTP statuses so the
// error kind distinctions survive the façade boundary.
func respondRepositoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrProjectNotFound),
		errors.Is(err, repository.ErrSprintNotFound),
		errors.Is(err, repository.ErrTaskNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrMembershipNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrMembershipExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Request cancelled"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage failure"})
	}
}
