package handler

import (
	"net/http"

	"agility/internal/authz"
	"agility/internal/model"
	"agility/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TeamHandler struct {
	membershipRepo *repository.MembershipRepository
	userRepo       *repository.UserRepository
	engine         *authz.Engine
}

func NewTeamHandler(
	membershipRepo *repository.MembershipRepository,
	userRepo *repository.UserRepository,
	engine *authz.Engine,
) *TeamHandler {
	return &TeamHandler{
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		engine:         engine,
	}
}

type AddMemberRequest struct {
	Email string     `json:"email" binding:"required,email"`
	Role  model.Role `json:"role" binding:"omitempty,oneof=lead manager developer"`
}

type SetRoleRequest struct {
	Role model.Role `json:"role" binding:"required,oneof=lead manager developer"`
}

type MemberResponse struct {
	UserID string     `json:"user_id"`
	Email  string     `json:"email"`
	Name   string     `json:"name"`
	Role   model.Role `json:"role"`
}

type MemberStatusResponse struct {
	ProjectID string     `json:"project_id"`
	Role      model.Role `json:"role"`
}

// GetTeam lists the members of a project.
// @Summary  List project team
// @Tags     Team
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Project ID"
// @Success  200 {array} MemberResponse
// @Router   /projects/{id}/team [get]
func (h *TeamHandler) GetTeam(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	if !authorize(c, h.engine, user.ID, authz.ActionView, authz.ProjectRef(projectID)) {
		return
	}

	memberships, err := h.membershipRepo.GetTeam(c.Request.Context(), projectID)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	response := make([]MemberResponse, len(memberships))
	for i, m := range memberships {
		response[i] = MemberResponse{
			UserID: m.UserID,
			Email:  m.User.Email,
			Name:   m.User.Name,
			Role:   m.Role,
		}
	}
	c.JSON(http.StatusOK, response)
}

// AddMember adds a user to the project's team by email. The role defaults to
// developer when the request does not carry one.
// @Summary  Add a team member
// @Tags     Team
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Project ID"
// @Param    request body AddMemberRequest true "Member email and optional role"
// @Success  201 {object} MemberResponse
// @Router   /projects/{id}/team [post]
func (h *TeamHandler) AddMember(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Role == "" {
		req.Role = model.RoleDeveloper
	}

	if !authorize(c, h.engine, user.ID, authz.ActionManage, authz.ProjectRef(projectID)) {
		return
	}

	target, err := h.userRepo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	if err := h.membershipRepo.Add(c.Request.Context(), projectID, target.ID, req.Role); err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MemberResponse{
		UserID: target.ID,
		Email:  target.Email,
		Name:   target.Name,
		Role:   req.Role,
	})
}

// SetRole changes an existing member's role.
// @Summary  Change a member's role
// @Tags     Team
// @Accept   json
// @Security BearerAuth
// @Param    id path string true "Project ID"
// @Param    user_id path string true "User ID"
// @Param    request body SetRoleRequest true "New role"
// @Success  200
// @Router   /projects/{id}/team/{user_id} [put]
func (h *TeamHandler) SetRole(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !authorize(c, h.engine, user.ID, authz.ActionManage, authz.ProjectRef(projectID)) {
		return
	}

	if err := h.membershipRepo.SetRole(c.Request.Context(), c.Param("user_id"), projectID, req.Role); err != nil {
		respondRepositoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}

// RemoveMember removes a user from the project's team.
// @Summary  Remove a team member
// @Tags     Team
// @Security BearerAuth
// @Param    id path string true "Project ID"
// @Param    user_id path string true "User ID"
// @Success  204
// @Router   /projects/{id}/team/{user_id} [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	if !authorize(c, h.engine, user.ID, authz.ActionManage, authz.ProjectRef(projectID)) {
		return
	}

	if err := h.membershipRepo.Remove(c.Request.Context(), c.Param("user_id"), projectID); err != nil {
		respondRepositoryError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MemberStatus lists the caller's memberships across all projects.
// @Summary  My memberships
// @Tags     Team
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} MemberStatusResponse
// @Router   /memberstatus [get]
func (h *TeamHandler) MemberStatus(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	memberships, err := h.membershipRepo.AllRolesOf(c.Request.Context(), user.ID)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	response := make([]MemberStatusResponse, len(memberships))
	for i, m := range memberships {
		response[i] = MemberStatusResponse{
			ProjectID: m.ProjectID.String(),
			Role:      m.Role,
		}
	}
	c.JSON(http.StatusOK, response)
}
