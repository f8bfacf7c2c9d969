package handler

import (
	"net/http"
	"time"

	"agility/internal/authz"
	"agility/internal/model"
	"agility/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	projectRepo    *repository.ProjectRepository
	membershipRepo *repository.MembershipRepository
	engine         *authz.Engine
}

func NewProjectHandler(
	projectRepo *repository.ProjectRepository,
	membershipRepo *repository.MembershipRepository,
	engine *authz.Engine,
) *ProjectHandler {
	return &ProjectHandler{
		projectRepo:    projectRepo,
		membershipRepo: membershipRepo,
		engine:         engine,
	}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ProjectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

func projectResponse(p *model.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

// Create makes a new project with the caller as its lead.
// @Summary  Create a project
// @Tags     Projects
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    request body CreateProjectRequest true "Project fields"
// @Success  201 {object} ProjectResponse
// @Router   /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project := &model.Project{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.projectRepo.Create(c.Request.Context(), project, user.ID); err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, projectResponse(project))
}

// GetAll lists the projects the caller is a member of.
// @Summary  List my projects
// @Tags     Projects
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} ProjectResponse
// @Router   /projects [get]
func (h *ProjectHandler) GetAll(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	memberships, err := h.membershipRepo.AllRolesOf(c.Request.Context(), user.ID)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	ids := make([]uuid.UUID, len(memberships))
	for i, m := range memberships {
		ids[i] = m.ProjectID
	}

	projects, err := h.projectRepo.GetByIDs(c.Request.Context(), ids)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	response := make([]ProjectResponse, len(projects))
	for i := range projects {
		response[i] = projectResponse(&projects[i])
	}
	c.JSON(http.StatusOK, response)
}

// GetByID returns one project; any membership may read it.
// @Summary  Get a project
// @Tags     Projects
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Project ID"
// @Success  200 {object} ProjectResponse
// @Router   /projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
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

	project, err := h.projectRepo.GetByID(c.Request.Context(), projectID)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectResponse(project))
}

// Update replaces the project's name and description.
// @Summary  Update a project
// @Tags     Projects
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Project ID"
// @Param    request body UpdateProjectRequest true "Project fields"
// @Success  200 {object} ProjectResponse
// @Router   /projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !authorize(c, h.engine, user.ID, authz.ActionManage, authz.ProjectRef(projectID)) {
		return
	}

	project := &model.Project{
		ID:          projectID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.projectRepo.Update(c.Request.Context(), project); err != nil {
		respondRepositoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectResponse(project))
}

// Delete removes the project and its team memberships.
// @Summary  Delete a project
// @Tags     Projects
// @Security BearerAuth
// @Param    id path string true "Project ID"
// @Success  204
// @Router   /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
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

	if err := h.projectRepo.Delete(c.Request.Context(), projectID); err != nil {
		respondRepositoryError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
