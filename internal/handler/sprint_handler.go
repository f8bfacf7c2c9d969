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

type SprintHandler struct {
	sprintRepo *repository.SprintRepository
	engine     *authz.Engine
}

func NewSprintHandler(sprintRepo *repository.SprintRepository, engine *authz.Engine) *SprintHandler {
	return &SprintHandler{sprintRepo: sprintRepo, engine: engine}
}

type CreateSprintRequest struct {
	Header      string    `json:"header" binding:"required"`
	Description string    `json:"description"`
	Due         time.Time `json:"due" binding:"required"`
}

type UpdateSprintRequest struct {
	Header      string    `json:"header" binding:"required"`
	Description string    `json:"description"`
	Due         time.Time `json:"due" binding:"required"`
}

type SprintResponse struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Header      string `json:"header"`
	Description string `json:"description"`
	Due         string `json:"due"`
}

func sprintResponse(s *model.Sprint) SprintResponse {
	return SprintResponse{
		ID:          s.ID.String(),
		ProjectID:   s.ProjectID.String(),
		Header:      s.Header,
		Description: s.Description,
		Due:         s.Due.Format(time.RFC3339),
	}
}

// Create adds a sprint to a project.
// @Summary  Create a sprint
// @Tags     Sprints
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Project ID"
// @Param    request body CreateSprintRequest true "Sprint fields"
// @Success  201 {object} SprintResponse
// @Router   /projects/{id}/sprints [post]
func (h *SprintHandler) Create(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}

	var req CreateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !authorize(c, h.engine, user.ID, authz.ActionManage, authz.ProjectRef(projectID)) {
		return
	}

	sprint := &model.Sprint{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Header:      req.Header,
		Description: req.Description,
		Due:         req.Due,
	}
	if err := h.sprintRepo.Create(c.Request.Context(), sprint); err != nil {
		respondRepositoryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sprintResponse(sprint))
}

// GetByProject lists the sprints of a project.
// @Summary  List sprints
// @Tags     Sprints
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Project ID"
// @Success  200 {array} SprintResponse
// @Router   /projects/{id}/sprints [get]
func (h *SprintHandler) GetByProject(c *gin.Context) {
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

	sprints, err := h.sprintRepo.GetByProjectID(c.Request.Context(), projectID)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	response := make([]SprintResponse, len(sprints))
	for i := range sprints {
		response[i] = sprintResponse(&sprints[i])
	}
	c.JSON(http.StatusOK, response)
}

// GetByID returns one sprint.
// @Summary  Get a sprint
// @Tags     Sprints
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Sprint ID"
// @Success  200 {object} SprintResponse
// @Router   /sprints/{id} [get]
func (h *SprintHandler) GetByID(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	sprintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint ID format"})
		return
	}

	if !authorize(c, h.engine, user.ID, authz.ActionView, authz.SprintRef(sprintID)) {
		return
	}

	sprint, err := h.sprintRepo.GetByID(c.Request.Context(), sprintID)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, sprintResponse(sprint))
}

// Update replaces the sprint's header, description and due date.
// @Summary  Update a sprint
// @Tags     Sprints
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Sprint ID"
// @Param    request body UpdateSprintRequest true "Sprint fields"
// @Success  200 {object} SprintResponse
// @Router   /sprints/{id} [put]
func (h *SprintHandler) Update(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	sprintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint ID format"})
		return
	}

	var req UpdateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !authorize(c, h.engine, user.ID, authz.ActionManage, authz.SprintRef(sprintID)) {
		return
	}

	existing, err := h.sprintRepo.GetByID(c.Request.Context(), sprintID)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	existing.Header = req.Header
	existing.Description = req.Description
	existing.Due = req.Due
	if err := h.sprintRepo.Update(c.Request.Context(), existing); err != nil {
		respondRepositoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, sprintResponse(existing))
}

// Delete removes a sprint. Its tasks are not touched.
// @Summary  Delete a sprint
// @Tags     Sprints
// @Security BearerAuth
// @Param    id path string true "Sprint ID"
// @Success  204
// @Router   /sprints/{id} [delete]
func (h *SprintHandler) Delete(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	sprintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint ID format"})
		return
	}

	if !authorize(c, h.engine, user.ID, authz.ActionManage, authz.SprintRef(sprintID)) {
		return
	}

	if err := h.sprintRepo.Delete(c.Request.Context(), sprintID); err != nil {
		respondRepositoryError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
