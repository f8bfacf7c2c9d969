package handler

import (
	"context"
	"net/http"
	"time"

	"agility/internal/authz"
	"agility/internal/model"
	"agility/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskRepo *repository.TaskRepository
	engine   *authz.Engine
}

func NewTaskHandler(taskRepo *repository.TaskRepository, engine *authz.Engine) *TaskHandler {
	return &TaskHandler{taskRepo: taskRepo, engine: engine}
}

type CreateTaskRequest struct {
	Header      string    `json:"header" binding:"required"`
	Description string    `json:"description"`
	Due         time.Time `json:"due" binding:"required"`
}

type UpdateTaskRequest struct {
	Header      string    `json:"header" binding:"required"`
	Description string    `json:"description"`
	Due         time.Time `json:"due" binding:"required"`
	Notes       []string  `json:"notes"`
	Blocks      []string  `json:"blocks"`
}

// ReplaceSequenceRequest carries the full desired content of a task's notes
// or blocks list. Items is intentionally not a patch.
type ReplaceSequenceRequest struct {
	Items []string `json:"items"`
}

type TaskResponse struct {
	ID          string   `json:"id"`
	SprintID    string   `json:"sprint_id"`
	Header      string   `json:"header"`
	Description string   `json:"description"`
	Due         string   `json:"due"`
	Notes       []string `json:"notes"`
	Blocks      []string `json:"blocks"`
}

func taskResponse(t *model.Task) TaskResponse {
	notes := t.Notes
	if notes == nil {
		notes = []string{}
	}
	blocks := t.Blocks
	if blocks == nil {
		blocks = []string{}
	}
	return TaskResponse{
		ID:          t.ID.String(),
		SprintID:    t.SprintID.String(),
		Header:      t.Header,
		Description: t.Description,
		Due:         t.Due.Format(time.RFC3339),
		Notes:       notes,
		Blocks:      blocks,
	}
}

// Create adds a task to a sprint. Any team member may do this.
// @Summary  Create a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Sprint ID"
// @Param    request body CreateTaskRequest true "Task fields"
// @Success  201 {object} TaskResponse
// @Router   /sprints/{id}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	sprintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint ID format"})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !authorize(c, h.engine, user.ID, authz.ActionEditTasks, authz.SprintRef(sprintID)) {
		return
	}

	task := &model.Task{
		ID:          uuid.New(),
		SprintID:    sprintID,
		Header:      req.Header,
		Description: req.Description,
		Due:         req.Due,
		Notes:       []string{},
		Blocks:      []string{},
	}
	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		respondRepositoryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskResponse(task))
}

// GetBySprint lists the tasks of a sprint.
// @Summary  List tasks
// @Tags     Tasks
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Sprint ID"
// @Success  200 {array} TaskResponse
// @Router   /sprints/{id}/tasks [get]
func (h *TaskHandler) GetBySprint(c *gin.Context) {
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

	tasks, err := h.taskRepo.GetBySprintID(c.Request.Context(), sprintID)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = taskResponse(&tasks[i])
	}
	c.JSON(http.StatusOK, response)
}

// GetByID returns one task.
// @Summary  Get a task
// @Tags     Tasks
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Task ID"
// @Success  200 {object} TaskResponse
// @Router   /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	if !authorize(c, h.engine, user.ID, authz.ActionView, authz.TaskRef(taskID)) {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskResponse(task))
}

// Update replaces every mutable field of the task, notes and blocks included.
// @Summary  Update a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Task ID"
// @Param    request body UpdateTaskRequest true "Full task content"
// @Success  200 {object} TaskResponse
// @Router   /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !authorize(c, h.engine, user.ID, authz.ActionEditTasks, authz.TaskRef(taskID)) {
		return
	}

	existing, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	existing.Header = req.Header
	existing.Description = req.Description
	existing.Due = req.Due
	existing.Notes = req.Notes
	existing.Blocks = req.Blocks
	if err := h.taskRepo.Update(c.Request.Context(), existing); err != nil {
		respondRepositoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskResponse(existing))
}

// Delete removes a task.
// @Summary  Delete a task
// @Tags     Tasks
// @Security BearerAuth
// @Param    id path string true "Task ID"
// @Success  204
// @Router   /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	if !authorize(c, h.engine, user.ID, authz.ActionEditTasks, authz.TaskRef(taskID)) {
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), taskID); err != nil {
		respondRepositoryError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateNotes replaces the task's notes with the submitted sequence.
// @Summary  Replace task notes
// @Tags     Tasks
// @Accept   json
// @Security BearerAuth
// @Param    id path string true "Task ID"
// @Param    request body ReplaceSequenceRequest true "Full notes list"
// @Success  200
// @Router   /tasks/{id}/notes [put]
func (h *TaskHandler) UpdateNotes(c *gin.Context) {
	h.replaceSequence(c, h.taskRepo.UpdateNotes)
}

// UpdateBlocks replaces the task's blocks with the submitted sequence.
// @Summary  Replace task blocks
// @Tags     Tasks
// @Accept   json
// @Security BearerAuth
// @Param    id path string true "Task ID"
// @Param    request body ReplaceSequenceRequest true "Full blocks list"
// @Success  200
// @Router   /tasks/{id}/blocks [put]
func (h *TaskHandler) UpdateBlocks(c *gin.Context) {
	h.replaceSequence(c, h.taskRepo.UpdateBlocks)
}

func (h *TaskHandler) replaceSequence(c *gin.Context, replace func(ctx context.Context, taskID uuid.UUID, items []string) error) {
	user, ok := principal(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req ReplaceSequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !authorize(c, h.engine, user.ID, authz.ActionEditTasks, authz.TaskRef(taskID)) {
		return
	}

	if err := replace(c.Request.Context(), taskID, req.Items); err != nil {
		respondRepositoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated"})
}
